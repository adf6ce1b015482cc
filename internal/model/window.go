package model

import "strconv"

// WindowFrame is a frame design with nominal dimensions and materials.
type WindowFrame struct {
	ID        string            `json:"id"`
	Label     string            `json:"label"`
	WidthMm   int               `json:"width_mm"`
	HeightMm  int               `json:"height_mm"`
	Materials map[string]string `json:"materials,omitempty"` // e.g. "frame": "Frame-A"
}

// FrameType returns the frame material tag used as profile type preference.
func (f WindowFrame) FrameType() string {
	if f.Materials == nil {
		return ""
	}
	return f.Materials["frame"]
}

// WindowInstance is a placed window on a wall. Zero dimensions fall back
// to the frame's nominal size.
type WindowInstance struct {
	ID       string       `json:"id"`
	WallID   string       `json:"wall_id,omitempty"`
	Label    string       `json:"label"`
	WidthMm  int          `json:"width_mm"`
	HeightMm int          `json:"height_mm"`
	Frame    *WindowFrame `json:"frame,omitempty"`
}

// Dimensions returns the effective width and height of the instance.
func (w WindowInstance) Dimensions() (width, height int) {
	width, height = w.WidthMm, w.HeightMm
	if width <= 0 && w.Frame != nil {
		width = w.Frame.WidthMm
	}
	if height <= 0 && w.Frame != nil {
		height = w.Frame.HeightMm
	}
	return width, height
}

// InferRequirements derives frame member requirements from window
// geometry: two members of the width and two of the height per instance,
// preferring the frame's material as profile type. Instances without
// positive dimensions are skipped.
func InferRequirements(instances []WindowInstance) []CutRequirement {
	var requirements []CutRequirement
	for _, w := range instances {
		width, height := w.Dimensions()
		if width <= 0 || height <= 0 {
			continue
		}

		frameType := ""
		if w.Frame != nil {
			frameType = w.Frame.FrameType()
		}

		requirements = AddRequirement(requirements, CutRequirement{LengthMm: width, Quantity: 2, ProfileType: frameType})
		requirements = AddRequirement(requirements, CutRequirement{LengthMm: height, Quantity: 2, ProfileType: frameType})
	}
	return requirements
}

// AddRequirement merges req into list. Requirements with the same profile
// constraint and length are combined by summing quantities; otherwise req
// is appended. First-seen order is preserved.
func AddRequirement(list []CutRequirement, req CutRequirement) []CutRequirement {
	key := requirementKey(req)
	for i := range list {
		if requirementKey(list[i]) == key {
			list[i].Quantity += req.Quantity
			return list
		}
	}
	return append(list, req)
}

func requirementKey(r CutRequirement) string {
	constraint := "*"
	if r.ProfileID != "" {
		constraint = r.ProfileID
	} else if r.ProfileType != "" {
		constraint = r.ProfileType
	}
	return constraint + "|" + strconv.Itoa(r.LengthMm)
}
