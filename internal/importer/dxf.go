package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/ProfileCut/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// point is a 2D drawing coordinate in millimeters.
type point struct {
	X, Y float64
}

// outline is a closed polygon; the last point connects back to the first.
type outline []point

// boundingBox returns the min and max corners of the outline.
func (o outline) boundingBox() (point, point) {
	if len(o) == 0 {
		return point{}, point{}
	}
	min, max := o[0], o[0]
	for _, p := range o[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max
}

// segment is a loose drawing edge waiting to be chained into an outline.
type segment struct {
	start point
	end   point
}

// contains reports whether other lies inside the bounding box of o.
func (o outline) contains(other outline, tolerance float64) bool {
	min, max := o.boundingBox()
	omin, omax := other.boundingBox()
	return omin.X >= min.X-tolerance && omin.Y >= min.Y-tolerance &&
		omax.X <= max.X+tolerance && omax.Y <= max.Y+tolerance
}

// DXFResult holds the window openings read from a drawing.
type DXFResult struct {
	Windows  []model.WindowInstance
	Errors   []string
	Warnings []string
}

// ImportDXF reads window openings from a DXF elevation drawing. Each closed
// shape (LWPOLYLINE, CIRCLE, or chain of connected LINEs/ARCs) becomes a
// WindowInstance sized by its bounding box, rounded to whole millimeters.
// Shapes are ordered largest first.
func ImportDXF(path string) DXFResult {
	result := DXFResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []outline
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			o := lwPolylineToOutline(e)
			if len(o) >= 3 {
				outlines = append(outlines, o)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			pts := sampleArc(point{e.Center[0], e.Center[1]}, e.Radius, 0, 2*math.Pi, arcSteps*2)
			outlines = append(outlines, outline(pts[:len(pts)-1]))

		case *entity.Arc:
			segments = append(segments, arcEntitySegments(e)...)

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, dimensions and hatches carry no opening geometry
		}
	}

	chained, open := chainSegments(segments, chainTolerance)
	if open > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d open chain(s) of lines and arcs", open))
	}
	outlines = append(outlines, chained...)
	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	outer := dropNested(outlines)
	if nested := len(outlines) - len(outer); nested > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored %d shape(s) nested inside another opening", nested))
	}

	result.Windows, result.Warnings = outlinesToWindows(outer, result.Warnings)
	return result
}

// outlinesToWindows sizes one window per outline, largest area first.
func outlinesToWindows(outlines []outline, warnings []string) ([]model.WindowInstance, []string) {
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	var windows []model.WindowInstance
	for _, o := range outlines {
		min, max := o.boundingBox()
		width := int(math.Round(max.X - min.X))
		height := int(math.Round(max.Y - min.Y))
		if width < 1 || height < 1 {
			warnings = append(warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", max.X-min.X, max.Y-min.Y))
			continue
		}

		n := len(windows) + 1
		windows = append(windows, model.WindowInstance{
			ID:       fmt.Sprintf("dxf-%d", n),
			Label:    fmt.Sprintf("DXF Opening %d", n),
			WidthMm:  width,
			HeightMm: height,
		})
	}
	return windows, warnings
}

const (
	arcSteps       = 32   // points per half turn when flattening arcs
	chainTolerance = 0.01 // mm between endpoints that count as joined
)

// lwPolylineToOutline flattens an LWPOLYLINE. A vertex with a bulge is
// followed by the arc towards the next vertex instead of a straight edge.
func lwPolylineToOutline(lw *entity.LwPolyline) outline {
	n := len(lw.Vertices)
	o := make(outline, 0, n)
	for i, v := range lw.Vertices {
		from := point{v[0], v[1]}
		o = append(o, from)
		if i >= len(lw.Bulges) || math.Abs(lw.Bulges[i]) < 1e-9 {
			continue
		}
		next := lw.Vertices[(i+1)%n]
		arc := bulgeArcPoints(from, point{next[0], next[1]}, lw.Bulges[i])
		// Endpoints are vertices already.
		if len(arc) > 2 {
			o = append(o, arc[1:len(arc)-1]...)
		}
	}
	return o
}

// bulgeArcPoints flattens the arc between two polyline vertices. The
// included angle is 4*atan(bulge), counter-clockwise for positive bulges.
// The result starts at from and ends at to.
func bulgeArcPoints(from, to point, bulge float64) []point {
	dx, dy := to.X-from.X, to.Y-from.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []point{from, to}
	}

	sweep := 4 * math.Atan(bulge)
	half := sweep / 2
	// Offset of the center from the chord midpoint along the left normal;
	// zero for a half circle, negative once the arc exceeds one.
	offset := chord / 2 / math.Tan(half)
	center := point{
		X: (from.X+to.X)/2 - dy/chord*offset,
		Y: (from.Y+to.Y)/2 + dx/chord*offset,
	}
	radius := chord / 2 / math.Abs(math.Sin(half))
	start := math.Atan2(from.Y-center.Y, from.X-center.X)

	pts := sampleArc(center, radius, start, sweep, arcSteps)
	pts[0], pts[len(pts)-1] = from, to
	return pts
}

// sampleArc returns points along an arc from angle start sweeping by sweep
// radians, both ends included. steps is scaled to the sweep so long arcs
// stay smooth.
func sampleArc(center point, radius, start, sweep float64, steps int) []point {
	n := int(math.Ceil(math.Abs(sweep) / math.Pi * float64(steps)))
	if n < 2 {
		n = 2
	}
	pts := make([]point, n+1)
	for i := range pts {
		a := start + sweep*float64(i)/float64(n)
		pts[i] = point{center.X + radius*math.Cos(a), center.Y + radius*math.Sin(a)}
	}
	return pts
}

// arcEntitySegments flattens an ARC entity into edges. DXF arcs run
// counter-clockwise from Angle[0] to Angle[1], in degrees.
func arcEntitySegments(a *entity.Arc) []segment {
	sweep := math.Mod(a.Angle[1]-a.Angle[0], 360)
	if sweep <= 0 {
		sweep += 360
	}
	center := point{a.Circle.Center[0], a.Circle.Center[1]}
	pts := sampleArc(center, a.Circle.Radius, a.Angle[0]*math.Pi/180, sweep*math.Pi/180, arcSteps)

	segs := make([]segment, len(pts)-1)
	for i := range segs {
		segs[i] = segment{start: pts[i], end: pts[i+1]}
	}
	return segs
}

// gridKey snaps a point to the tolerance grid so nearby endpoints share a key.
type gridKey struct{ x, y int64 }

func snap(p point, tolerance float64) gridKey {
	return gridKey{int64(math.Round(p.X / tolerance)), int64(math.Round(p.Y / tolerance))}
}

// chainSegments joins edges that share endpoints into closed outlines. It
// returns the outlines and the number of chains that never closed.
func chainSegments(segs []segment, tolerance float64) ([]outline, int) {
	byEnd := make(map[gridKey][]int, len(segs)*2)
	for i, s := range segs {
		byEnd[snap(s.start, tolerance)] = append(byEnd[snap(s.start, tolerance)], i)
		byEnd[snap(s.end, tolerance)] = append(byEnd[snap(s.end, tolerance)], i)
	}

	used := make([]bool, len(segs))
	var outlines []outline
	open := 0
	for i := range segs {
		if used[i] {
			continue
		}
		used[i] = true
		first := snap(segs[i].start, tolerance)
		chain := outline{segs[i].start}
		cur := segs[i].end

		for snap(cur, tolerance) != first {
			chain = append(chain, cur)
			next := -1
			for _, j := range byEnd[snap(cur, tolerance)] {
				if !used[j] {
					next = j
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			if snap(segs[next].start, tolerance) == snap(cur, tolerance) {
				cur = segs[next].end
			} else {
				cur = segs[next].start
			}
		}

		if snap(cur, tolerance) == first && len(chain) >= 3 {
			outlines = append(outlines, chain)
		} else {
			open++
		}
	}
	return outlines, open
}

// dropNested keeps only outlines that are not inside a larger one, so the
// sash and glazing lines within a frame do not count as extra openings.
func dropNested(outlines []outline) []outline {
	sorted := make([]outline, len(outlines))
	copy(sorted, outlines)
	sort.SliceStable(sorted, func(i, j int) bool {
		return outlineArea(sorted[i]) > outlineArea(sorted[j])
	})

	var outer []outline
	for _, o := range sorted {
		nested := false
		for _, k := range outer {
			if k.contains(o, chainTolerance) {
				nested = true
				break
			}
		}
		if !nested {
			outer = append(outer, o)
		}
	}
	return outer
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o outline) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].X * o[j].Y
		area -= o[j].X * o[i].Y
	}
	return math.Abs(area) / 2
}
