package project

import (
	"fmt"

	"github.com/piwi3910/ProfileCut/internal/model"
)

// DefaultTemplatePath returns ~/.profilecut/templates.json.
func DefaultTemplatePath() (string, error) {
	return dataPath("templates.json")
}

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	if store.Templates == nil {
		store.Templates = []model.PlanTemplate{}
	}
	return writeJSON(path, store)
}

// LoadTemplates reads a template store. A missing file gives an empty
// store. Templates saved without a strategy plan with GREEDY; an unknown
// strategy fails the load.
func LoadTemplates(path string) (model.TemplateStore, error) {
	store := model.NewTemplateStore()
	if _, err := readJSON(path, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.PlanTemplate{}
	}
	for i := range store.Templates {
		t := &store.Templates[i]
		strategy, err := model.ParseStrategy(string(t.Strategy))
		if err != nil {
			return model.TemplateStore{}, fmt.Errorf("template %q: %w", t.Name, err)
		}
		t.Strategy = strategy
		if t.Requirements == nil {
			t.Requirements = []model.CutRequirement{}
		}
	}
	return store, nil
}
