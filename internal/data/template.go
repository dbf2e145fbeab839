package data

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/spellgo/engine/internal/world"
)

// TemplateTable holds entity templates indexed by id.
type TemplateTable struct {
	templates map[string]*world.Template
}

type templateFile struct {
	Templates []world.Template `yaml:"templates"`
}

// NewTemplateTable returns an empty table.
func NewTemplateTable() *TemplateTable {
	return &TemplateTable{templates: make(map[string]*world.Template)}
}

// LoadTemplateTable loads entity templates from a YAML file.
func LoadTemplateTable(path string) (*TemplateTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entity templates: %w", err)
	}
	var f templateFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse entity templates: %w", err)
	}
	t := &TemplateTable{templates: make(map[string]*world.Template, len(f.Templates))}
	for i := range f.Templates {
		tmpl := &f.Templates[i]
		if tmpl.ID == "" {
			return nil, fmt.Errorf("entity template %d has no id", i)
		}
		if _, dup := t.templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("entity template %q defined twice", tmpl.ID)
		}
		t.templates[tmpl.ID] = tmpl
	}
	return t, nil
}

// Template returns a template by id.
func (t *TemplateTable) Template(id string) (*world.Template, bool) {
	tmpl, ok := t.templates[id]
	return tmpl, ok
}

// IsAvailable reports whether every id is loaded.
func (t *TemplateTable) IsAvailable(ids ...string) bool {
	for _, id := range ids {
		if _, ok := t.templates[id]; !ok {
			return false
		}
	}
	return true
}

// Put adds or replaces a template.
func (t *TemplateTable) Put(tmpl *world.Template) {
	t.templates[tmpl.ID] = tmpl
}

// Reload reads path again and puts every template that is new or whose
// definition changed. Templates missing from the file are kept. It returns
// the changed ids in sorted order.
func (t *TemplateTable) Reload(path string) ([]string, error) {
	fresh, err := LoadTemplateTable(path)
	if err != nil {
		return nil, err
	}
	var changed []string
	for _, id := range fresh.IDs() {
		tmpl := fresh.templates[id]
		if old, ok := t.templates[id]; ok && reflect.DeepEqual(old, tmpl) {
			continue
		}
		t.Put(tmpl)
		changed = append(changed, id)
	}
	return changed, nil
}

// IDs returns the loaded template ids in sorted order.
func (t *TemplateTable) IDs() []string {
	ids := make([]string, 0, len(t.templates))
	for id := range t.templates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of templates loaded.
func (t *TemplateTable) Count() int {
	return len(t.templates)
}
