package system

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spellgo/engine/internal/core/event"
	"github.com/spellgo/engine/internal/data"
	"github.com/spellgo/engine/internal/world"
)

const lampTemplate = `
templates:
  - id: lamp
    config:
      transform:
        translation: [%s, 0]
  - id: chair
    config:
      transform:
        translation: [0, 0]
`

func writeTemplates(t *testing.T, path, x string) {
	t.Helper()
	body := []byte(fmt.Sprintf(lampTemplate, x))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTemplateReloadRecreatesChangedInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	writeTemplates(t, path, "1")
	table, err := data.LoadTemplateTable(path)
	if err != nil {
		t.Fatal(err)
	}
	m := world.NewManager(event.NewBus(), table, nil, zap.NewNop())
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	lamp, err := m.CreateEntity(world.EntityConfig{EntityTemplateID: "lamp", Name: "desk"})
	if err != nil {
		t.Fatal(err)
	}

	sys := NewTemplateReloadSystem(m, table, path, zap.NewNop())
	writeTemplates(t, path, "5")
	sys.Update(time.Millisecond)
	if tr, _ := m.Transform(lamp); tr.Translation[0] != 1 {
		t.Fatalf("reloaded without a request: %v", tr.Translation)
	}

	sys.Request()
	sys.Request()
	sys.Update(time.Millisecond)
	tr, ok := m.Transform(lamp)
	if !ok {
		t.Fatal("lamp lost its id")
	}
	if tr.Translation[0] != 5 {
		t.Fatalf("translation = %v, want x=5", tr.Translation)
	}
	if tmpl, _ := table.Template("chair"); tmpl == nil {
		t.Fatal("unchanged template dropped")
	}
}

func TestTemplateReloadKeepsTableOnParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.yaml")
	writeTemplates(t, path, "1")
	table, err := data.LoadTemplateTable(path)
	if err != nil {
		t.Fatal(err)
	}
	m := world.NewManager(event.NewBus(), table, nil, zap.NewNop())
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("templates: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	sys := NewTemplateReloadSystem(m, table, path, zap.NewNop())
	sys.Request()
	sys.Update(time.Millisecond)
	if table.Count() != 2 {
		t.Fatalf("count = %d after failed reload, want 2", table.Count())
	}
}
