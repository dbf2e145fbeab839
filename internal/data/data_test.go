package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spellgo/engine/internal/component"
	"github.com/spellgo/engine/internal/core/ecs"
	"github.com/spellgo/engine/internal/core/event"
	"github.com/spellgo/engine/internal/world"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const componentsYAML = `
components:
  - id: appearance
    attributes:
      - name: assetId
        type: "assetId:appearance"
      - name: tint
        type: color
        default: [1, 1, 1, 1]
`

const templatesYAML = `
templates:
  - id: crate
    config:
      transform:
        translation: [3, 4]
      appearance:
        assetId: "appearance:crate"
    children:
      - name: lid
        config:
          transform:
            translation: [0, 1]
`

const assetsYAML = `
assets:
  - id: "appearance:crate"
    type: appearance
    file: textures/crate.png
    props:
      frames: 4
`

const sceneYAML = `
entities:
  - id: 100
    name: storage
    children:
      - entityTemplateId: crate
        name: first
      - entityTemplateId: crate
        name: second
        children:
          - name: lid
            config:
              transform:
                rotation: 1.5
`

func TestLoadComponentSchemas(t *testing.T) {
	dir := t.TempDir()
	schemas, err := LoadComponentSchemas(writeFile(t, dir, "components.yaml", componentsYAML))
	if err != nil {
		t.Fatal(err)
	}
	if len(schemas) != 1 || schemas[0].ID != "appearance" {
		t.Fatalf("schemas = %+v", schemas)
	}
	if got := schemas[0].AssetAttributes(); len(got) != 1 || got[0] != "assetId" {
		t.Fatalf("asset attributes = %v", got)
	}

	bad := writeFile(t, dir, "bad.yaml", "components:\n  - id: x\n    attributes:\n      - name: a\n      - name: a\n")
	if _, err := LoadComponentSchemas(bad); !errors.Is(err, component.ErrSchema) {
		t.Fatalf("duplicate attribute err = %v", err)
	}
}

func TestTemplateTable(t *testing.T) {
	tbl, err := LoadTemplateTable(writeFile(t, t.TempDir(), "templates.yaml", templatesYAML))
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Count() != 1 || !tbl.IsAvailable("crate") || tbl.IsAvailable("crate", "barrel") {
		t.Fatalf("table ids = %v", tbl.IDs())
	}
	crate, _ := tbl.Template("crate")
	if len(crate.Children) != 1 || crate.Children[0].Name != "lid" {
		t.Fatalf("crate children = %+v", crate.Children)
	}
}

func TestAssetCatalogResolvesFilesAgainstCatalogDir(t *testing.T) {
	dir := t.TempDir()
	cat, err := LoadAssetCatalog(writeFile(t, dir, "assets.yaml", assetsYAML))
	if err != nil {
		t.Fatal(err)
	}
	a, ok := cat.Asset("appearance:crate")
	if !ok {
		t.Fatal("asset missing")
	}
	e := a.(*AssetEntry)
	if e.File != filepath.Join(dir, "textures", "crate.png") {
		t.Fatalf("file = %q", e.File)
	}
	if e.Props["frames"] != 4 {
		t.Fatalf("props = %v", e.Props)
	}
}

func TestSceneBuildsWorld(t *testing.T) {
	dir := t.TempDir()
	schemas, err := LoadComponentSchemas(writeFile(t, dir, "components.yaml", componentsYAML))
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadTemplateTable(writeFile(t, dir, "templates.yaml", templatesYAML))
	if err != nil {
		t.Fatal(err)
	}
	cat, err := LoadAssetCatalog(writeFile(t, dir, "assets.yaml", assetsYAML))
	if err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "scenes/main.yaml", sceneYAML)
	scene, err := LoadScene(filepath.Join(dir, "scenes"), "main")
	if err != nil {
		t.Fatal(err)
	}
	if scene.Name != "main" {
		t.Fatalf("scene name = %q", scene.Name)
	}

	m := world.NewManager(event.NewBus(), tbl, cat, nil)
	if err := m.Init(); err != nil {
		t.Fatal(err)
	}
	for _, s := range schemas {
		if err := m.RegisterType(s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := m.CreateEntities(scene.Entities); err != nil {
		t.Fatal(err)
	}

	if !m.Exists("100") {
		t.Fatal("scene root entity 100 missing")
	}
	second := m.EntityIDsByName("second", "100")
	if len(second) != 1 {
		t.Fatalf("second lookup = %v", second)
	}
	lids := m.EntityIDsByName("lid", second[0])
	if len(lids) != 1 {
		t.Fatalf("second crate has %d lids, want 1", len(lids))
	}
	lid, _ := m.Transform(lids[0])
	if lid.Rotation != 1.5 || lid.Translation != [2]float64{0, 1} {
		t.Fatalf("lid transform = %+v", lid)
	}
	c, ok := m.Component(second[0], "appearance")
	if !ok {
		t.Fatal("appearance missing")
	}
	if a, _ := c.(*component.Record).Asset("assetId"); a == nil {
		t.Fatal("appearance asset not bound")
	}

	raw, err := MarshalScene(&Scene{Name: "main", Entities: m.ExportScene()})
	if err != nil {
		t.Fatal(err)
	}
	back, err := ParseScene(raw)
	if err != nil {
		t.Fatal(err)
	}
	restored := world.NewManager(event.NewBus(), tbl, cat, nil)
	_ = restored.Init()
	for _, s := range schemas {
		_ = restored.RegisterType(s)
	}
	if _, err := restored.CreateEntities(back.Entities); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got, want := len(restored.CollectSubtreeIDs(ecs.RootEntityID)), len(m.CollectSubtreeIDs(ecs.RootEntityID)); got != want {
		t.Fatalf("restored %d entities, want %d", got, want)
	}
}
