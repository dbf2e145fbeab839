package data

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AssetEntry is a catalogued asset. File is resolved relative to the
// catalog's directory.
type AssetEntry struct {
	ID    string         `yaml:"id"`
	Type  string         `yaml:"type"`
	File  string         `yaml:"file"`
	Props map[string]any `yaml:"props"`
}

// AssetCatalog resolves asset ids to catalog entries, or to values installed
// at runtime with Set.
type AssetCatalog struct {
	assets map[string]any
}

type assetFile struct {
	Assets []AssetEntry `yaml:"assets"`
}

func NewAssetCatalog() *AssetCatalog {
	return &AssetCatalog{assets: make(map[string]any)}
}

// LoadAssetCatalog loads asset definitions from a YAML file.
func LoadAssetCatalog(path string) (*AssetCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset catalog: %w", err)
	}
	var f assetFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse asset catalog: %w", err)
	}
	dir := filepath.Dir(path)
	c := &AssetCatalog{assets: make(map[string]any, len(f.Assets))}
	for i := range f.Assets {
		e := &f.Assets[i]
		if e.ID == "" {
			return nil, fmt.Errorf("asset %d has no id", i)
		}
		if e.File != "" && !filepath.IsAbs(e.File) {
			e.File = filepath.Join(dir, e.File)
		}
		c.assets[e.ID] = e
	}
	return c, nil
}

// Asset returns the asset registered under id.
func (c *AssetCatalog) Asset(id string) (any, bool) {
	a, ok := c.assets[id]
	return a, ok
}

// Set installs or replaces an asset.
func (c *AssetCatalog) Set(id string, asset any) {
	c.assets[id] = asset
}

// Count returns the number of assets known.
func (c *AssetCatalog) Count() int {
	return len(c.assets)
}
