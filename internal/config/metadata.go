package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Metadata is the content of a model metadata file. Comments and trailing commas are allowed.
//
//	{
//	  // identity
//	  "id": "resnet50",
//	  "name": "ResNet-50",
//	  "version": "1.2.0",
//	  "format": "onnx",
//	  "key_ref": "vault://models/resnet50",
//	}
type Metadata struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Format  string `json:"format"`
	KeyRef  string `json:"key_ref"`
}

// LoadMetadata reads a JSONC metadata file.
func LoadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Metadata{}, fmt.Errorf("reading metadata file %q: %w", path, err)
	}

	var md Metadata
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &md); err != nil {
		return Metadata{}, fmt.Errorf("parsing metadata file %q: %w", path, err)
	}

	return md, nil
}

// Settings maps the non-empty metadata values to the package command's setting keys.
func (m Metadata) Settings() map[string]string {
	settings := make(map[string]string)

	for key, value := range map[string]string{
		"model-id":      m.ID,
		"name":          m.Name,
		"model-version": m.Version,
		"format":        m.Format,
		"key-ref":       m.KeyRef,
	} {
		if value != "" {
			settings[key] = value
		}
	}

	return settings
}
