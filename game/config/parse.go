package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/mcp-training/deepsea/game/engine"
	"github.com/wricardo/mcp-training/deepsea/game/strategy"
)

//go:embed table.schema.json
var tableSchemaJSON string

var tableSchema = jsonschema.MustCompileString("table.schema.json", tableSchemaJSON)

// Supported config file extensions, in lookup order.
var extensions = []string{".json", ".yaml", ".yml"}

// IsConfigFile reports whether filename has a supported extension.
func IsConfigFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ParseTableConfig decodes a JSON or YAML document, checks it against the
// table schema and makes sure every seat can be built.
func ParseTableConfig(data []byte, filename string) (*engine.TableConfig, error) {
	doc := data
	if ext := strings.ToLower(filepath.Ext(filename)); ext == ".yaml" || ext == ".yml" {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to convert yaml: %w", err)
		}
		doc = converted
	}

	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := tableSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var config engine.TableConfig
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate runs the structural checks and builds every seat's strategy.
func Validate(config *engine.TableConfig) error {
	if err := engine.ValidateTableConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := strategy.BuildTable(config, 0); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// EncodeTableConfig renders config as YAML or indented JSON depending on filename.
func EncodeTableConfig(config *engine.TableConfig, filename string) ([]byte, error) {
	if ext := strings.ToLower(filepath.Ext(filename)); ext == ".yaml" || ext == ".yml" {
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}
