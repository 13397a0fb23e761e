package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaFile string

//go:embed default.yaml
var DEFAULT []byte

type tree = map[string]interface{}

func decode(path string, data []byte) (tree, error) {
	value := tree{}
	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, &value); err != nil {
			return nil, err
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &value); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("not in a valid format")
	}
	return value, nil
}

func readFile(path string) (tree, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("does not exist")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(path, data)
}

// merge copies src over dst. Nested objects are merged key by key; every
// other value, lists included, replaces what was there.
func merge(dst, src tree) tree {
	for key, value := range src {
		srcTree, srcIsTree := value.(tree)
		dstTree, dstIsTree := dst[key].(tree)
		if srcIsTree && dstIsTree {
			dst[key] = merge(dstTree, srcTree)
			continue
		}
		dst[key] = value
	}
	return dst
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schemaFile)); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}

// Process reads the provided configuration files in order and merges them
// over the default configuration. The result is validated against the
// configuration schema.
func Process(configPaths []string) (*Config, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	merged, err := decode("<default>.yaml", DEFAULT)
	if err != nil {
		return nil, fmt.Errorf(
			"invalid default config file: %v",
			err,
		)
	}

	for _, path := range configPaths {
		value, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %v",
				path,
				err,
			)
		}

		merged = merge(merged, value)
		if err := validate(schema, merged); err != nil {
			return nil, fmt.Errorf(
				"config file %s is not valid: %v",
				path,
				err,
			)
		}
	}

	if err := validate(schema, merged); err != nil {
		return nil, err
	}

	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf(
			"could not aggregate config: %v",
			err,
		)
	}

	config := Config{}
	err = json.Unmarshal(data, &config)
	return &config, err
}

// validate checks the tree in the shape encoding/json would produce.
func validate(schema *jsonschema.Schema, value tree) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var doc interface{}
	if err := decoder.Decode(&doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}

// Fingerprint identifies the effective configuration.
func (c *Config) Fingerprint() uint64 {
	data, _ := json.Marshal(c)
	return xxhash.Sum64(data)
}
