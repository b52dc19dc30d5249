package config

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the env tags of Config by FromEnv.
const EnvPrefix = "RECAPTCHA_"

// File is the on-disk layout read by Load and written by Save:
//
//	components:
//	  reCaptcha:
//	    site_key_v3: 6Lc...
//	    js_api_url: //www.recaptcha.net/recaptcha/api.js
type File struct {
	Components map[string]Config `yaml:"components"`
}

// Load decodes a YAML document into a new registry.
func Load(r io.Reader) (*Registry, error) {
	if r == nil {
		return nil, fmt.Errorf("config: reader is nil")
	}
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}

	reg := NewRegistry()
	for name, cfg := range file.Components {
		if err := reg.Register(name, cfg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadFS reads the named YAML file from fsys.
func LoadFS(fsys fs.FS, name string) (*Registry, error) {
	if fsys == nil {
		return nil, fmt.Errorf("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	reg, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, name)
	}
	return reg, nil
}

// LoadFile reads a YAML file from disk.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	reg, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return reg, nil
}

// Save writes the registry entries as YAML, sorted by name.
func Save(w io.Writer, reg *Registry) error {
	if w == nil {
		return fmt.Errorf("config: writer is nil")
	}
	snapshot := reg.Snapshot()

	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	components := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range names {
		var value yaml.Node
		if err := value.Encode(snapshot[name]); err != nil {
			return fmt.Errorf("config: encode %q: %w", name, err)
		}
		components.Content = append(components.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&value,
		)
	}
	root := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Value: "components"},
		components,
	}}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("config: encode yaml: %w", err)
	}
	return enc.Close()
}

// FromEnv reads a Config from RECAPTCHA_SITE_KEY_V3 and RECAPTCHA_JS_API_URL.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg.Normalize(), nil
}
