package config

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// file is the on-disk schema shared by both formats. Pointers distinguish
// unset fields from zero values so defaults apply.
type file struct {
	Source *struct {
		Owner      string `yaml:"owner" hcl:"owner,optional"`
		Repository string `yaml:"repository" hcl:"repository,optional"`
		Ref        string `yaml:"ref" hcl:"ref,optional"`
	} `yaml:"source" hcl:"source,block"`
	Local         *string  `yaml:"local" hcl:"local,optional"`
	SearchEnabled *bool    `yaml:"search_enabled" hcl:"search_enabled,optional"`
	APIBaseURL    *string  `yaml:"api_base_url" hcl:"api_base_url,optional"`
	TokenEnv      *string  `yaml:"token_env" hcl:"token_env,optional"`
	Timeout       *string  `yaml:"timeout" hcl:"timeout,optional"`
	Style         *string  `yaml:"style" hcl:"style,optional"`
	Hide          []string `yaml:"hide" hcl:"hide,optional"`
	LogLevel      *string  `yaml:"log_level" hcl:"log_level,optional"`
	LogFile       *string  `yaml:"log_file" hcl:"log_file,optional"`
}

func parseYAML(data []byte) (*file, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &f, nil
}

func parseHCL(data []byte, filename string) (*file, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	var f file
	diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &f)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}
	return &f, nil
}

// evalContext exposes the process environment as env.NAME to HCL
// expressions.
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" || !hclsyntax.ValidIdentifier(name) {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func (f *file) resolve() (*Config, error) {
	cfg := Default()

	if f.Source != nil {
		if f.Source.Owner != "" || f.Source.Repository != "" {
			cfg.Source.Owner = strings.TrimSpace(f.Source.Owner)
			cfg.Source.Repository = strings.TrimSpace(f.Source.Repository)
		}
		cfg.Source.Ref = f.Source.Ref
	}
	if f.Local != nil {
		cfg.Local = *f.Local
	}
	if f.SearchEnabled != nil {
		cfg.SearchEnabled = *f.SearchEnabled
	}
	if f.APIBaseURL != nil {
		cfg.APIBaseURL = *f.APIBaseURL
	}
	if f.TokenEnv != nil {
		cfg.TokenEnv = *f.TokenEnv
	}
	if f.Timeout != nil {
		d, err := time.ParseDuration(*f.Timeout)
		if err != nil {
			return nil, errors.Errorf("invalid timeout %q: %w", *f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.Style != nil {
		cfg.Style = *f.Style
	}
	if f.Hide != nil {
		cfg.Hide = append([]string(nil), f.Hide...)
	}
	if f.LogLevel != nil {
		cfg.LogLevel = *f.LogLevel
	}
	if f.LogFile != nil {
		cfg.LogFile = *f.LogFile
	}
	return cfg, nil
}
