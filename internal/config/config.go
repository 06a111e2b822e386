// Package config contains the loader and strongly typed model for .planctl.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/plan-comment/planctl/internal/env"
)

// Config describes the repository-level configuration for planctl. Every
// field can be overridden by PLANCTL_* env vars and command flags; the file
// only provides defaults checked into the repository.
type Config struct {
	// Header is the comment heading that identifies this plan stream. Two
	// streams with different headers maintain independent comments.
	Header string `yaml:"header,omitempty"`
	// SkipNoChanges suppresses comment writes when the plan has no changes.
	SkipNoChanges bool `yaml:"skipNoChanges,omitempty"`
	// MaxCommentSize caps the rendered comment body in bytes.
	MaxCommentSize int `yaml:"maxCommentSize,omitempty"`
	// Repository is the owner/repo slug of the target repository.
	Repository string `yaml:"repository,omitempty"`
	// PlanPath is the default plan artifact consumed by comment/render.
	PlanPath string `yaml:"planPath,omitempty"`
	// PlanFormat selects how the plan artifact is parsed ("text" or "json").
	PlanFormat string `yaml:"planFormat,omitempty"`
	// EnvFiles lists .env files exported into the process environment on load.
	EnvFiles []string `yaml:"envFiles,omitempty"`
	// Terraform configures how "planctl plan" invokes the terraform binary.
	Terraform TerraformConfig `yaml:"terraform,omitempty"`
}

// TerraformConfig describes the terraform invocation for "planctl plan".
type TerraformConfig struct {
	// Binary is the terraform executable path (resolved from PATH when empty).
	Binary string `yaml:"binary,omitempty"`
	// WorkDir is the module directory terraform runs in.
	WorkDir string `yaml:"workDir,omitempty"`
	// OutDir is the directory plan artifacts are written to.
	OutDir string `yaml:"outDir,omitempty"`
	// Init runs terraform init before plan.
	Init bool `yaml:"init,omitempty"`
}

// Load reads and parses a .planctl.yaml file. A missing file yields an empty
// configuration so the CLI can run on flags and env alone; any other read or
// parse failure is an error. Env files listed in the configuration are
// exported into the process environment without overriding existing values.
func Load(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	raw, err := os.ReadFile(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", absPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", absPath, err)
	}

	if err := applyEnvFiles(filepath.Dir(absPath), cfg.EnvFiles); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvFiles exports values from the configured .env files into the
// process environment. Values already present in the environment win, so CI
// secrets always override file contents.
func applyEnvFiles(baseDir string, files []string) error {
	if len(files) == 0 {
		return nil
	}
	vars, err := env.LoadEnvFiles(baseDir, files)
	if err != nil {
		return err
	}
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("export env var %q: %w", k, err)
		}
	}
	return nil
}
