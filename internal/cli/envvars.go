package cli

import (
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from PLANCTL_* env vars.
type baseEnv struct {
	// ConfigPath is the .planctl.yaml path from PLANCTL_CONFIG.
	ConfigPath string `env:"PLANCTL_CONFIG"`
	// LogLevel is the logging level from PLANCTL_LOG_LEVEL.
	LogLevel string `env:"PLANCTL_LOG_LEVEL"`
}

// commentEnv captures PLANCTL_* inputs for the comment and render pipelines.
type commentEnv struct {
	// PlanPath is the plan artifact path from PLANCTL_PLAN_PATH.
	PlanPath string `env:"PLANCTL_PLAN_PATH"`
	// PlanFormat is the artifact format from PLANCTL_PLAN_FORMAT.
	PlanFormat string `env:"PLANCTL_PLAN_FORMAT"`
	// Header is the comment heading from PLANCTL_HEADER.
	Header string `env:"PLANCTL_HEADER"`
	// SkipNoChanges suppresses no-change comments from PLANCTL_SKIP_NO_CHANGES.
	SkipNoChanges bool `env:"PLANCTL_SKIP_NO_CHANGES"`
	// MaxCommentSize caps the body size from PLANCTL_MAX_COMMENT_SIZE.
	MaxCommentSize int `env:"PLANCTL_MAX_COMMENT_SIZE"`
	// Repo is the repository slug from PLANCTL_REPO.
	Repo string `env:"PLANCTL_REPO"`
	// PR is the pull request number from PLANCTL_PR_NUMBER.
	PR int `env:"PLANCTL_PR_NUMBER"`
}

// planEnv captures PLANCTL_* inputs for terraform plan runs.
type planEnv struct {
	// Binary is the terraform executable from PLANCTL_TERRAFORM_BINARY.
	Binary string `env:"PLANCTL_TERRAFORM_BINARY"`
	// WorkDir is the module directory from PLANCTL_TERRAFORM_DIR.
	WorkDir string `env:"PLANCTL_TERRAFORM_DIR"`
	// OutDir is the artifact directory from PLANCTL_OUT_DIR.
	OutDir string `env:"PLANCTL_OUT_DIR"`
	// Init toggles terraform init from PLANCTL_INIT.
	Init bool `env:"PLANCTL_INIT"`
}

// parseEnv fills target from PLANCTL_* env vars via caarlos0/env.
func parseEnv(target interface{}) error {
	return envparse.Parse(target)
}

// envPresent reports whether a non-empty env var exists.
func envPresent(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}
