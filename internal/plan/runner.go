package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/terraform-exec/tfexec"

	"github.com/plan-comment/planctl/internal/logging"
)

// planFileMode defines the file permission for written plan artifacts.
const planFileMode = 0o600

// Artifacts lists the files a plan run produced.
type Artifacts struct {
	// PlanFile is the binary plan file (terraform plan -out).
	PlanFile string
	// TextPath is the human-readable plan output (terraform show -no-color).
	TextPath string
	// JSONPath is the structured plan output (terraform show -json).
	JSONPath string
	// HasChanges reports whether the plan proposes any changes.
	HasChanges bool
}

// Runner drives the terraform binary to produce the plan artifacts the
// comment pipeline consumes.
type Runner struct {
	logger  *slog.Logger
	binary  string
	workDir string
}

// NewRunner constructs a Runner for the given module directory. When binary
// is empty the terraform executable is resolved from PATH at run time.
func NewRunner(logger *slog.Logger, binary, workDir string) *Runner {
	if workDir == "" {
		workDir = "."
	}
	return &Runner{logger: logger, binary: binary, workDir: workDir}
}

// Run executes terraform plan (optionally preceded by init) and writes the
// binary plan file plus its textual and structured renderings into outDir.
func (r *Runner) Run(ctx context.Context, outDir string, doInit bool) (Artifacts, error) {
	binary := r.binary
	if binary == "" {
		path, err := exec.LookPath("terraform")
		if err != nil {
			return Artifacts{}, fmt.Errorf("locate terraform binary: %w", err)
		}
		binary = path
	}

	if outDir == "" {
		outDir = r.workDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("create output dir %q: %w", outDir, err)
	}

	tf, err := tfexec.NewTerraform(r.workDir, binary)
	if err != nil {
		return Artifacts{}, fmt.Errorf("init terraform executor in %q: %w", r.workDir, err)
	}
	tf.SetStderr(logging.NewWriter(r.logger))

	if doInit {
		r.logger.Info("running terraform init", "dir", r.workDir)
		if err := tf.Init(ctx, tfexec.Upgrade(false)); err != nil {
			return Artifacts{}, fmt.Errorf("terraform init: %w", err)
		}
	}

	planFile, err := filepath.Abs(filepath.Join(outDir, "tfplan"))
	if err != nil {
		return Artifacts{}, fmt.Errorf("resolve plan file path: %w", err)
	}

	r.logger.Info("running terraform plan", "dir", r.workDir, "out", planFile)
	hasChanges, err := tf.Plan(ctx, tfexec.Out(planFile))
	if err != nil {
		return Artifacts{}, fmt.Errorf("terraform plan: %w", err)
	}

	human, err := tf.ShowPlanFileRaw(ctx, planFile)
	if err != nil {
		return Artifacts{}, fmt.Errorf("terraform show: %w", err)
	}
	textPath := filepath.Join(outDir, "plan.txt")
	if err := os.WriteFile(textPath, []byte(human), planFileMode); err != nil {
		return Artifacts{}, fmt.Errorf("write plan text %q: %w", textPath, err)
	}

	structured, err := tf.ShowPlanFile(ctx, planFile)
	if err != nil {
		return Artifacts{}, fmt.Errorf("terraform show -json: %w", err)
	}
	raw, err := json.Marshal(structured)
	if err != nil {
		return Artifacts{}, fmt.Errorf("encode structured plan: %w", err)
	}
	jsonPath := filepath.Join(outDir, "plan.json")
	if err := os.WriteFile(jsonPath, raw, planFileMode); err != nil {
		return Artifacts{}, fmt.Errorf("write plan json %q: %w", jsonPath, err)
	}

	r.logger.Info("plan artifacts written",
		"plan_file", planFile,
		"text", textPath,
		"json", jsonPath,
		"has_changes", hasChanges,
	)

	return Artifacts{
		PlanFile:   planFile,
		TextPath:   textPath,
		JSONPath:   jsonPath,
		HasChanges: hasChanges,
	}, nil
}
