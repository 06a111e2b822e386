package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plan-comment/planctl/internal/config"
	"github.com/plan-comment/planctl/internal/ghoutput"
	"github.com/plan-comment/planctl/internal/plan"
)

// newPlanCommand creates "plan", which runs terraform plan and writes the
// artifacts the comment command consumes.
func newPlanCommand(opts *Options) *cobra.Command {
	var (
		binary  string
		workDir string
		outDir  string
		doInit  bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run terraform plan and write the plan artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			envCfg := planEnv{}
			if err := parseEnv(&envCfg); err != nil {
				return err
			}
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("terraform-binary") {
				switch {
				case envPresent("PLANCTL_TERRAFORM_BINARY"):
					binary = envCfg.Binary
				case cfg.Terraform.Binary != "":
					binary = cfg.Terraform.Binary
				}
			}
			if !cmd.Flags().Changed("dir") {
				switch {
				case envPresent("PLANCTL_TERRAFORM_DIR"):
					workDir = envCfg.WorkDir
				case cfg.Terraform.WorkDir != "":
					workDir = cfg.Terraform.WorkDir
				}
			}
			if !cmd.Flags().Changed("out-dir") {
				switch {
				case envPresent("PLANCTL_OUT_DIR"):
					outDir = envCfg.OutDir
				case cfg.Terraform.OutDir != "":
					outDir = cfg.Terraform.OutDir
				}
			}
			if !cmd.Flags().Changed("init") {
				switch {
				case envPresent("PLANCTL_INIT"):
					doInit = envCfg.Init
				case cfg.Terraform.Init:
					doInit = true
				}
			}

			runner := plan.NewRunner(logger, binary, workDir)
			artifacts, err := runner.Run(cmd.Context(), outDir, doInit)
			if err != nil {
				return err
			}

			if err := ghoutput.Write(map[string]string{
				"plan_file":   artifacts.PlanFile,
				"plan_text":   artifacts.TextPath,
				"plan_json":   artifacts.JSONPath,
				"has_changes": strconv.FormatBool(artifacts.HasChanges),
			}); err != nil {
				return err
			}

			fmt.Printf(
				"plan_file: %s\nplan_text: %s\nplan_json: %s\nhas_changes: %t\n",
				artifacts.PlanFile,
				artifacts.TextPath,
				artifacts.JSONPath,
				artifacts.HasChanges,
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&binary, "terraform-binary", "", "Terraform executable path (resolved from PATH when empty)")
	cmd.Flags().StringVar(&workDir, "dir", ".", "Terraform module directory")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for plan artifacts (defaults to the module directory)")
	cmd.Flags().BoolVar(&doInit, "init", false, "Run terraform init before plan")

	return cmd
}
