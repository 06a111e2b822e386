package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plan-comment/planctl/internal/comment"
	"github.com/plan-comment/planctl/internal/config"
	"github.com/plan-comment/planctl/internal/plan"
)

// commentFlags holds the flag storage shared by the comment and render commands.
type commentFlags struct {
	planPath      string
	planFormat    string
	header        string
	skipNoChanges bool
	maxSize       int
	repo          string
	pr            int
}

// addCommentFlags registers the formatting flags, plus the remote-facing ones
// when the command actually talks to GitHub.
func addCommentFlags(cmd *cobra.Command, f *commentFlags, remote bool) {
	cmd.Flags().StringVar(&f.planPath, "plan", "", "Path to the plan output file (required unless set in config or env)")
	cmd.Flags().StringVar(&f.planFormat, "format", "text", "Plan artifact format: text (terraform show -no-color) or json (terraform show -json)")
	cmd.Flags().StringVar(&f.header, "header", "", fmt.Sprintf("Comment heading identifying this plan stream (defaults to %q)", comment.DefaultHeader))
	cmd.Flags().IntVar(&f.maxSize, "max-size", comment.DefaultMaxSize, "Maximum comment body size in bytes")
	if remote {
		cmd.Flags().BoolVar(&f.skipNoChanges, "skip-no-changes", false, "Do not create or update the comment when the plan has no changes")
		cmd.Flags().StringVar(&f.repo, "repo", "", "Repository slug owner/repo (defaults to GITHUB_REPOSITORY)")
		cmd.Flags().IntVar(&f.pr, "pr", 0, "Pull request number (defaults to the GitHub Actions event payload)")
	}
}

// resolveCommentFlags applies the PLANCTL_* env vars and .planctl.yaml values
// for every flag the user did not set explicitly. Precedence: flag, env,
// config file, built-in default.
func resolveCommentFlags(cmd *cobra.Command, opts *Options, f *commentFlags, remote bool) error {
	envCfg := commentEnv{}
	if err := parseEnv(&envCfg); err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("plan") {
		switch {
		case envPresent("PLANCTL_PLAN_PATH"):
			f.planPath = envCfg.PlanPath
		case cfg.PlanPath != "":
			f.planPath = cfg.PlanPath
		}
	}
	if !cmd.Flags().Changed("format") {
		switch {
		case envPresent("PLANCTL_PLAN_FORMAT"):
			f.planFormat = envCfg.PlanFormat
		case cfg.PlanFormat != "":
			f.planFormat = cfg.PlanFormat
		}
	}
	if !cmd.Flags().Changed("header") {
		switch {
		case envPresent("PLANCTL_HEADER"):
			f.header = envCfg.Header
		case cfg.Header != "":
			f.header = cfg.Header
		}
	}
	if !cmd.Flags().Changed("max-size") {
		switch {
		case envPresent("PLANCTL_MAX_COMMENT_SIZE") && envCfg.MaxCommentSize > 0:
			f.maxSize = envCfg.MaxCommentSize
		case cfg.MaxCommentSize > 0:
			f.maxSize = cfg.MaxCommentSize
		}
	}

	if remote {
		if !cmd.Flags().Changed("skip-no-changes") {
			switch {
			case envPresent("PLANCTL_SKIP_NO_CHANGES"):
				f.skipNoChanges = envCfg.SkipNoChanges
			case cfg.SkipNoChanges:
				f.skipNoChanges = true
			}
		}
		if !cmd.Flags().Changed("repo") {
			switch {
			case envPresent("PLANCTL_REPO"):
				f.repo = envCfg.Repo
			case cfg.Repository != "":
				f.repo = cfg.Repository
			}
		}
		if !cmd.Flags().Changed("pr") && envPresent("PLANCTL_PR_NUMBER") {
			f.pr = envCfg.PR
		}
	}

	if f.planPath == "" {
		return fmt.Errorf("plan path is required; pass --plan, set PLANCTL_PLAN_PATH, or configure planPath in %s", opts.ConfigPath)
	}
	if f.planFormat != "text" && f.planFormat != "json" {
		return fmt.Errorf("unsupported plan format %q, expected text or json", f.planFormat)
	}
	return nil
}

// readPlanArtifact loads the plan artifact in the resolved format.
func readPlanArtifact(f *commentFlags) (plan.Result, error) {
	if f.planFormat == "json" {
		return plan.ReadJSON(f.planPath)
	}
	return plan.Read(f.planPath)
}
