package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plan-comment/planctl/internal/comment"
)

// newRenderCommand creates "render", a dry run that formats the plan comment
// and prints it to stdout without talking to GitHub.
func newRenderCommand(opts *Options) *cobra.Command {
	flags := &commentFlags{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the plan comment body to stdout without posting it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			if err := resolveCommentFlags(cmd, opts, flags, false); err != nil {
				return err
			}

			res, err := readPlanArtifact(flags)
			if err != nil {
				return err
			}
			body := comment.Format(res, flags.header, flags.maxSize)

			logger.Debug("rendered plan comment",
				"has_changes", res.HasChanges,
				"truncated", body.Truncated,
				"bytes", len(body.Text()),
			)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), body.Text())
			return err
		},
	}

	addCommentFlags(cmd, flags, false)

	return cmd
}
