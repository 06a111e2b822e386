package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/plan-comment/planctl/internal/comment"
	"github.com/plan-comment/planctl/internal/ghoutput"
	"github.com/plan-comment/planctl/internal/githubapi"
)

// newCommentCommand creates "comment", the main pipeline: read the plan
// artifact, render the comment body, locate any prior comment by its marker,
// and issue the minimal create/update/skip operation against GitHub.
func newCommentCommand(opts *Options) *cobra.Command {
	flags := &commentFlags{}

	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Post or update the plan comment on a pull request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := LoggerFromContext(cmd.Context())

			if err := resolveCommentFlags(cmd, opts, flags, true); err != nil {
				return err
			}

			res, err := readPlanArtifact(flags)
			if err != nil {
				return err
			}
			body := comment.Format(res, flags.header, flags.maxSize)

			if flags.repo == "" {
				flags.repo = os.Getenv("GITHUB_REPOSITORY")
			}
			if flags.repo == "" {
				return fmt.Errorf("repository is required; pass --repo or set GITHUB_REPOSITORY")
			}
			if flags.pr <= 0 {
				number, err := resolvePullRequestNumber()
				if err != nil {
					return err
				}
				flags.pr = number
			}

			token, err := lookupGitHubToken()
			if err != nil {
				return err
			}
			client, err := githubapi.NewClient(logger, token, flags.repo)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			existingComments, err := client.ListComments(ctx, flags.pr)
			if err != nil {
				return &comment.RemoteError{Operation: "list", Err: err}
			}
			existing := comment.Find(existingComments, body.Marker)

			outcome, err := comment.Reconcile(ctx, client, flags.pr, body, existing, comment.Options{
				SkipOnNoChanges: flags.skipNoChanges,
				HasChanges:      res.HasChanges,
			})
			if err != nil {
				return err
			}

			if err := ghoutput.Write(map[string]string{
				"outcome":     string(outcome.Action),
				"comment_id":  strconv.FormatInt(outcome.CommentID, 10),
				"has_changes": strconv.FormatBool(res.HasChanges),
				"truncated":   strconv.FormatBool(body.Truncated),
				"body":        body.Text(),
			}); err != nil {
				return err
			}

			switch outcome.Action {
			case comment.ActionSkipped:
				logger.Info("plan comment skipped", "reason", outcome.Reason, "pr", flags.pr)
			case comment.ActionCreated:
				logger.Info("plan comment created", "pr", flags.pr, "comment_id", outcome.CommentID, "truncated", body.Truncated)
			case comment.ActionUpdated:
				logger.Info("plan comment updated", "pr", flags.pr, "comment_id", outcome.CommentID, "truncated", body.Truncated)
			}
			return nil
		},
	}

	addCommentFlags(cmd, flags, true)

	return cmd
}
