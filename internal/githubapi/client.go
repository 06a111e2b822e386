// Package githubapi wraps the GitHub REST API for pull request comments.
package githubapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/plan-comment/planctl/internal/comment"
)

// Client talks to the GitHub issue comment API for a single repository.
// Pull request comments live on the issue comment endpoints.
type Client struct {
	logger *slog.Logger
	gh     *github.Client
	owner  string
	name   string
}

// NewClient builds a Client for an owner/repo slug authenticated with token.
func NewClient(logger *slog.Logger, token, repo string) (*Client, error) {
	repo = strings.TrimSpace(repo)
	if repo == "" {
		return nil, fmt.Errorf("repository is empty")
	}
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return nil, fmt.Errorf("invalid repository slug %q, expected owner/repo", repo)
	}
	gh := github.NewClient(nil).WithAuthToken(token)
	return &Client{logger: logger, gh: gh, owner: parts[0], name: parts[1]}, nil
}

// NewClientFromGitHub wraps an already constructed go-github client. Used by
// tests and GitHub Enterprise setups that configure their own base URL.
func NewClientFromGitHub(logger *slog.Logger, gh *github.Client, owner, name string) *Client {
	return &Client{logger: logger, gh: gh, owner: owner, name: name}
}

// ListComments returns all issue comments on the pull request in creation
// order (oldest first), following pagination.
func (c *Client) ListComments(ctx context.Context, number int) ([]comment.Existing, error) {
	if number <= 0 {
		return nil, fmt.Errorf("pull request number must be positive")
	}

	opts := &github.IssueListCommentsOptions{
		Sort:        github.String("created"),
		Direction:   github.String("asc"),
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var out []comment.Existing
	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, c.owner, c.name, number, opts)
		if err != nil {
			return nil, fmt.Errorf("list comments for PR %d: %w", number, err)
		}
		for _, ic := range comments {
			out = append(out, comment.Existing{ID: ic.GetID(), Body: ic.GetBody()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if c.logger != nil {
		c.logger.Debug("listed pull request comments",
			"repo", c.owner+"/"+c.name,
			"pr", number,
			"count", len(out),
		)
	}
	return out, nil
}

// CreateComment attaches a new comment to the pull request and returns its ID.
func (c *Client) CreateComment(ctx context.Context, number int, body string) (int64, error) {
	ic, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.name, number, &github.IssueComment{Body: &body})
	if err != nil {
		return 0, fmt.Errorf("create comment on PR %d: %w", number, err)
	}
	if c.logger != nil {
		c.logger.Debug("created pull request comment", "pr", number, "comment_id", ic.GetID())
	}
	return ic.GetID(), nil
}

// UpdateComment replaces the body of an existing comment.
func (c *Client) UpdateComment(ctx context.Context, id int64, body string) error {
	_, _, err := c.gh.Issues.EditComment(ctx, c.owner, c.name, id, &github.IssueComment{Body: &body})
	if err != nil {
		return fmt.Errorf("update comment %d: %w", id, err)
	}
	if c.logger != nil {
		c.logger.Debug("updated pull request comment", "comment_id", id)
	}
	return nil
}
