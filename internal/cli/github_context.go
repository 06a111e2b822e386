package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// ghEvent mirrors the subset of the GitHub Actions event payload needed to
// locate the target pull request across pull_request, issue_comment and
// workflow_dispatch triggers.
type ghEvent struct {
	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
	Issue struct {
		Number      int `json:"number"`
		PullRequest *struct {
			URL string `json:"url"`
		} `json:"pull_request"`
	} `json:"issue"`
	// Number covers workflow_dispatch runs that pass the PR number as an input.
	Number int `json:"number"`
}

// resolvePullRequestNumber extracts the pull request number from the workflow
// event payload referenced by GITHUB_EVENT_PATH.
func resolvePullRequestNumber() (int, error) {
	path := strings.TrimSpace(os.Getenv("GITHUB_EVENT_PATH"))
	if path == "" {
		return 0, fmt.Errorf("pull request number is required; pass --pr or run inside GitHub Actions with GITHUB_EVENT_PATH set")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read event payload %q: %w", path, err)
	}

	var ev ghEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return 0, fmt.Errorf("decode event payload %q: %w", path, err)
	}

	switch {
	case ev.PullRequest.Number > 0:
		return ev.PullRequest.Number, nil
	case ev.Issue.PullRequest != nil && ev.Issue.Number > 0:
		return ev.Issue.Number, nil
	case ev.Number > 0:
		return ev.Number, nil
	}
	return 0, fmt.Errorf("event payload %q does not reference a pull request", path)
}

// lookupGitHubToken returns the first configured GitHub token.
func lookupGitHubToken() (string, error) {
	candidates := []string{
		os.Getenv("PLANCTL_GITHUB_TOKEN"),
		os.Getenv("GH_TOKEN"),
		os.Getenv("GITHUB_TOKEN"),
	}
	for _, v := range candidates {
		if strings.TrimSpace(v) != "" {
			return v, nil
		}
	}
	return "", fmt.Errorf("GitHub token is required; set PLANCTL_GITHUB_TOKEN or GH_TOKEN or GITHUB_TOKEN")
}
