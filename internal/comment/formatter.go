// Package comment implements the sticky pull request comment: rendering the
// plan output into a bounded body, recovering a previously posted comment by
// its identity marker, and issuing the minimal create/update operation.
package comment

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/plan-comment/planctl/internal/plan"
)

const (
	// DefaultHeader labels the comment when no header is configured.
	DefaultHeader = "Terraform plan"
	// DefaultMaxSize is the largest body GitHub accepts for an issue comment.
	DefaultMaxSize = 65536

	markerPrefix = "<!-- planctl:"
	markerSuffix = " -->"

	fenceOpen  = "```diff\n"
	fenceClose = "\n```\n"

	truncationNotice = "\n> Plan output exceeded the maximum comment size and was truncated. The full plan is available in the workflow log."

	noChangesText = "No changes."
)

// Marker derives the stable identity marker for a configured header. The
// header is hashed rather than embedded verbatim so that two distinct headers
// can never produce the same marker and the marker itself survives markdown
// rendering invisibly inside an HTML comment.
func Marker(header string) string {
	if header == "" {
		header = DefaultHeader
	}
	sum := sha256.Sum256([]byte(header))
	return fmt.Sprintf("%s%x%s", markerPrefix, sum, markerSuffix)
}

// Body is a rendered comment ready to be posted to the review request.
type Body struct {
	// Marker is the identity marker embedded in the first line.
	Marker string
	// Header is the human-readable heading below the marker.
	Header string
	// Content is the fenced plan block, including any truncation notice.
	Content string
	// Truncated reports whether the plan output was cut to fit the budget.
	Truncated bool
}

// prefix returns the marker and heading lines that are never truncated.
func (b Body) prefix() string {
	return b.Marker + "\n## " + b.Header + "\n\n"
}

// Text assembles the full comment body as posted to the review request.
func (b Body) Text() string {
	return b.prefix() + b.Content
}

// Format renders plan output into a comment body whose total size does not
// exceed budget bytes. The marker and header are always kept intact; when the
// assembled body would be too large the plan text is cut head-preserving and
// a visible truncation notice is appended after the closed fence.
func Format(res plan.Result, header string, budget int) Body {
	if header == "" {
		header = DefaultHeader
	}
	if budget <= 0 {
		budget = DefaultMaxSize
	}

	text := strings.TrimRight(res.RawMarkdown, "\n")
	if strings.TrimSpace(text) == "" {
		text = noChangesText
	}

	body := Body{Marker: Marker(header), Header: header}
	content := fenceOpen + text + fenceClose

	if len(body.prefix())+len(content) > budget {
		avail := budget - len(body.prefix()) - len(fenceOpen) - len(fenceClose) - len(truncationNotice)
		if avail < 0 {
			avail = 0
		}
		if avail > len(text) {
			avail = len(text)
		}
		// Never cut in the middle of a multi-byte rune.
		for avail > 0 && avail < len(text) && !utf8.RuneStart(text[avail]) {
			avail--
		}
		content = fenceOpen + text[:avail] + fenceClose + truncationNotice
		body.Truncated = true
	}

	body.Content = content
	return body
}
