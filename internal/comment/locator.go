package comment

import "strings"

// Existing is a snapshot of a comment fetched from the review request at
// reconciliation time. It is never cached across runs.
type Existing struct {
	// ID is the remote comment identifier.
	ID int64
	// Body is the raw markdown body of the comment.
	Body string
}

// Find scans comments in creation order (oldest first) and returns the first
// one whose body contains the marker as a substring, or nil when none match.
// When duplicates exist (e.g. from a race or manual copying) the earliest one
// always wins, so repeated runs converge on updating a single comment instead
// of oscillating between them. A nil result signals "create" to the caller,
// not an error.
func Find(existing []Existing, marker string) *Existing {
	if marker == "" {
		return nil
	}
	for i := range existing {
		if strings.Contains(existing[i].Body, marker) {
			return &existing[i]
		}
	}
	return nil
}
