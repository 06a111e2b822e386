// Package plan reads Terraform plan artifacts and derives the change signal
// that drives comment reconciliation.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	tfjson "github.com/hashicorp/terraform-json"
)

// Result holds the raw plan text and the derived change signal. It is
// produced once per run and immutable afterward.
type Result struct {
	// RawMarkdown is the plan output as it should appear inside the comment.
	RawMarkdown string
	// HasChanges reports whether the plan contains at least one resource
	// create/update/delete/replace action.
	HasChanges bool
}

// ReadError indicates the plan artifact is missing or unreadable.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read plan %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// FormatError indicates the plan artifact content cannot be interpreted as
// plan output.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid plan %q: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// planSummaryRe matches the terraform plan summary line, e.g.
// "Plan: 1 to add, 2 to change, 0 to destroy.".
var planSummaryRe = regexp.MustCompile(`Plan: (\d+) to add, (\d+) to change, (\d+) to destroy`)

// Read loads a textual plan artifact (terraform show -no-color output) and
// derives the change signal from its summary and diff lines.
func Read(path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ReadError{Path: path, Err: err}
	}
	text := strings.TrimRight(string(raw), "\n")
	if strings.TrimSpace(text) == "" {
		return Result{}, &FormatError{Path: path, Err: errors.New("plan output is empty")}
	}
	return Result{RawMarkdown: text, HasChanges: DetectChanges(text)}, nil
}

// ReadJSON loads a structured plan artifact (terraform show -json output),
// derives the change signal from the resource-change actions, and renders a
// compact textual summary for the comment body.
func ReadJSON(path string) (Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ReadError{Path: path, Err: err}
	}
	var p tfjson.Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return Result{}, &FormatError{Path: path, Err: err}
	}
	return Result{RawMarkdown: renderJSONSummary(&p), HasChanges: jsonHasChanges(&p)}, nil
}

// DetectChanges inspects textual plan output for resource-level actions. The
// terraform "No changes." summary wins over any symbol scanning; otherwise a
// non-zero plan summary or an action-prefixed diff line marks the plan as
// changed.
func DetectChanges(text string) bool {
	if strings.Contains(text, "No changes.") || strings.Contains(text, "no changes.") {
		return false
	}
	if m := planSummaryRe.FindStringSubmatch(text); m != nil {
		return m[1] != "0" || m[2] != "0" || m[3] != "0"
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range []string{"+ ", "- ", "~ ", "-/+ ", "+/- "} {
			if strings.HasPrefix(trimmed, prefix) {
				return true
			}
		}
	}
	return false
}

// jsonHasChanges reports whether the structured plan carries at least one
// create/update/delete/replace resource action.
func jsonHasChanges(p *tfjson.Plan) bool {
	for _, rc := range p.ResourceChanges {
		if rc == nil || rc.Change == nil {
			continue
		}
		a := rc.Change.Actions
		if a.Create() || a.Update() || a.Delete() || a.Replace() {
			return true
		}
	}
	return false
}

// renderJSONSummary produces a textual summary of a structured plan in the
// same shape terraform prints, one action line per changed resource followed
// by the plan summary line.
func renderJSONSummary(p *tfjson.Plan) string {
	var adds, changes, destroys int
	var b strings.Builder

	for _, rc := range p.ResourceChanges {
		if rc == nil || rc.Change == nil {
			continue
		}
		a := rc.Change.Actions
		switch {
		case a.Replace():
			fmt.Fprintf(&b, "-/+ %s\n", rc.Address)
			adds++
			destroys++
		case a.Create():
			fmt.Fprintf(&b, "+ %s\n", rc.Address)
			adds++
		case a.Delete():
			fmt.Fprintf(&b, "- %s\n", rc.Address)
			destroys++
		case a.Update():
			fmt.Fprintf(&b, "~ %s\n", rc.Address)
			changes++
		}
	}

	if b.Len() == 0 {
		return "No changes."
	}
	fmt.Fprintf(&b, "\nPlan: %d to add, %d to change, %d to destroy.", adds, changes, destroys)
	return b.String()
}
