// Package ghoutput exposes run results to downstream workflow steps through
// the GitHub Actions GITHUB_OUTPUT file.
package ghoutput

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Write appends GitHub Actions outputs to the GITHUB_OUTPUT file when
// available. Multi-line values (e.g. the rendered comment body) are written
// with the heredoc delimiter syntax so they round-trip intact.
func Write(values map[string]string) error {
	path := strings.TrimSpace(os.Getenv("GITHUB_OUTPUT"))
	if path == "" {
		return nil
	}
	if len(values) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	keys := make([]string, 0, len(values))
	for k := range values {
		if strings.TrimSpace(k) == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := values[key]
		if strings.ContainsAny(value, "\r\n") {
			delim := delimiter(key, value)
			if _, err := fmt.Fprintf(f, "%s<<%s\n%s\n%s\n", key, delim, value, delim); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
			return err
		}
	}
	return nil
}

// delimiter picks a heredoc marker that does not occur in the value.
func delimiter(key, value string) string {
	d := "ghoutput_" + key
	for strings.Contains(value, d) {
		d += "_"
	}
	return d
}
