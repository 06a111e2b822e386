package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePlanFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadWithChanges(t *testing.T) {
	text := "Terraform will perform the following actions:\n\n" +
		"  ~ update resource X\n\n" +
		"Plan: 0 to add, 1 to change, 0 to destroy.\n"
	res, err := Read(writePlanFile(t, text))
	require.NoError(t, err)

	assert.True(t, res.HasChanges)
	assert.Contains(t, res.RawMarkdown, "~ update resource X")
}

func TestReadNoChanges(t *testing.T) {
	res, err := Read(writePlanFile(t, "No changes. Your infrastructure matches the configuration.\n"))
	require.NoError(t, err)
	assert.False(t, res.HasChanges)
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.txt"))
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(writePlanFile(t, "  \n\n"))
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestDetectChanges(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "no changes summary",
			text: "No changes. Your infrastructure matches the configuration.",
			want: false,
		},
		{
			name: "zero plan summary",
			text: "Plan: 0 to add, 0 to change, 0 to destroy.",
			want: false,
		},
		{
			name: "non-zero plan summary",
			text: "Plan: 1 to add, 0 to change, 0 to destroy.",
			want: true,
		},
		{
			name: "update line without summary",
			text: "~ update resource X",
			want: true,
		},
		{
			name: "replace line",
			text: "-/+ aws_instance.web (new resource required)",
			want: true,
		},
		{
			name: "prose only",
			text: "Refreshing state... done.",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectChanges(tt.text))
		})
	}
}

func TestReadJSONWithChanges(t *testing.T) {
	content := `{
		"format_version": "1.2",
		"resource_changes": [
			{"address": "aws_instance.web", "change": {"actions": ["update"]}},
			{"address": "aws_s3_bucket.logs", "change": {"actions": ["no-op"]}}
		]
	}`
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	res, err := ReadJSON(path)
	require.NoError(t, err)

	assert.True(t, res.HasChanges)
	assert.Contains(t, res.RawMarkdown, "~ aws_instance.web")
	assert.NotContains(t, res.RawMarkdown, "aws_s3_bucket.logs")
	assert.Contains(t, res.RawMarkdown, "Plan: 0 to add, 1 to change, 0 to destroy.")
}

func TestReadJSONNoChanges(t *testing.T) {
	content := `{
		"format_version": "1.2",
		"resource_changes": [
			{"address": "aws_instance.web", "change": {"actions": ["no-op"]}}
		]
	}`
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	res, err := ReadJSON(path)
	require.NoError(t, err)

	assert.False(t, res.HasChanges)
	assert.Equal(t, "No changes.", res.RawMarkdown)
}

func TestReadJSONReplaceCountsBothWays(t *testing.T) {
	content := `{
		"format_version": "1.2",
		"resource_changes": [
			{"address": "aws_instance.web", "change": {"actions": ["delete", "create"]}}
		]
	}`
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	res, err := ReadJSON(path)
	require.NoError(t, err)

	assert.True(t, res.HasChanges)
	assert.Contains(t, res.RawMarkdown, "-/+ aws_instance.web")
	assert.Contains(t, res.RawMarkdown, "Plan: 1 to add, 0 to change, 1 to destroy.")
}

func TestReadJSONInvalidContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.json")
	require.NoError(t, os.WriteFile(path, []byte("[not a plan]"), 0o600))

	_, err := ReadJSON(path)
	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestReadJSONMissingFile(t *testing.T) {
	_, err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"))
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
}
