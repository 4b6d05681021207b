package scholarship

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
- id: stem-leadership
  title: Women in STEM Leadership Scholarship
  url: https://example.edu/stem
  provider: university
  country: Canada
  amount: 2500
  eligibility:
    gpaMin: 3
    programKeywords: [engineering, science]
  requirements:
    docs: [Transcript, Resume]
    essays: [Leadership statement]
  rawTextSnippet: Open to undergraduate students in science programs.
- title: Canada Innovation Student Award
  url: https://example.gc.ca/innovation
  provider: gov
  eligibility: {}
  requirements: {}
`

func TestParseYAML(t *testing.T) {
	records, err := Parse([]byte(seedYAML))
	require.NoError(t, err)
	require.Equal(t, 2, records.Len())

	first := records.Items[0]
	assert.Equal(t, "stem-leadership", first.ID)
	assert.Equal(t, ProviderUniversity, first.Provider)
	assert.Equal(t, "2500", first.Amount)
	require.NotNil(t, first.Eligibility.GPAMin)
	assert.InDelta(t, 3.0, *first.Eligibility.GPAMin, 1e-9)
	assert.Equal(t, []string{"engineering", "science"}, first.Eligibility.ProgramKeywords)
	assert.Equal(t, []string{"Transcript", "Resume"}, first.Requirements.Docs)

	second := records.Items[1]
	assert.Equal(t, ProviderGovernment, second.Provider)
	_, err = uuid.Parse(second.ID)
	assert.NoError(t, err, "missing id should be replaced with a uuid")
	require.NotNil(t, second.Eligibility)
	assert.Nil(t, second.Eligibility.GPAMin)
	assert.Equal(t, []string{}, second.Requirements.Docs)
	assert.Equal(t, []string{}, second.Requirements.Essays)
}

func TestParseJSON(t *testing.T) {
	data := `[{"id":"a","title":"Fintech Canada Award","url":"https://example.org/a","provider":"org",
		"eligibility":{"gpaMin":3.25},"requirements":{"docs":[],"essays":["Why fintech?"]}}]`

	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 1, records.Len())
	assert.Equal(t, ProviderOrganization, records.Items[0].Provider)
	assert.InDelta(t, 3.25, *records.Items[0].Eligibility.GPAMin, 1e-9)
}

func TestParseKeepsUnquotedDates(t *testing.T) {
	data := "- title: A\n  url: https://x.edu\n  deadline: 2026-03-01\n  eligibility: {}\n  requirements: {}\n" +
		"- title: B\n  url: https://y.edu\n  deadline: 2026-03-01T10:30:00Z\n  eligibility: {}\n  requirements: {}\n"

	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 2, records.Len())
	assert.Equal(t, "2026-03-01", records.Items[0].Deadline)
	assert.Equal(t, "2026-03-01T10:30:00Z", records.Items[1].Deadline)
}

func TestParseAcceptsLooseOptionalFields(t *testing.T) {
	data := `
- id: 42
  title: Numbered Award
  url: https://example.edu/42
  eligibility: {}
  requirements:
    docs:
    essays: null
`

	records, err := Parse([]byte(data))
	require.NoError(t, err)
	require.Equal(t, 1, records.Len())

	record := records.Items[0]
	assert.Equal(t, "42", record.ID)
	assert.Equal(t, []string{}, record.Requirements.Docs)
	assert.Equal(t, []string{}, record.Requirements.Essays)
}

func TestParseRejectsMalformedRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{
			name: "missing eligibility",
			data: `[{"id":"a","title":"A","url":"u","requirements":{"docs":[]}}]`,
		},
		{
			name: "missing requirements",
			data: `[{"id":"a","title":"A","url":"u","eligibility":{}}]`,
		},
		{
			name: "null eligibility",
			data: `[{"id":"a","title":"A","url":"u","eligibility":null,"requirements":{}}]`,
		},
		{
			name: "gpa is not a number",
			data: `[{"id":"a","title":"A","url":"u","eligibility":{"gpaMin":"high"},"requirements":{}}]`,
		},
		{
			name: "unknown provider",
			data: `[{"id":"a","title":"A","url":"u","provider":"charity","eligibility":{},"requirements":{}}]`,
		},
		{
			name: "duplicate ids",
			data: `[{"id":"a","title":"A","url":"u","eligibility":{},"requirements":{}},
				{"id":"a","title":"B","url":"v","eligibility":{},"requirements":{}}]`,
		},
		{
			name: "not a list",
			data: `{"id":"a"}`,
		},
		{
			name: "scalar item",
			data: `["just a string"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedRecord), "unexpected error: %v", err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scholarships.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	records, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, records.Len())
	assert.NotNil(t, records.FindByID("stem-leadership"))
	assert.Nil(t, records.FindByID("missing"))

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGetExcludedFromFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	excluded, err := GetExcludedFromFile(empty)
	require.NoError(t, err)
	assert.Empty(t, excluded.IDs())

	path := filepath.Join(dir, "exclude.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"items":[{"id":"a","reason":"applied"},{"id":""},{"id":"b"}]}`), 0o600))
	excluded, err = GetExcludedFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, excluded.IDs())
}
