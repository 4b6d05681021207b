package matching

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/scholarscout/internal/scholarship"
)

func resultWith(id string, score int, provider scholarship.Provider) *Result {
	r := newRecord("Award " + id)
	r.ID = id
	r.Provider = provider
	return &Result{Scholarship: r, Score: score, Reasons: []string{ReasonGeneral}, Gaps: []string{}, Docs: []string{}}
}

func TestSortByScore(t *testing.T) {
	results := &Results{Items: []*Result{
		resultWith("first-gen", 64, scholarship.ProviderUniversity),
		resultWith("stem", 86, scholarship.ProviderUniversity),
		resultWith("innovation", 78, scholarship.ProviderGovernment),
	}}

	results.SortByScore()
	assert.Equal(t, []int{86, 78, 64}, results.Scores())
}

func TestSortByScoreIsStable(t *testing.T) {
	results := &Results{Items: []*Result{
		resultWith("a", 70, scholarship.ProviderOther),
		resultWith("b", 80, scholarship.ProviderOther),
		resultWith("c", 70, scholarship.ProviderOther),
		resultWith("d", 80, scholarship.ProviderOther),
		resultWith("e", 70, scholarship.ProviderOther),
	}}

	results.SortByScore()
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, results.IDs())
}

func TestExcludePreservesOrder(t *testing.T) {
	results := &Results{Items: []*Result{
		resultWith("a", 50, scholarship.ProviderUniversity),
		resultWith("b", 60, scholarship.ProviderGovernment),
		resultWith("c", 70, scholarship.ProviderUniversity),
		resultWith("d", 80, scholarship.ProviderOther),
	}}

	removed := results.Exclude(ResultProviderField, []string{string(scholarship.ProviderUniversity)})
	assert.Equal(t, []string{"a", "c"}, removed)
	assert.Equal(t, []string{"b", "d"}, results.IDs())

	removed = results.Exclude(ResultIDField, []string{"d", "missing"})
	assert.Equal(t, []string{"d"}, removed)
	assert.Equal(t, []string{"b"}, results.IDs())

	assert.Nil(t, results.Exclude(ResultIDField, nil))
}

func TestKeep(t *testing.T) {
	results := &Results{Items: []*Result{
		resultWith("a", 50, scholarship.ProviderOther),
		resultWith("b", 90, scholarship.ProviderOther),
		resultWith("c", 70, scholarship.ProviderOther),
	}}

	removed := results.Keep(func(r *Result) bool { return r.Score >= 70 })
	assert.Equal(t, []string{"a"}, removed)
	assert.Equal(t, []string{"b", "c"}, results.IDs())
	assert.NotNil(t, results.FindByID("c"))
	assert.Nil(t, results.FindByID("a"))
}

func TestReportByProvider(t *testing.T) {
	withAI := resultWith("a", 80, scholarship.ProviderUniversity)
	withAI.AI = &AIAssessment{Fit: true, Score: 0.91, Reason: "Strong program fit", Message: "Hello"}

	withErr := resultWith("b", 60, scholarship.ProviderGovernment)
	withErr.AI = &AIAssessment{Error: "quota exceeded"}

	report := (&Results{Items: []*Result{withAI, withErr}}).ReportByProvider()

	uni := report["university"]
	require.Len(t, uni, 1)
	assert.Equal(t, "80", uni[0]["score"])
	assert.Equal(t, "Strong", uni[0]["tier"])
	assert.Equal(t, "true", uni[0]["ai_fit"])
	assert.Equal(t, "0.91", uni[0]["ai_score"])
	assert.Equal(t, "Strong program fit", uni[0]["ai_reason"])

	gov := report["government"]
	require.Len(t, gov, 1)
	assert.Equal(t, "quota exceeded", gov[0]["ai_error"])
	assert.Equal(t, "Medium", gov[0]["tier"])
	_, ok := gov[0]["ai_fit"]
	assert.False(t, ok)
}

func TestDumpToTmpFile(t *testing.T) {
	results := &Results{Items: []*Result{resultWith("a", 80, scholarship.ProviderUniversity)}}

	name, err := results.DumpToTmpFile()
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.EqualValues(t, 80, decoded[0]["score"])
	assert.Equal(t, []any{}, decoded[0]["docs"])
}

func TestScoreTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Tier
	}{
		{score: 100, want: TierStrong},
		{score: 80, want: TierStrong},
		{score: 79, want: TierMedium},
		{score: 50, want: TierMedium},
		{score: 49, want: TierLow},
		{score: 0, want: TierLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreTier(tt.score), "score %d", tt.score)
		assert.Equal(t, tt.want, (&Result{Score: tt.score}).Tier(), "score %d", tt.score)
	}
}

func TestLabelShowsTier(t *testing.T) {
	r := resultWith("a", 70, scholarship.ProviderUniversity)

	assert.Equal(t, "a  70 Medium Award a / https://example.edu/award", r.Label())
	assert.Empty(t, (*Result)(nil).Label())
}
