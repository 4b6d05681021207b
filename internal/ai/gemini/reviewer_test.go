package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/matching"
	"github.com/spigell/scholarscout/internal/profile"
	"github.com/spigell/scholarscout/internal/scholarship"
)

type stubGenerator struct {
	response    string
	err         error
	lastSystem  string
	lastMessage string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.lastSystem = system
	s.lastMessage = message
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func scoredResult() *matching.Result {
	return &matching.Result{
		Scholarship: &scholarship.Record{
			ID:           "s-1",
			Title:        "Tech Futures Award",
			URL:          "https://example.edu/tech",
			Provider:     scholarship.ProviderUniversity,
			Eligibility:  &scholarship.Eligibility{ProgramKeywords: []string{"computer"}},
			Requirements: &scholarship.Requirements{Docs: []string{"Transcript"}, Essays: []string{}},
		},
		Score:   70,
		Reasons: []string{matching.ReasonKeywordAlignment},
		Gaps:    []string{},
		Docs:    []string{"Transcript"},
	}
}

func TestReviewerEvaluate(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 0.9, "reason": "Matches program", "message": "I study CS."}`}
	reviewer := NewReviewer(stub, 0.5, 0, zap.NewNop())

	p := &profile.Profile{Program: "Computer Science", Country: "Canada", Demographics: "first-generation"}

	assessment, err := reviewer.Evaluate(context.Background(), p, scoredResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !assessment.Fit || assessment.Score != 0.9 {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
	if assessment.Message != "I study CS." || assessment.Reason != "Matches program" {
		t.Fatalf("unexpected texts: %+v", assessment)
	}
	if assessment.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}
	if stub.lastSystem != systemPrompt || !strings.Contains(stub.lastSystem, "personal statement") {
		t.Fatalf("expected embedded system prompt")
	}

	var sent reviewRequest
	if err := json.Unmarshal([]byte(stub.lastMessage), &sent); err != nil {
		t.Fatalf("message is not json: %v", err)
	}
	if sent.Profile.Program != "Computer Science" || sent.Engine.Score != 70 {
		t.Fatalf("unexpected message: %s", stub.lastMessage)
	}
	if sent.Profile.Demographics != "" {
		t.Fatalf("demographics must not be sent while disabled")
	}
}

func TestReviewerSendsDemographicsWhenEnabled(t *testing.T) {
	stub := &stubGenerator{response: `{"fit": true, "score": 1}`}
	reviewer := NewReviewer(stub, 0, 0, nil)

	p := &profile.Profile{Program: "Biology", DemographicsEnabled: true, Demographics: " first-generation "}
	if _, err := reviewer.Evaluate(context.Background(), p, scoredResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastMessage, `"demographics": "first-generation"`) {
		t.Fatalf("expected demographics in message: %s", stub.lastMessage)
	}
}

func TestReviewerAppliesScoreThreshold(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"fit\": \"yes\", \"score\": \"0.3\", \"reason\": \"weak\"}\n```"}
	reviewer := NewReviewer(stub, 0.5, 0, zap.NewNop())

	assessment, err := reviewer.Evaluate(context.Background(), &profile.Profile{}, scoredResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Fit {
		t.Fatalf("expected fit to be reset below threshold")
	}
	if assessment.Score != 0.3 {
		t.Fatalf("unexpected score %v", assessment.Score)
	}
}

func TestReviewerErrors(t *testing.T) {
	tests := []struct {
		name   string
		stub   *stubGenerator
		p      *profile.Profile
		result *matching.Result
	}{
		{name: "generator error", stub: &stubGenerator{err: errors.New("boom")}, p: &profile.Profile{}, result: scoredResult()},
		{name: "not json", stub: &stubGenerator{response: "sure, it fits"}, p: &profile.Profile{}, result: scoredResult()},
		{name: "nil profile", stub: &stubGenerator{response: "{}"}, result: scoredResult()},
		{name: "nil result", stub: &stubGenerator{response: "{}"}, p: &profile.Profile{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviewer := NewReviewer(tt.stub, 0, 0, zap.NewNop())
			if _, err := reviewer.Evaluate(context.Background(), tt.p, tt.result); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCoerceHelpers(t *testing.T) {
	if !coerceBool("True") || coerceBool("no") || !coerceBool(1.0) {
		t.Fatal("unexpected coerceBool result")
	}
	if coerceString(nil) != "" || coerceString(" x ") != "x" || coerceString([]any{"a"}) != `["a"]` {
		t.Fatal("unexpected coerceString result")
	}
	if got := extractJSON("```\n{\"a\":1}\n```"); got != `{"a":1}` {
		t.Fatalf("unexpected extractJSON result %q", got)
	}
}
