package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/scholarscout/internal/ai"
	"github.com/spigell/scholarscout/internal/matching"
	"github.com/spigell/scholarscout/internal/profile"
	"github.com/spigell/scholarscout/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

// Reviewer asks Gemini for an advisory fit assessment of an engine result.
type Reviewer struct {
	generator contentGenerator
	minScore  float64
	logger    *zap.Logger
	maxLogLen int
}

func NewReviewer(generator contentGenerator, minScore float64, maxLogLength int, logger *zap.Logger) *Reviewer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Reviewer{
		generator: generator,
		minScore:  minScore,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

type reviewProfile struct {
	Program      string `json:"program"`
	GPARange     string `json:"gpaRange,omitempty"`
	Country      string `json:"country,omitempty"`
	Year         string `json:"year,omitempty"`
	Demographics string `json:"demographics,omitempty"`
	Interests    string `json:"interests,omitempty"`
}

type reviewRequest struct {
	Profile     reviewProfile    `json:"profile"`
	Scholarship any              `json:"scholarship"`
	Engine      reviewEngineView `json:"engine"`
}

type reviewEngineView struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
	Gaps    []string `json:"gaps"`
}

var _ ai.Reviewer = (*Reviewer)(nil)

func (r *Reviewer) Evaluate(ctx context.Context, p *profile.Profile, result *matching.Result) (*ai.FitAssessment, error) {
	if p == nil {
		return nil, fmt.Errorf("profile is required")
	}
	if result == nil || result.Scholarship == nil {
		return nil, fmt.Errorf("scored scholarship is required")
	}

	message, err := buildMessage(p, result)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini review request",
		zap.String("scholarship_id", result.ID()),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gemini review response",
		zap.String("scholarship_id", result.ID()),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, r.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	if r.minScore > 0 && assessment.Score < r.minScore {
		r.logger.Debug("set fit to false by score threshold",
			zap.String("scholarship_id", result.ID()),
			zap.Float64("score", assessment.Score),
			zap.Float64("threshold", r.minScore),
		)
		assessment.Fit = false
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildMessage(p *profile.Profile, result *matching.Result) (string, error) {
	req := reviewRequest{
		Profile: reviewProfile{
			Program:      strings.TrimSpace(p.Program),
			GPARange:     string(p.GPARange),
			Country:      strings.TrimSpace(p.Country),
			Year:         string(p.Year),
			Demographics: p.EffectiveDemographics(),
			Interests:    strings.TrimSpace(p.Interests),
		},
		Scholarship: result.Scholarship,
		Engine: reviewEngineView{
			Score:   result.Score,
			Reasons: result.Reasons,
			Gaps:    result.Gaps,
		},
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal review request: %w", err)
	}
	return string(data), nil
}

func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		score = 0
	}

	return &ai.FitAssessment{
		Fit:     coerceBool(data["fit"]),
		Score:   score,
		Reason:  coerceString(data["reason"]),
		Message: coerceString(data["message"]),
	}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		lower := strings.ToLower(strings.TrimSpace(val))
		return lower == "true" || lower == "yes"
	case float64:
		return val != 0
	default:
		return false
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
