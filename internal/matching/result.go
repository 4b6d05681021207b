package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spigell/scholarscout/internal/scholarship"
)

const (
	ResultIDField       = "ID"
	ResultProviderField = "Provider"
)

// Tier is the coarse band a score falls into when presented.
type Tier string

const (
	TierStrong Tier = "Strong"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"

	StrongTierScore = 80
	MediumTierScore = 50
)

// ScoreTier returns Strong from 80, Medium from 50 and Low below that.
func ScoreTier(score int) Tier {
	switch {
	case score >= StrongTierScore:
		return TierStrong
	case score >= MediumTierScore:
		return TierMedium
	default:
		return TierLow
	}
}

// Result is the engine output for one profile and scholarship pair.
type Result struct {
	Scholarship *scholarship.Record `json:"scholarship"`
	Score       int                 `json:"score"`
	Reasons     []string            `json:"why"`
	Gaps        []string            `json:"gaps"`
	Docs        []string            `json:"docs"`
	AI          *AIAssessment       `json:"ai,omitempty"`
}

// AIAssessment is an advisory review attached after scoring. It never changes Score.
type AIAssessment struct {
	Fit     bool    `json:"fit"`
	Score   float64 `json:"score"`
	Reason  string  `json:"reason,omitempty"`
	Message string  `json:"message,omitempty"`
	Raw     string  `json:"raw,omitempty"`
	Error   string  `json:"error,omitempty"`
}

type Results struct {
	Items []*Result
}

func (r *Result) ID() string {
	if r == nil || r.Scholarship == nil {
		return ""
	}
	return r.Scholarship.ID
}

func (r *Result) Tier() Tier {
	return ScoreTier(r.Score)
}

func (r *Result) GetStringField(name string) string {
	switch name {
	case ResultIDField:
		return r.ID()
	case ResultProviderField:
		if r.Scholarship == nil {
			return ""
		}
		return string(r.Scholarship.Provider)
	default:
		return ""
	}
}

func (r *Results) Len() int {
	return len(r.Items)
}

func (r *Results) FindByID(id string) *Result {
	for _, result := range r.Items {
		if result.ID() == id {
			return result
		}
	}
	return nil
}

func (r *Results) IDs() []string {
	ids := make([]string, 0, len(r.Items))
	for _, result := range r.Items {
		ids = append(ids, result.ID())
	}
	return ids
}

func (r *Results) Scores() []int {
	scores := make([]int, 0, len(r.Items))
	for _, result := range r.Items {
		scores = append(scores, result.Score)
	}
	return scores
}

// SortByScore orders results by score descending. Equal scores keep their encounter order.
func (r *Results) SortByScore() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Score > r.Items[j].Score
	})
}

// Exclude removes results whose field matches one of targets and returns the removed ids.
// The order of the remaining results is preserved.
func (r *Results) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		drop[target] = struct{}{}
	}

	var excluded []string
	kept := r.Items[:0]
	for _, result := range r.Items {
		if _, ok := drop[result.GetStringField(name)]; ok {
			excluded = append(excluded, result.ID())
			continue
		}
		kept = append(kept, result)
	}
	clear(r.Items[len(kept):])
	r.Items = kept

	return excluded
}

// Keep retains only results accepted by keep and returns the removed ids, preserving order.
func (r *Results) Keep(keep func(*Result) bool) []string {
	var excluded []string
	kept := r.Items[:0]
	for _, result := range r.Items {
		if !keep(result) {
			excluded = append(excluded, result.ID())
			continue
		}
		kept = append(kept, result)
	}
	clear(r.Items[len(kept):])
	r.Items = kept

	return excluded
}

func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "scholarships_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByProvider groups a printable summary of results by provider category.
func (r *Results) ReportByProvider() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, result := range r.Items {
		s := result.Scholarship
		key := string(s.Provider)
		entry := map[string]string{
			"title":    s.Title,
			"url":      s.URL,
			"score":    strconv.Itoa(result.Score),
			"tier":     string(result.Tier()),
			"why":      strings.Join(result.Reasons, "; "),
			"gaps":     strings.Join(result.Gaps, "; "),
			"docs":     strings.Join(result.Docs, ", "),
			"deadline": s.Deadline,
			"amount":   s.Amount,
		}
		if ai := result.AI; ai != nil {
			if ai.Error != "" {
				entry["ai_error"] = ai.Error
			} else {
				entry["ai_fit"] = strconv.FormatBool(ai.Fit)
				entry["ai_score"] = strconv.FormatFloat(ai.Score, 'f', -1, 64)
				entry["ai_reason"] = ai.Reason
				entry["ai_message"] = ai.Message
			}
		}
		report[key] = append(report[key], entry)
	}
	return report
}

// Label is a one-line description used in menus and logs.
func (r *Result) Label() string {
	if r == nil || r.Scholarship == nil {
		return ""
	}
	return fmt.Sprintf("%s %3d %-6s %s / %s", r.ID(), r.Score, r.Tier(), r.Scholarship.Title, r.Scholarship.URL)
}
