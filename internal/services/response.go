package services

import "fmt"

// Dimension kinds. Ratings are 1..5, choices pick one option, multi picks any
// subset of the options.
const (
	DimRating = "rating"
	DimChoice = "choice"
	DimMulti  = "multi"
)

// Dimension describes one question key of the quiz. Every dimension has a
// neutral default so the scorer never fails on missing optional answers.
type Dimension struct {
	Key     string
	Kind    string
	Options []string
	Default any
}

// ratingNeutral is the midpoint of the 1..5 scale.
const ratingNeutral = 3.0

// Dimensions is the fixed question registry. Keys match the quiz the frontend
// ships; the scorer only ever sees normalized values for these keys.
var Dimensions = []Dimension{
	{Key: "mainMotivation", Kind: DimChoice, Options: []string{"financial-freedom", "passive-income", "creative-outlet", "career-change", "side-income"}, Default: "side-income"},
	{Key: "weeklyTimeCommitment", Kind: DimRating, Default: ratingNeutral},
	{Key: "techSkillsRating", Kind: DimRating, Default: ratingNeutral},
	{Key: "riskComfortLevel", Kind: DimRating, Default: ratingNeutral},
	{Key: "selfMotivationLevel", Kind: DimRating, Default: ratingNeutral},
	{Key: "creativeWorkEnjoyment", Kind: DimRating, Default: ratingNeutral},
	{Key: "directCommunicationEnjoyment", Kind: DimRating, Default: ratingNeutral},
	{Key: "organizationLevel", Kind: DimRating, Default: ratingNeutral},
	{Key: "brandFaceComfort", Kind: DimRating, Default: ratingNeutral},
	{Key: "learningPreference", Kind: DimChoice, Options: []string{"hands-on", "watching-videos", "reading-research", "structured-courses"}, Default: "hands-on"},
	{Key: "workStructurePreference", Kind: DimChoice, Options: []string{"clear-steps", "flexible-framework", "full-autonomy"}, Default: "flexible-framework"},
	{Key: "longTermConsistency", Kind: DimRating, Default: ratingNeutral},
	{Key: "upfrontInvestment", Kind: DimRating, Default: ratingNeutral},
	{Key: "passiveIncomePreference", Kind: DimRating, Default: ratingNeutral},
	{Key: "socialMediaInterest", Kind: DimRating, Default: ratingNeutral},
	{Key: "salesComfort", Kind: DimRating, Default: ratingNeutral},
	{Key: "writingEnjoyment", Kind: DimRating, Default: ratingNeutral},
	{Key: "analyticalThinking", Kind: DimRating, Default: ratingNeutral},
	{Key: "collaborationPreference", Kind: DimChoice, Options: []string{"solo", "small-team", "community"}, Default: "solo"},
	{Key: "platformsUsed", Kind: DimMulti, Options: []string{"instagram", "tiktok", "youtube", "linkedin", "twitter", "none"}, Default: []string{"none"}},
}

var dimensionsByKey = func() map[string]Dimension {
	m := make(map[string]Dimension, len(Dimensions))
	for _, d := range Dimensions {
		m[d.Key] = d
	}
	return m
}()

// QuizResponse maps question keys to normalized answers: float64 for ratings,
// string for choices, []string for multi. Immutable once recorded.
type QuizResponse map[string]any

// NormalizeResponse validates the raw answer map and fills neutral defaults
// for missing keys. Unknown keys and wrongly typed or out-of-range values are
// structural errors; missing optional answers are not.
func NormalizeResponse(raw map[string]any) (QuizResponse, error) {
	out := make(QuizResponse, len(Dimensions))
	for k, v := range raw {
		dim, ok := dimensionsByKey[k]
		if !ok {
			return nil, NewInvalidResponseError(fmt.Sprintf("unknown question key %q", k))
		}
		nv, err := normalizeAnswer(dim, v)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	for _, dim := range Dimensions {
		if _, ok := out[dim.Key]; !ok {
			out[dim.Key] = defaultAnswer(dim)
		}
	}
	return out, nil
}

// NeutralResponse returns the all-defaults response used as the scoring
// baseline fixture.
func NeutralResponse() QuizResponse {
	r, _ := NormalizeResponse(nil)
	return r
}

func defaultAnswer(dim Dimension) any {
	if dim.Kind == DimMulti {
		if s, ok := dim.Default.([]string); ok {
			return append([]string(nil), s...)
		}
		return []string{}
	}
	return dim.Default
}

func normalizeAnswer(dim Dimension, v any) (any, error) {
	switch dim.Kind {
	case DimRating:
		f, ok := toFloat(v)
		if !ok {
			return nil, NewInvalidResponseError(fmt.Sprintf("%s: expected a number", dim.Key))
		}
		if f < 1 || f > 5 {
			return nil, NewInvalidResponseError(fmt.Sprintf("%s: rating %v out of range 1..5", dim.Key, v))
		}
		return f, nil
	case DimChoice:
		s, ok := v.(string)
		if !ok {
			return nil, NewInvalidResponseError(fmt.Sprintf("%s: expected a string", dim.Key))
		}
		if !containsString(dim.Options, s) {
			return nil, NewInvalidResponseError(fmt.Sprintf("%s: unknown option %q", dim.Key, s))
		}
		return s, nil
	case DimMulti:
		vals, ok := toStringSlice(v)
		if !ok {
			return nil, NewInvalidResponseError(fmt.Sprintf("%s: expected a string array", dim.Key))
		}
		for _, s := range vals {
			if !containsString(dim.Options, s) {
				return nil, NewInvalidResponseError(fmt.Sprintf("%s: unknown option %q", dim.Key, s))
			}
		}
		return vals, nil
	}
	return nil, NewInvalidResponseError(fmt.Sprintf("%s: unsupported dimension kind", dim.Key))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func toStringSlice(v any) ([]string, bool) {
	switch vals := v.(type) {
	case []string:
		return append([]string(nil), vals...), true
	case []any:
		out := make([]string, 0, len(vals))
		for _, e := range vals {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func containsString(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
