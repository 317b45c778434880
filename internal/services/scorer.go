package services

import (
	"math"
	"sort"
)

// DimensionTarget declares a business model's ideal answer for one dimension.
// Ratings use the [Low, High] band; choices use Ideal with optional Near
// partial matches; multi dimensions use Ideal as the target set.
type DimensionTarget struct {
	Dimension string
	Weight    float64
	Low, High float64
	Ideal     []string
	Near      []string
}

// BusinessModel is one entry of the fixed scoring catalog.
type BusinessModel struct {
	ID      string
	Name    string
	Summary string
	Targets []DimensionTarget
}

// ratingSpan is the largest possible distance on the 1..5 rating scale.
const ratingSpan = 4.0

const nearChoiceFit = 50.0

// Score ranks the full catalog against a normalized response. Pure and
// deterministic: same response, same output. Missing answers fall back to the
// dimension's neutral default, so scoring never fails once the response shape
// has been validated.
func Score(resp QuizResponse) []BusinessModelScore {
	return ScoreAgainst(resp, Catalog)
}

// ScoreAgainst scores against an explicit catalog. Ties keep catalog
// declaration order.
func ScoreAgainst(resp QuizResponse, catalog []BusinessModel) []BusinessModelScore {
	out := make([]BusinessModelScore, 0, len(catalog))
	for _, bm := range catalog {
		var num, den float64
		for _, t := range bm.Targets {
			num += t.Weight * dimensionFit(resp, t)
			den += t.Weight
		}
		var fit float64
		if den > 0 {
			fit = round2(num / den)
		}
		out = append(out, BusinessModelScore{BusinessModelID: bm.ID, Name: bm.Name, FitScore: fit})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FitScore > out[j].FitScore })
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func dimensionFit(resp QuizResponse, t DimensionTarget) float64 {
	dim, ok := dimensionsByKey[t.Dimension]
	if !ok {
		return 0
	}
	v, ok := resp[t.Dimension]
	if !ok {
		v = defaultAnswer(dim)
	}
	switch dim.Kind {
	case DimRating:
		a, ok := toFloat(v)
		if !ok {
			a = ratingNeutral
		}
		if a >= t.Low && a <= t.High {
			return 100
		}
		dist := t.Low - a
		if a > t.High {
			dist = a - t.High
		}
		fit := 100 * (1 - dist/ratingSpan)
		if fit < 0 {
			return 0
		}
		return fit
	case DimChoice:
		s, _ := v.(string)
		if containsString(t.Ideal, s) {
			return 100
		}
		if containsString(t.Near, s) {
			return nearChoiceFit
		}
		return 0
	case DimMulti:
		if len(t.Ideal) == 0 {
			return 0
		}
		vals, ok := toStringSlice(v)
		if !ok {
			return 0
		}
		hits := 0
		for _, id := range t.Ideal {
			if containsString(vals, id) {
				hits++
			}
		}
		return 100 * float64(hits) / float64(len(t.Ideal))
	}
	return 0
}

// round2 keeps the persisted snapshot stable across float formatting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
