package services

import "log"

// previewSections is how much of the ranking a locked report shows.
const previewSections = 3

// InsightProvider generates a per-model narrative for an unlocked report.
// Unavailability must never block report delivery; callers fall back to the
// catalog's static text.
type InsightProvider interface {
	GenerateInsight(resp QuizResponse, model *BusinessModel) (string, error)
}

// UnlockGate is the entitlement decision the report service consults.
type UnlockGate interface {
	IsUnlocked(userID, attemptID string) (bool, error)
}

type ReportStore interface {
	GetAttempt(id string) (*QuizAttempt, error)
}

type ReportSection struct {
	BusinessModelID string  `json:"business_model_id"`
	Name            string  `json:"name"`
	FitScore        float64 `json:"fit_score"`
	Rank            int     `json:"rank"`
	Narrative       string  `json:"narrative,omitempty"`
}

type Report struct {
	AttemptID string          `json:"attempt_id"`
	Unlocked  bool            `json:"unlocked"`
	Sections  []ReportSection `json:"sections"`
}

type ReportService struct {
	store    ReportStore
	gate     UnlockGate
	insights InsightProvider
}

func NewReportService(store ReportStore, gate UnlockGate, insights InsightProvider) *ReportService {
	return &ReportService{store: store, gate: gate, insights: insights}
}

// GetReport returns the full narrated report when the gate allows it, and a
// top-of-ranking preview otherwise. The gate carries the ownership and
// existence checks.
func (s *ReportService) GetReport(userID, attemptID string) (*Report, error) {
	unlocked, err := s.gate.IsUnlocked(userID, attemptID)
	if err != nil {
		return nil, err
	}
	a, err := s.store.GetAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("attempt not found")
	}
	report := &Report{AttemptID: attemptID, Unlocked: unlocked}
	scores := a.Scores
	if !unlocked && len(scores) > previewSections {
		scores = scores[:previewSections]
	}
	for _, sc := range scores {
		section := ReportSection{
			BusinessModelID: sc.BusinessModelID,
			Name:            sc.Name,
			FitScore:        sc.FitScore,
			Rank:            sc.Rank,
		}
		if unlocked {
			section.Narrative = s.narrative(a.Response, sc)
		}
		report.Sections = append(report.Sections, section)
	}
	return report, nil
}

func (s *ReportService) narrative(resp QuizResponse, sc BusinessModelScore) string {
	model := CatalogModel(sc.BusinessModelID)
	if model == nil {
		return ""
	}
	if s.insights != nil {
		text, err := s.insights.GenerateInsight(resp, model)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			log.Printf("report service: insight fallback for %s: %v", sc.BusinessModelID, err)
		}
	}
	return fallbackNarrative(model, sc)
}

func fallbackNarrative(model *BusinessModel, sc BusinessModelScore) string {
	switch {
	case sc.FitScore >= 80:
		return model.Summary + " Your answers line up strongly with this path."
	case sc.FitScore >= 60:
		return model.Summary + " Your answers are a reasonable match; expect a few rough edges."
	default:
		return model.Summary + " Based on your answers this path would work against your preferences."
	}
}
