package services

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type stubGate struct {
	unlocked bool
	err      error
}

func (g *stubGate) IsUnlocked(userID, attemptID string) (bool, error) {
	return g.unlocked, g.err
}

type stubInsights struct {
	text  string
	err   error
	calls int
}

func (p *stubInsights) GenerateInsight(resp QuizResponse, model *BusinessModel) (string, error) {
	p.calls++
	return p.text, p.err
}

func seedScoredAttempt(store *stubStore) *QuizAttempt {
	resp := NeutralResponse()
	a := &QuizAttempt{
		ID:        "a1",
		UserID:    "u1",
		Response:  resp,
		Scores:    Score(resp),
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	store.attempts[a.ID] = a
	return a
}

func TestGetReportLockedPreview(t *testing.T) {
	store := newStubStore()
	seedScoredAttempt(store)
	svc := NewReportService(store, &stubGate{unlocked: false}, nil)

	r, err := svc.GetReport("u1", "a1")
	if err != nil {
		t.Fatalf("GetReport error: %v", err)
	}
	if r.Unlocked {
		t.Fatalf("locked report marked unlocked")
	}
	if len(r.Sections) != previewSections {
		t.Fatalf("expected %d preview sections, got %d", previewSections, len(r.Sections))
	}
	for _, sec := range r.Sections {
		if sec.Narrative != "" {
			t.Fatalf("preview section %s carries a narrative", sec.BusinessModelID)
		}
	}
	if r.Sections[0].Rank != 1 {
		t.Fatalf("preview does not start at the top: %+v", r.Sections[0])
	}
}

func TestGetReportUnlockedFallbackNarrative(t *testing.T) {
	store := newStubStore()
	seedScoredAttempt(store)
	svc := NewReportService(store, &stubGate{unlocked: true}, nil)

	r, err := svc.GetReport("u1", "a1")
	if err != nil {
		t.Fatalf("GetReport error: %v", err)
	}
	if !r.Unlocked {
		t.Fatalf("unlocked report marked locked")
	}
	if len(r.Sections) != len(Catalog) {
		t.Fatalf("expected %d sections, got %d", len(Catalog), len(r.Sections))
	}
	for _, sec := range r.Sections {
		if sec.Narrative == "" {
			t.Fatalf("section %s missing narrative", sec.BusinessModelID)
		}
		model := CatalogModel(sec.BusinessModelID)
		if !strings.HasPrefix(sec.Narrative, model.Summary) {
			t.Fatalf("fallback narrative for %s does not build on the summary", sec.BusinessModelID)
		}
	}
}

func TestGetReportUsesInsightProvider(t *testing.T) {
	store := newStubStore()
	seedScoredAttempt(store)
	insights := &stubInsights{text: "tailored advice"}
	svc := NewReportService(store, &stubGate{unlocked: true}, insights)

	r, err := svc.GetReport("u1", "a1")
	if err != nil {
		t.Fatalf("GetReport error: %v", err)
	}
	if insights.calls != len(Catalog) {
		t.Fatalf("expected one insight per section, got %d calls", insights.calls)
	}
	for _, sec := range r.Sections {
		if sec.Narrative != "tailored advice" {
			t.Fatalf("provider text not used for %s: %q", sec.BusinessModelID, sec.Narrative)
		}
	}
}

func TestGetReportInsightFailureFallsBack(t *testing.T) {
	store := newStubStore()
	seedScoredAttempt(store)
	insights := &stubInsights{err: errors.New("upstream down")}
	svc := NewReportService(store, &stubGate{unlocked: true}, insights)

	r, err := svc.GetReport("u1", "a1")
	if err != nil {
		t.Fatalf("report must survive an insight outage: %v", err)
	}
	for _, sec := range r.Sections {
		if sec.Narrative == "" {
			t.Fatalf("section %s lost its narrative on fallback", sec.BusinessModelID)
		}
	}
}

func TestGetReportGateErrorsPassThrough(t *testing.T) {
	store := newStubStore()
	seedScoredAttempt(store)
	svc := NewReportService(store, &stubGate{err: NewForbiddenError("attempt belongs to another user")}, nil)

	_, err := svc.GetReport("u2", "a1")
	expectCode(t, err, ErrorForbidden)
}
