package api

import (
	"github.com/bizmodelai/bizmodelai/internal/services"
)

type attemptStoreAdapter struct {
	store Store
}

func newAttemptStoreAdapter(store Store) services.AttemptStore {
	return &attemptStoreAdapter{store: store}
}

func (a *attemptStoreAdapter) GetUser(id string) (*services.User, error) {
	return userToService(a.store.GetUser(id)), nil
}

func (a *attemptStoreAdapter) AddAttempt(at *services.QuizAttempt) error {
	if at == nil {
		return services.NewInvalidError("attempt required")
	}
	a.store.AddAttempt(attemptFromService(at))
	return nil
}

func (a *attemptStoreAdapter) GetAttempt(id string) (*services.QuizAttempt, error) {
	return attemptToService(a.store.GetAttempt(id)), nil
}

func (a *attemptStoreAdapter) ListAttemptsByUser(userID string) ([]*services.QuizAttempt, error) {
	list := a.store.ListAttemptsByUser(userID)
	out := make([]*services.QuizAttempt, 0, len(list))
	for _, at := range list {
		out = append(out, attemptToService(at))
	}
	return out, nil
}

var _ services.AttemptStore = (*attemptStoreAdapter)(nil)

func attemptToService(a *QuizAttempt) *services.QuizAttempt {
	if a == nil {
		return nil
	}
	out := &services.QuizAttempt{
		ID:             a.ID,
		UserID:         a.UserID,
		Response:       services.QuizResponse(a.Response),
		Scores:         scoresToService(a.Scores),
		ReportUnlocked: a.ReportUnlocked,
		CreatedAt:      a.CreatedAt,
	}
	if a.ExpiresAt != nil {
		t := *a.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}

func attemptFromService(a *services.QuizAttempt) *QuizAttempt {
	if a == nil {
		return nil
	}
	out := &QuizAttempt{
		ID:             a.ID,
		UserID:         a.UserID,
		Response:       map[string]any(a.Response),
		Scores:         scoresFromService(a.Scores),
		ReportUnlocked: a.ReportUnlocked,
		CreatedAt:      a.CreatedAt,
	}
	if a.ExpiresAt != nil {
		t := *a.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}

func scoresToService(in []ModelScore) []services.BusinessModelScore {
	out := make([]services.BusinessModelScore, 0, len(in))
	for _, s := range in {
		out = append(out, services.BusinessModelScore{BusinessModelID: s.BusinessModelID, Name: s.Name, FitScore: s.FitScore, Rank: s.Rank})
	}
	return out
}

func scoresFromService(in []services.BusinessModelScore) []ModelScore {
	out := make([]ModelScore, 0, len(in))
	for _, s := range in {
		out = append(out, ModelScore{BusinessModelID: s.BusinessModelID, Name: s.Name, FitScore: s.FitScore, Rank: s.Rank})
	}
	return out
}
