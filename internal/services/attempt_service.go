package services

import (
	"log"
	"time"
)

type AttemptStore interface {
	GetUser(id string) (*User, error)
	AddAttempt(a *QuizAttempt) error
	GetAttempt(id string) (*QuizAttempt, error)
	ListAttemptsByUser(userID string) ([]*QuizAttempt, error)
}

// ResultsNotifier emits the "results ready" email intent. Delivery, templating
// and retries live outside the core; failures here never fail a submission.
type ResultsNotifier interface {
	QueueResultsEmail(to, attemptID string) error
}

type AttemptService struct {
	store    AttemptStore
	notifier ResultsNotifier
	now      func() time.Time
	idGen    func(prefix string, n int) string
}

func NewAttemptService(store AttemptStore, notifier ResultsNotifier) *AttemptService {
	return &AttemptService{
		store:    store,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

// RecordAttempt validates and scores a submission at write time, then persists
// the attempt with the score snapshot. The attempt inherits the owner's
// retention class: unpaid owners pass their expiry on, paid owners none.
func (s *AttemptService) RecordAttempt(userID string, raw map[string]any) (*QuizAttempt, error) {
	if userID == "" {
		return nil, NewInvalidError("user id required")
	}
	u, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUserNotFoundError("user not found")
	}
	resp, err := NormalizeResponse(raw)
	if err != nil {
		return nil, err
	}
	attempt := &QuizAttempt{
		ID:        s.idGen("a", 12),
		UserID:    userID,
		Response:  resp,
		Scores:    Score(resp),
		CreatedAt: s.now(),
	}
	if !u.IsPaid && u.ExpiresAt != nil {
		exp := *u.ExpiresAt
		attempt.ExpiresAt = &exp
	}
	if err := s.store.AddAttempt(attempt); err != nil {
		return nil, err
	}
	if s.notifier != nil && u.Email != "" {
		if err := s.notifier.QueueResultsEmail(u.Email, attempt.ID); err != nil {
			log.Printf("attempt service: queue results email for %s: %v", attempt.ID, err)
		}
	}
	return attempt, nil
}

// GetAttempt enforces ownership on every read; there is no cross-user
// visibility of attempts, shared emails included.
func (s *AttemptService) GetAttempt(id, requestingUserID string) (*QuizAttempt, error) {
	if id == "" || requestingUserID == "" {
		return nil, NewInvalidError("attempt id and user id required")
	}
	a, err := s.store.GetAttempt(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("attempt not found")
	}
	if a.UserID != requestingUserID {
		return nil, NewForbiddenError("attempt belongs to another user")
	}
	return a, nil
}

// ListAttempts returns the owner's attempts in chronological order.
func (s *AttemptService) ListAttempts(userID string) ([]*QuizAttempt, error) {
	if userID == "" {
		return nil, NewInvalidError("user id required")
	}
	return s.store.ListAttemptsByUser(userID)
}
