package services

import (
	"sort"
	"sync"
	"testing"
	"time"
)

// stubStore backs the service tests; it implements every service store
// interface with the same conditional-update semantics the real stores have.
type stubStore struct {
	mu         sync.Mutex
	users      map[string]*User
	attempts   map[string]*QuizAttempt
	payments   map[string]*Payment
	audit      []AuditEntry
	claimCalls int
}

func newStubStore() *stubStore {
	return &stubStore{
		users:    map[string]*User{},
		attempts: map[string]*QuizAttempt{},
		payments: map[string]*Payment{},
	}
}

var (
	_ UserStore        = (*stubStore)(nil)
	_ AttemptStore     = (*stubStore)(nil)
	_ EntitlementStore = (*stubStore)(nil)
	_ PaymentStore     = (*stubStore)(nil)
	_ ReportStore      = (*stubStore)(nil)
)

func (s *stubStore) GetUser(id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) FindUserByEmail(email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubStore) InsertUserIfEmailFree(u *User, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email != u.Email {
			continue
		}
		reapable := !existing.IsPaid && existing.ExpiresAt != nil && !existing.ExpiresAt.After(now)
		if !reapable {
			return false, nil
		}
		s.deleteCascade(existing.ID)
	}
	copy := *u
	s.users[u.ID] = &copy
	return true, nil
}

func (s *stubStore) PromoteUser(id string, passHash []byte) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.IsPaid {
		return false, nil
	}
	u.PassHash = append([]byte(nil), passHash...)
	u.IsPaid = true
	u.IsTemporary = false
	u.ExpiresAt = nil
	return true, nil
}

func (s *stubStore) ClaimFirstReport(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claimCalls++
	u, ok := s.users[id]
	if !ok || u.FirstReportUnlocked {
		return false, nil
	}
	u.FirstReportUnlocked = true
	return true, nil
}

func (s *stubStore) ListExpiredUsers(cutoff time.Time, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for id, u := range s.users {
		if !u.IsPaid && u.ExpiresAt != nil && !u.ExpiresAt.After(cutoff) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubStore) DeleteUserCascade(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	s.deleteCascade(id)
	return true, nil
}

func (s *stubStore) deleteCascade(userID string) {
	delete(s.users, userID)
	for id, a := range s.attempts {
		if a.UserID == userID {
			delete(s.attempts, id)
		}
	}
	for id, p := range s.payments {
		if p.UserID == userID {
			delete(s.payments, id)
		}
	}
}

func (s *stubStore) AddAttempt(a *QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *a
	s.attempts[a.ID] = &copy
	return nil
}

func (s *stubStore) GetAttempt(id string) (*QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attempts[id]; ok {
		copy := *a
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) ListAttemptsByUser(userID string) ([]*QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listAttempts(userID), nil
}

func (s *stubStore) listAttempts(userID string) []*QuizAttempt {
	var out []*QuizAttempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			copy := *a
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (s *stubStore) FirstAttemptID(userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.listAttempts(userID)
	if len(all) == 0 {
		return "", nil
	}
	return all[0].ID, nil
}

func (s *stubStore) MarkAttemptUnlocked(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[id]
	if !ok {
		return false, nil
	}
	a.ReportUnlocked = true
	return true, nil
}

func (s *stubStore) AddPayment(p *Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy := *p
	s.payments[p.ID] = &copy
	return nil
}

func (s *stubStore) GetPayment(id string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.payments[id]; ok {
		copy := *p
		return &copy, nil
	}
	return nil, nil
}

func (s *stubStore) CompletedPaymentForUser(userID string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.UserID == userID && p.Status == PaymentStatusCompleted {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubStore) CompletedPaymentForAttempt(attemptID string) (*Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.AttemptID == attemptID && p.Status == PaymentStatusCompleted {
			copy := *p
			return &copy, nil
		}
	}
	return nil, nil
}

func (s *stubStore) AddAudit(entry AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
}

// checkLifecycleInvariant asserts no user record is both temporary and paid.
func checkLifecycleInvariant(t *testing.T, s *stubStore) {
	t.Helper()
	for id, u := range s.users {
		if u.IsTemporary && u.IsPaid {
			t.Fatalf("user %s is both temporary and paid", id)
		}
	}
}

func expectCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	se, ok := AsServiceError(err)
	if !ok {
		t.Fatalf("expected ServiceError, got %v", err)
	}
	if se.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, se.Code, se.Message)
	}
}
