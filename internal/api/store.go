package api

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	PassHash            []byte     `json:"-"`
	IsPaid              bool       `json:"is_paid"`
	IsTemporary         bool       `json:"is_temporary"`
	SessionToken        string     `json:"session_token,omitempty"`
	ExpiresAt           *time.Time `json:"expires_at,omitempty"`
	FirstReportUnlocked bool       `json:"first_report_unlocked"`
	CreatedAt           time.Time  `json:"created_at"`
}

type ModelScore struct {
	BusinessModelID string  `json:"business_model_id"`
	Name            string  `json:"name"`
	FitScore        float64 `json:"fit_score"`
	Rank            int     `json:"rank"`
}

type QuizAttempt struct {
	ID             string         `json:"id"`
	UserID         string         `json:"user_id"`
	Response       map[string]any `json:"response"`
	Scores         []ModelScore   `json:"scores"`
	ReportUnlocked bool           `json:"report_unlocked"`
	CreatedAt      time.Time      `json:"created_at"`
	ExpiresAt      *time.Time     `json:"expires_at,omitempty"`
}

type Payment struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	AttemptID   string    `json:"attempt_id,omitempty"`
	AmountCents int       `json:"amount_cents"`
	Status      string    `json:"status"`
	Provider    string    `json:"provider,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

type memoryStore struct {
	mu        sync.RWMutex
	users     map[string]*User
	bySession map[string]string
	attempts  map[string]*QuizAttempt
	payments  map[string]*Payment
	audit     []AuditEntry
}

func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:     map[string]*User{},
		bySession: map[string]string{},
		attempts:  map[string]*QuizAttempt{},
		payments:  map[string]*Payment{},
		audit:     []AuditEntry{},
	}
}

func (s *memoryStore) GetUser(id string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.users[id])
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u)
		}
	}
	return nil
}

func (s *memoryStore) FindUserBySession(token string) *User {
	if token == "" {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.bySession[token]; ok {
		return cloneUser(s.users[id])
	}
	return nil
}

func (s *memoryStore) InsertUserIfEmailFree(u *User, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if !strings.EqualFold(existing.Email, u.Email) {
			continue
		}
		reapable := !existing.IsPaid && existing.ExpiresAt != nil && !existing.ExpiresAt.After(now)
		if !reapable {
			return false
		}
		s.deleteCascadeLocked(existing.ID)
	}
	cp := cloneUser(u)
	s.users[cp.ID] = cp
	if cp.SessionToken != "" {
		s.bySession[cp.SessionToken] = cp.ID
	}
	return true
}

func (s *memoryStore) PromoteUser(id string, passHash []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.IsPaid {
		return false
	}
	u.PassHash = append([]byte(nil), passHash...)
	u.IsPaid = true
	u.IsTemporary = false
	u.ExpiresAt = nil
	return true
}

func (s *memoryStore) ClaimFirstReport(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok || u.FirstReportUnlocked {
		return false
	}
	u.FirstReportUnlocked = true
	return true
}

func (s *memoryStore) ListExpiredUsers(cutoff time.Time, limit int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
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
	return out
}

func (s *memoryStore) DeleteUserCascade(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	s.deleteCascadeLocked(id)
	return true
}

func (s *memoryStore) deleteCascadeLocked(userID string) {
	if u, ok := s.users[userID]; ok && u.SessionToken != "" {
		delete(s.bySession, u.SessionToken)
	}
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

func (s *memoryStore) AddAttempt(a *QuizAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[a.ID] = cloneAttempt(a)
}

func (s *memoryStore) GetAttempt(id string) *QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAttempt(s.attempts[id])
}

func (s *memoryStore) ListAttemptsByUser(userID string) []*QuizAttempt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listAttemptsLocked(userID)
}

func (s *memoryStore) listAttemptsLocked(userID string) []*QuizAttempt {
	var out []*QuizAttempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, cloneAttempt(a))
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

func (s *memoryStore) FirstAttemptID(userID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.listAttemptsLocked(userID)
	if len(all) == 0 {
		return ""
	}
	return all[0].ID
}

func (s *memoryStore) MarkAttemptUnlocked(attemptID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[attemptID]
	if !ok {
		return false
	}
	a.ReportUnlocked = true
	return true
}

func (s *memoryStore) AddPayment(p *Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.payments[p.ID] = &cp
}

func (s *memoryStore) GetPayment(id string) *Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.payments[id]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *memoryStore) CompletedPaymentForAttempt(attemptID string) *Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.AttemptID == attemptID && p.Status == "completed" {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (s *memoryStore) CompletedPaymentForUser(userID string) *Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.payments {
		if p.UserID == userID && p.Status == "completed" {
			cp := *p
			return &cp
		}
	}
	return nil
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.PassHash = append([]byte(nil), u.PassHash...)
	if u.ExpiresAt != nil {
		t := *u.ExpiresAt
		cp.ExpiresAt = &t
	}
	return &cp
}

func cloneAttempt(a *QuizAttempt) *QuizAttempt {
	if a == nil {
		return nil
	}
	cp := *a
	if a.Response != nil {
		cp.Response = make(map[string]any, len(a.Response))
		for k, v := range a.Response {
			cp.Response[k] = v
		}
	}
	cp.Scores = append([]ModelScore(nil), a.Scores...)
	if a.ExpiresAt != nil {
		t := *a.ExpiresAt
		cp.ExpiresAt = &t
	}
	return &cp
}
