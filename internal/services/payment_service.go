package services

import "time"

type PaymentStore interface {
	GetUser(id string) (*User, error)
	GetAttempt(id string) (*QuizAttempt, error)
	AddPayment(p *Payment) error
	GetPayment(id string) (*Payment, error)
	MarkAttemptUnlocked(attemptID string) (bool, error)
	AddAudit(entry AuditEntry)
}

type RecordPaymentInput struct {
	UserID      string
	AttemptID   string
	AmountCents int
	Provider    string
	Status      string
}

// PaymentService records settled purchase facts coming from the provider's
// webhook boundary. It never talks to the provider itself.
type PaymentService struct {
	store PaymentStore
	now   func() time.Time
	idGen func(prefix string, n int) string
}

func NewPaymentService(store PaymentStore) *PaymentService {
	return &PaymentService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func(prefix string, n int) string { return prefix + shortID(n) },
	}
}

func (s *PaymentService) RecordPayment(in RecordPaymentInput) (*Payment, error) {
	if in.UserID == "" {
		return nil, NewInvalidError("user_id required")
	}
	if in.AmountCents <= 0 {
		return nil, NewInvalidError("amount_cents must be positive")
	}
	status := in.Status
	if status == "" {
		status = PaymentStatusCompleted
	}
	switch status {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
	default:
		return nil, NewInvalidError("unknown payment status")
	}
	u, err := s.store.GetUser(in.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUserNotFoundError("user not found")
	}
	if in.AttemptID != "" {
		a, err := s.store.GetAttempt(in.AttemptID)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return nil, NewNotFoundError("attempt not found")
		}
		if a.UserID != in.UserID {
			return nil, NewForbiddenError("attempt belongs to another user")
		}
	}
	p := &Payment{
		ID:          s.idGen("p", 12),
		UserID:      in.UserID,
		AttemptID:   in.AttemptID,
		AmountCents: in.AmountCents,
		Status:      status,
		Provider:    in.Provider,
		CreatedAt:   s.now(),
	}
	if err := s.store.AddPayment(p); err != nil {
		return nil, err
	}
	if p.Status == PaymentStatusCompleted && p.AttemptID != "" {
		if _, err := s.store.MarkAttemptUnlocked(p.AttemptID); err != nil {
			return nil, err
		}
	}
	s.store.AddAudit(AuditEntry{Time: p.CreatedAt, Actor: "provider:" + in.Provider, Action: "record_payment", Target: p.ID, Note: status})
	return p, nil
}

func (s *PaymentService) GetPayment(id, requestingUserID string) (*Payment, error) {
	if id == "" || requestingUserID == "" {
		return nil, NewInvalidError("payment id and user id required")
	}
	p, err := s.store.GetPayment(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, NewNotFoundError("payment not found")
	}
	if p.UserID != requestingUserID {
		return nil, NewForbiddenError("payment belongs to another user")
	}
	return p, nil
}
