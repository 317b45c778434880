package api

import (
	"github.com/bizmodelai/bizmodelai/internal/services"
)

type paymentStoreAdapter struct {
	store Store
}

func newPaymentStoreAdapter(store Store) services.PaymentStore {
	return &paymentStoreAdapter{store: store}
}

func (a *paymentStoreAdapter) GetUser(id string) (*services.User, error) {
	return userToService(a.store.GetUser(id)), nil
}

func (a *paymentStoreAdapter) GetAttempt(id string) (*services.QuizAttempt, error) {
	return attemptToService(a.store.GetAttempt(id)), nil
}

func (a *paymentStoreAdapter) AddPayment(p *services.Payment) error {
	if p == nil {
		return services.NewInvalidError("payment required")
	}
	a.store.AddPayment(paymentFromService(p))
	return nil
}

func (a *paymentStoreAdapter) GetPayment(id string) (*services.Payment, error) {
	return paymentToService(a.store.GetPayment(id)), nil
}

func (a *paymentStoreAdapter) MarkAttemptUnlocked(attemptID string) (bool, error) {
	return a.store.MarkAttemptUnlocked(attemptID), nil
}

func (a *paymentStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(auditFromService(e))
}

var _ services.PaymentStore = (*paymentStoreAdapter)(nil)

func paymentToService(p *Payment) *services.Payment {
	if p == nil {
		return nil
	}
	return &services.Payment{
		ID:          p.ID,
		UserID:      p.UserID,
		AttemptID:   p.AttemptID,
		AmountCents: p.AmountCents,
		Status:      p.Status,
		Provider:    p.Provider,
		CreatedAt:   p.CreatedAt,
	}
}

func paymentFromService(p *services.Payment) *Payment {
	if p == nil {
		return nil
	}
	return &Payment{
		ID:          p.ID,
		UserID:      p.UserID,
		AttemptID:   p.AttemptID,
		AmountCents: p.AmountCents,
		Status:      p.Status,
		Provider:    p.Provider,
		CreatedAt:   p.CreatedAt,
	}
}
