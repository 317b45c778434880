package api

import (
	"github.com/bizmodelai/bizmodelai/internal/services"
)

type entitlementStoreAdapter struct {
	store Store
}

func newEntitlementStoreAdapter(store Store) services.EntitlementStore {
	return &entitlementStoreAdapter{store: store}
}

func (a *entitlementStoreAdapter) GetUser(id string) (*services.User, error) {
	return userToService(a.store.GetUser(id)), nil
}

func (a *entitlementStoreAdapter) GetAttempt(id string) (*services.QuizAttempt, error) {
	return attemptToService(a.store.GetAttempt(id)), nil
}

func (a *entitlementStoreAdapter) FirstAttemptID(userID string) (string, error) {
	return a.store.FirstAttemptID(userID), nil
}

func (a *entitlementStoreAdapter) CompletedPaymentForAttempt(attemptID string) (*services.Payment, error) {
	return paymentToService(a.store.CompletedPaymentForAttempt(attemptID)), nil
}

func (a *entitlementStoreAdapter) ClaimFirstReport(userID string) (bool, error) {
	return a.store.ClaimFirstReport(userID), nil
}

func (a *entitlementStoreAdapter) MarkAttemptUnlocked(attemptID string) (bool, error) {
	return a.store.MarkAttemptUnlocked(attemptID), nil
}

func (a *entitlementStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(auditFromService(e))
}

var _ services.EntitlementStore = (*entitlementStoreAdapter)(nil)
