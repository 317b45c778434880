package api

import (
	"time"

	"github.com/bizmodelai/bizmodelai/internal/services"
)

type userStoreAdapter struct {
	store Store
}

func newUserStoreAdapter(store Store) services.UserStore {
	return &userStoreAdapter{store: store}
}

func (a *userStoreAdapter) GetUser(id string) (*services.User, error) {
	return userToService(a.store.GetUser(id)), nil
}

func (a *userStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	return userToService(a.store.FindUserByEmail(email)), nil
}

func (a *userStoreAdapter) InsertUserIfEmailFree(u *services.User, now time.Time) (bool, error) {
	if u == nil {
		return false, services.NewInvalidError("user required")
	}
	return a.store.InsertUserIfEmailFree(userFromService(u), now), nil
}

func (a *userStoreAdapter) PromoteUser(id string, passHash []byte) (bool, error) {
	return a.store.PromoteUser(id, passHash), nil
}

func (a *userStoreAdapter) ListExpiredUsers(cutoff time.Time, limit int) ([]string, error) {
	return a.store.ListExpiredUsers(cutoff, limit), nil
}

func (a *userStoreAdapter) DeleteUserCascade(id string) (bool, error) {
	return a.store.DeleteUserCascade(id), nil
}

func (a *userStoreAdapter) CompletedPaymentForUser(userID string) (*services.Payment, error) {
	return paymentToService(a.store.CompletedPaymentForUser(userID)), nil
}

func (a *userStoreAdapter) AddAudit(e services.AuditEntry) {
	a.store.AddAudit(auditFromService(e))
}

var _ services.UserStore = (*userStoreAdapter)(nil)

func userToService(u *User) *services.User {
	if u == nil {
		return nil
	}
	out := &services.User{
		ID:                  u.ID,
		Email:               u.Email,
		PassHash:            append([]byte(nil), u.PassHash...),
		IsPaid:              u.IsPaid,
		IsTemporary:         u.IsTemporary,
		SessionToken:        u.SessionToken,
		FirstReportUnlocked: u.FirstReportUnlocked,
		CreatedAt:           u.CreatedAt,
	}
	if u.ExpiresAt != nil {
		t := *u.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}

func userFromService(u *services.User) *User {
	if u == nil {
		return nil
	}
	out := &User{
		ID:                  u.ID,
		Email:               u.Email,
		PassHash:            append([]byte(nil), u.PassHash...),
		IsPaid:              u.IsPaid,
		IsTemporary:         u.IsTemporary,
		SessionToken:        u.SessionToken,
		FirstReportUnlocked: u.FirstReportUnlocked,
		CreatedAt:           u.CreatedAt,
	}
	if u.ExpiresAt != nil {
		t := *u.ExpiresAt
		out.ExpiresAt = &t
	}
	return out
}

func auditFromService(e services.AuditEntry) AuditEntry {
	return AuditEntry{Time: e.Time, Actor: e.Actor, Action: e.Action, Target: e.Target, Note: e.Note}
}
