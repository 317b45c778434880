package api

import "time"

type Store interface {
	GetUser(id string) *User
	FindUserByEmail(email string) *User
	FindUserBySession(token string) *User
	// InsertUserIfEmailFree inserts u unless a live user holds the email. An
	// expired unpaid user on the same email is replaced, dependents included,
	// in the same operation.
	InsertUserIfEmailFree(u *User, now time.Time) bool
	// PromoteUser flips an unpaid user to paid in one guarded update.
	PromoteUser(id string, passHash []byte) bool
	// ClaimFirstReport flips the free-report flag if still unclaimed. Exactly
	// one concurrent caller sees true.
	ClaimFirstReport(userID string) bool
	ListExpiredUsers(cutoff time.Time, limit int) []string
	DeleteUserCascade(id string) bool

	AddAttempt(a *QuizAttempt)
	GetAttempt(id string) *QuizAttempt
	ListAttemptsByUser(userID string) []*QuizAttempt
	FirstAttemptID(userID string) string
	MarkAttemptUnlocked(attemptID string) bool

	AddPayment(p *Payment)
	GetPayment(id string) *Payment
	CompletedPaymentForAttempt(attemptID string) *Payment
	CompletedPaymentForUser(userID string) *Payment

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)
