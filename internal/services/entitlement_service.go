package services

import "time"

type EntitlementStore interface {
	GetUser(id string) (*User, error)
	GetAttempt(id string) (*QuizAttempt, error)
	// FirstAttemptID returns the user's chronologically first attempt id, or
	// "" when the user has none.
	FirstAttemptID(userID string) (string, error)
	CompletedPaymentForAttempt(attemptID string) (*Payment, error)
	// ClaimFirstReport is a store-level claim-if-unclaimed flip of the user's
	// free-report flag. Exactly one concurrent caller sees true.
	ClaimFirstReport(userID string) (bool, error)
	MarkAttemptUnlocked(attemptID string) (bool, error)
	AddAudit(entry AuditEntry)
}

// EntitlementService decides whether a user may see an attempt's full report.
type EntitlementService struct {
	store EntitlementStore
	now   func() time.Time
}

func NewEntitlementService(store EntitlementStore) *EntitlementService {
	return &EntitlementService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// IsUnlocked evaluates, in order: paid account, a completed payment for this
// attempt, then the one-time first-report-free promotion. The promotion is
// consumed through the store's claim operation, so concurrent duplicate calls
// grant exactly one free unlock; the attempt that consumed the claim stays
// unlocked on re-evaluation.
func (s *EntitlementService) IsUnlocked(userID, attemptID string) (bool, error) {
	if userID == "" || attemptID == "" {
		return false, NewInvalidError("user id and attempt id required")
	}
	u, err := s.store.GetUser(userID)
	if err != nil {
		return false, err
	}
	if u == nil {
		return false, NewUserNotFoundError("user not found")
	}
	a, err := s.store.GetAttempt(attemptID)
	if err != nil {
		return false, err
	}
	if a == nil {
		return false, NewNotFoundError("attempt not found")
	}
	if a.UserID != userID {
		return false, NewForbiddenError("attempt belongs to another user")
	}
	if u.IsPaid {
		return true, nil
	}
	if a.ReportUnlocked {
		return true, nil
	}
	p, err := s.store.CompletedPaymentForAttempt(attemptID)
	if err != nil {
		return false, err
	}
	if p != nil {
		if _, err := s.store.MarkAttemptUnlocked(attemptID); err != nil {
			return false, err
		}
		return true, nil
	}
	first, err := s.store.FirstAttemptID(userID)
	if err != nil {
		return false, err
	}
	if first != attemptID {
		return false, nil
	}
	claimed, err := s.store.ClaimFirstReport(userID)
	if err != nil {
		return false, err
	}
	if claimed {
		if _, err := s.store.MarkAttemptUnlocked(attemptID); err != nil {
			return false, err
		}
		s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "system", Action: "first_report_unlock", Target: attemptID})
	}
	// The free flag is only ever consumed through the first attempt, so a
	// lost claim race still means this attempt holds the free unlock.
	return true, nil
}

// UnlockWithPayment explicitly applies a recorded payment to an attempt.
func (s *EntitlementService) UnlockWithPayment(userID, attemptID string, payment *Payment) error {
	if userID == "" || attemptID == "" {
		return NewInvalidError("user id and attempt id required")
	}
	a, err := s.store.GetAttempt(attemptID)
	if err != nil {
		return err
	}
	if a == nil {
		return NewNotFoundError("attempt not found")
	}
	if a.UserID != userID {
		return NewForbiddenError("attempt belongs to another user")
	}
	if payment == nil {
		return NewNotFoundError("payment not found")
	}
	if payment.UserID != userID {
		return NewForbiddenError("payment belongs to another user")
	}
	if payment.Status != PaymentStatusCompleted {
		return NewPaymentIncompleteError("payment is not completed")
	}
	if _, err := s.store.MarkAttemptUnlocked(attemptID); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "system", Action: "payment_unlock", Target: attemptID, Note: payment.ID})
	return nil
}
