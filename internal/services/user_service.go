package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TemporaryRetention is how long email-only users and their quiz data are kept.
const TemporaryRetention = 90 * 24 * time.Hour

// DefaultReapBatch bounds how many expired users one reap round trip loads,
// so the store never holds long transactions over unbounded row sets.
const DefaultReapBatch = 200

type UserStore interface {
	GetUser(id string) (*User, error)
	FindUserByEmail(email string) (*User, error)
	// InsertUserIfEmailFree atomically inserts u unless a live user already
	// holds the email. An expired unpaid user counts as free and is replaced
	// together with its dependents in the same operation.
	InsertUserIfEmailFree(u *User, now time.Time) (bool, error)
	// PromoteUser conditionally flips an unpaid user to paid, setting the
	// password hash and clearing the temporary flag and expiry in one guarded
	// update. Returns false when the user is missing or already paid.
	PromoteUser(id string, passHash []byte) (bool, error)
	ListExpiredUsers(cutoff time.Time, limit int) ([]string, error)
	// DeleteUserCascade removes a user with all attempts and payments, all or
	// nothing.
	DeleteUserCascade(id string) (bool, error)
	// CompletedPaymentForUser returns any completed payment on record for the
	// user, or nil. Pending and failed payments do not count.
	CompletedPaymentForUser(userID string) (*Payment, error)
	AddAudit(entry AuditEntry)
}

type TokenSigner func(uid, email string, ttl time.Duration) (string, error)

type AuthResult struct {
	Token  string
	UserID string
}

type UserService struct {
	store     UserStore
	now       func() time.Time
	idGen     func(prefix string, n int) string
	signToken TokenSigner
	tokenTTL  time.Duration
	reapBatch int
}

func NewUserService(store UserStore, signer TokenSigner) *UserService {
	return &UserService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		idGen:     func(prefix string, n int) string { return prefix + shortID(n) },
		signToken: signer,
		tokenTTL:  30 * 24 * time.Hour,
		reapBatch: DefaultReapBatch,
	}
}

func shortID(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > 0 && n < len(s) {
		return s[:n]
	}
	return s
}

// SetReapBatch overrides the reap batch size (cmd wiring).
func (s *UserService) SetReapBatch(n int) {
	if n > 0 {
		s.reapBatch = n
	}
}

// CreateTemporaryUser captures an email-only user with the 90-day retention
// clock running.
func (s *UserService) CreateTemporaryUser(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewInvalidError("valid email required")
	}
	now := s.now()
	exp := now.Add(TemporaryRetention)
	u := &User{
		ID:           s.idGen("u", 12),
		Email:        email,
		IsTemporary:  true,
		SessionToken: shortID(32),
		ExpiresAt:    &exp,
		CreatedAt:    now,
	}
	ok, err := s.store.InsertUserIfEmailFree(u, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, NewDuplicateEmailError("email already registered")
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: "system", Action: "create_temporary_user", Target: u.ID})
	return u, nil
}

// EnsureTemporaryUser resolves a quiz submission that only carries an email:
// reuse the live temporary user holding it, or create a fresh one. A paid
// account on the email must log in instead.
func (s *UserService) EnsureTemporaryUser(email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewInvalidError("valid email required")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if !existing.IsTemporary {
			return nil, NewDuplicateEmailError("account exists for this email, log in instead")
		}
		if existing.ExpiresAt == nil || existing.ExpiresAt.After(s.now()) {
			return existing, nil
		}
		// expired temporary user: fall through, the insert replaces it
	}
	u, err := s.CreateTemporaryUser(email)
	if err != nil {
		// a concurrent first submission may have won the insert between the
		// lookup and here; the loser lands on the winner's user
		if se, ok := AsServiceError(err); ok && se.Code == ErrorDuplicateEmail {
			winner, ferr := s.store.FindUserByEmail(email)
			if ferr == nil && winner != nil && winner.IsTemporary {
				return winner, nil
			}
		}
		return nil, err
	}
	return u, nil
}

// PromoteToPaid upgrades a user exactly once: password hash set, paid flag on,
// temporary flag and expiry cleared atomically at the store. The upgrade is
// gated on a completed payment already being on record for the user; the
// session token alone must never be enough to reach the paid state.
func (s *UserService) PromoteToPaid(userID, password string) (*User, error) {
	if userID == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("user id and password required")
	}
	u, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUserNotFoundError("user not found")
	}
	if u.IsPaid {
		return nil, NewAlreadyPaidError("user is already paid")
	}
	paid, err := s.store.CompletedPaymentForUser(userID)
	if err != nil {
		return nil, err
	}
	if paid == nil {
		return nil, NewPaymentIncompleteError("no completed payment on record for this user")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	ok, err := s.store.PromoteUser(userID, hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		// a concurrent request won the guarded update
		return nil, NewAlreadyPaidError("user is already paid")
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: "system", Action: "promote_to_paid", Target: userID, Note: paid.ID})
	promoted, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if promoted == nil {
		return nil, NewUserNotFoundError("user not found")
	}
	return promoted, nil
}

// Authenticate verifies a password login. Temporary users get a distinct,
// user-facing error so the frontend can route them to finish signup rather
// than tell them the password is wrong.
func (s *UserService) Authenticate(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email and password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if u.IsTemporary {
		return nil, NewTemporaryLoginError("this email has quiz results but no account yet, complete signup to log in")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID}, nil
}

// ReapExpired deletes expired unpaid users with their attempts and payments,
// one bounded batch at a time. A partial failure leaves the remainder for the
// next scheduled run; the expiry predicate is stable to re-evaluate.
func (s *UserService) ReapExpired() (int, error) {
	now := s.now()
	total := 0
	for {
		ids, err := s.store.ListExpiredUsers(now, s.reapBatch)
		if err != nil {
			return total, err
		}
		for _, id := range ids {
			ok, err := s.store.DeleteUserCascade(id)
			if err != nil {
				return total, err
			}
			if ok {
				total++
			}
		}
		if len(ids) < s.reapBatch {
			break
		}
	}
	if total > 0 {
		s.store.AddAudit(AuditEntry{Time: now, Actor: "reaper", Action: "reap_expired", Target: "users", Note: "deleted " + strconv.Itoa(total)})
	}
	return total, nil
}
