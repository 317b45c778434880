package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bizmodelai/bizmodelai/internal/api"
)

// SQLiteStore is the durable api.Store. Every check-then-write mutation runs
// as a guarded UPDATE or inside one transaction, so concurrent requests on the
// same row resolve at the database rather than in handler code.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const userColumns = "id, email, pass_hash, is_paid, is_temporary, session_token, expires_at, first_report_unlocked, created_at"

func scanUser(row interface{ Scan(...any) error }) (*api.User, error) {
	var u api.User
	var passHash []byte
	var isPaid, isTemp, firstFree int64
	var session sql.NullString
	var expires sql.NullTime
	err := row.Scan(&u.ID, &u.Email, &passHash, &isPaid, &isTemp, &session, &expires, &firstFree, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.PassHash = passHash
	u.IsPaid = isPaid != 0
	u.IsTemporary = isTemp != 0
	u.SessionToken = session.String
	u.ExpiresAt = fromNullTime(expires)
	u.FirstReportUnlocked = firstFree != 0
	return &u, nil
}

func (s *SQLiteStore) getUserWhere(where string, args ...any) *api.User {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM users WHERE "+where, args...)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("scan user", err)
		return nil
	}
	return u
}

func (s *SQLiteStore) GetUser(id string) *api.User {
	return s.getUserWhere("id = ?", id)
}

func (s *SQLiteStore) FindUserByEmail(email string) *api.User {
	return s.getUserWhere("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (s *SQLiteStore) FindUserBySession(token string) *api.User {
	if token == "" {
		return nil
	}
	return s.getUserWhere("session_token = ?", token)
}

func (s *SQLiteStore) InsertUserIfEmailFree(u *api.User, now time.Time) bool {
	tx, err := s.db.Begin()
	if err != nil {
		s.logErr("begin insert user", err)
		return false
	}
	defer func() { _ = tx.Rollback() }()

	var existingID string
	var isPaid int64
	var expires sql.NullTime
	err = tx.QueryRow("SELECT id, is_paid, expires_at FROM users WHERE email = ?", u.Email).
		Scan(&existingID, &isPaid, &expires)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// email free
	case err != nil:
		s.logErr("check email", err)
		return false
	default:
		reapable := isPaid == 0 && expires.Valid && !expires.Time.After(now)
		if !reapable {
			return false
		}
		if !deleteCascadeTx(tx, existingID) {
			return false
		}
	}

	_, err = tx.Exec(
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?,?,?)",
		u.ID, u.Email, u.PassHash, boolToInt64(u.IsPaid), boolToInt64(u.IsTemporary),
		toNullString(u.SessionToken), toNullTime(u.ExpiresAt), boolToInt64(u.FirstReportUnlocked), u.CreatedAt,
	)
	if err != nil {
		s.logErr("insert user", err)
		return false
	}
	if err := tx.Commit(); err != nil {
		s.logErr("commit insert user", err)
		return false
	}
	return true
}

func (s *SQLiteStore) PromoteUser(id string, passHash []byte) bool {
	res, err := s.db.Exec(
		"UPDATE users SET pass_hash = ?, is_paid = 1, is_temporary = 0, expires_at = NULL WHERE id = ? AND is_paid = 0",
		passHash, id,
	)
	if err != nil {
		s.logErr("promote user", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) ClaimFirstReport(userID string) bool {
	res, err := s.db.Exec(
		"UPDATE users SET first_report_unlocked = 1 WHERE id = ? AND first_report_unlocked = 0",
		userID,
	)
	if err != nil {
		s.logErr("claim first report", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) ListExpiredUsers(cutoff time.Time, limit int) []string {
	rows, err := s.db.Query(
		"SELECT id FROM users WHERE is_paid = 0 AND expires_at IS NOT NULL AND expires_at <= ? ORDER BY id LIMIT ?",
		cutoff, limit,
	)
	if err != nil {
		s.logErr("list expired users", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			s.logErr("scan expired user", err)
			return out
		}
		out = append(out, id)
	}
	s.logErr("iterate expired users", rows.Err())
	return out
}

func (s *SQLiteStore) DeleteUserCascade(id string) bool {
	tx, err := s.db.Begin()
	if err != nil {
		s.logErr("begin delete user", err)
		return false
	}
	defer func() { _ = tx.Rollback() }()
	if !deleteCascadeTx(tx, id) {
		return false
	}
	if err := tx.Commit(); err != nil {
		s.logErr("commit delete user", err)
		return false
	}
	return true
}

func deleteCascadeTx(tx *sql.Tx, userID string) bool {
	if _, err := tx.Exec("DELETE FROM payments WHERE user_id = ?", userID); err != nil {
		log.Printf("sqlite store: delete payments for %s: %v", userID, err)
		return false
	}
	if _, err := tx.Exec("DELETE FROM quiz_attempts WHERE user_id = ?", userID); err != nil {
		log.Printf("sqlite store: delete attempts for %s: %v", userID, err)
		return false
	}
	res, err := tx.Exec("DELETE FROM users WHERE id = ?", userID)
	if err != nil {
		log.Printf("sqlite store: delete user %s: %v", userID, err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

const attemptColumns = "id, user_id, response, scores, report_unlocked, created_at, expires_at"

func (s *SQLiteStore) AddAttempt(a *api.QuizAttempt) {
	response, err := encodeJSON(a.Response)
	if err != nil {
		s.logErr("encode response", err)
		return
	}
	scores, err := encodeJSON(a.Scores)
	if err != nil {
		s.logErr("encode scores", err)
		return
	}
	_, err = s.db.Exec(
		"INSERT INTO quiz_attempts ("+attemptColumns+") VALUES (?,?,?,?,?,?,?)",
		a.ID, a.UserID, response, scores, boolToInt64(a.ReportUnlocked), a.CreatedAt, toNullTime(a.ExpiresAt),
	)
	s.logErr("insert attempt", err)
}

func scanAttempt(row interface{ Scan(...any) error }) (*api.QuizAttempt, error) {
	var a api.QuizAttempt
	var response, scores string
	var unlocked int64
	var expires sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &response, &scores, &unlocked, &a.CreatedAt, &expires)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(response), &a.Response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &a.Scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	a.ReportUnlocked = unlocked != 0
	a.ExpiresAt = fromNullTime(expires)
	return &a, nil
}

func (s *SQLiteStore) GetAttempt(id string) *api.QuizAttempt {
	row := s.db.QueryRow("SELECT "+attemptColumns+" FROM quiz_attempts WHERE id = ?", id)
	a, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("scan attempt", err)
		return nil
	}
	return a
}

func (s *SQLiteStore) ListAttemptsByUser(userID string) []*api.QuizAttempt {
	rows, err := s.db.Query(
		"SELECT "+attemptColumns+" FROM quiz_attempts WHERE user_id = ? ORDER BY created_at, id",
		userID,
	)
	if err != nil {
		s.logErr("list attempts", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []*api.QuizAttempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			s.logErr("scan attempt row", err)
			return out
		}
		out = append(out, a)
	}
	s.logErr("iterate attempts", rows.Err())
	return out
}

func (s *SQLiteStore) FirstAttemptID(userID string) string {
	var id string
	err := s.db.QueryRow(
		"SELECT id FROM quiz_attempts WHERE user_id = ? ORDER BY created_at, id LIMIT 1",
		userID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ""
	}
	if err != nil {
		s.logErr("first attempt id", err)
		return ""
	}
	return id
}

func (s *SQLiteStore) MarkAttemptUnlocked(attemptID string) bool {
	res, err := s.db.Exec("UPDATE quiz_attempts SET report_unlocked = 1 WHERE id = ?", attemptID)
	if err != nil {
		s.logErr("mark attempt unlocked", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

const paymentColumns = "id, user_id, attempt_id, amount_cents, status, provider, created_at"

func (s *SQLiteStore) AddPayment(p *api.Payment) {
	_, err := s.db.Exec(
		"INSERT INTO payments ("+paymentColumns+") VALUES (?,?,?,?,?,?,?)",
		p.ID, p.UserID, toNullString(p.AttemptID), p.AmountCents, p.Status, toNullString(p.Provider), p.CreatedAt,
	)
	s.logErr("insert payment", err)
}

func scanPayment(row interface{ Scan(...any) error }) (*api.Payment, error) {
	var p api.Payment
	var attemptID, provider sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &attemptID, &p.AmountCents, &p.Status, &provider, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.AttemptID = attemptID.String
	p.Provider = provider.String
	return &p, nil
}

func (s *SQLiteStore) GetPayment(id string) *api.Payment {
	row := s.db.QueryRow("SELECT "+paymentColumns+" FROM payments WHERE id = ?", id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("scan payment", err)
		return nil
	}
	return p
}

func (s *SQLiteStore) CompletedPaymentForAttempt(attemptID string) *api.Payment {
	row := s.db.QueryRow(
		"SELECT "+paymentColumns+" FROM payments WHERE attempt_id = ? AND status = 'completed' ORDER BY created_at LIMIT 1",
		attemptID,
	)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("scan completed payment", err)
		return nil
	}
	return p
}

func (s *SQLiteStore) CompletedPaymentForUser(userID string) *api.Payment {
	row := s.db.QueryRow(
		"SELECT "+paymentColumns+" FROM payments WHERE user_id = ? AND status = 'completed' ORDER BY created_at LIMIT 1",
		userID,
	)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		s.logErr("scan completed payment", err)
		return nil
	}
	return p
}

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	_, err := s.db.Exec(
		"INSERT INTO audit_log (time, actor, action, target, note) VALUES (?,?,?,?,?)",
		e.Time, e.Actor, e.Action, e.Target, toNullString(e.Note),
	)
	s.logErr("insert audit", err)
}

func (s *SQLiteStore) ListAudit() []api.AuditEntry {
	rows, err := s.db.Query("SELECT time, actor, action, target, note FROM audit_log ORDER BY id")
	if err != nil {
		s.logErr("list audit", err)
		return nil
	}
	defer func() { _ = rows.Close() }()
	var out []api.AuditEntry
	for rows.Next() {
		var e api.AuditEntry
		var note sql.NullString
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &e.Target, &note); err != nil {
			s.logErr("scan audit row", err)
			return out
		}
		e.Note = note.String
		out = append(out, e)
	}
	s.logErr("iterate audit", rows.Err())
	return out
}
