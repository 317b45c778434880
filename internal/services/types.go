package services

import "time"

// User is the single record shape behind the guest/temporary/paid lifecycle.
// A guest is never persisted; it becomes a temporary user the moment an email
// is captured, and a paid user exactly once via PromoteToPaid.
type User struct {
	ID                  string
	Email               string
	PassHash            []byte
	IsPaid              bool
	IsTemporary         bool
	SessionToken        string
	ExpiresAt           *time.Time
	FirstReportUnlocked bool
	CreatedAt           time.Time
}

// QuizAttempt is one scored quiz submission owned by a single user.
// Scores are computed at write time and never recomputed afterwards.
type QuizAttempt struct {
	ID             string
	UserID         string
	Response       QuizResponse
	Scores         []BusinessModelScore
	ReportUnlocked bool
	CreatedAt      time.Time
	ExpiresAt      *time.Time
}

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// Payment links a purchase to a report unlock or a general account upgrade.
// Card processing lives with the external provider; only the settled fact is
// recorded here.
type Payment struct {
	ID          string
	UserID      string
	AttemptID   string
	AmountCents int
	Status      string
	Provider    string
	CreatedAt   time.Time
}

// BusinessModelScore is one entry of a ranked fit list.
type BusinessModelScore struct {
	BusinessModelID string  `json:"business_model_id"`
	Name            string  `json:"name"`
	FitScore        float64 `json:"fit_score"`
	Rank            int     `json:"rank"`
}

type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
