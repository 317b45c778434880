package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bizmodelai/bizmodelai/internal/middleware"
	"github.com/bizmodelai/bizmodelai/internal/services"
)

// RouterConfig carries the optional collaborators the HTTP surface wires into
// the services. Zero values are fine: no notifier means no result emails, no
// insight provider means static report narratives, no admin key means the
// admin endpoints are disabled.
type RouterConfig struct {
	Notifier services.ResultsNotifier
	Insights services.InsightProvider
	AdminKey string
}

type Router struct {
	store    Store
	users    *services.UserService
	attempts *services.AttemptService
	gate     *services.EntitlementService
	payments *services.PaymentService
	reports  *services.ReportService
	adminKey string
}

func NewRouter(store Store, cfg RouterConfig) *Router {
	gate := services.NewEntitlementService(newEntitlementStoreAdapter(store))
	return &Router{
		store:    store,
		users:    services.NewUserService(newUserStoreAdapter(store), middleware.SignToken),
		attempts: services.NewAttemptService(newAttemptStoreAdapter(store), cfg.Notifier),
		gate:     gate,
		payments: services.NewPaymentService(newPaymentStoreAdapter(store)),
		reports:  services.NewReportService(newReportStoreAdapter(store), gate, cfg.Insights),
		adminKey: cfg.AdminKey,
	}
}

// Users returns the user service for out-of-band wiring (reaper cmd).
func (rt *Router) Users() *services.UserService { return rt.users }

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/users/temporary", rt.handleTemporaryUser) // POST
	mux.HandleFunc("/api/users/", rt.handleUserScoped)             // GET /api/users/{id}, POST /api/users/{id}/promote
	mux.HandleFunc("/api/auth/login", rt.handleLogin)              // POST
	mux.HandleFunc("/api/attempts", rt.handleAttempts)             // POST, GET
	mux.HandleFunc("/api/attempts/", rt.handleAttemptScoped)       // GET /api/attempts/{id}, GET /api/attempts/{id}/report
	mux.HandleFunc("/api/payments", rt.handlePayments)             // POST (admin)
	mux.HandleFunc("/api/admin/reap", rt.handleReap)               // POST (admin)
}

// requesterID resolves the calling user: JWT claims for paid accounts, the
// session token header for temporary ones.
func (rt *Router) requesterID(r *http.Request) string {
	if uid, ok := middleware.UserIDFromContext(r.Context()); ok {
		return uid
	}
	if tok := r.Header.Get("X-Session-Token"); tok != "" {
		if u := rt.store.FindUserBySession(tok); u != nil {
			return u.ID
		}
	}
	return ""
}

func (rt *Router) adminOK(r *http.Request) bool {
	return rt.adminKey != "" && r.Header.Get("X-Admin-Key") == rt.adminKey
}

// POST /api/users/temporary — capture an email-only user.
func (rt *Router) handleTemporaryUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u, err := rt.users.CreateTemporaryUser(req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, userFromService(u))
}

// GET /api/users/{id}, POST /api/users/{id}/promote
func (rt *Router) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	uid := rt.requesterID(r)
	switch {
	case len(parts) == 1 && parts[0] != "" && r.Method == http.MethodGet:
		if uid == "" || uid != parts[0] {
			writeServiceError(w, services.NewUnauthorizedError("authentication required"))
			return
		}
		u := rt.store.GetUser(parts[0])
		if u == nil {
			writeServiceError(w, services.NewUserNotFoundError("user not found"))
			return
		}
		writeJSON(w, http.StatusOK, u)
	case len(parts) == 2 && parts[1] == "promote" && r.Method == http.MethodPost:
		if uid == "" || uid != parts[0] {
			writeServiceError(w, services.NewUnauthorizedError("authentication required"))
			return
		}
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		u, err := rt.users.PromoteToPaid(parts[0], req.Password)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, userFromService(u))
	default:
		http.NotFound(w, r)
	}
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.users.Authenticate(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user_id": res.UserID})
}

// POST /api/attempts — submit a quiz. An unauthenticated call may carry an
// email; the attempt then lands on the live temporary user holding it, or a
// fresh one. GET /api/attempts — list the caller's attempts.
func (rt *Router) handleAttempts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req struct {
			Email    string         `json:"email"`
			Response map[string]any `json:"response"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		uid := rt.requesterID(r)
		sessionToken := ""
		if uid == "" {
			if req.Email == "" {
				writeServiceError(w, services.NewUnauthorizedError("authentication or email required"))
				return
			}
			u, err := rt.users.EnsureTemporaryUser(req.Email)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			uid = u.ID
			sessionToken = u.SessionToken
		}
		a, err := rt.attempts.RecordAttempt(uid, req.Response)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := map[string]any{"attempt": attemptFromService(a)}
		if sessionToken != "" {
			out["session_token"] = sessionToken
			out["user_id"] = uid
		}
		writeJSON(w, http.StatusCreated, out)
	case http.MethodGet:
		uid := rt.requesterID(r)
		if uid == "" {
			writeServiceError(w, services.NewUnauthorizedError("authentication required"))
			return
		}
		list, err := rt.attempts.ListAttempts(uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		out := make([]*QuizAttempt, 0, len(list))
		for _, a := range list {
			out = append(out, attemptFromService(a))
		}
		writeJSON(w, http.StatusOK, map[string]any{"attempts": out})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/attempts/{id}, GET /api/attempts/{id}/report
func (rt *Router) handleAttemptScoped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	uid := rt.requesterID(r)
	if uid == "" {
		writeServiceError(w, services.NewUnauthorizedError("authentication required"))
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/attempts/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		a, err := rt.attempts.GetAttempt(parts[0], uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, attemptFromService(a))
	case len(parts) == 2 && parts[1] == "report":
		rep, err := rt.reports.GetReport(uid, parts[0])
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	default:
		http.NotFound(w, r)
	}
}

// POST /api/payments — webhook-style ingestion of settled payment facts,
// guarded by the admin key.
func (rt *Router) handlePayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !rt.adminOK(r) {
		writeServiceError(w, services.NewUnauthorizedError("admin key required"))
		return
	}
	var req struct {
		UserID      string `json:"user_id"`
		AttemptID   string `json:"attempt_id"`
		AmountCents int    `json:"amount_cents"`
		Provider    string `json:"provider"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := rt.payments.RecordPayment(services.RecordPaymentInput{
		UserID:      req.UserID,
		AttemptID:   req.AttemptID,
		AmountCents: req.AmountCents,
		Provider:    req.Provider,
		Status:      req.Status,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, paymentFromService(p))
}

// POST /api/admin/reap — one bounded retention sweep, for the external
// scheduler.
func (rt *Router) handleReap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !rt.adminOK(r) {
		writeServiceError(w, services.NewUnauthorizedError("admin key required"))
		return
	}
	n, err := rt.users.ReapExpired()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reaped": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal", "message": "internal error"})
		return
	}
	writeJSON(w, statusForCode(se.Code), map[string]any{"error": string(se.Code), "message": se.Message})
}

func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.ErrorInvalid, services.ErrorInvalidResponse, services.ErrorDuplicateEmail:
		return http.StatusBadRequest
	case services.ErrorUnauthorized:
		return http.StatusUnauthorized
	case services.ErrorPaymentIncomplete:
		return http.StatusPaymentRequired
	case services.ErrorForbidden, services.ErrorTemporaryLogin:
		return http.StatusForbidden
	case services.ErrorNotFound, services.ErrorUserNotFound:
		return http.StatusNotFound
	case services.ErrorAlreadyPaid:
		return http.StatusConflict
	case services.ErrorBadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
