package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"salesledger/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options configures the HTTP adapter.
type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	Logger         *zap.Logger
}

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
	logger    *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		svc:       svc,
		jwtSecret: opts.JWTSecret,
		logger:    logger.Named("http"),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(ClientAddr)
	r.Use(Logger(h.logger))
	r.Use(Recoverer(h.logger))
	r.Use(CORS(opts.AllowedOrigins))
	r.NotFound(notFoundHandler)

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.With(RequestBodyLimit(1<<16)).Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API routes (return 401 JSON if unauthenticated) ────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// ── Inventory ─────────────────────────────────────────────────────────
		r.Get("/api/inventory", h.apiListItems)
		r.Post("/api/inventory", h.apiCreateItem)
		r.Get("/api/inventory/{id}", h.apiGetItem)
		r.Patch("/api/inventory/{id}", h.apiUpdateItem)
		r.Post("/api/inventory/{id}/adjust", h.apiAdjustStock)
		r.Get("/api/inventory/{id}/movements", h.apiListMovements)

		// ── Customers ─────────────────────────────────────────────────────────
		r.Get("/api/customers", h.apiListCustomers)
		r.Post("/api/customers", h.apiCreateCustomer)

		// ── Sales ─────────────────────────────────────────────────────────────
		r.Get("/api/sales", h.apiListSales)
		r.Post("/api/sales", h.apiCreateSale)
		r.Get("/api/sales/{ref}", h.apiGetSale)
		r.Patch("/api/sales/{ref}", h.apiUpdateSale)
		r.Post("/api/sales/{ref}/void", h.apiVoidSale)
		r.Post("/api/sales/{ref}/confirm-payment", h.apiConfirmPayment)
		r.Get("/api/sales/{ref}/audit", h.apiSaleAudit)

		// ── Reports ───────────────────────────────────────────────────────────
		r.Get("/api/reports/dashboard", h.apiDashboard)
		r.Get("/api/reports/reconciliation", h.apiReconciliation)
		r.Get("/api/reports/history", h.apiHistory)
		r.Get("/api/reports/valuation", h.apiValuation)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v and returns false + writes an appropriate
// error response on failure. Returns HTTP 413 when the body exceeds the size limit set
// by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// intParam parses a positive integer URL parameter, writing 400 on failure.
func intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || v <= 0 {
		writeError(w, r, "invalid "+name, "BAD_REQUEST", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}
