package web

import (
	"net/http"

	"salesledger/internal/app"
)

// apiDashboard handles GET /api/reports/dashboard.
func (h *Handler) apiDashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Dashboard(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiReconciliation handles GET /api/reports/reconciliation.
func (h *Handler) apiReconciliation(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Reconciliation(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiHistory handles GET /api/reports/history?search=&payment_method=&from=&to=.
func (h *Handler) apiHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.svc.History(r.Context(), app.HistoryRequest{
		Search:        q.Get("search"),
		PaymentMethod: q.Get("payment_method"),
		From:          q.Get("from"),
		To:            q.Get("to"),
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiValuation handles GET /api/reports/valuation.
func (h *Handler) apiValuation(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.InventoryValuation(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
