package web

import (
	"net/http"

	"salesledger/internal/app"

	"github.com/go-chi/chi/v5"
)

// saleRef extracts the {ref} URL parameter: a numeric sale ID or an invoice number.
func saleRef(r *http.Request) string {
	return chi.URLParam(r, "ref")
}

// apiListSales handles GET /api/sales?status=pending|received|voided&limit=&offset=.
func (h *Handler) apiListSales(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.ListSales(r.Context(), app.ListSalesRequest{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiGetSale handles GET /api/sales/{ref}.
func (h *Handler) apiGetSale(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSale(r.Context(), saleRef(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiCreateSale handles POST /api/sales.
func (h *Handler) apiCreateSale(w http.ResponseWriter, r *http.Request) {
	var req app.CreateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = actorID(r)

	result, err := h.svc.CreateSale(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, result.Sale)
}

// apiUpdateSale handles PATCH /api/sales/{ref}.
func (h *Handler) apiUpdateSale(w http.ResponseWriter, r *http.Request) {
	var req app.UpdateSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = actorID(r)

	result, err := h.svc.UpdateSale(r.Context(), saleRef(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiVoidSale handles POST /api/sales/{ref}/void with body {"reason": "..."}.
func (h *Handler) apiVoidSale(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	result, err := h.svc.VoidSale(r.Context(), saleRef(r), body.Reason, actorID(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiConfirmPayment handles POST /api/sales/{ref}/confirm-payment.
func (h *Handler) apiConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req app.ConfirmPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ActorID = actorID(r)

	result, err := h.svc.ConfirmPayment(r.Context(), saleRef(r), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result.Sale)
}

// apiSaleAudit handles GET /api/sales/{ref}/audit.
func (h *Handler) apiSaleAudit(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetSaleAudit(r.Context(), saleRef(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
