package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/service"
)

// OrderHandler handles HTTP requests for order and order form endpoints.
type OrderHandler struct {
	orders *service.OrderService
	entry  *service.EntryService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *service.OrderService, entry *service.EntryService) *OrderHandler {
	return &OrderHandler{orders: orders, entry: entry}
}

// submitOrderRequest is the JSON request body for POST /api/orders.
type submitOrderRequest struct {
	InstrumentID string `json:"instrument_id"`
	Side         string `json:"side"`
	Amount       string `json:"amount"`
	Total        string `json:"total"`
}

type orderResponse struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Crypto    string  `json:"crypto"`
	Price     float64 `json:"price"`
	Amount    float64 `json:"amount"`
	Total     float64 `json:"total"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}

type formState struct {
	Side       string  `json:"side"`
	Amount     string  `json:"amount"`
	Total      string  `json:"total"`
	Percentage float64 `json:"percentage"`
}

type formEdit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// entryRequest is the JSON request body for POST /api/trade/{id}/entry.
type entryRequest struct {
	State formState `json:"state"`
	Edit  formEdit  `json:"edit"`
}

type balancesResponse struct {
	Instrument float64 `json:"instrument"`
	Quote      float64 `json:"quote"`
}

type entryResponse struct {
	InstrumentID string           `json:"instrument_id"`
	Symbol       string           `json:"symbol"`
	Price        float64          `json:"price"`
	Balances     balancesResponse `json:"balances"`
	State        formState        `json:"state"`
	Ready        bool             `json:"ready"`
	Problem      string           `json:"problem,omitempty"`
}

func buildOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:        o.ID,
		Type:      string(o.Type),
		Crypto:    o.Crypto,
		Price:     o.Price,
		Amount:    o.Amount,
		Total:     o.Total,
		Status:    string(o.Status),
		Timestamp: o.Timestamp.UTC().Format(time.RFC3339),
	}
}

func buildOrderResponses(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = buildOrderResponse(o)
	}
	return out
}

// Submit handles POST /api/orders.
func (h *OrderHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orders.Submit(r.Context(), service.SubmitOrderRequest{
		InstrumentID: req.InstrumentID,
		Side:         domain.OrderSide(req.Side),
		Amount:       req.Amount,
		Total:        req.Total,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// Get handles GET /api/orders/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "order_id"))
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	// Parse query params.
	var statusFilter *domain.OrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.OrderStatus(s)
		statusFilter = &status
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		var err error
		page, err = strconv.Atoi(p)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "page must be a valid integer")
			return
		}
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
	}

	orders, total, err := h.orders.List(r.Context(), domain.OrderFilter{Status: statusFilter, Page: page, Limit: limit})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orderListResponse{
		Orders: buildOrderResponses(orders),
		Total:  total,
		Page:   page,
		Limit:  limit,
	})
}

// Entry handles POST /api/trade/{id}/entry.
func (h *OrderHandler) Entry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	res, err := h.entry.Apply(r.Context(), chi.URLParam(r, "id"),
		service.FormState{
			Side:       domain.OrderSide(req.State.Side),
			Amount:     req.State.Amount,
			Total:      req.State.Total,
			Percentage: req.State.Percentage,
		},
		service.Edit{Field: req.Edit.Field, Value: req.Edit.Value},
	)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entryResponse{
		InstrumentID: res.InstrumentID,
		Symbol:       res.Symbol,
		Price:        res.Price,
		Balances:     balancesResponse(res.Balances),
		State: formState{
			Side:       string(res.State.Side),
			Amount:     res.State.Amount,
			Total:      res.State.Total,
			Percentage: res.State.Percentage,
		},
		Ready:   res.Ready,
		Problem: res.Problem,
	})
}
