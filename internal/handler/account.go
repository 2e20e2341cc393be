package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/session"
)

// AccountHandler handles HTTP requests for the signed-in user's holdings,
// dashboard and funds.
type AccountHandler struct {
	portfolio *service.PortfolioService
	dashboard *service.Dashboard
	funds     *service.FundsService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(portfolio *service.PortfolioService, dashboard *service.Dashboard, funds *service.FundsService) *AccountHandler {
	return &AccountHandler{portfolio: portfolio, dashboard: dashboard, funds: funds}
}

type assetResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Symbol     string  `json:"symbol"`
	Amount     float64 `json:"amount"`
	Value      float64 `json:"value"`
	Allocation float64 `json:"allocation"`
	ValueShare float64 `json:"value_share"`
}

type portfolioResponse struct {
	TotalValue float64         `json:"total_value"`
	Change24h  float64         `json:"change_24h"`
	Assets     []assetResponse `json:"assets"`
}

type dashboardResponse struct {
	Instruments  []instrumentResponse `json:"instruments"`
	Stats        statsResponse        `json:"stats"`
	Portfolio    portfolioResponse    `json:"portfolio"`
	RecentOrders []orderResponse      `json:"recent_orders"`
	Chart        candlesResponse      `json:"chart"`
}

// transferRequest is the JSON request body for the funds endpoints.
type transferRequest struct {
	Amount string `json:"amount"`
	Method string `json:"method"`
}

type transferResponse struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

type transferListResponse struct {
	Transfers []transferResponse `json:"transfers"`
}

func buildPortfolioResponse(v service.PortfolioView) portfolioResponse {
	assets := make([]assetResponse, len(v.Assets))
	for i, a := range v.Assets {
		assets[i] = assetResponse{
			ID:         a.ID,
			Name:       a.Name,
			Symbol:     a.Symbol,
			Amount:     a.Amount,
			Value:      a.Value,
			Allocation: a.Allocation,
			ValueShare: a.ValueShare,
		}
	}
	return portfolioResponse{
		TotalValue: v.TotalValue,
		Change24h:  v.Change24h,
		Assets:     assets,
	}
}

func buildTransferResponse(t domain.Transfer) transferResponse {
	return transferResponse{
		ID:        t.ID,
		Kind:      string(t.Kind),
		Method:    t.Method,
		Amount:    t.Amount,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Portfolio handles GET /api/portfolio.
func (h *AccountHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	v, err := h.portfolio.Get(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildPortfolioResponse(v))
}

// Dashboard handles GET /api/dashboard.
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Load(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, dashboardResponse{
		Instruments:  buildInstrumentResponses(v.Instruments),
		Stats:        buildStatsResponse(v.Stats),
		Portfolio:    buildPortfolioResponse(v.Portfolio),
		RecentOrders: buildOrderResponses(v.RecentOrders),
		Chart: candlesResponse{
			InstrumentID: v.Featured,
			Timeframe:    service.DefaultTimeframe,
			Candles:      buildCandleResponses(v.Candles),
		},
	})
}

// Deposit handles POST /api/funds/deposit.
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, h.funds.Deposit)
}

// Withdraw handles POST /api/funds/withdraw.
func (h *AccountHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.transfer(w, r, h.funds.Withdraw)
}

func (h *AccountHandler) transfer(
	w http.ResponseWriter,
	r *http.Request,
	do func(context.Context, string, service.TransferRequest) (domain.Transfer, error),
) {
	var req transferRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	sess, _ := session.FromContext(r.Context())
	t, err := do(r.Context(), sess.User.ID, service.TransferRequest{Amount: req.Amount, Method: req.Method})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusAccepted, buildTransferResponse(t))
}

// Transfers handles GET /api/funds/transfers.
func (h *AccountHandler) Transfers(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	history := h.funds.History(r.Context(), sess.User.ID)

	out := make([]transferResponse, len(history))
	for i, t := range history {
		out[i] = buildTransferResponse(t)
	}
	WriteJSON(w, http.StatusOK, transferListResponse{Transfers: out})
}
