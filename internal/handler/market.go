package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/service"
)

// MarketHandler handles HTTP requests for market data endpoints.
type MarketHandler struct {
	market  *service.MarketService
	archive *service.ArchiveService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(market *service.MarketService, archive *service.ArchiveService) *MarketHandler {
	return &MarketHandler{market: market, archive: archive}
}

type instrumentResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"`
	Volume24h float64   `json:"volume_24h"`
	MarketCap float64   `json:"market_cap"`
	Image     string    `json:"image"`
	Sparkline []float64 `json:"sparkline"`
}

type instrumentListResponse struct {
	Instruments []instrumentResponse `json:"instruments"`
	Total       int                  `json:"total"`
}

type candleResponse struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type candlesResponse struct {
	InstrumentID string           `json:"instrument_id"`
	Timeframe    string           `json:"timeframe"`
	Candles      []candleResponse `json:"candles"`
}

type moverResponse struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Change float64 `json:"change"`
}

type statsResponse struct {
	TotalMarketCap        float64         `json:"total_market_cap"`
	TotalVolume24h        float64         `json:"total_volume_24h"`
	TotalMarketCapDisplay string          `json:"total_market_cap_display"`
	TotalVolume24hDisplay string          `json:"total_volume_24h_display"`
	TopGainers            []moverResponse `json:"top_gainers"`
	TopLosers             []moverResponse `json:"top_losers"`
}

type archiveResponse struct {
	Key    string `json:"key"`
	Points int    `json:"points"`
}

func buildInstrumentResponse(inst domain.Instrument) instrumentResponse {
	spark := inst.Sparkline
	if spark == nil {
		spark = []float64{}
	}
	return instrumentResponse{
		ID:        inst.ID,
		Name:      inst.Name,
		Symbol:    inst.Symbol,
		Price:     inst.Price,
		Change24h: inst.Change24h,
		Volume24h: inst.Volume24h,
		MarketCap: inst.MarketCap,
		Image:     inst.Image,
		Sparkline: spark,
	}
}

func buildInstrumentResponses(insts []domain.Instrument) []instrumentResponse {
	out := make([]instrumentResponse, len(insts))
	for i, inst := range insts {
		out[i] = buildInstrumentResponse(inst)
	}
	return out
}

func buildCandleResponses(candles []domain.CandlePoint) []candleResponse {
	out := make([]candleResponse, len(candles))
	for i, c := range candles {
		out[i] = candleResponse(c)
	}
	return out
}

func buildStatsResponse(st service.MarketStats) statsResponse {
	movers := func(ms []service.Mover) []moverResponse {
		out := make([]moverResponse, len(ms))
		for i, m := range ms {
			out[i] = moverResponse(m)
		}
		return out
	}
	return statsResponse{
		TotalMarketCap:        st.TotalMarketCap,
		TotalVolume24h:        st.TotalVolume24h,
		TotalMarketCapDisplay: st.TotalMarketCapDisplay,
		TotalVolume24hDisplay: st.TotalVolume24hDisplay,
		TopGainers:            movers(st.TopGainers),
		TopLosers:             movers(st.TopLosers),
	}
}

// List handles GET /api/instruments.
func (h *MarketHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	insts, err := h.market.List(r.Context(), service.ListQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   q.Get("sort"),
		Order:    q.Get("order"),
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, instrumentListResponse{
		Instruments: buildInstrumentResponses(insts),
		Total:       len(insts),
	})
}

// Get handles GET /api/instruments/{id}.
func (h *MarketHandler) Get(w http.ResponseWriter, r *http.Request) {
	inst, err := h.market.Instrument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildInstrumentResponse(inst))
}

// Candles handles GET /api/instruments/{id}/candles.
func (h *MarketHandler) Candles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = service.DefaultTimeframe
	}

	candles, err := h.market.Candles(r.Context(), id, timeframe)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, candlesResponse{
		InstrumentID: id,
		Timeframe:    timeframe,
		Candles:      buildCandleResponses(candles),
	})
}

// Archive handles POST /api/instruments/{id}/candles/archive.
func (h *MarketHandler) Archive(w http.ResponseWriter, r *http.Request) {
	res, err := h.archive.Archive(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("timeframe"))
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, archiveResponse{Key: res.Key, Points: res.Points})
}

// Stats handles GET /api/market/stats.
func (h *MarketHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.market.Stats(r.Context())
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildStatsResponse(st))
}
