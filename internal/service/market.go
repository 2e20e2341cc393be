package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// MarketData is the read side of the market backend.
type MarketData interface {
	FetchInstruments(ctx context.Context) ([]domain.Instrument, error)
	FetchCandles(ctx context.Context, instrumentID, timeframe string) ([]domain.CandlePoint, error)
	FetchPortfolio(ctx context.Context) (domain.Portfolio, error)
	FetchOrders(ctx context.Context) ([]domain.Order, error)
}

// Market table categories.
const (
	CategoryAll     = "all"
	CategoryGainers = "gainers"
	CategoryLosers  = "losers"
	CategoryVolume  = "volume"
)

// Sortable instrument fields.
const (
	SortPrice     = "price"
	SortChange    = "change24h"
	SortVolume    = "volume24h"
	SortMarketCap = "marketCap"
	SortName      = "name"
)

// DefaultTimeframe is used when a candle request names none.
const DefaultTimeframe = "1m"

// Timeframes offered by the chart.
var Timeframes = []string{"1d", "1w", "1m", "3m", "1y"}

const topMoversCount = 3

// ListQuery selects and orders the market table.
type ListQuery struct {
	Search   string
	Category string
	SortBy   string
	Order    string // asc or desc
}

// Mover is a compact gainers/losers entry.
type Mover struct {
	Name   string
	Symbol string
	Change float64
}

// MarketStats summarizes the whole catalog.
type MarketStats struct {
	TotalMarketCap        float64
	TotalVolume24h        float64
	TotalMarketCapDisplay string
	TotalVolume24hDisplay string
	TopGainers            []Mover
	TopLosers             []Mover
}

// MarketService serves the market table, stats and charts.
type MarketService struct {
	data MarketData
}

// NewMarketService creates a MarketService reading from data.
func NewMarketService(data MarketData) *MarketService {
	return &MarketService{data: data}
}

// List returns the catalog filtered by search and category and sorted per q.
func (s *MarketService) List(ctx context.Context, q ListQuery) ([]domain.Instrument, error) {
	if q.Category == "" {
		q.Category = CategoryAll
	}
	if q.SortBy == "" {
		q.SortBy = SortMarketCap
		if q.Category == CategoryVolume {
			q.SortBy = SortVolume
		}
	}
	if q.Order == "" {
		q.Order = "desc"
	}

	switch q.Category {
	case CategoryAll, CategoryGainers, CategoryLosers, CategoryVolume:
	default:
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid category: '%s'. Must be one of: all, gainers, losers, volume", q.Category),
		}
	}
	less, ok := instrumentOrder(q.SortBy)
	if !ok {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid sort field: '%s'. Must be one of: price, change24h, volume24h, marketCap, name", q.SortBy),
		}
	}
	if q.Order != "asc" && q.Order != "desc" {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid order: '%s'. Must be one of: asc, desc", q.Order),
		}
	}

	catalog, err := s.data.FetchInstruments(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]domain.Instrument, 0, len(catalog))
	for _, inst := range catalog {
		if search != "" &&
			!strings.Contains(strings.ToLower(inst.Name), search) &&
			!strings.Contains(strings.ToLower(inst.Symbol), search) {
			continue
		}
		switch q.Category {
		case CategoryGainers:
			if inst.Change24h <= 0 {
				continue
			}
		case CategoryLosers:
			if inst.Change24h >= 0 {
				continue
			}
		}
		out = append(out, inst)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.Order == "asc" {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out, nil
}

func instrumentOrder(field string) (func(a, b domain.Instrument) bool, bool) {
	switch field {
	case SortPrice:
		return func(a, b domain.Instrument) bool { return a.Price < b.Price }, true
	case SortChange:
		return func(a, b domain.Instrument) bool { return a.Change24h < b.Change24h }, true
	case SortVolume:
		return func(a, b domain.Instrument) bool { return a.Volume24h < b.Volume24h }, true
	case SortMarketCap:
		return func(a, b domain.Instrument) bool { return a.MarketCap < b.MarketCap }, true
	case SortName:
		return func(a, b domain.Instrument) bool { return a.Name < b.Name }, true
	}
	return nil, false
}

// Stats totals market cap and volume and picks the top movers. Losers are
// the three weakest performers, weakest first.
func (s *MarketService) Stats(ctx context.Context) (MarketStats, error) {
	catalog, err := s.data.FetchInstruments(ctx)
	if err != nil {
		return MarketStats{}, err
	}
	return statsOf(catalog), nil
}

func statsOf(catalog []domain.Instrument) MarketStats {
	var st MarketStats
	for _, inst := range catalog {
		st.TotalMarketCap += inst.MarketCap
		st.TotalVolume24h += inst.Volume24h
	}
	st.TotalMarketCapDisplay = domain.FormatCompactUSD(st.TotalMarketCap)
	st.TotalVolume24hDisplay = domain.FormatCompactUSD(st.TotalVolume24h)

	sorted := make([]domain.Instrument, len(catalog))
	copy(sorted, catalog)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Change24h > sorted[j].Change24h })

	n := min(topMoversCount, len(sorted))
	st.TopGainers = make([]Mover, 0, n)
	for _, inst := range sorted[:n] {
		st.TopGainers = append(st.TopGainers, moverOf(inst))
	}
	st.TopLosers = make([]Mover, 0, n)
	for i := len(sorted) - 1; i >= len(sorted)-n; i-- {
		st.TopLosers = append(st.TopLosers, moverOf(sorted[i]))
	}
	return st
}

func moverOf(inst domain.Instrument) Mover {
	return Mover{Name: inst.Name, Symbol: inst.Symbol, Change: inst.Change24h}
}

// Instrument returns the catalog entry with the given id.
func (s *MarketService) Instrument(ctx context.Context, id string) (domain.Instrument, error) {
	catalog, err := s.data.FetchInstruments(ctx)
	if err != nil {
		return domain.Instrument{}, err
	}
	inst, ok := domain.FindInstrument(catalog, id)
	if !ok {
		return domain.Instrument{}, domain.ErrInstrumentNotFound
	}
	return inst, nil
}

// Resolve is Instrument for the trade page: an unknown or empty id selects
// the first catalog entry.
func (s *MarketService) Resolve(ctx context.Context, id string) (domain.Instrument, error) {
	catalog, err := s.data.FetchInstruments(ctx)
	if err != nil {
		return domain.Instrument{}, err
	}
	if inst, ok := domain.FindInstrument(catalog, id); ok {
		return inst, nil
	}
	if len(catalog) == 0 {
		return domain.Instrument{}, domain.ErrInstrumentNotFound
	}
	return catalog[0], nil
}

// Candles returns the daily series for id over timeframe.
func (s *MarketService) Candles(ctx context.Context, id, timeframe string) ([]domain.CandlePoint, error) {
	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	return s.data.FetchCandles(ctx, id, timeframe)
}
