// Package market serves synthetic market data behind simulated network
// latency. Every call blocks for its configured delay and honors context
// cancellation while waiting.
package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/synth"
)

// fallbackBasePrice seeds candles for instruments missing from the catalog.
const fallbackBasePrice = 30000

const (
	orderIDLength   = 6
	orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Operation names used for logging and latency metrics.
const (
	OpFetchInstruments = "fetch_instruments"
	OpFetchCandles     = "fetch_candles"
	OpFetchPortfolio   = "fetch_portfolio"
	OpFetchOrders      = "fetch_orders"
	OpSubmitOrder      = "submit_order"
)

// Latency is the simulated round trip of each backend operation.
type Latency struct {
	Instruments time.Duration
	Candles     time.Duration
	Portfolio   time.Duration
	Orders      time.Duration
	Submit      time.Duration
}

// DefaultLatency returns the delays of the hosted demo backend.
func DefaultLatency() Latency {
	return Latency{
		Instruments: 500 * time.Millisecond,
		Candles:     700 * time.Millisecond,
		Portfolio:   600 * time.Millisecond,
		Orders:      600 * time.Millisecond,
		Submit:      800 * time.Millisecond,
	}
}

// Observer receives the duration of every completed backend call.
type Observer interface {
	ObserveBackendCall(op string, d time.Duration)
}

// Backend is the mocked market backend.
type Backend struct {
	gen      *synth.Generator
	src      synth.Source
	latency  Latency
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// NewBackend creates a Backend drawing from src. observer may be nil.
func NewBackend(src synth.Source, latency Latency, observer Observer, logger *slog.Logger) *Backend {
	return &Backend{
		gen:      synth.NewGenerator(src),
		src:      src,
		latency:  latency,
		observer: observer,
		logger:   logger.With(slog.String("component", "market")),
		now:      time.Now,
	}
}

// FetchInstruments returns the instrument catalog.
func (b *Backend) FetchInstruments(ctx context.Context) ([]domain.Instrument, error) {
	if err := b.wait(ctx, OpFetchInstruments, b.latency.Instruments); err != nil {
		return nil, err
	}
	return b.gen.Instruments(), nil
}

// FetchCandles returns daily candles for the instrument over timeframe.
// Unknown instruments are priced from a fixed fallback.
func (b *Backend) FetchCandles(ctx context.Context, instrumentID, timeframe string) ([]domain.CandlePoint, error) {
	basePrice := float64(fallbackBasePrice)
	if inst, ok := domain.FindInstrument(b.gen.Instruments(), instrumentID); ok && inst.Price != 0 {
		basePrice = inst.Price
	}
	days := synth.DaysForTimeframe(timeframe)

	if err := b.wait(ctx, OpFetchCandles, b.latency.Candles); err != nil {
		return nil, err
	}
	return b.gen.Candles(basePrice, days, b.now()), nil
}

// FetchPortfolio returns the portfolio snapshot.
func (b *Backend) FetchPortfolio(ctx context.Context) (domain.Portfolio, error) {
	if err := b.wait(ctx, OpFetchPortfolio, b.latency.Portfolio); err != nil {
		return domain.Portfolio{}, err
	}
	return b.gen.Portfolio(), nil
}

// FetchOrders returns the order history.
func (b *Backend) FetchOrders(ctx context.Context) ([]domain.Order, error) {
	if err := b.wait(ctx, OpFetchOrders, b.latency.Orders); err != nil {
		return nil, err
	}
	return b.gen.Orders(), nil
}

// SubmitOrder acknowledges req as a pending order. It only fails when ctx
// ends before the acknowledgment.
func (b *Backend) SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	if err := b.wait(ctx, OpSubmitOrder, b.latency.Submit); err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:        b.orderID(),
		Type:      req.Type,
		Crypto:    req.Crypto,
		Price:     req.Price,
		Amount:    req.Amount,
		Total:     req.Total,
		Status:    domain.OrderStatusPending,
		Timestamp: b.now().UTC(),
	}
	b.logger.Debug("order acknowledged",
		slog.String("order_id", order.ID),
		slog.String("side", string(order.Type)),
		slog.String("crypto", order.Crypto),
	)
	return order, nil
}

// wait sleeps for d or until ctx is done.
func (b *Backend) wait(ctx context.Context, op string, d time.Duration) error {
	start := time.Now()
	defer func() {
		if b.observer != nil {
			b.observer.ObserveBackendCall(op, time.Since(start))
		}
	}()

	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		b.logger.Debug("backend call canceled", slog.String("op", op), slog.String("error", ctx.Err().Error()))
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (b *Backend) orderID() string {
	id := make([]byte, orderIDLength)
	for i := range id {
		n := int(b.src.Float64() * float64(len(orderIDAlphabet)))
		if n >= len(orderIDAlphabet) {
			n = len(orderIDAlphabet) - 1
		}
		id[i] = orderIDAlphabet[n]
	}
	return string(id)
}
