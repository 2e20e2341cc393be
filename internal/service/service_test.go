package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/efreitasn/tradedesk/internal/market"
	"github.com/efreitasn/tradedesk/internal/orderentry"
	"github.com/efreitasn/tradedesk/internal/store"
	"github.com/efreitasn/tradedesk/internal/synth"
)

var testBalances = orderentry.Balances{Instrument: 2.5, Quote: 50000}

// recordingObserver captures order outcome callbacks.
type recordingObserver struct {
	mu        sync.Mutex
	submitted []string
	rejected  []string
}

func (o *recordingObserver) OrderSubmitted(side string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitted = append(o.submitted, side)
}

func (o *recordingObserver) OrderRejected(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, reason)
}

// testEnv bundles the services over a zero-latency backend.
type testEnv struct {
	backend   *market.Backend
	orders    *store.OrderStore
	transfers *store.TransferStore
	observer  *recordingObserver
	market    *MarketService
	portfolio *PortfolioService
	orderSvc  *OrderService
	entry     *EntryService
	funds     *FundsService
	dashboard *Dashboard
}

func newTestEnv() *testEnv {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := market.NewBackend(synth.NewSource(7), market.Latency{}, nil, logger)
	orders := store.NewOrderStore()
	transfers := store.NewTransferStore()
	obs := &recordingObserver{}

	mkt := NewMarketService(backend)
	orderSvc := NewOrderService(mkt, backend, backend, orders, testBalances, obs, logger)
	return &testEnv{
		backend:   backend,
		orders:    orders,
		transfers: transfers,
		observer:  obs,
		market:    mkt,
		portfolio: NewPortfolioService(backend),
		orderSvc:  orderSvc,
		entry:     NewEntryService(mkt, testBalances),
		funds:     NewFundsService(transfers, logger),
		dashboard: NewDashboard(backend, orderSvc),
	}
}

func testContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
