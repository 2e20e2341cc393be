package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// FeaturedInstrument is charted on the dashboard.
const FeaturedInstrument = "bitcoin"

const dashboardRecentOrders = 5

// DashboardView is everything the dashboard page shows.
type DashboardView struct {
	Instruments  []domain.Instrument
	Stats        MarketStats
	Portfolio    PortfolioView
	RecentOrders []domain.Order
	Featured     string
	Candles      []domain.CandlePoint
}

// Dashboard loads the dashboard sections concurrently.
type Dashboard struct {
	data   MarketData
	orders *OrderService
}

// NewDashboard creates a Dashboard over data and the order history.
func NewDashboard(data MarketData, orders *OrderService) *Dashboard {
	return &Dashboard{data: data, orders: orders}
}

// Load fetches the catalog, portfolio, recent orders and featured chart in
// parallel. The first failure cancels the rest.
func (d *Dashboard) Load(ctx context.Context) (DashboardView, error) {
	var (
		view      DashboardView
		catalog   []domain.Instrument
		portfolio domain.Portfolio
	)
	view.Featured = FeaturedInstrument

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = d.data.FetchInstruments(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		portfolio, err = d.data.FetchPortfolio(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		view.RecentOrders, _, err = d.orders.List(ctx, domain.OrderFilter{Page: 1, Limit: dashboardRecentOrders})
		return err
	})
	g.Go(func() error {
		var err error
		view.Candles, err = d.data.FetchCandles(ctx, FeaturedInstrument, DefaultTimeframe)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, err
	}

	view.Instruments = catalog
	view.Stats = statsOf(catalog)
	view.Portfolio = viewOf(portfolio)
	return view, nil
}
