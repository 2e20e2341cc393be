package service

import (
	"context"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// AssetView is a holding with its computed share of the portfolio value.
// Allocation stays the preset figure; ValueShare is derived.
type AssetView struct {
	domain.PortfolioAsset
	ValueShare float64
}

// PortfolioView is the portfolio page payload.
type PortfolioView struct {
	TotalValue float64
	Change24h  float64
	Assets     []AssetView
}

// PortfolioService serves the holdings snapshot.
type PortfolioService struct {
	data MarketData
}

// NewPortfolioService creates a PortfolioService reading from data.
func NewPortfolioService(data MarketData) *PortfolioService {
	return &PortfolioService{data: data}
}

// Get returns the portfolio with per-asset value shares.
func (s *PortfolioService) Get(ctx context.Context) (PortfolioView, error) {
	p, err := s.data.FetchPortfolio(ctx)
	if err != nil {
		return PortfolioView{}, err
	}
	return viewOf(p), nil
}

func viewOf(p domain.Portfolio) PortfolioView {
	v := PortfolioView{
		TotalValue: p.TotalValue,
		Change24h:  p.Change24h,
		Assets:     make([]AssetView, len(p.Assets)),
	}
	for i, a := range p.Assets {
		v.Assets[i] = AssetView{PortfolioAsset: a, ValueShare: p.ValueShare(a)}
	}
	return v
}
