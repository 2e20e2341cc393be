package domain

// PortfolioAsset is a single holding in the portfolio snapshot.
// Allocation is a preset percentage and is not derived from Value.
type PortfolioAsset struct {
	ID         string
	Name       string
	Symbol     string
	Amount     float64
	Value      float64
	Allocation float64
}

// Portfolio is the user's holdings snapshot.
type Portfolio struct {
	TotalValue float64
	Change24h  float64
	Assets     []PortfolioAsset
}

// ValueShare returns the asset's share of the portfolio's total value as a
// percentage. It returns 0 when the portfolio is empty.
func (p *Portfolio) ValueShare(a PortfolioAsset) float64 {
	if p.TotalValue == 0 {
		return 0
	}
	return a.Value / p.TotalValue * 100
}
