// Package synth produces the synthetic market: the instrument catalog,
// candlestick series, the portfolio snapshot and the order history.
package synth

import (
	"math"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// dateLayout is the calendar-day format used for candle timestamps.
const dateLayout = "2006-01-02"

// Candle shaping parameters, expressed as fractions of price.
const (
	openDrift   = 0.015
	closeDrift  = 0.005
	wickSpread  = 0.01
	volumeScale = 100000
	volumeFloor = 50000
)

// timeframeDays maps a chart timeframe token to the number of daily candles.
var timeframeDays = map[string]int{
	"1d": 24,
	"1w": 7,
	"1m": 30,
	"3m": 90,
	"1y": 365,
}

// defaultTimeframeDays is used for unrecognized timeframe tokens.
const defaultTimeframeDays = 30

// Generator builds synthetic market data from a random Source.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator drawing from src.
func NewGenerator(src Source) *Generator {
	return &Generator{src: src}
}

// uniform returns a value in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.src.Float64()*(hi-lo)
}

// Instruments returns the catalog in its fixed order with fresh sparklines.
func (g *Generator) Instruments() []domain.Instrument {
	out := make([]domain.Instrument, len(catalog))
	for i, e := range catalog {
		inst := e.instrument
		inst.Sparkline = g.Sparkline(e.sparkMin, e.sparkMax, sparklinePoints)
		out[i] = inst
	}
	return out
}

// Sparkline samples points independent values in [min, max).
func (g *Generator) Sparkline(min, max float64, points int) []float64 {
	if points < 0 {
		points = 0
	}
	line := make([]float64, points)
	for i := range line {
		line[i] = g.uniform(min, max)
	}
	return line
}

// Candles generates days+1 daily candles ending on now's UTC date, oldest
// first. A negative days yields no candles.
func (g *Generator) Candles(basePrice float64, days int, now time.Time) []domain.CandlePoint {
	if days < 0 {
		return []domain.CandlePoint{}
	}

	today := now.UTC()
	points := make([]domain.CandlePoint, 0, days+1)
	price := basePrice
	for i := days; i >= 0; i-- {
		open := price * (1 + g.uniform(-openDrift, openDrift))
		close := open * (1 + g.uniform(-closeDrift, closeDrift))
		high := math.Max(open, close) * (1 + g.uniform(0, wickSpread))
		low := math.Min(open, close) * (1 - g.uniform(0, wickSpread))
		volume := g.src.Float64()*basePrice*volumeScale + basePrice*volumeFloor

		points = append(points, domain.CandlePoint{
			Time:   today.AddDate(0, 0, -i).Format(dateLayout),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  close,
			Volume: volume,
		})
		price = open
	}
	return points
}

// DaysForTimeframe returns the candle count for a timeframe token.
func DaysForTimeframe(timeframe string) int {
	if d, ok := timeframeDays[timeframe]; ok {
		return d
	}
	return defaultTimeframeDays
}

// Portfolio returns the holdings snapshot valued at catalog prices.
func (g *Generator) Portfolio() domain.Portfolio {
	p := domain.Portfolio{
		Change24h: portfolioChange24h,
		Assets:    make([]domain.PortfolioAsset, 0, len(holdings)),
	}
	for _, h := range holdings {
		inst := catalogInstrument(h.id)
		value := h.amount * inst.Price
		p.Assets = append(p.Assets, domain.PortfolioAsset{
			ID:         inst.ID,
			Name:       inst.Name,
			Symbol:     inst.Symbol,
			Amount:     h.amount,
			Value:      value,
			Allocation: h.allocation,
		})
		p.TotalValue += value
	}
	return p
}

// Orders returns the fixed order history.
func (g *Generator) Orders() []domain.Order {
	out := make([]domain.Order, len(history))
	for i, r := range history {
		ts, _ := time.Parse(time.RFC3339, r.timestamp)
		out[i] = domain.Order{
			ID:        r.id,
			Type:      r.side,
			Crypto:    r.crypto,
			Price:     r.price,
			Amount:    r.amount,
			Total:     r.price * r.amount,
			Status:    r.status,
			Timestamp: ts,
		}
	}
	return out
}

func catalogInstrument(id string) domain.Instrument {
	for _, e := range catalog {
		if e.instrument.ID == id {
			return e.instrument
		}
	}
	return domain.Instrument{ID: id}
}
