package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/synth"
)

// stepDrift bounds each tick's move as a fraction of price.
const stepDrift = 0.015

// Publisher receives generated ticks.
type Publisher interface {
	Publish(t Tick)
}

// Ticker random-walks each instrument's price from its catalog value.
type Ticker struct {
	interval time.Duration
	src      synth.Source
	pub      Publisher
	logger   *slog.Logger
	now      func() time.Time

	mu     sync.Mutex
	base   []domain.Instrument
	prices map[string]float64
}

// NewTicker creates a Ticker over the given instruments.
func NewTicker(instruments []domain.Instrument, interval time.Duration, src synth.Source, pub Publisher, logger *slog.Logger) *Ticker {
	prices := make(map[string]float64, len(instruments))
	for _, inst := range instruments {
		prices[inst.ID] = inst.Price
	}
	return &Ticker{
		interval: interval,
		src:      src,
		pub:      pub,
		logger:   logger.With(slog.String("component", "ticker")),
		now:      time.Now,
		base:     instruments,
		prices:   prices,
	}
}

// Run publishes a round of ticks every interval until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	t.logger.Info("ticker started", slog.Duration("interval", t.interval), slog.Int("instruments", len(t.base)))
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for _, tick := range t.Step() {
				t.pub.Publish(tick)
			}
		}
	}
}

// Step moves every price by one random step and returns the new ticks in
// catalog order.
func (t *Ticker) Step() []Tick {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now().UTC()
	ticks := make([]Tick, 0, len(t.base))
	for _, inst := range t.base {
		drift := -stepDrift + t.src.Float64()*2*stepDrift
		price := t.prices[inst.ID] * (1 + drift)
		t.prices[inst.ID] = price

		var change float64
		if inst.Price != 0 {
			change = (price - inst.Price) / inst.Price * 100
		}
		ticks = append(ticks, Tick{
			ID:     inst.ID,
			Symbol: inst.Symbol,
			Price:  price,
			Change: change,
			Time:   now,
		})
	}
	return ticks
}
