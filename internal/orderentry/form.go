// Package orderentry keeps the amount, total and percentage fields of an
// order form consistent while the user edits one of them at a time.
package orderentry

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
)

// Decimal places shown for each derived field.
const (
	totalPlaces  = 2
	amountPlaces = 8
)

var hundred = decimal.NewFromInt(100)

// Balances are the funds available to the form: Instrument in units of the
// traded asset, Quote in the quote currency.
type Balances struct {
	Instrument float64
	Quote      float64
}

// Submitter acknowledges validated order requests.
type Submitter interface {
	SubmitOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
}

// Form is the order entry state for one instrument at a fixed price.
// Amount and Total hold exactly what the user typed or what was derived;
// Percentage is always within [0, 100].
type Form struct {
	Side       domain.OrderSide
	Amount     string
	Total      string
	Percentage float64

	Crypto   string
	Symbol   string
	Price    float64
	Balances Balances
}

// New returns an empty buy form.
func New(inst domain.Instrument, balances Balances) *Form {
	return &Form{
		Side:     domain.OrderSideBuy,
		Crypto:   inst.Name,
		Symbol:   inst.Symbol,
		Price:    inst.Price,
		Balances: balances,
	}
}

// SetSide switches the order side. Changing side clears the form.
func (f *Form) SetSide(side domain.OrderSide) error {
	if !side.Valid() {
		return &domain.ValidationError{Message: fmt.Sprintf("side must be %q or %q", domain.OrderSideBuy, domain.OrderSideSell)}
	}
	if side != f.Side {
		f.Side = side
		f.reset()
	}
	return nil
}

// Restore loads previously reconciled field values, clamping percentage
// into [0, 100].
func (f *Form) Restore(amount, total string, percentage float64) {
	f.Amount = amount
	f.Total = total
	f.Percentage = clampPercent(percentage)
}

// EditAmount sets the amount and derives total and percentage from it.
func (f *Form) EditAmount(v string) {
	f.Amount = v
	if v != "" {
		f.Total = f.totalFor(v)
	}

	var limit float64
	if f.Side == domain.OrderSideBuy {
		if f.Price > 0 {
			limit = f.Balances.Quote / f.Price
		}
	} else {
		limit = f.Balances.Instrument
	}
	f.Percentage = percentOf(parseOrZero(v), limit)
}

// EditTotal sets the total and derives amount and percentage from it.
func (f *Form) EditTotal(v string) {
	f.Total = v
	if v != "" {
		f.Amount = f.amountFor(v)
	}

	var limit float64
	if f.Side == domain.OrderSideBuy {
		limit = f.Balances.Quote
	} else {
		limit = f.Balances.Instrument * f.Price
	}
	f.Percentage = percentOf(parseOrZero(v), limit)
}

// EditPercentage sets the slider and derives amount and total from the
// relevant balance.
func (f *Form) EditPercentage(p float64) {
	f.Percentage = clampPercent(p)
	share := decimal.NewFromFloat(f.Percentage).Div(hundred)

	if f.Side == domain.OrderSideBuy {
		f.Total = decimal.NewFromFloat(f.Balances.Quote).Mul(share).StringFixed(totalPlaces)
		f.Amount = f.amountFor(f.Total)
		return
	}
	f.Amount = decimal.NewFromFloat(f.Balances.Instrument).Mul(share).StringFixed(amountPlaces)
	f.Total = f.totalFor(f.Amount)
}

// Validate checks the form against the balances and returns the request it
// would submit.
func (f *Form) Validate() (domain.OrderRequest, error) {
	amount, amountOK := parseNumber(f.Amount)
	total, totalOK := parseNumber(f.Total)
	if !amountOK || !totalOK || amount <= 0 || total <= 0 {
		return domain.OrderRequest{}, fmt.Errorf("%w: please enter valid amount and total", domain.ErrInvalidInput)
	}

	switch f.Side {
	case domain.OrderSideBuy:
		if total > f.Balances.Quote {
			return domain.OrderRequest{}, fmt.Errorf("%w: not enough balance to place this order", domain.ErrInsufficientBalance)
		}
	case domain.OrderSideSell:
		if amount > f.Balances.Instrument {
			return domain.OrderRequest{}, fmt.Errorf("%w: not enough %s to place this order", domain.ErrInsufficientBalance, f.Symbol)
		}
	default:
		return domain.OrderRequest{}, fmt.Errorf("%w: unknown side %q", domain.ErrInvalidInput, f.Side)
	}

	return domain.OrderRequest{
		Type:   f.Side,
		Crypto: f.Crypto,
		Price:  f.Price,
		Amount: amount,
		Total:  total,
	}, nil
}

// Submit validates the form and hands the request to s. The form is
// cleared once s acknowledges the order.
func (f *Form) Submit(ctx context.Context, s Submitter) (domain.Order, error) {
	req, err := f.Validate()
	if err != nil {
		return domain.Order{}, err
	}

	order, err := s.SubmitOrder(ctx, req)
	if err != nil {
		return domain.Order{}, err
	}

	f.reset()
	return order, nil
}

func (f *Form) reset() {
	f.Amount = ""
	f.Total = ""
	f.Percentage = 0
}

// totalFor formats amount × price, or "" when amount is not a number.
func (f *Form) totalFor(amount string) string {
	a, ok := parseDecimal(amount)
	if !ok {
		return ""
	}
	return a.Mul(decimal.NewFromFloat(f.Price)).StringFixed(totalPlaces)
}

// amountFor formats total ÷ price, or "" when it cannot be computed.
func (f *Form) amountFor(total string) string {
	t, ok := parseDecimal(total)
	if !ok || f.Price <= 0 {
		return ""
	}
	return t.DivRound(decimal.NewFromFloat(f.Price), amountPlaces).StringFixed(amountPlaces)
}

// percentOf returns v as a clamped percentage of limit. A non-positive limit
// yields 0.
func percentOf(v, limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return clampPercent(v / limit * 100)
}

func clampPercent(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(0, math.Min(100, p))
}
