package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/orderentry"
)

// Editable order form fields.
const (
	FieldSide       = "side"
	FieldAmount     = "amount"
	FieldTotal      = "total"
	FieldPercentage = "percentage"
)

// FormState is the client-held state of an order form.
type FormState struct {
	Side       domain.OrderSide
	Amount     string
	Total      string
	Percentage float64
}

// Edit changes one form field to Value.
type Edit struct {
	Field string
	Value string
}

// EntryResult is the reconciled form plus what the client needs to render
// it. Problem is empty when the form would pass submission checks.
type EntryResult struct {
	InstrumentID string
	Symbol       string
	Price        float64
	Balances     orderentry.Balances
	State        FormState
	Ready        bool
	Problem      string
}

// EntryService runs one order form edit at a time without keeping state.
type EntryService struct {
	market   *MarketService
	balances orderentry.Balances
}

// NewEntryService creates an EntryService reconciling against balances.
func NewEntryService(market *MarketService, balances orderentry.Balances) *EntryService {
	return &EntryService{market: market, balances: balances}
}

// Apply rebuilds the form for instrumentID from state, applies edit and
// returns the reconciled form. Unknown instruments fall back to the first
// catalog entry.
func (s *EntryService) Apply(ctx context.Context, instrumentID string, state FormState, edit Edit) (EntryResult, error) {
	inst, err := s.market.Resolve(ctx, instrumentID)
	if err != nil {
		return EntryResult{}, err
	}

	form := orderentry.New(inst, s.balances)
	if state.Side != "" {
		if err := form.SetSide(state.Side); err != nil {
			return EntryResult{}, err
		}
	}
	form.Restore(state.Amount, state.Total, state.Percentage)

	switch edit.Field {
	case FieldSide:
		if err := form.SetSide(domain.OrderSide(edit.Value)); err != nil {
			return EntryResult{}, err
		}
	case FieldAmount:
		form.EditAmount(edit.Value)
	case FieldTotal:
		form.EditTotal(edit.Value)
	case FieldPercentage:
		p, err := strconv.ParseFloat(edit.Value, 64)
		if err != nil {
			return EntryResult{}, &domain.ValidationError{Message: fmt.Sprintf("percentage must be a number, got %q", edit.Value)}
		}
		form.EditPercentage(p)
	default:
		return EntryResult{}, &domain.ValidationError{
			Message: fmt.Sprintf("Unknown field: '%s'. Must be one of: side, amount, total, percentage", edit.Field),
		}
	}

	res := EntryResult{
		InstrumentID: inst.ID,
		Symbol:       inst.Symbol,
		Price:        inst.Price,
		Balances:     s.balances,
		State: FormState{
			Side:       form.Side,
			Amount:     form.Amount,
			Total:      form.Total,
			Percentage: form.Percentage,
		},
	}
	if _, err := form.Validate(); err != nil {
		res.Problem = problemText(err)
	} else {
		res.Ready = true
	}
	return res, nil
}

// problemText strips the sentinel prefix from a form validation error.
func problemText(err error) string {
	for _, sentinel := range []error{domain.ErrInvalidInput, domain.ErrInsufficientBalance} {
		if errors.Is(err, sentinel) {
			return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
		}
	}
	return err.Error()
}
