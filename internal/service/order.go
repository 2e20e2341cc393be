package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/orderentry"
)

// Rejection reasons reported to the OrderObserver.
const (
	RejectInvalidInput        = "invalid_input"
	RejectInsufficientBalance = "insufficient_balance"
	RejectBackend             = "backend"
)

// SubmitOrderRequest is a filled-in order form for one instrument.
type SubmitOrderRequest struct {
	InstrumentID string
	Side         domain.OrderSide
	Amount       string
	Total        string
}

// OrderObserver counts order outcomes.
type OrderObserver interface {
	OrderSubmitted(side string)
	OrderRejected(reason string)
}

// OrderService places orders through the form reconciler and serves the
// order history: the backend's fixtures plus everything submitted here.
type OrderService struct {
	market    *MarketService
	history   MarketData
	submitter orderentry.Submitter
	repo      domain.OrderRepository
	balances  orderentry.Balances
	observer  OrderObserver
	logger    *slog.Logger
}

// NewOrderService creates an OrderService. observer may be nil.
func NewOrderService(
	market *MarketService,
	history MarketData,
	submitter orderentry.Submitter,
	repo domain.OrderRepository,
	balances orderentry.Balances,
	observer OrderObserver,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		market:    market,
		history:   history,
		submitter: submitter,
		repo:      repo,
		balances:  balances,
		observer:  observer,
		logger:    logger.With(slog.String("component", "orders")),
	}
}

// Submit validates req against the configured balances at the instrument's
// current price, submits it and records the acknowledged order.
func (s *OrderService) Submit(ctx context.Context, req SubmitOrderRequest) (domain.Order, error) {
	inst, err := s.market.Instrument(ctx, req.InstrumentID)
	if err != nil {
		return domain.Order{}, err
	}

	form := orderentry.New(inst, s.balances)
	if err := form.SetSide(req.Side); err != nil {
		s.rejected(RejectInvalidInput)
		return domain.Order{}, err
	}
	form.Amount = req.Amount
	form.Total = req.Total

	order, err := form.Submit(ctx, s.submitter)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			s.rejected(RejectInvalidInput)
		case errors.Is(err, domain.ErrInsufficientBalance):
			s.rejected(RejectInsufficientBalance)
		default:
			s.rejected(RejectBackend)
		}
		return domain.Order{}, err
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return domain.Order{}, fmt.Errorf("service: record order %s: %w", order.ID, err)
	}
	if s.observer != nil {
		s.observer.OrderSubmitted(string(order.Type))
	}
	s.logger.Info("order placed",
		slog.String("order_id", order.ID),
		slog.String("side", string(order.Type)),
		slog.String("crypto", order.Crypto),
		slog.Float64("total", order.Total),
	)
	return order, nil
}

func (s *OrderService) rejected(reason string) {
	if s.observer != nil {
		s.observer.OrderRejected(reason)
	}
}

// Get returns a submitted or historical order by id.
func (s *OrderService) Get(ctx context.Context, id string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err == nil || !errors.Is(err, domain.ErrOrderNotFound) {
		return o, err
	}

	fixtures, err := s.history.FetchOrders(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, f := range fixtures {
		if f.ID == id {
			return f, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

// List returns one page of the order history, newest first, and the total
// number of orders matching the filter.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, 0, &domain.ValidationError{
			Message: fmt.Sprintf("Invalid status filter: '%s'. Must be one of: pending, completed, canceled", *filter.Status),
		}
	}
	if filter.Page < 1 {
		return nil, 0, &domain.ValidationError{
			Message: "page must be >= 1",
		}
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		return nil, 0, &domain.ValidationError{
			Message: "limit must be between 1 and 100",
		}
	}

	fixtures, err := s.history.FetchOrders(ctx)
	if err != nil {
		return nil, 0, err
	}
	placed, err := s.repo.List(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service: list orders: %w", err)
	}

	all := make([]domain.Order, 0, len(fixtures)+len(placed))
	for _, src := range [][]domain.Order{placed, fixtures} {
		for _, o := range src {
			if filter.Status != nil && o.Status != *filter.Status {
				continue
			}
			all = append(all, o)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if !all[i].Timestamp.Equal(all[j].Timestamp) {
			return all[i].Timestamp.After(all[j].Timestamp)
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []domain.Order{}, total, nil
	}
	end := min(start+filter.Limit, total)
	return all[start:end], total, nil
}
