package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/store"
)

var transferMethods = map[domain.TransferKind][]string{
	domain.TransferDeposit:  {domain.MethodBank, domain.MethodCard, domain.MethodPayPal},
	domain.TransferWithdraw: {domain.MethodBank, domain.MethodPayPal},
}

// TransferRequest asks to move Amount (a decimal string, quote currency)
// through Method. An empty Method means bank.
type TransferRequest struct {
	Amount string
	Method string
}

// FundsService acknowledges deposits and withdrawals. Balances are not
// touched; transfers stay pending.
type FundsService struct {
	transfers *store.TransferStore
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewFundsService creates a FundsService recording into transfers.
func NewFundsService(transfers *store.TransferStore, logger *slog.Logger) *FundsService {
	return &FundsService{
		transfers: transfers,
		logger:    logger.With(slog.String("component", "funds")),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Deposit records a pending deposit for userID.
func (s *FundsService) Deposit(ctx context.Context, userID string, req TransferRequest) (domain.Transfer, error) {
	return s.request(ctx, userID, domain.TransferDeposit, req)
}

// Withdraw records a pending withdrawal for userID.
func (s *FundsService) Withdraw(ctx context.Context, userID string, req TransferRequest) (domain.Transfer, error) {
	return s.request(ctx, userID, domain.TransferWithdraw, req)
}

// History returns userID's transfers, newest first.
func (s *FundsService) History(_ context.Context, userID string) []domain.Transfer {
	return s.transfers.ListByUser(userID)
}

func (s *FundsService) request(_ context.Context, userID string, kind domain.TransferKind, req TransferRequest) (domain.Transfer, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return domain.Transfer{}, &domain.ValidationError{
			Message: fmt.Sprintf("Please enter a valid amount to %s.", kind),
		}
	}

	method := req.Method
	if method == "" {
		method = domain.MethodBank
	}
	if !slices.Contains(transferMethods[kind], method) {
		return domain.Transfer{}, &domain.ValidationError{
			Message: fmt.Sprintf("Unsupported %s method: '%s'", kind, method),
		}
	}

	t := domain.Transfer{
		ID:        s.newID(),
		Kind:      kind,
		Method:    method,
		Amount:    amount.Round(2).InexactFloat64(),
		Status:    domain.OrderStatusPending,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	}
	s.transfers.Append(t)

	s.logger.Info("transfer initiated",
		slog.String("transfer_id", t.ID),
		slog.String("kind", string(kind)),
		slog.String("method", method),
		slog.String("amount", amount.StringFixed(2)),
	)
	return t, nil
}
