package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/efreitasn/tradedesk/internal/domain"
)

var _ domain.OrderRepository = (*OrderStore)(nil)

// OrderStore implements domain.OrderRepository using PostgreSQL.
type OrderStore struct {
	pool *pgxpool.Pool
}

// NewOrderStore creates an OrderStore backed by the given connection pool.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

const orderSelectCols = `id, side, crypto, price, amount, total, status, placed_at`

// Create inserts an order, replacing any existing row with the same id.
func (s *OrderStore) Create(ctx context.Context, o domain.Order) error {
	const query = `
		INSERT INTO orders (` + orderSelectCols + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			side = EXCLUDED.side,
			crypto = EXCLUDED.crypto,
			price = EXCLUDED.price,
			amount = EXCLUDED.amount,
			total = EXCLUDED.total,
			status = EXCLUDED.status,
			placed_at = EXCLUDED.placed_at`

	_, err := s.pool.Exec(ctx, query,
		o.ID, string(o.Type), o.Crypto,
		o.Price, o.Amount, o.Total,
		string(o.Status), o.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: create order %s: %w", o.ID, err)
	}
	return nil
}

// Get retrieves a single order by id.
func (s *OrderStore) Get(ctx context.Context, id string) (domain.Order, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+orderSelectCols+` FROM orders WHERE id = $1`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("postgres: get order %s: %w", id, err)
	}
	return o, nil
}

// List returns every stored order, newest first.
func (s *OrderStore) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+orderSelectCols+` FROM orders ORDER BY placed_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list orders: %w", err)
	}
	return orders, nil
}

func scanOrder(scanner interface{ Scan(dest ...any) error }) (domain.Order, error) {
	var o domain.Order
	var side, status string

	err := scanner.Scan(
		&o.ID, &side, &o.Crypto,
		&o.Price, &o.Amount, &o.Total,
		&status, &o.Timestamp,
	)
	if err != nil {
		return domain.Order{}, err
	}

	o.Type = domain.OrderSide(side)
	o.Status = domain.OrderStatus(status)
	o.Timestamp = o.Timestamp.UTC()
	return o, nil
}
