package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines payment data access interface
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates payment repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const paymentSelectColumns = `
	id, booking_id, tx_ref, amount, currency, status, checkout_url,
	created_at, updated_at
`

func (r *repository) Create(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, tx_ref, amount, currency, status, checkout_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BookingID, p.TxRef, p.Amount, p.Currency, p.Status, p.CheckoutURL,
	)
	return err
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Payment, error) {
	query := `SELECT ` + paymentSelectColumns + ` FROM payments WHERE booking_id = $1`

	var p Payment
	if err := r.db.GetContext(ctx, &p, query, bookingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByTxRef(ctx context.Context, txRef string) (*Payment, error) {
	query := `SELECT ` + paymentSelectColumns + ` FROM payments WHERE tx_ref = $1`

	var p Payment
	if err := r.db.GetContext(ctx, &p, query, txRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	query := `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status)
	return err
}
