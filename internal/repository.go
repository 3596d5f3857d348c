package internal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"
	"go.uber.org/zap"

	"github.com/DrGermanius/ExpressWash/internal/model"
)

const (
	orderFields = "id, receipt_number, customer_name, mobile_number, order_date, regular_clothes_kg, blankets_kg, white_clothes_pieces, total_amount, created_at, collection_date"

	uniqueViolation = "23505"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go

type IRepository interface {
	Insert(context.Context, model.Order) (model.Order, error)
	FindByID(context.Context, int) (model.Order, error)
	FindByReceiptNumber(context.Context, string) (model.Order, error)
	Update(context.Context, int, model.OrderPatch) (model.Order, error)
	MarkCollected(context.Context, string, time.Time) (model.Order, error)
	Delete(context.Context, int) error
	ListAll(context.Context, model.OrderFilter) ([]model.Order, error)
	LastReceiptNumber(context.Context, string) (string, error)
}

type Repository struct {
	Conn    *sql.DB
	Pricing model.PricingTable
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

func NewRepository(connString string, pricing model.PricingTable, timeout time.Duration, logger *zap.SugaredLogger) (*Repository, error) {
	conn, err := sql.Open("pgx", connString)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
	}

	if err = Migrate(conn, logger); err != nil {
		conn.Close()
		return nil, err
	}

	return &Repository{Conn: conn, Pricing: pricing, Timeout: timeout, Logger: logger}, nil
}

func (r Repository) Close() error {
	return r.Conn.Close()
}

func (r Repository) Insert(ctx context.Context, o model.Order) (model.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.Conn.QueryRowContext(ctx, `INSERT INTO orders (receipt_number, customer_name, mobile_number, order_date, regular_clothes_kg, blankets_kg, white_clothes_pieces, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`,
		o.ReceiptNumber, o.CustomerName, o.MobileNumber, o.OrderDate,
		o.RegularClothesKg, o.BlanketsKg, o.WhiteClothesPieces, o.TotalAmount)

	err := row.Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}
	return o, nil
}

func (r Repository) FindByID(ctx context.Context, id int) (model.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.Conn.QueryRowContext(ctx, "SELECT "+orderFields+" FROM orders WHERE id = $1", id)
	o, err := scanOrder(row)
	if err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}
	return o, nil
}

func (r Repository) FindByReceiptNumber(ctx context.Context, receiptNumber string) (model.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.Conn.QueryRowContext(ctx, "SELECT "+orderFields+" FROM orders WHERE receipt_number = $1", receiptNumber)
	o, err := scanOrder(row)
	if err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}
	return o, nil
}

// Update locks the row so the recomputed total always matches the stored quantities.
func (r Repository) Update(ctx context.Context, id int, patch model.OrderPatch) (model.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Conn.BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}
	defer tx.Rollback()

	o, err := scanOrder(tx.QueryRowContext(ctx, "SELECT "+orderFields+" FROM orders WHERE id = $1 FOR UPDATE", id))
	if err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}

	o, err = applyPatch(o, patch, r.Pricing)
	if err != nil {
		return model.Order{}, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET customer_name = $1, mobile_number = $2, order_date = $3,
		regular_clothes_kg = $4, blankets_kg = $5, white_clothes_pieces = $6, total_amount = $7 WHERE id = $8`,
		o.CustomerName, o.MobileNumber, o.OrderDate,
		o.RegularClothesKg, o.BlanketsKg, o.WhiteClothesPieces, o.TotalAmount, id)
	if err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}

	if err = tx.Commit(); err != nil {
		return model.Order{}, r.storeError(err, ErrNotFound)
	}
	return o, nil
}

// MarkCollected sets collection_date only while it is still NULL, so of two
// racing callers exactly one gets the row back.
func (r Repository) MarkCollected(ctx context.Context, receiptNumber string, at time.Time) (model.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	row := r.Conn.QueryRowContext(ctx, "UPDATE orders SET collection_date = $1 WHERE receipt_number = $2 AND collection_date IS NULL RETURNING "+orderFields,
		at, receiptNumber)
	o, err := scanOrder(row)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Order{}, r.storeError(err, ErrOrderNotFound)
	}

	exist := false
	err = r.Conn.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE receipt_number = $1)", receiptNumber).Scan(&exist)
	if err != nil {
		return model.Order{}, r.storeError(err, ErrOrderNotFound)
	}
	if !exist {
		return model.Order{}, ErrOrderNotFound
	}
	return model.Order{}, ErrAlreadyCollected
}

func (r Repository) Delete(ctx context.Context, id int) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.Conn.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return r.storeError(err, ErrNotFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.storeError(err, ErrNotFound)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repository) ListAll(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := listQuery(f)
	rows, err := r.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.storeError(err, ErrNotFound)
	}
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, r.storeError(err, ErrNotFound)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, r.storeError(err, ErrNotFound)
	}

	return orders, nil
}

// LastReceiptNumber returns the most recently inserted receipt number
// starting with prefix, or "" when there is none.
func (r Repository) LastReceiptNumber(ctx context.Context, prefix string) (string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var receipt string
	err := r.Conn.QueryRowContext(ctx, "SELECT receipt_number FROM orders WHERE starts_with(receipt_number, $1) ORDER BY receipt_number DESC LIMIT 1", prefix).Scan(&receipt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", r.storeError(err, ErrNotFound)
	}
	return receipt, nil
}

func listQuery(f model.OrderFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Search != "" {
		p := arg(strings.ToLower(f.Search))
		where = append(where, "(strpos(lower(receipt_number), "+p+") > 0 OR strpos(lower(customer_name), "+p+") > 0)")
	}
	if f.OrderDate != nil {
		where = append(where, "order_date = "+arg(f.OrderDate.Format(model.DateLayout)))
	}
	if f.MinAmount != nil {
		where = append(where, "total_amount >= "+arg(*f.MinAmount))
	}
	switch f.Status {
	case model.OrderStatusPending:
		where = append(where, "collection_date IS NULL")
	case model.OrderStatusCollected:
		where = append(where, "collection_date IS NOT NULL")
	}

	query := "SELECT " + orderFields + " FROM orders"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	return query + " ORDER BY created_at DESC, id DESC", args
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s scanner) (model.Order, error) {
	var o model.Order
	err := s.Scan(&o.ID, &o.ReceiptNumber, &o.CustomerName, &o.MobileNumber, &o.OrderDate,
		&o.RegularClothesKg, &o.BlanketsKg, &o.WhiteClothesPieces, &o.TotalAmount,
		&o.CreatedAt, &o.CollectionDate)
	return o, err
}

// storeError translates driver errors into the store's error kinds.
// Anything that is not a server-side SQL error is treated as connectivity.
func (r Repository) storeError(err error, notFound error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolation {
			return ErrDuplicateReceiptNumber
		}
		return err
	}

	r.Logger.Errorf("order store error: %s", err.Error())
	return fmt.Errorf("%w: %s", ErrStoreUnavailable, err)
}

func (r Repository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}
