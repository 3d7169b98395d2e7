package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var ErrOrderNotFound = errors.New("order not found")

const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

type PostgresStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

type Order struct {
	ID              int64     `db:"id"`
	Reference       string    `db:"reference"`
	UserID          int64     `db:"user_id"`
	Name            string    `db:"name"`
	Email           string    `db:"email"`
	PageCount       int       `db:"page_count"`
	ProjectNotes    string    `db:"project_notes"`
	AdditionalNotes string    `db:"additional_notes"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

func NewPostgresStorage(ctx context.Context, cfg Config, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DBName,
	)

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	if cfg.ConnectTimeout > 0 {
		retryPolicy.MaxElapsedTime = cfg.ConnectTimeout
	}
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			if err := conn.PingContext(ctx); err != nil {
				_ = conn.Close()
				return fmt.Errorf("ping: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", next))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:     db,
		logger: logger,
	}, nil
}

// DB exposes the underlying handle for migrations.
func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStorage) SaveOrder(ctx context.Context, order Order) (int64, error) {
	const operation = "storage.SaveOrder"

	const query = `
        INSERT INTO orders (
            reference, user_id, name, email, page_count,
            project_notes, additional_notes, status, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `

	if order.Status == "" {
		order.Status = StatusNew
	}

	var orderID int64
	err := s.db.QueryRowContext(ctx, query,
		order.Reference,
		order.UserID,
		order.Name,
		order.Email,
		order.PageCount,
		order.ProjectNotes,
		order.AdditionalNotes,
		order.Status,
		order.CreatedAt,
	).Scan(&orderID)
	if err != nil {
		return 0, fmt.Errorf("%s: failed to save order: %w", operation, err)
	}

	return orderID, nil
}

func (s *PostgresStorage) GetOrderByID(ctx context.Context, orderID int64) (*Order, error) {
	const operation = "storage.GetOrderByID"

	const query = `SELECT * FROM orders WHERE id = $1`

	var order Order
	if err := s.db.GetContext(ctx, &order, query, orderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", operation, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get order: %w", operation, err)
	}
	return &order, nil
}

func (s *PostgresStorage) GetOrderByReference(ctx context.Context, reference string) (*Order, error) {
	const operation = "storage.GetOrderByReference"

	const query = `SELECT * FROM orders WHERE reference = $1`

	var order Order
	if err := s.db.GetContext(ctx, &order, query, reference); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", operation, ErrOrderNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get order: %w", operation, err)
	}
	return &order, nil
}

func (s *PostgresStorage) ListOrders(ctx context.Context) ([]Order, error) {
	const operation = "storage.ListOrders"

	const query = `SELECT * FROM orders ORDER BY created_at DESC`

	var orders []Order
	if err := s.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, fmt.Errorf("%s: failed to fetch orders: %w", operation, err)
	}
	return orders, nil
}

func (s *PostgresStorage) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	const operation = "storage.UpdateOrderStatus"

	if !ValidStatus(status) {
		return fmt.Errorf("%s: invalid status %q", operation, status)
	}

	const query = `UPDATE orders SET status = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, status, orderID)
	if err != nil {
		return fmt.Errorf("%s: failed to update status: %w", operation, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to read affected rows: %w", operation, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", operation, ErrOrderNotFound)
	}
	return nil
}
