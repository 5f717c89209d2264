package pgstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/salesdesk/backoffice/internal/domain/accounts"
	"github.com/salesdesk/backoffice/internal/domain/transactions"
	"github.com/salesdesk/backoffice/internal/storage"
	"github.com/salesdesk/backoffice/internal/storage/dbmodels"
	"github.com/shopspring/decimal"

	// Postgres driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

var _ storage.Storage = (*Storage)(nil)

type Storage struct {
	db *sql.DB
}

type Config struct {
	maxOpenConns    int
	maxIdleConns    int
	connMaxIdleTime time.Duration
	connMaxLifetime time.Duration
}

type Option func(s *Config)

func WithMaxOpenConns(conns int) Option {
	return func(c *Config) {
		c.maxOpenConns = conns
	}
}

func WithMaxIdleConns(conns int) Option {
	return func(c *Config) {
		c.maxIdleConns = conns
	}
}

func WithConnMaxIdleTime(idleTime time.Duration) Option {
	return func(c *Config) {
		c.connMaxIdleTime = idleTime
	}
}

func WithConnMaxLifetime(lifetime time.Duration) Option {
	return func(c *Config) {
		c.connMaxLifetime = lifetime
	}
}

func NewStorage(connStr string, opts ...Option) (*Storage, error) {
	cfg := &Config{
		maxOpenConns:    10,
		maxIdleConns:    5,
		connMaxIdleTime: 180 * time.Second,
		connMaxLifetime: 3600 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	db.SetMaxOpenConns(cfg.maxOpenConns)
	db.SetMaxIdleConns(cfg.maxIdleConns)
	db.SetConnMaxIdleTime(cfg.connMaxIdleTime)
	db.SetConnMaxLifetime(cfg.connMaxLifetime)

	return &Storage{
		db: db,
	}, nil
}

// Bootstrap applies pending schema migrations.
func (s *Storage) Bootstrap(ctx context.Context) error {
	provider, err := goose.NewProvider(
		goose.DialectPostgres,
		s.db,
		os.DirFS("internal/storage/pgstorage/migrations"),
	)
	if err != nil {
		return fmt.Errorf("goose.NewProvider: %w", err)
	}

	_, err = provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("provider.Up: %w", err)
	}

	return nil
}

func (s *Storage) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("db.Close: %w", err)
	}

	return nil
}

// isRetryableError checks if error is retryable.
func isRetryableError(err error) bool {
	// Connection refused error
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsConnectionException(pgErr.Code) {
		return true
	}

	return false
}

// WithRetry retries operations in case of retryable errors.
func WithRetry(operation func() error) error {
	// Retry count
	retryCount := 3

	// Initial retry wait time
	var retryWaitTime time.Duration

	// Define the interval between retries
	retryWaitInterval := 2

	var err error

	for i := 0; i < retryCount; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if isRetryableError(err) {
			retryWaitTime = time.Duration((i*retryWaitInterval + 1)) * time.Second // 1s, 3s, 5s, etc.

			time.Sleep(retryWaitTime)
		} else {
			return fmt.Errorf("%w", err)
		}
	}

	return fmt.Errorf("retry attempts exceeded: %w", err)
}

func (s *Storage) Ping(ctx context.Context) error {
	err := WithRetry(func() error {
		if err := s.db.PingContext(ctx); err != nil {
			return fmt.Errorf("db.PingContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) CreateAccount(ctx context.Context, acc *accounts.Account) error {
	err := WithRetry(func() error {
		query := `INSERT INTO users (username, password_digest, role) VALUES ($1, $2, $3)`

		if _, err := s.db.ExecContext(ctx, query,
			acc.Username(), acc.CredentialDigest(), acc.Role().String(),
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
				// Unique constraint on username makes a concurrent
				// duplicate registration fail here instead of racing.
				return storage.ErrAccountAlreadyExists
			}

			return fmt.Errorf("db.ExecContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetAccountByID(ctx context.Context, id int64) (*accounts.Account, error) {
	dbAccount := new(dbmodels.Account)

	err := WithRetry(func() error {
		query := `SELECT id, username, password_digest, role FROM users WHERE id = $1`

		row := s.db.QueryRowContext(ctx, query, id)

		if err := row.Scan(
			&dbAccount.ID, &dbAccount.Username, &dbAccount.PasswordDigest, &dbAccount.Role,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrAccountNotFound
			}

			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	acc, err := accounts.NewAccount(
		dbAccount.ID, dbAccount.Username, dbAccount.PasswordDigest, accounts.Role(dbAccount.Role),
	)
	if err != nil {
		return nil, fmt.Errorf("accounts.NewAccount: %w", err)
	}

	return acc, nil
}

func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*accounts.Account, error) {
	dbAccount := new(dbmodels.Account)

	err := WithRetry(func() error {
		query := `SELECT id, username, password_digest, role FROM users WHERE username = $1`

		row := s.db.QueryRowContext(ctx, query, username)

		if err := row.Scan(
			&dbAccount.ID, &dbAccount.Username, &dbAccount.PasswordDigest, &dbAccount.Role,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return storage.ErrAccountNotFound
			}

			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	acc, err := accounts.NewAccount(
		dbAccount.ID, dbAccount.Username, dbAccount.PasswordDigest, accounts.Role(dbAccount.Role),
	)
	if err != nil {
		return nil, fmt.Errorf("accounts.NewAccount: %w", err)
	}

	return acc, nil
}

func (s *Storage) GetAccountsByRole(ctx context.Context, roles ...accounts.Role) ([]*accounts.Account, error) {
	dbAccounts := make([]*dbmodels.Account, 0)

	err := WithRetry(func() error {
		query := `SELECT id, username, password_digest, role FROM users`

		args := make([]any, 0, 1)

		if len(roles) > 0 {
			roleStrs := make([]string, len(roles))
			for i, role := range roles {
				roleStrs[i] = role.String()
			}

			query += ` WHERE role = ANY($1)`

			args = append(args, pq.Array(roleStrs))
		}

		query += ` ORDER BY id`

		rows, err := s.db.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("db.QueryContext: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			dbAccount := new(dbmodels.Account)

			if err := rows.Scan(
				&dbAccount.ID, &dbAccount.Username, &dbAccount.PasswordDigest, &dbAccount.Role,
			); err != nil {
				return fmt.Errorf("rows.Scan: %w", err)
			}

			dbAccounts = append(dbAccounts, dbAccount)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	accs := make([]*accounts.Account, 0, len(dbAccounts))

	for _, dbAccount := range dbAccounts {
		acc, err := accounts.NewAccount(
			dbAccount.ID, dbAccount.Username, dbAccount.PasswordDigest, accounts.Role(dbAccount.Role),
		)
		if err != nil {
			return nil, fmt.Errorf("accounts.NewAccount: %w", err)
		}

		accs = append(accs, acc)
	}

	return accs, nil
}

func (s *Storage) CountAccountsByRole(ctx context.Context, role accounts.Role) (int64, error) {
	var count int64

	err := WithRetry(func() error {
		query := `SELECT COUNT(*) FROM users WHERE role = $1`

		row := s.db.QueryRowContext(ctx, query, role.String())

		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *Storage) CreateTransaction(ctx context.Context, txn *transactions.Transaction) error {
	err := WithRetry(func() error {
		// sales_date defaults to CURRENT_DATE; the caller never supplies it.
		query := `INSERT INTO sales (user_id, amount_withdrawn, charge, transaction_type)` +
			` VALUES ($1, $2, $3, $4)`

		if _, err := s.db.ExecContext(ctx, query,
			txn.AccountID(), txn.AmountWithdrawn(), txn.Charge(), txn.Type(),
		); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
				return storage.ErrAccountNotFound
			}

			return fmt.Errorf("db.ExecContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return nil
}

func (s *Storage) GetTransactions(ctx context.Context) ([]*transactions.Entry, error) {
	dbSales := make([]*dbmodels.Sale, 0)

	err := WithRetry(func() error {
		query := `SELECT s.id, u.username, s.amount_withdrawn, s.charge, s.transaction_type, s.sales_date` +
			` FROM sales s JOIN users u ON s.user_id = u.id ORDER BY s.id DESC`

		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return fmt.Errorf("db.QueryContext: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			dbSale := new(dbmodels.Sale)

			if err := rows.Scan(
				&dbSale.ID,
				&dbSale.AttendantName,
				&dbSale.AmountWithdrawn,
				&dbSale.Charge,
				&dbSale.TransactionType,
				&dbSale.SalesDate,
			); err != nil {
				return fmt.Errorf("rows.Scan: %w", err)
			}

			dbSales = append(dbSales, dbSale)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*transactions.Entry, 0, len(dbSales))

	for _, dbSale := range dbSales {
		entries = append(entries, &transactions.Entry{
			ID:              dbSale.ID,
			AttendantName:   dbSale.AttendantName,
			AmountWithdrawn: dbSale.AmountWithdrawn,
			Charge:          dbSale.Charge,
			Type:            dbSale.TransactionType,
			Date:            dbSale.SalesDate,
		})
	}

	return entries, nil
}

func (s *Storage) CountTransactions(ctx context.Context) (int64, error) {
	var count int64

	err := WithRetry(func() error {
		query := `SELECT COUNT(*) FROM sales`

		row := s.db.QueryRowContext(ctx, query)

		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *Storage) SumTransactionTotals(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal

	err := WithRetry(func() error {
		query := `SELECT COALESCE(SUM(amount_withdrawn + charge), 0) FROM sales`

		row := s.db.QueryRowContext(ctx, query)

		if err := row.Scan(&total); err != nil {
			return fmt.Errorf("db.QueryRowContext: %w", err)
		}

		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	return total, nil
}

func (s *Storage) DeleteAllTransactions(ctx context.Context) (int64, error) {
	var deleted int64

	err := WithRetry(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("db.BeginTx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck

		res, err := tx.ExecContext(ctx, `DELETE FROM sales`)
		if err != nil {
			return fmt.Errorf("tx.ExecContext: %w", err)
		}

		deleted, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("res.RowsAffected: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("tx.Commit: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}
