package store

import (
	"context"
	"errors"

	"github.com/stackfort/accountd/internal/accounts/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrEmailTaken / ErrUsernameTaken are returned when a unique index
	// rejects a write. The unique indexes are the authority for
	// uniqueness; service-layer pre-checks are a best-effort courtesy and
	// races surface as these errors at commit time.
	ErrEmailTaken    = errors.New("store: email already exists")
	ErrUsernameTaken = errors.New("store: username already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this. It exposes sub-repositories to keep concerns
// tidy and testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., the
	// check-then-write in partial updates).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it
	// automatically handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login (email is the login identifier).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByUsername is used for uniqueness pre-checks.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser writes all mutable fields of the record and bumps
	// updated_at. Callers compose the desired state; the store does not
	// interpret patches.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the record.
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns a page ordered by created_at DESC (id DESC as
	// tiebreak for same-instant rows).
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)

	// CountUsers returns the total number of users.
	CountUsers(ctx context.Context) (int, error)

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}
