// Package repo contains all database access logic for the marketplace API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campustrail/marketplace/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txdb extends db with the ability to open a transaction. *pgxpool.Pool and
// pgx.Tx both satisfy it (a pgx.Tx begins a nested savepoint), so the
// test-transaction trick above still works for repos that need transactions.
type txdb interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// GearRepo defines the persistence operations for gear items.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type GearRepo interface {
	// Create inserts a new gear item and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, gear domain.GearItem) (domain.GearItem, error)

	// GetByID retrieves a single gear item by its UUID primary key.
	// Returns domain.ErrNotFound if no item with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.GearItem, error)

	// List returns all gear items ordered by created_at descending.
	List(ctx context.Context) ([]domain.GearItem, error)

	// ListByOwner returns all gear items owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.GearItem, error)

	// UpdateStatus sets the listing status of a gear item and returns the
	// updated record. Returns domain.ErrNotFound if the item does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GearStatus) (domain.GearItem, error)
}

// pgGearRepo is the Postgres implementation of GearRepo.
type pgGearRepo struct {
	db db
}

// NewGearRepo constructs a GearRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewGearRepo(db db) GearRepo {
	return &pgGearRepo{db: db}
}

const gearColumns = `id, owner_id, title, description, daily_rate, deposit_amount,
		condition, status, buffer_hours, created_at, updated_at`

func (r *pgGearRepo) Create(ctx context.Context, gear domain.GearItem) (domain.GearItem, error) {
	const q = `
		INSERT INTO gear_items (owner_id, title, description, daily_rate, deposit_amount, condition, status, buffer_hours)
		VALUES (@owner_id, @title, @description, @daily_rate, @deposit_amount, @condition, @status, @buffer_hours)
		RETURNING ` + gearColumns

	args := pgx.NamedArgs{
		"owner_id":       gear.OwnerID,
		"title":          gear.Title,
		"description":    gear.Description,
		"daily_rate":     gear.DailyRate,
		"deposit_amount": gear.DepositAmount,
		"condition":      gear.Condition,
		"status":         gear.Status,
		"buffer_hours":   gear.BufferHours, // nil becomes NULL
	}

	result, err := scanGear(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("repo.GearRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgGearRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.GearItem, error) {
	const q = `SELECT ` + gearColumns + ` FROM gear_items WHERE id = @id`

	result, err := scanGear(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("repo.GearRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgGearRepo) List(ctx context.Context) ([]domain.GearItem, error) {
	const q = `SELECT ` + gearColumns + ` FROM gear_items ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.GearRepo.List: %w", err)
	}
	defer rows.Close()
	return collectGear(rows, "repo.GearRepo.List")
}

func (r *pgGearRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.GearItem, error) {
	const q = `SELECT ` + gearColumns + ` FROM gear_items WHERE owner_id = @owner_id ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"owner_id": ownerID})
	if err != nil {
		return nil, fmt.Errorf("repo.GearRepo.ListByOwner: %w", err)
	}
	defer rows.Close()
	return collectGear(rows, "repo.GearRepo.ListByOwner")
}

func (r *pgGearRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.GearStatus) (domain.GearItem, error) {
	const q = `
		UPDATE gear_items
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + gearColumns

	result, err := scanGear(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": status}))
	if err != nil {
		return domain.GearItem{}, fmt.Errorf("repo.GearRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanGear maps a single database row into a domain.GearItem.
// It handles the UUID and nullable buffer_hours conversions.
func scanGear(s scanner) (domain.GearItem, error) {
	var (
		g      domain.GearItem
		id     pgtype.UUID
		owner  pgtype.UUID
		buffer pgtype.Int4
	)

	err := s.Scan(&id, &owner, &g.Title, &g.Description, &g.DailyRate, &g.DepositAmount,
		&g.Condition, &g.Status, &buffer, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.GearItem{}, domain.ErrNotFound
		}
		return domain.GearItem{}, err
	}

	g.ID = uuid.UUID(id.Bytes)
	g.OwnerID = uuid.UUID(owner.Bytes)
	if buffer.Valid {
		b := int(buffer.Int32)
		g.BufferHours = &b
	}
	return g, nil
}

func collectGear(rows pgx.Rows, op string) ([]domain.GearItem, error) {
	var items []domain.GearItem
	for rows.Next() {
		g, err := scanGear(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		items = append(items, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return items, nil
}
