package repo

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campustrail/marketplace/internal/domain"
)

// RentalRepo defines the persistence operations for gear rentals.
type RentalRepo interface {
	// CreateIfAvailable runs the check-then-create for a new rental as one
	// serialized unit. Inside a transaction it takes a per-item advisory lock,
	// loads the item's active rentals, invokes guard with them, and inserts
	// the rental only if guard returns nil. Any guard error aborts the
	// transaction and is returned unwrapped, so a *domain.ConflictError
	// surfaces intact. Concurrent attempts for the same gear item serialize on
	// the lock, so two overlapping requests can never both pass the check.
	CreateIfAvailable(ctx context.Context, rental domain.Rental, guard func(active []domain.Rental) error) (domain.Rental, error)

	// GetByID retrieves a single rental by its UUID primary key.
	// Returns domain.ErrNotFound if no rental with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Rental, error)

	// ListActiveByGear returns the gear item's rentals whose status counts
	// toward availability (REQUESTED, APPROVED, IN_PROGRESS), oldest first.
	ListActiveByGear(ctx context.Context, gearItemID uuid.UUID) ([]domain.Rental, error)

	// ListByGear returns all rentals for a gear item, newest first.
	ListByGear(ctx context.Context, gearItemID uuid.UUID) ([]domain.Rental, error)

	// ListByRenter returns all rentals made by a renter, newest first.
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]domain.Rental, error)

	// UpdateStatus sets the rental's booking status and returns the updated
	// record. Moving to IN_PROGRESS stamps pickup_confirmed_at; moving to
	// COMPLETED stamps return_confirmed_at.
	// Returns domain.ErrNotFound if the rental does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) (domain.Rental, error)

	// UpdateDeposit sets the rental's deposit status and held amount and
	// returns the updated record.
	// Returns domain.ErrNotFound if the rental does not exist.
	UpdateDeposit(ctx context.Context, id uuid.UUID, status domain.DepositStatus, amount int) (domain.Rental, error)
}

// pgRentalRepo is the Postgres implementation of RentalRepo.
type pgRentalRepo struct {
	db txdb
}

// NewRentalRepo constructs a RentalRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRentalRepo(db txdb) RentalRepo {
	return &pgRentalRepo{db: db}
}

const rentalColumns = `id, gear_item_id, renter_id, start_date, end_date, rental_mode,
		status, deposit_status, deposit_held, pickup_confirmed_at, return_confirmed_at,
		created_at, updated_at`

const activeStatusPredicate = `status IN ('REQUESTED', 'APPROVED', 'IN_PROGRESS')`

// gearLockKey derives the advisory-lock key for a gear item from the first
// eight bytes of its UUID. pg_advisory_xact_lock keys are 64-bit, so distinct
// items map to distinct keys for all practical purposes.
func gearLockKey(gearItemID uuid.UUID) int64 {
	return int64(binary.BigEndian.Uint64(gearItemID[:8]))
}

func (r *pgRentalRepo) CreateIfAvailable(ctx context.Context, rental domain.Rental, guard func(active []domain.Rental) error) (domain.Rental, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.CreateIfAvailable: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — rollback after commit is a no-op

	// Serialize concurrent booking attempts on the same item. The lock is
	// released automatically at transaction end.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(@key)`,
		pgx.NamedArgs{"key": gearLockKey(rental.GearItemID)}); err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.CreateIfAvailable: lock: %w", err)
	}

	active, err := listActiveByGear(ctx, tx, rental.GearItemID)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.CreateIfAvailable: %w", err)
	}

	if err := guard(active); err != nil {
		return domain.Rental{}, err
	}

	const q = `
		INSERT INTO gear_rentals (gear_item_id, renter_id, start_date, end_date, rental_mode, status, deposit_status, deposit_held)
		VALUES (@gear_item_id, @renter_id, @start_date, @end_date, @rental_mode, @status, @deposit_status, @deposit_held)
		RETURNING ` + rentalColumns

	args := pgx.NamedArgs{
		"gear_item_id":   rental.GearItemID,
		"renter_id":      rental.RenterID,
		"start_date":     rental.Window.Start,
		"end_date":       rental.Window.End,
		"rental_mode":    rental.Mode,
		"status":         rental.Status,
		"deposit_status": rental.DepositStatus,
		"deposit_held":   rental.DepositHeld,
	}

	created, err := scanRental(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.CreateIfAvailable: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.CreateIfAvailable: commit: %w", err)
	}
	return created, nil
}

func (r *pgRentalRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Rental, error) {
	const q = `SELECT ` + rentalColumns + ` FROM gear_rentals WHERE id = @id`

	result, err := scanRental(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgRentalRepo) ListActiveByGear(ctx context.Context, gearItemID uuid.UUID) ([]domain.Rental, error) {
	rentals, err := listActiveByGear(ctx, r.db, gearItemID)
	if err != nil {
		return nil, fmt.Errorf("repo.RentalRepo.ListActiveByGear: %w", err)
	}
	return rentals, nil
}

// listActiveByGear is shared between the public read and the serialized
// create, which must run the same query inside its transaction.
func listActiveByGear(ctx context.Context, db db, gearItemID uuid.UUID) ([]domain.Rental, error) {
	const q = `
		SELECT ` + rentalColumns + `
		FROM gear_rentals
		WHERE gear_item_id = @gear_item_id AND ` + activeStatusPredicate + `
		ORDER BY start_date`

	rows, err := db.Query(ctx, q, pgx.NamedArgs{"gear_item_id": gearItemID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *pgRentalRepo) ListByGear(ctx context.Context, gearItemID uuid.UUID) ([]domain.Rental, error) {
	const q = `
		SELECT ` + rentalColumns + `
		FROM gear_rentals
		WHERE gear_item_id = @gear_item_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"gear_item_id": gearItemID})
	if err != nil {
		return nil, fmt.Errorf("repo.RentalRepo.ListByGear: %w", err)
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RentalRepo.ListByGear: %w", err)
	}
	return rentals, nil
}

func (r *pgRentalRepo) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]domain.Rental, error) {
	const q = `
		SELECT ` + rentalColumns + `
		FROM gear_rentals
		WHERE renter_id = @renter_id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"renter_id": renterID})
	if err != nil {
		return nil, fmt.Errorf("repo.RentalRepo.ListByRenter: %w", err)
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, fmt.Errorf("repo.RentalRepo.ListByRenter: %w", err)
	}
	return rentals, nil
}

func (r *pgRentalRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RentalStatus) (domain.Rental, error) {
	const q = `
		UPDATE gear_rentals
		SET status = @status,
		    pickup_confirmed_at = CASE WHEN @status = 'IN_PROGRESS' THEN now() ELSE pickup_confirmed_at END,
		    return_confirmed_at = CASE WHEN @status = 'COMPLETED' THEN now() ELSE return_confirmed_at END,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + rentalColumns

	result, err := scanRental(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": status}))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.UpdateStatus: %w", err)
	}
	return result, nil
}

func (r *pgRentalRepo) UpdateDeposit(ctx context.Context, id uuid.UUID, status domain.DepositStatus, amount int) (domain.Rental, error) {
	const q = `
		UPDATE gear_rentals
		SET deposit_status = @deposit_status,
		    deposit_held = @deposit_held,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + rentalColumns

	args := pgx.NamedArgs{"id": id, "deposit_status": status, "deposit_held": amount}
	result, err := scanRental(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("repo.RentalRepo.UpdateDeposit: %w", err)
	}
	return result, nil
}

// scanRental maps a single database row into a domain.Rental.
func scanRental(s scanner) (domain.Rental, error) {
	var (
		r        domain.Rental
		id       pgtype.UUID
		gearID   pgtype.UUID
		renterID pgtype.UUID
		pickup   pgtype.Timestamptz
		returned pgtype.Timestamptz
	)

	err := s.Scan(&id, &gearID, &renterID, &r.Window.Start, &r.Window.End, &r.Mode,
		&r.Status, &r.DepositStatus, &r.DepositHeld, &pickup, &returned,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Rental{}, domain.ErrNotFound
		}
		return domain.Rental{}, err
	}

	r.ID = uuid.UUID(id.Bytes)
	r.GearItemID = uuid.UUID(gearID.Bytes)
	r.RenterID = uuid.UUID(renterID.Bytes)
	if pickup.Valid {
		t := pickup.Time
		r.PickupConfirmedAt = &t
	}
	if returned.Valid {
		t := returned.Time
		r.ReturnConfirmedAt = &t
	}
	return r, nil
}

func collectRentals(rows pgx.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rental, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return rentals, nil
}
