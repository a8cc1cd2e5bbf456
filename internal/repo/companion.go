package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campustrail/marketplace/internal/domain"
)

// CompanionRequestRepo defines the persistence operations for companion
// requests and their interest tags.
type CompanionRequestRepo interface {
	// Create inserts a new companion request with its interest rows and
	// returns the persisted record.
	Create(ctx context.Context, cr domain.CompanionRequest) (domain.CompanionRequest, error)

	// GetByID retrieves a single companion request with its interests.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.CompanionRequest, error)

	// List returns all companion requests with interests, ordered by
	// start_date ascending.
	List(ctx context.Context) ([]domain.CompanionRequest, error)

	// AddInterests merges new interest values into the request and, when
	// style is non-empty, replaces any previously stored style with it.
	// Returns the updated companion request.
	AddInterests(ctx context.Context, requestID uuid.UUID, style string, interests []string) (domain.CompanionRequest, error)
}

// pgCompanionRequestRepo is the Postgres implementation of CompanionRequestRepo.
type pgCompanionRequestRepo struct {
	db txdb
}

// NewCompanionRequestRepo constructs a CompanionRequestRepo backed by the
// provided db connection.
func NewCompanionRequestRepo(db txdb) CompanionRequestRepo {
	return &pgCompanionRequestRepo{db: db}
}

const companionQuery = `
	SELECT cr.id, cr.user_id, cr.destination, cr.flexibility, cr.notes,
	       cr.start_date, cr.end_date,
	       COALESCE(x.interests, '{}') AS interests,
	       cr.created_at, cr.updated_at
	FROM companion_requests cr
	LEFT JOIN LATERAL (
		SELECT array_agg(value ORDER BY value) AS interests
		FROM companion_request_interests
		WHERE companion_request_id = cr.id
	) x ON true`

func (r *pgCompanionRequestRepo) Create(ctx context.Context, cr domain.CompanionRequest) (domain.CompanionRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const q = `
		INSERT INTO companion_requests (user_id, destination, flexibility, notes, start_date, end_date)
		VALUES (@user_id, @destination, @flexibility, @notes, @start_date, @end_date)
		RETURNING id`

	args := pgx.NamedArgs{
		"user_id":     cr.UserID,
		"destination": cr.Destination,
		"flexibility": cr.Flexibility,
		"notes":       cr.Notes,
		"start_date":  cr.Window.Start,
		"end_date":    cr.Window.End,
	}

	var id pgtype.UUID
	if err := tx.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.Create: insert: %w", err)
	}
	requestID := uuid.UUID(id.Bytes)

	if err := insertInterests(ctx, tx, "companion_request_interests", "companion_request_id", requestID, cr.Style, cr.Interests); err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.Create: interests: %w", err)
	}

	created, err := getCompanionRequest(ctx, tx, requestID)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.Create: commit: %w", err)
	}
	return created, nil
}

func (r *pgCompanionRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.CompanionRequest, error) {
	result, err := getCompanionRequest(ctx, r.db, id)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.GetByID: %w", err)
	}
	return result, nil
}

func getCompanionRequest(ctx context.Context, db db, id uuid.UUID) (domain.CompanionRequest, error) {
	return scanCompanionRequest(db.QueryRow(ctx, companionQuery+` WHERE cr.id = @id`, pgx.NamedArgs{"id": id}))
}

func (r *pgCompanionRequestRepo) List(ctx context.Context) ([]domain.CompanionRequest, error) {
	rows, err := r.db.Query(ctx, companionQuery+` ORDER BY cr.start_date`)
	if err != nil {
		return nil, fmt.Errorf("repo.CompanionRequestRepo.List: %w", err)
	}
	defer rows.Close()

	var items []domain.CompanionRequest
	for rows.Next() {
		cr, err := scanCompanionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.CompanionRequestRepo.List: scan: %w", err)
		}
		items = append(items, cr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.CompanionRequestRepo.List: rows: %w", err)
	}
	return items, nil
}

func (r *pgCompanionRequestRepo) AddInterests(ctx context.Context, requestID uuid.UUID, style string, interests []string) (domain.CompanionRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.AddInterests: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// At most one style is retained: a new style replaces any stored one.
	if style != "" {
		const del = `DELETE FROM companion_request_interests WHERE companion_request_id = @id AND value LIKE 'style:%'`
		if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"id": requestID}); err != nil {
			return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.AddInterests: drop style: %w", err)
		}
	}

	if err := insertInterests(ctx, tx, "companion_request_interests", "companion_request_id", requestID, style, interests); err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.AddInterests: %w", err)
	}

	updated, err := getCompanionRequest(ctx, tx, requestID)
	if err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.AddInterests: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.CompanionRequest{}, fmt.Errorf("repo.CompanionRequestRepo.AddInterests: commit: %w", err)
	}
	return updated, nil
}

// scanCompanionRequest maps a single database row into a domain.CompanionRequest.
func scanCompanionRequest(s scanner) (domain.CompanionRequest, error) {
	var (
		cr     domain.CompanionRequest
		id     pgtype.UUID
		userID pgtype.UUID
		values []string
	)

	err := s.Scan(&id, &userID, &cr.Destination, &cr.Flexibility, &cr.Notes,
		&cr.Window.Start, &cr.Window.End, &values, &cr.CreatedAt, &cr.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CompanionRequest{}, domain.ErrNotFound
		}
		return domain.CompanionRequest{}, err
	}

	cr.ID = uuid.UUID(id.Bytes)
	cr.UserID = uuid.UUID(userID.Bytes)
	cr.Style, cr.Interests = splitStyle(values)
	return cr, nil
}
