package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/campustrail/marketplace/internal/domain"
)

// stylePrefix marks the single travel-style row in the interest tables.
// The domain model exposes a proper Style field; the prefix convention exists
// only at the storage boundary and never leaks past this package.
const stylePrefix = "style:"

// ItineraryRepo defines the persistence operations for itineraries, their
// interest tags, and join approvals.
type ItineraryRepo interface {
	// Create inserts a new itinerary with its interest rows (including the
	// style row when Style is set) and returns the persisted record.
	Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error)

	// GetByID retrieves a single itinerary with interests and approved-join
	// count. Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error)

	// List returns all itineraries with interests and approved-join counts,
	// ordered by start_date ascending.
	List(ctx context.Context) ([]domain.Itinerary, error)

	// CreateJoin inserts a PENDING MEMBER join request for the user.
	// The (itinerary, user) pair is unique; callers check for an existing
	// row first via GetJoinByUser.
	CreateJoin(ctx context.Context, itineraryID, userID uuid.UUID, message string) (domain.ItineraryJoin, error)

	// GetJoin retrieves a join row by its ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetJoin(ctx context.Context, id uuid.UUID) (domain.ItineraryJoin, error)

	// GetJoinByUser retrieves the user's join row for an itinerary, in any
	// status. Returns domain.ErrNotFound if the user never requested to join.
	GetJoinByUser(ctx context.Context, itineraryID, userID uuid.UUID) (domain.ItineraryJoin, error)

	// UpdateJoinStatus sets the join's status and returns the updated row.
	// Returns domain.ErrNotFound if the join does not exist.
	UpdateJoinStatus(ctx context.Context, id uuid.UUID, status domain.JoinStatus) (domain.ItineraryJoin, error)

	// AddInterests merges new interest values into the itinerary and, when
	// style is non-empty, replaces any previously stored style with it.
	// Returns the updated itinerary.
	AddInterests(ctx context.Context, itineraryID uuid.UUID, style string, interests []string) (domain.Itinerary, error)
}

// pgItineraryRepo is the Postgres implementation of ItineraryRepo.
type pgItineraryRepo struct {
	db txdb
}

// NewItineraryRepo constructs an ItineraryRepo backed by the provided db connection.
func NewItineraryRepo(db txdb) ItineraryRepo {
	return &pgItineraryRepo{db: db}
}

const itineraryQuery = `
	SELECT i.id, i.creator_id, i.title, i.destination, i.description,
	       i.start_date, i.end_date, i.max_people,
	       COALESCE(j.approved, 0) AS approved_joins,
	       COALESCE(x.interests, '{}') AS interests,
	       i.created_at, i.updated_at
	FROM itineraries i
	LEFT JOIN LATERAL (
		SELECT count(*) AS approved
		FROM itinerary_joins
		WHERE itinerary_id = i.id AND status = 'APPROVED'
	) j ON true
	LEFT JOIN LATERAL (
		SELECT array_agg(value ORDER BY value) AS interests
		FROM itinerary_interests
		WHERE itinerary_id = i.id
	) x ON true`

func (r *pgItineraryRepo) Create(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const q = `
		INSERT INTO itineraries (creator_id, title, destination, description, start_date, end_date, max_people)
		VALUES (@creator_id, @title, @destination, @description, @start_date, @end_date, @max_people)
		RETURNING id`

	args := pgx.NamedArgs{
		"creator_id":  it.CreatorID,
		"title":       it.Title,
		"destination": it.Destination,
		"description": it.Description,
		"start_date":  it.Window.Start,
		"end_date":    it.Window.End,
		"max_people":  it.MaxPeople,
	}

	var id pgtype.UUID
	if err := tx.QueryRow(ctx, q, args).Scan(&id); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: insert: %w", err)
	}
	itineraryID := uuid.UUID(id.Bytes)

	if err := insertInterests(ctx, tx, "itinerary_interests", "itinerary_id", itineraryID, it.Style, it.Interests); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: interests: %w", err)
	}

	// The creator occupies a seat from the start.
	const joinQ = `
		INSERT INTO itinerary_joins (itinerary_id, user_id, role, status)
		VALUES (@itinerary_id, @user_id, 'HOST', 'APPROVED')`
	if _, err := tx.Exec(ctx, joinQ, pgx.NamedArgs{"itinerary_id": itineraryID, "user_id": it.CreatorID}); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: host join: %w", err)
	}

	created, err := getItinerary(ctx, tx, itineraryID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.Create: commit: %w", err)
	}
	return created, nil
}

func (r *pgItineraryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Itinerary, error) {
	result, err := getItinerary(ctx, r.db, id)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.GetByID: %w", err)
	}
	return result, nil
}

func getItinerary(ctx context.Context, db db, id uuid.UUID) (domain.Itinerary, error) {
	return scanItinerary(db.QueryRow(ctx, itineraryQuery+` WHERE i.id = @id`, pgx.NamedArgs{"id": id}))
}

func (r *pgItineraryRepo) List(ctx context.Context) ([]domain.Itinerary, error) {
	rows, err := r.db.Query(ctx, itineraryQuery+` ORDER BY i.start_date`)
	if err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.List: %w", err)
	}
	defer rows.Close()

	var items []domain.Itinerary
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItineraryRepo.List: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItineraryRepo.List: rows: %w", err)
	}
	return items, nil
}

const joinColumns = `id, itinerary_id, user_id, role, status, message, created_at, updated_at`

func (r *pgItineraryRepo) CreateJoin(ctx context.Context, itineraryID, userID uuid.UUID, message string) (domain.ItineraryJoin, error) {
	const q = `
		INSERT INTO itinerary_joins (itinerary_id, user_id, role, status, message)
		VALUES (@itinerary_id, @user_id, 'MEMBER', 'PENDING', @message)
		RETURNING ` + joinColumns

	args := pgx.NamedArgs{"itinerary_id": itineraryID, "user_id": userID, "message": message}
	join, err := scanJoin(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("repo.ItineraryRepo.CreateJoin: %w", err)
	}
	return join, nil
}

func (r *pgItineraryRepo) GetJoin(ctx context.Context, id uuid.UUID) (domain.ItineraryJoin, error) {
	const q = `SELECT ` + joinColumns + ` FROM itinerary_joins WHERE id = @id`

	join, err := scanJoin(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("repo.ItineraryRepo.GetJoin: %w", err)
	}
	return join, nil
}

func (r *pgItineraryRepo) GetJoinByUser(ctx context.Context, itineraryID, userID uuid.UUID) (domain.ItineraryJoin, error) {
	const q = `
		SELECT ` + joinColumns + `
		FROM itinerary_joins
		WHERE itinerary_id = @itinerary_id AND user_id = @user_id`

	args := pgx.NamedArgs{"itinerary_id": itineraryID, "user_id": userID}
	join, err := scanJoin(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("repo.ItineraryRepo.GetJoinByUser: %w", err)
	}
	return join, nil
}

func (r *pgItineraryRepo) UpdateJoinStatus(ctx context.Context, id uuid.UUID, status domain.JoinStatus) (domain.ItineraryJoin, error) {
	const q = `
		UPDATE itinerary_joins
		SET status = @status, updated_at = now()
		WHERE id = @id
		RETURNING ` + joinColumns

	join, err := scanJoin(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "status": status}))
	if err != nil {
		return domain.ItineraryJoin{}, fmt.Errorf("repo.ItineraryRepo.UpdateJoinStatus: %w", err)
	}
	return join, nil
}

func (r *pgItineraryRepo) AddInterests(ctx context.Context, itineraryID uuid.UUID, style string, interests []string) (domain.Itinerary, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.AddInterests: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// At most one style is retained: a new style replaces any stored one.
	if style != "" {
		const del = `DELETE FROM itinerary_interests WHERE itinerary_id = @id AND value LIKE 'style:%'`
		if _, err := tx.Exec(ctx, del, pgx.NamedArgs{"id": itineraryID}); err != nil {
			return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.AddInterests: drop style: %w", err)
		}
	}

	if err := insertInterests(ctx, tx, "itinerary_interests", "itinerary_id", itineraryID, style, interests); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.AddInterests: %w", err)
	}

	updated, err := getItinerary(ctx, tx, itineraryID)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.AddInterests: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Itinerary{}, fmt.Errorf("repo.ItineraryRepo.AddInterests: commit: %w", err)
	}
	return updated, nil
}

// scanJoin maps a single database row into a domain.ItineraryJoin.
func scanJoin(s scanner) (domain.ItineraryJoin, error) {
	var (
		j           domain.ItineraryJoin
		id          pgtype.UUID
		itineraryID pgtype.UUID
		userID      pgtype.UUID
	)

	err := s.Scan(&id, &itineraryID, &userID, &j.Role, &j.Status, &j.Message,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ItineraryJoin{}, domain.ErrNotFound
		}
		return domain.ItineraryJoin{}, err
	}

	j.ID = uuid.UUID(id.Bytes)
	j.ItineraryID = uuid.UUID(itineraryID.Bytes)
	j.UserID = uuid.UUID(userID.Bytes)
	return j, nil
}

// scanItinerary maps a single database row into a domain.Itinerary, splitting
// the stored style row out of the interest values.
func scanItinerary(s scanner) (domain.Itinerary, error) {
	var (
		it      domain.Itinerary
		id      pgtype.UUID
		creator pgtype.UUID
		values  []string
	)

	err := s.Scan(&id, &creator, &it.Title, &it.Destination, &it.Description,
		&it.Window.Start, &it.Window.End, &it.MaxPeople, &it.ApprovedJoins,
		&values, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Itinerary{}, domain.ErrNotFound
		}
		return domain.Itinerary{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.CreatorID = uuid.UUID(creator.Bytes)
	it.Style, it.Interests = splitStyle(values)
	return it, nil
}

// splitStyle separates the single style row from the plain interest values.
// If multiple style rows exist (legacy data), the last one wins.
func splitStyle(values []string) (style string, interests []string) {
	interests = []string{}
	for _, v := range values {
		if strings.HasPrefix(v, stylePrefix) {
			style = strings.TrimPrefix(v, stylePrefix)
			continue
		}
		interests = append(interests, v)
	}
	return style, interests
}

// insertInterests writes the interest rows for a record, encoding Style as a
// single style-prefixed row. Used by both the itinerary and companion-request
// repos, which share the same child-table shape.
func insertInterests(ctx context.Context, db db, table, fkColumn string, id uuid.UUID, style string, interests []string) error {
	values := make([]string, 0, len(interests)+1)
	seen := make(map[string]struct{}, len(interests))
	for _, v := range interests {
		if strings.HasPrefix(v, stylePrefix) {
			continue // style arrives via the dedicated field only
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	if style != "" {
		values = append(values, stylePrefix+style)
	}

	// ON CONFLICT makes the insert idempotent so AddInterests can merge new
	// values into an existing set.
	//nolint:gosec — table and fkColumn are package-internal constants, not user input.
	q := `INSERT INTO ` + table + ` (` + fkColumn + `, value) VALUES (@id, @value)
		ON CONFLICT DO NOTHING`
	for _, v := range values {
		if _, err := db.Exec(ctx, q, pgx.NamedArgs{"id": id, "value": v}); err != nil {
			return err
		}
	}
	return nil
}
