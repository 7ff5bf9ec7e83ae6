package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProspectEntity is the durable, user-scoped canonical contact record.
// The set of a user's entities forms the contact graph new drafts are
// matched against.
type ProspectEntity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	DisplayName  string
	FirstName    string
	LastName     string
	Emails       []string
	Phones       []string
	Facebook     string
	Instagram    string
	LinkedIn     string
	TikTok       string
	LastSourceID *uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UpsertEntityParams struct {
	UserID       uuid.UUID
	DisplayName  string
	FirstName    string
	LastName     string
	Emails       []string
	Phones       []string
	Facebook     string
	Instagram    string
	LinkedIn     string
	TikTok       string
	LastSourceID uuid.UUID
}

const entityColumns = `
	id, user_id, display_name, first_name, last_name, emails, phones,
	facebook, instagram, linkedin, tiktok, last_source_id, created_at, updated_at`

func scanEntity(row pgx.Row) (ProspectEntity, error) {
	var e ProspectEntity
	err := row.Scan(
		&e.ID, &e.UserID, &e.DisplayName, &e.FirstName, &e.LastName,
		&e.Emails, &e.Phones, &e.Facebook, &e.Instagram, &e.LinkedIn,
		&e.TikTok, &e.LastSourceID, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// CreateEntity inserts a new entity. Drafts without a display name are
// keyed on (user_id, display_name) uniqueness upstream, so callers pass a
// non-empty name.
func (r *Repository) CreateEntity(ctx context.Context, params UpsertEntityParams) (ProspectEntity, error) {
	return scanEntity(r.pool.QueryRow(ctx, `
		INSERT INTO prospect_entities (
			user_id, display_name, first_name, last_name, emails, phones,
			facebook, instagram, linkedin, tiktok, last_source_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, display_name) DO UPDATE
		SET first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), prospect_entities.first_name),
		    last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), prospect_entities.last_name),
		    emails = prospect_entities.emails || (
		        SELECT COALESCE(array_agg(e), '{}') FROM unnest(EXCLUDED.emails) AS e
		        WHERE NOT e = ANY(prospect_entities.emails)),
		    phones = prospect_entities.phones || (
		        SELECT COALESCE(array_agg(p), '{}') FROM unnest(EXCLUDED.phones) AS p
		        WHERE NOT p = ANY(prospect_entities.phones)),
		    facebook = COALESCE(NULLIF(EXCLUDED.facebook, ''), prospect_entities.facebook),
		    instagram = COALESCE(NULLIF(EXCLUDED.instagram, ''), prospect_entities.instagram),
		    linkedin = COALESCE(NULLIF(EXCLUDED.linkedin, ''), prospect_entities.linkedin),
		    tiktok = COALESCE(NULLIF(EXCLUDED.tiktok, ''), prospect_entities.tiktok),
		    last_source_id = EXCLUDED.last_source_id,
		    updated_at = now()
		RETURNING `+entityColumns, params.UserID, params.DisplayName, params.FirstName, params.LastName,
		params.Emails, params.Phones, params.Facebook, params.Instagram,
		params.LinkedIn, params.TikTok, params.LastSourceID))
}

// UpdateEntity merges new draft fields into a matched entity. Contact
// lists grow by the values not already present; scalar fields are only
// overwritten by non-empty values.
func (r *Repository) UpdateEntity(ctx context.Context, id uuid.UUID, params UpsertEntityParams) (ProspectEntity, error) {
	entity, err := scanEntity(r.pool.QueryRow(ctx, `
		UPDATE prospect_entities
		SET display_name = COALESCE(NULLIF($2, ''), display_name),
		    first_name = COALESCE(NULLIF($3, ''), first_name),
		    last_name = COALESCE(NULLIF($4, ''), last_name),
		    emails = emails || (
		        SELECT COALESCE(array_agg(e), '{}') FROM unnest($5::text[]) AS e
		        WHERE NOT e = ANY(emails)),
		    phones = phones || (
		        SELECT COALESCE(array_agg(p), '{}') FROM unnest($6::text[]) AS p
		        WHERE NOT p = ANY(phones)),
		    facebook = COALESCE(NULLIF($7, ''), facebook),
		    instagram = COALESCE(NULLIF($8, ''), instagram),
		    linkedin = COALESCE(NULLIF($9, ''), linkedin),
		    tiktok = COALESCE(NULLIF($10, ''), tiktok),
		    last_source_id = $11,
		    updated_at = now()
		WHERE id = $1 AND user_id = $12
		RETURNING `+entityColumns, id, params.DisplayName, params.FirstName, params.LastName,
		params.Emails, params.Phones, params.Facebook, params.Instagram,
		params.LinkedIn, params.TikTok, params.LastSourceID, params.UserID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ProspectEntity{}, ErrNotFound
	}
	return entity, err
}

func (r *Repository) GetEntity(ctx context.Context, userID, id uuid.UUID) (ProspectEntity, error) {
	entity, err := scanEntity(r.pool.QueryRow(ctx, `
		SELECT `+entityColumns+`
		FROM prospect_entities
		WHERE id = $1 AND user_id = $2
	`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return ProspectEntity{}, ErrNotFound
	}
	return entity, err
}

// ListEntitiesForMatching returns the user's whole contact graph in the
// order the matcher resolves ties: most recently updated first, id as a
// stable secondary key.
func (r *Repository) ListEntitiesForMatching(ctx context.Context, userID uuid.UUID) ([]ProspectEntity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entityColumns+`
		FROM prospect_entities
		WHERE user_id = $1
		ORDER BY updated_at DESC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntities(rows)
}

type ListEntitiesParams struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// EntityWithIntel pairs an entity with its latest intel. Intel is nil for
// a prospect that has not been deep-scanned yet.
type EntityWithIntel struct {
	Entity ProspectEntity
	Intel  *ProspectIntel
}

const entityIntelColumns = `
	e.id, e.user_id, e.display_name, e.first_name, e.last_name, e.emails, e.phones,
	e.facebook, e.instagram, e.linkedin, e.tiktok, e.last_source_id, e.created_at, e.updated_at,
	i.entity_id, i.score, i.confidence, i.analysis, i.model_used, i.agent_version, i.updated_at`

func (r *Repository) ListEntities(ctx context.Context, params ListEntitiesParams) ([]EntityWithIntel, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM prospect_entities WHERE user_id = $1
	`, params.UserID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+entityIntelColumns+`
		FROM prospect_entities e
		LEFT JOIN prospect_intel i ON i.entity_id = e.id
		WHERE e.user_id = $1
		ORDER BY e.updated_at DESC, e.id ASC
		LIMIT $2 OFFSET $3
	`, params.UserID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entities, err := collectEntitiesWithIntel(rows)
	return entities, total, err
}

// SearchEntities matches display names by case-insensitive substring.
// The query is treated literally; ILIKE wildcards in it are escaped.
func (r *Repository) SearchEntities(ctx context.Context, userID uuid.UUID, query string, limit int) ([]EntityWithIntel, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+entityIntelColumns+`
		FROM prospect_entities e
		LEFT JOIN prospect_intel i ON i.entity_id = e.id
		WHERE e.user_id = $1 AND e.display_name ILIKE '%' || $2 || '%'
		ORDER BY e.updated_at DESC, e.id ASC
		LIMIT $3
	`, userID, escapeLike(query), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntitiesWithIntel(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE/ILIKE pattern characters so user input
// matches literally instead of acting as a wildcard.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func collectEntitiesWithIntel(rows pgx.Rows) ([]EntityWithIntel, error) {
	out := make([]EntityWithIntel, 0)
	for rows.Next() {
		var item EntityWithIntel
		var (
			intelEntityID *uuid.UUID
			score         *int
			confidence    *float64
			analysis      []byte
			modelUsed     *string
			agentVersion  *string
			intelUpdated  *time.Time
		)
		e := &item.Entity
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.DisplayName, &e.FirstName, &e.LastName,
			&e.Emails, &e.Phones, &e.Facebook, &e.Instagram, &e.LinkedIn,
			&e.TikTok, &e.LastSourceID, &e.CreatedAt, &e.UpdatedAt,
			&intelEntityID, &score, &confidence, &analysis, &modelUsed,
			&agentVersion, &intelUpdated,
		); err != nil {
			return nil, err
		}
		if intelEntityID != nil {
			item.Intel = &ProspectIntel{
				EntityID:     *intelEntityID,
				UserID:       e.UserID,
				Score:        *score,
				Confidence:   *confidence,
				Analysis:     analysis,
				ModelUsed:    *modelUsed,
				AgentVersion: *agentVersion,
				UpdatedAt:    *intelUpdated,
			}
		}
		out = append(out, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func collectEntities(rows pgx.Rows) ([]ProspectEntity, error) {
	entities := make([]ProspectEntity, 0)
	for rows.Next() {
		entity, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return entities, nil
}
