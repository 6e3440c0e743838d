package repositories

import (
	"database/sql"
	"sync"

	"github.com/alimgiray/streakcard/internal/models"
)

// CardRenderRepository handles database operations for card render usage records
type CardRenderRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewCardRenderRepository creates a new CardRenderRepository
func NewCardRenderRepository(db *sql.DB) *CardRenderRepository {
	return &CardRenderRepository{db: db}
}

// Create stores a card render record
func (r *CardRenderRepository) Create(render *models.CardRender) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	query := `
		INSERT INTO card_renders (id, username, variant, status, avatar_embedded, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		render.ID,
		render.Username,
		render.Variant,
		render.Status,
		render.AvatarEmbedded,
		render.DurationMS,
		render.CreatedAt,
	)
	return err
}

// List retrieves the most recent card renders, newest first
func (r *CardRenderRepository) List(limit int) ([]*models.CardRender, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT id, username, variant, status, avatar_embedded, duration_ms, created_at
		FROM card_renders
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var renders []*models.CardRender
	for rows.Next() {
		render := &models.CardRender{}
		err := rows.Scan(
			&render.ID,
			&render.Username,
			&render.Variant,
			&render.Status,
			&render.AvatarEmbedded,
			&render.DurationMS,
			&render.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		renders = append(renders, render)
	}

	return renders, rows.Err()
}

// Summary aggregates all card renders and the most requested usernames
func (r *CardRenderRepository) Summary(topLimit int) (*models.UsageSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN avatar_embedded THEN 1 ELSE 0 END), 0)
		FROM card_renders
	`

	summary := &models.UsageSummary{TopUsernames: []models.UsernameCount{}}
	err := r.db.QueryRow(query, models.RenderStatusError).Scan(
		&summary.TotalRenders,
		&summary.ErrorRenders,
		&summary.AvatarEmbedded,
	)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT username, COUNT(*) AS renders
		FROM card_renders
		GROUP BY username
		ORDER BY renders DESC, username ASC
		LIMIT ?
	`, topLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row models.UsernameCount
		if err := rows.Scan(&row.Username, &row.Count); err != nil {
			return nil, err
		}
		summary.TopUsernames = append(summary.TopUsernames, row)
	}

	return summary, rows.Err()
}
