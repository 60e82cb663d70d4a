package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/quietstorm/adserver/internal/database"
	"github.com/quietstorm/adserver/internal/models"
	"github.com/quietstorm/adserver/internal/service"
)

// PostgresStore implements service.CampaignStore and service.TrackingStore
// on top of PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates a new PostgreSQL-backed store
func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ListEligibleCampaigns returns campaigns that may serve at the given
// instant: active, within their date range, with remaining budget, owned by
// an active advertiser. The read is snapshot-only; the budget is
// re-validated by ReserveImpression.
func (s *PostgresStore) ListEligibleCampaigns(ctx context.Context, now time.Time) ([]models.Campaign, error) {
	query := `
		SELECT c.id, c.advertiser_id, c.name, c.status, c.start_date, c.end_date,
		       c.priority, c.impression_budget, c.impressions_served,
		       COALESCE(c.target_countries, '{}'), COALESCE(c.target_states, '{}'),
		       COALESCE(c.target_cities, '{}'),
		       c.last_served_at, c.created_at, c.updated_at
		FROM campaigns c
		JOIN advertisers a ON a.id = c.advertiser_id AND a.status = 'active'
		WHERE c.status = 'active'
		  AND c.start_date <= $1 AND c.end_date >= $1
		  AND c.impressions_served < c.impression_budget
		ORDER BY c.priority, c.id
	`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []models.Campaign
	for rows.Next() {
		var c models.Campaign
		var lastServedAt sql.NullTime

		err := rows.Scan(
			&c.ID,
			&c.AdvertiserID,
			&c.Name,
			&c.Status,
			&c.StartDate,
			&c.EndDate,
			&c.Priority,
			&c.ImpressionBudget,
			&c.ImpressionsServed,
			pq.Array(&c.TargetCountries),
			pq.Array(&c.TargetStates),
			pq.Array(&c.TargetCities),
			&lastServedAt,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		if lastServedAt.Valid {
			t := lastServedAt.Time
			c.LastServedAt = &t
		}

		campaigns = append(campaigns, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over campaign rows: %w", err)
	}

	return campaigns, nil
}

// ListActiveCreatives returns the servable creatives of a campaign in a
// stable order so round-robin rotation is meaningful.
func (s *PostgresStore) ListActiveCreatives(ctx context.Context, campaignID string) ([]models.Creative, error) {
	query := `
		SELECT id, campaign_id, name, image_url, image_width, image_height,
		       click_url, COALESCE(alt_text, ''), status, created_at, updated_at
		FROM ad_creatives
		WHERE campaign_id = $1 AND status = 'active'
		ORDER BY created_at, id
	`

	rows, err := s.db.QueryContext(ctx, query, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to query creatives: %w", err)
	}
	defer rows.Close()

	var creatives []models.Creative
	for rows.Next() {
		var c models.Creative
		err := rows.Scan(
			&c.ID,
			&c.CampaignID,
			&c.Name,
			&c.ImageURL,
			&c.ImageWidth,
			&c.ImageHeight,
			&c.ClickURL,
			&c.AltText,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan creative: %w", err)
		}
		creatives = append(creatives, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over creative rows: %w", err)
	}

	return creatives, nil
}

// ReserveImpression atomically checks and increments impressions_served.
// The budget predicate and the increment are a single conditional UPDATE,
// so two reservations racing on the last slot cannot both succeed. Zero
// rows affected means the cap was reached (or the campaign vanished);
// either way the candidate is not servable.
func (s *PostgresStore) ReserveImpression(ctx context.Context, campaignID string) error {
	query := `
		UPDATE campaigns
		SET impressions_served = impressions_served + 1,
		    last_served_at = NOW(),
		    updated_at = NOW()
		WHERE id = $1 AND impressions_served < impression_budget
	`

	result, err := s.db.ExecContext(ctx, query, campaignID)
	if err != nil {
		return fmt.Errorf("failed to reserve impression: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return service.ErrBudgetExhausted
	}

	return nil
}

// ReleaseImpression undoes a reservation whose impression record could not
// be written. The guard keeps a double release from driving the counter
// negative.
func (s *PostgresStore) ReleaseImpression(ctx context.Context, campaignID string) error {
	query := `
		UPDATE campaigns
		SET impressions_served = impressions_served - 1,
		    updated_at = NOW()
		WHERE id = $1 AND impressions_served > 0
	`

	if _, err := s.db.ExecContext(ctx, query, campaignID); err != nil {
		return fmt.Errorf("failed to release impression: %w", err)
	}

	return nil
}

// CreateImpression stores a freshly minted pending impression record
func (s *PostgresStore) CreateImpression(ctx context.Context, imp *models.Impression) error {
	query := `
		INSERT INTO impressions
			(id, ad_creative_id, campaign_id, user_id, impression_token,
			 click_token, status, country, state, city, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		imp.ID,
		imp.AdCreativeID,
		imp.CampaignID,
		imp.UserID,
		imp.ImpressionToken,
		imp.ClickToken,
		imp.Status,
		nullIfEmpty(imp.Country),
		nullIfEmpty(imp.State),
		nullIfEmpty(imp.City),
		imp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert impression: %w", err)
	}

	return nil
}

// ConfirmImpression transitions a pending impression to confirmed. The
// transition is a conditional UPDATE keyed on the token and the pending
// status, so concurrent confirmations serialize to exactly one success;
// the losers are classified as already-confirmed or invalid.
func (s *PostgresStore) ConfirmImpression(ctx context.Context, token string, ttl time.Duration) (*models.Impression, error) {
	cutoff := time.Now().UTC().Add(-ttl)

	query := `
		UPDATE impressions
		SET status = 'confirmed', confirmed_at = NOW()
		WHERE impression_token = $1 AND status = 'pending' AND created_at > $2
		RETURNING id, ad_creative_id, campaign_id, user_id, status, created_at
	`

	var imp models.Impression
	imp.ImpressionToken = token
	err := s.db.QueryRowContext(ctx, query, token, cutoff).Scan(
		&imp.ID,
		&imp.AdCreativeID,
		&imp.CampaignID,
		&imp.UserID,
		&imp.Status,
		&imp.CreatedAt,
	)
	if err == nil {
		return &imp, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to confirm impression: %w", err)
	}

	// No pending row matched: distinguish a consumed token from an unknown
	// or expired one.
	var status models.ImpressionStatus
	var createdAt time.Time
	err = s.db.QueryRowContext(ctx,
		`SELECT status, created_at FROM impressions WHERE impression_token = $1`,
		token,
	).Scan(&status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, service.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up impression token: %w", err)
	}

	if status == models.ImpressionConfirmed || status == models.ImpressionClicked {
		return nil, service.ErrAlreadyConfirmed
	}
	// Still pending but past the TTL cutoff.
	return nil, service.ErrInvalidToken
}

// RecordClick records at most one click per impression. The impression row
// is locked for the duration of the transaction so the status check and the
// pending->clicked transition are atomic.
func (s *PostgresStore) RecordClick(ctx context.Context, clickToken string) (*models.Click, string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin click transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		imp      models.Impression
		clickURL string
	)
	err = tx.QueryRowContext(ctx, `
		SELECT i.id, i.ad_creative_id, i.campaign_id, i.user_id, i.status, c.click_url
		FROM impressions i
		JOIN ad_creatives c ON c.id = i.ad_creative_id
		WHERE i.click_token = $1
		FOR UPDATE OF i
	`, clickToken).Scan(
		&imp.ID,
		&imp.AdCreativeID,
		&imp.CampaignID,
		&imp.UserID,
		&imp.Status,
		&clickURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", service.ErrInvalidToken
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up click token: %w", err)
	}

	switch imp.Status {
	case models.ImpressionPending:
		return nil, "", service.ErrImpressionNotConfirmed
	case models.ImpressionClicked:
		return nil, "", service.ErrAlreadyClicked
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE impressions SET status = 'clicked' WHERE id = $1 AND status = 'confirmed'`,
		imp.ID,
	); err != nil {
		return nil, "", fmt.Errorf("failed to transition impression: %w", err)
	}

	click := &models.Click{
		ID:           uuid.NewString(),
		ImpressionID: imp.ID,
		AdCreativeID: imp.AdCreativeID,
		CampaignID:   imp.CampaignID,
		UserID:       imp.UserID,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO clicks (id, impression_id, ad_creative_id, campaign_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, click.ID, click.ImpressionID, click.AdCreativeID, click.CampaignID, click.UserID, click.CreatedAt); err != nil {
		return nil, "", fmt.Errorf("failed to insert click: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit click transaction: %w", err)
	}

	return click, clickURL, nil
}

// LookupClickURL resolves the advertiser URL for a click token without
// touching any state. Used by the redirect path for duplicate clicks.
func (s *PostgresStore) LookupClickURL(ctx context.Context, clickToken string) (string, error) {
	var clickURL string
	err := s.db.QueryRowContext(ctx, `
		SELECT c.click_url
		FROM impressions i
		JOIN ad_creatives c ON c.id = i.ad_creative_id
		WHERE i.click_token = $1
	`, clickToken).Scan(&clickURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", service.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up click url: %w", err)
	}
	return clickURL, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
