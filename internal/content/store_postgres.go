// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pollenlabs/pollen/internal/platform/database/schema"
	"github.com/pollenlabs/pollen/internal/platform/dberr"
)

// # Campaign Repository

type PostgresCampaignRepository struct {
	db *pgxpool.Pool
}

func NewPostgresCampaignRepository(db *pgxpool.Pool) *PostgresCampaignRepository {
	return &PostgresCampaignRepository{db: db}
}

func campaignColumns() string {
	t := schema.ContentCampaign
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Name, t.Slug, t.Description, t.Status, t.StartsAt, t.EndsAt,
		t.CreatedBy, t.CreatedAt, t.UpdatedAt)
}

func scanCampaign(row pgx.Row) (*Campaign, error) {
	c := &Campaign{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Status, &c.StartsAt, &c.EndsAt,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (repository *PostgresCampaignRepository) Create(ctx context.Context, campaign *Campaign) error {
	t := schema.ContentCampaign
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.Name, t.Slug, t.Description, t.Status, t.StartsAt, t.EndsAt, t.CreatedBy,
		t.CreatedAt, t.UpdatedAt)

	err := repository.db.QueryRow(ctx, query,
		campaign.ID, campaign.Name, campaign.Slug, campaign.Description,
		campaign.Status, campaign.StartsAt, campaign.EndsAt, campaign.CreatedBy,
	).Scan(&campaign.CreatedAt, &campaign.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_campaign")
	}
	return nil
}

func (repository *PostgresCampaignRepository) FindByID(ctx context.Context, id string) (*Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		campaignColumns(), schema.ContentCampaign.Table, schema.ContentCampaign.ID)

	campaign, err := scanCampaign(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_campaign_by_id")
	}
	return campaign, nil
}

func (repository *PostgresCampaignRepository) FindBySlug(ctx context.Context, slug string) (*Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		campaignColumns(), schema.ContentCampaign.Table, schema.ContentCampaign.Slug)

	campaign, err := scanCampaign(repository.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "find_campaign_by_slug")
	}
	return campaign, nil
}

func (repository *PostgresCampaignRepository) List(ctx context.Context) ([]Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC`,
		campaignColumns(), schema.ContentCampaign.Table, schema.ContentCampaign.CreatedAt)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_campaigns")
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_campaign")
		}
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, rows.Err()
}

func (repository *PostgresCampaignRepository) Update(ctx context.Context, campaign *Campaign) error {
	t := schema.ContentCampaign
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = NOW()
		WHERE %s = $1
	`,
		t.Table,
		t.Name, t.Slug, t.Description, t.Status, t.StartsAt, t.EndsAt,
		t.UpdatedAt, t.ID)

	_, err := repository.db.Exec(ctx, query,
		campaign.ID, campaign.Name, campaign.Slug, campaign.Description,
		campaign.Status, campaign.StartsAt, campaign.EndsAt)
	if err != nil {
		return dberr.Wrap(err, "update_campaign")
	}
	return nil
}

func (repository *PostgresCampaignRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ContentCampaign.Table, schema.ContentCampaign.ID)

	if _, err := repository.db.Exec(ctx, query, id); err != nil {
		return dberr.Wrap(err, "delete_campaign")
	}
	return nil
}

// # Post Repository

type PostgresPostRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPostRepository(db *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

func postColumns() string {
	t := schema.ContentPost
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.CampaignID, t.Platform, t.Body, t.MediaURL, t.Status,
		t.ScheduledAt, t.PublishedAt, t.ExternalID, t.CreatedBy, t.CreatedAt, t.UpdatedAt)
}

func scanPost(row pgx.Row) (*Post, error) {
	p := &Post{}
	err := row.Scan(
		&p.ID, &p.CampaignID, &p.Platform, &p.Body, &p.MediaURL, &p.Status,
		&p.ScheduledAt, &p.PublishedAt, &p.ExternalID, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (repository *PostgresPostRepository) Create(ctx context.Context, post *Post) error {
	t := schema.ContentPost
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.CampaignID, t.Platform, t.Body, t.MediaURL, t.Status, t.ScheduledAt, t.CreatedBy,
		t.CreatedAt, t.UpdatedAt)

	err := repository.db.QueryRow(ctx, query,
		post.ID, post.CampaignID, post.Platform, post.Body, post.MediaURL,
		post.Status, post.ScheduledAt, post.CreatedBy,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}
	return nil
}

func (repository *PostgresPostRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		postColumns(), schema.ContentPost.Table, schema.ContentPost.ID)

	post, err := scanPost(repository.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_post_by_id")
	}
	return post, nil
}

func (repository *PostgresPostRepository) ListByCampaign(ctx context.Context, campaignID string) ([]Post, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		postColumns(), schema.ContentPost.Table, schema.ContentPost.CampaignID, schema.ContentPost.CreatedAt)

	rows, err := repository.db.Query(ctx, query, campaignID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_posts_by_campaign")
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (repository *PostgresPostRepository) Update(ctx context.Context, post *Post) error {
	t := schema.ContentPost
	query := fmt.Sprintf(`
		UPDATE %s SET
			%s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
			%s = NOW()
		WHERE %s = $1
	`,
		t.Table,
		t.Body, t.MediaURL, t.Status, t.ScheduledAt, t.PublishedAt, t.ExternalID,
		t.UpdatedAt, t.ID)

	_, err := repository.db.Exec(ctx, query,
		post.ID, post.Body, post.MediaURL, post.Status,
		post.ScheduledAt, post.PublishedAt, post.ExternalID)
	if err != nil {
		return dberr.Wrap(err, "update_post")
	}
	return nil
}

func (repository *PostgresPostRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.ContentPost.Table, schema.ContentPost.ID)

	if _, err := repository.db.Exec(ctx, query, id); err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	return nil
}
