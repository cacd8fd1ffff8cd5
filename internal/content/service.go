// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/pollenlabs/pollen/internal/platform/apperr"
	"github.com/pollenlabs/pollen/internal/platform/validate"
	"github.com/pollenlabs/pollen/pkg/slug"
	"github.com/pollenlabs/pollen/pkg/uuid"
)

// Service orchestrates campaign and post lifecycle rules.
type Service struct {
	campaigns CampaignRepository
	posts     PostRepository
}

func NewService(campaigns CampaignRepository, posts PostRepository) *Service {
	return &Service{campaigns: campaigns, posts: posts}
}

// # Campaigns

// CreateCampaignInput holds the fields for a new campaign.
type CreateCampaignInput struct {
	Name        string
	Description string
	StartsAt    *time.Time
	EndsAt      *time.Time
	CreatedBy   string
}

func (service *Service) CreateCampaign(ctx context.Context, input CreateCampaignInput) (*Campaign, error) {
	v := &validate.Validator{}
	if err := v.
		Required("name", input.Name).
		MaxLen("name", input.Name, 200).
		MaxLen("description", input.Description, 2000).
		Custom("ends_at", input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt),
			"Must not be before starts_at").
		Err(); err != nil {
		return nil, err
	}

	campaignSlug := slug.From(input.Name)
	if _, err := service.campaigns.FindBySlug(ctx, campaignSlug); err == nil {
		return nil, apperr.Conflict("A campaign with this name already exists")
	}

	campaign := &Campaign{
		ID:          uuid.New(),
		Name:        input.Name,
		Slug:        campaignSlug,
		Description: input.Description,
		Status:      CampaignDraft,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		CreatedBy:   input.CreatedBy,
	}
	if err := service.campaigns.Create(ctx, campaign); err != nil {
		return nil, fmt.Errorf("content_service_create_campaign_failed: %w", err)
	}
	return campaign, nil
}

func (service *Service) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	return service.campaigns.FindByID(ctx, id)
}

func (service *Service) ListCampaigns(ctx context.Context) ([]Campaign, error) {
	return service.campaigns.List(ctx)
}

// UpdateCampaignInput carries the mutable campaign fields. Nil pointers mean
// "leave unchanged".
type UpdateCampaignInput struct {
	Name        *string
	Description *string
	Status      *CampaignStatus
	StartsAt    *time.Time
	EndsAt      *time.Time
}

func (service *Service) UpdateCampaign(ctx context.Context, id string, input UpdateCampaignInput) (*Campaign, error) {
	campaign, err := service.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		campaign.Name = *input.Name
		campaign.Slug = slug.From(*input.Name)
	}
	if input.Description != nil {
		campaign.Description = *input.Description
	}
	if input.Status != nil {
		if !validCampaignStatus(*input.Status) {
			return nil, apperr.ValidationError("Unknown campaign status")
		}
		campaign.Status = *input.Status
	}
	if input.StartsAt != nil {
		campaign.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		campaign.EndsAt = input.EndsAt
	}

	v := &validate.Validator{}
	if err := v.
		Required("name", campaign.Name).
		MaxLen("name", campaign.Name, 200).
		Custom("ends_at", campaign.StartsAt != nil && campaign.EndsAt != nil && campaign.EndsAt.Before(*campaign.StartsAt),
			"Must not be before starts_at").
		Err(); err != nil {
		return nil, err
	}

	if err := service.campaigns.Update(ctx, campaign); err != nil {
		return nil, fmt.Errorf("content_service_update_campaign_failed: %w", err)
	}
	return campaign, nil
}

func (service *Service) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := service.campaigns.FindByID(ctx, id); err != nil {
		return err
	}
	return service.campaigns.Delete(ctx, id)
}

func validCampaignStatus(status CampaignStatus) bool {
	switch status {
	case CampaignDraft, CampaignActive, CampaignCompleted, CampaignArchived:
		return true
	}
	return false
}

// # Posts

// CreatePostInput holds the fields for a new post.
type CreatePostInput struct {
	CampaignID  string
	Platform    Platform
	Body        string
	MediaURL    string
	ScheduledAt *time.Time
	CreatedBy   string
}

func (service *Service) CreatePost(ctx context.Context, input CreatePostInput) (*Post, error) {
	limit := BodyLimit(input.Platform)

	v := &validate.Validator{}
	if err := v.
		Required("campaign_id", input.CampaignID).
		UUID("campaign_id", input.CampaignID).
		Custom("platform", limit == 0, "Unknown platform").
		Required("body", input.Body).
		Err(); err != nil {
		return nil, err
	}
	if err := (&validate.Validator{}).MaxLen("body", input.Body, limit).Err(); err != nil {
		return nil, err
	}

	// The campaign must exist; dangling posts are not allowed.
	if _, err := service.campaigns.FindByID(ctx, input.CampaignID); err != nil {
		return nil, err
	}

	status := PostDraft
	if input.ScheduledAt != nil {
		status = PostScheduled
	}

	post := &Post{
		ID:          uuid.New(),
		CampaignID:  input.CampaignID,
		Platform:    input.Platform,
		Body:        input.Body,
		MediaURL:    input.MediaURL,
		Status:      status,
		ScheduledAt: input.ScheduledAt,
		CreatedBy:   input.CreatedBy,
	}
	if err := service.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("content_service_create_post_failed: %w", err)
	}
	return post, nil
}

func (service *Service) GetPost(ctx context.Context, id string) (*Post, error) {
	return service.posts.FindByID(ctx, id)
}

func (service *Service) ListPosts(ctx context.Context, campaignID string) ([]Post, error) {
	return service.posts.ListByCampaign(ctx, campaignID)
}

// UpdatePostInput carries the mutable post fields. Nil pointers mean "leave
// unchanged".
type UpdatePostInput struct {
	Body        *string
	MediaURL    *string
	ScheduledAt *time.Time
}

func (service *Service) UpdatePost(ctx context.Context, id string, input UpdatePostInput) (*Post, error) {
	post, err := service.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.Status == PostPublished {
		return nil, apperr.Unprocessable("Published posts cannot be edited")
	}

	if input.Body != nil {
		post.Body = *input.Body
	}
	if input.MediaURL != nil {
		post.MediaURL = *input.MediaURL
	}
	if input.ScheduledAt != nil {
		post.ScheduledAt = input.ScheduledAt
		post.Status = PostScheduled
	}

	v := &validate.Validator{}
	if err := v.
		Required("body", post.Body).
		MaxLen("body", post.Body, BodyLimit(post.Platform)).
		Err(); err != nil {
		return nil, err
	}

	if err := service.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("content_service_update_post_failed: %w", err)
	}
	return post, nil
}

// MarkPublished records a successful publication, stamping the time and the
// platform-assigned ID.
func (service *Service) MarkPublished(ctx context.Context, id, externalID string) (*Post, error) {
	post, err := service.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	post.Status = PostPublished
	post.PublishedAt = &now
	post.ExternalID = externalID

	if err := service.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("content_service_publish_post_failed: %w", err)
	}
	return post, nil
}

func (service *Service) DeletePost(ctx context.Context, id string) error {
	if _, err := service.posts.FindByID(ctx, id); err != nil {
		return err
	}
	return service.posts.Delete(ctx, id)
}
