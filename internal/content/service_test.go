// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package content_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollenlabs/pollen/internal/content"
	"github.com/pollenlabs/pollen/internal/platform/apperr"
)

// # Fakes

type fakeCampaignRepo struct {
	byID map[string]*content.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{byID: make(map[string]*content.Campaign)}
}

func (repo *fakeCampaignRepo) Create(_ context.Context, campaign *content.Campaign) error {
	clone := *campaign
	repo.byID[campaign.ID] = &clone
	return nil
}

func (repo *fakeCampaignRepo) FindByID(_ context.Context, id string) (*content.Campaign, error) {
	campaign, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("Campaign")
	}
	clone := *campaign
	return &clone, nil
}

func (repo *fakeCampaignRepo) FindBySlug(_ context.Context, slug string) (*content.Campaign, error) {
	for _, campaign := range repo.byID {
		if campaign.Slug == slug {
			clone := *campaign
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Campaign")
}

func (repo *fakeCampaignRepo) List(_ context.Context) ([]content.Campaign, error) {
	campaigns := make([]content.Campaign, 0, len(repo.byID))
	for _, campaign := range repo.byID {
		campaigns = append(campaigns, *campaign)
	}
	return campaigns, nil
}

func (repo *fakeCampaignRepo) Update(_ context.Context, campaign *content.Campaign) error {
	clone := *campaign
	repo.byID[campaign.ID] = &clone
	return nil
}

func (repo *fakeCampaignRepo) Delete(_ context.Context, id string) error {
	delete(repo.byID, id)
	return nil
}

type fakePostRepo struct {
	byID map[string]*content.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{byID: make(map[string]*content.Post)}
}

func (repo *fakePostRepo) Create(_ context.Context, post *content.Post) error {
	clone := *post
	repo.byID[post.ID] = &clone
	return nil
}

func (repo *fakePostRepo) FindByID(_ context.Context, id string) (*content.Post, error) {
	post, ok := repo.byID[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	clone := *post
	return &clone, nil
}

func (repo *fakePostRepo) ListByCampaign(_ context.Context, campaignID string) ([]content.Post, error) {
	posts := make([]content.Post, 0)
	for _, post := range repo.byID {
		if post.CampaignID == campaignID {
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

func (repo *fakePostRepo) Update(_ context.Context, post *content.Post) error {
	clone := *post
	repo.byID[post.ID] = &clone
	return nil
}

func (repo *fakePostRepo) Delete(_ context.Context, id string) error {
	delete(repo.byID, id)
	return nil
}

func newService() (*content.Service, *fakeCampaignRepo, *fakePostRepo) {
	campaigns := newFakeCampaignRepo()
	posts := newFakePostRepo()
	return content.NewService(campaigns, posts), campaigns, posts
}

const creatorID = "2d1f0a94-5c3e-4b7a-9f12-8a6b4c0d1e2f"

// # Campaigns

func TestCreateCampaign(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	campaign, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
		Name:      "Launch Week 2026",
		CreatedBy: creatorID,
	})
	require.NoError(t, err)
	assert.Equal(t, "launch-week-2026", campaign.Slug)
	assert.Equal(t, content.CampaignDraft, campaign.Status)
	assert.NotEmpty(t, campaign.ID)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
			Name:      "Launch Week 2026",
			CreatedBy: creatorID,
		})
		require.Error(t, err)
		assert.Equal(t, 409, apperr.As(err).HTTPStatus)
	})

	t.Run("name required", func(t *testing.T) {
		_, err := service.CreateCampaign(ctx, content.CreateCampaignInput{CreatedBy: creatorID})
		require.Error(t, err)
	})

	t.Run("ends before starts rejected", func(t *testing.T) {
		starts := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		ends := starts.Add(-24 * time.Hour)
		_, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
			Name:      "Backwards",
			StartsAt:  &starts,
			EndsAt:    &ends,
			CreatedBy: creatorID,
		})
		require.Error(t, err)
	})
}

func TestUpdateCampaign(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	campaign, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
		Name:      "Spring Push",
		CreatedBy: creatorID,
	})
	require.NoError(t, err)

	t.Run("rename reslugs", func(t *testing.T) {
		name := "Autumn Push"
		updated, err := service.UpdateCampaign(ctx, campaign.ID, content.UpdateCampaignInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "autumn-push", updated.Slug)
	})

	t.Run("status transitions validated", func(t *testing.T) {
		bogus := content.CampaignStatus("paused")
		_, err := service.UpdateCampaign(ctx, campaign.ID, content.UpdateCampaignInput{Status: &bogus})
		require.Error(t, err)

		active := content.CampaignActive
		updated, err := service.UpdateCampaign(ctx, campaign.ID, content.UpdateCampaignInput{Status: &active})
		require.NoError(t, err)
		assert.Equal(t, content.CampaignActive, updated.Status)
	})

	t.Run("unknown campaign not found", func(t *testing.T) {
		name := "Ghost"
		_, err := service.UpdateCampaign(ctx, "77777777-7777-7777-7777-777777777777", content.UpdateCampaignInput{Name: &name})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})
}

// # Posts

func TestCreatePost_BodyLimits(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	campaign, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
		Name:      "Limits",
		CreatedBy: creatorID,
	})
	require.NoError(t, err)

	cases := []struct {
		platform content.Platform
		limit    int
	}{
		{content.PlatformTwitter, 280},
		{content.PlatformLinkedIn, 3000},
		{content.PlatformFarcaster, 320},
		{content.PlatformBluesky, 300},
	}

	for _, tc := range cases {
		t.Run(string(tc.platform), func(t *testing.T) {
			atLimit := strings.Repeat("a", tc.limit)
			post, err := service.CreatePost(ctx, content.CreatePostInput{
				CampaignID: campaign.ID,
				Platform:   tc.platform,
				Body:       atLimit,
				CreatedBy:  creatorID,
			})
			require.NoError(t, err)
			assert.Equal(t, content.PostDraft, post.Status)

			_, err = service.CreatePost(ctx, content.CreatePostInput{
				CampaignID: campaign.ID,
				Platform:   tc.platform,
				Body:       atLimit + "a",
				CreatedBy:  creatorID,
			})
			require.Error(t, err)
		})
	}
}

func TestCreatePost_Guards(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	campaign, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
		Name:      "Guards",
		CreatedBy: creatorID,
	})
	require.NoError(t, err)

	t.Run("unknown platform rejected", func(t *testing.T) {
		_, err := service.CreatePost(ctx, content.CreatePostInput{
			CampaignID: campaign.ID,
			Platform:   content.Platform("myspace"),
			Body:       "hello",
			CreatedBy:  creatorID,
		})
		require.Error(t, err)
	})

	t.Run("campaign must exist", func(t *testing.T) {
		_, err := service.CreatePost(ctx, content.CreatePostInput{
			CampaignID: "77777777-7777-7777-7777-777777777777",
			Platform:   content.PlatformTwitter,
			Body:       "hello",
			CreatedBy:  creatorID,
		})
		require.Error(t, err)
		assert.Equal(t, 404, apperr.As(err).HTTPStatus)
	})

	t.Run("scheduled post starts as scheduled", func(t *testing.T) {
		when := time.Now().Add(time.Hour)
		post, err := service.CreatePost(ctx, content.CreatePostInput{
			CampaignID:  campaign.ID,
			Platform:    content.PlatformBluesky,
			Body:        "later",
			ScheduledAt: &when,
			CreatedBy:   creatorID,
		})
		require.NoError(t, err)
		assert.Equal(t, content.PostScheduled, post.Status)
	})
}

func TestPostLifecycle(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService()

	campaign, err := service.CreateCampaign(ctx, content.CreateCampaignInput{
		Name:      "Lifecycle",
		CreatedBy: creatorID,
	})
	require.NoError(t, err)

	post, err := service.CreatePost(ctx, content.CreatePostInput{
		CampaignID: campaign.ID,
		Platform:   content.PlatformTwitter,
		Body:       "first draft",
		CreatedBy:  creatorID,
	})
	require.NoError(t, err)

	t.Run("draft edits apply", func(t *testing.T) {
		body := "second draft"
		updated, err := service.UpdatePost(ctx, post.ID, content.UpdatePostInput{Body: &body})
		require.NoError(t, err)
		assert.Equal(t, "second draft", updated.Body)
	})

	t.Run("edits respect the platform limit", func(t *testing.T) {
		tooLong := strings.Repeat("a", 281)
		_, err := service.UpdatePost(ctx, post.ID, content.UpdatePostInput{Body: &tooLong})
		require.Error(t, err)
	})

	t.Run("publication stamps time and external id", func(t *testing.T) {
		published, err := service.MarkPublished(ctx, post.ID, "tw-10042")
		require.NoError(t, err)
		assert.Equal(t, content.PostPublished, published.Status)
		assert.Equal(t, "tw-10042", published.ExternalID)
		require.NotNil(t, published.PublishedAt)
	})

	t.Run("published posts are frozen", func(t *testing.T) {
		body := "too late"
		_, err := service.UpdatePost(ctx, post.ID, content.UpdatePostInput{Body: &body})
		require.Error(t, err)
		assert.Equal(t, 422, apperr.As(err).HTTPStatus)
	})

	t.Run("listing scopes to the campaign", func(t *testing.T) {
		posts, err := service.ListPosts(ctx, campaign.ID)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("delete removes the post", func(t *testing.T) {
		require.NoError(t, service.DeletePost(ctx, post.ID))
		_, err := service.GetPost(ctx, post.ID)
		require.Error(t, err)
	})
}
