// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

/*
Package content manages campaigns and their platform posts.

A campaign groups posts destined for the supported social platforms. Each
platform enforces its own body length limit at write time, so a post that
would be rejected downstream never reaches the store.
*/
package content

import (
	"time"
)

// # Campaigns

// CampaignStatus tracks a campaign through its life.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

// Campaign groups related posts under a named initiative.
type Campaign struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Status      CampaignStatus `json:"status"`
	StartsAt    *time.Time     `json:"starts_at,omitempty"`
	EndsAt      *time.Time     `json:"ends_at,omitempty"`
	CreatedBy   string         `json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// # Posts

// Platform identifies the destination network of a post.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFarcaster Platform = "farcaster"
	PlatformBluesky   Platform = "bluesky"
)

// bodyLimits holds the per-platform maximum body length in characters.
var bodyLimits = map[Platform]int{
	PlatformTwitter:   280,
	PlatformLinkedIn:  3000,
	PlatformFarcaster: 320,
	PlatformBluesky:   300,
}

// BodyLimit returns the character limit for a platform, or 0 for an unknown
// platform.
func BodyLimit(platform Platform) int {
	return bodyLimits[platform]
}

// Platforms returns the supported platform identifiers.
func Platforms() []Platform {
	return []Platform{PlatformTwitter, PlatformLinkedIn, PlatformFarcaster, PlatformBluesky}
}

// PostStatus tracks a post from draft to publication.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
	PostFailed    PostStatus = "failed"
)

// Post is a single piece of content aimed at one platform.
type Post struct {
	ID          string     `json:"id"`
	CampaignID  string     `json:"campaign_id"`
	Platform    Platform   `json:"platform"`
	Body        string     `json:"body"`
	MediaURL    string     `json:"media_url,omitempty"`
	Status      PostStatus `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ExternalID  string     `json:"external_id,omitempty"` // ID assigned by the platform after publishing
	CreatedBy   string     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
