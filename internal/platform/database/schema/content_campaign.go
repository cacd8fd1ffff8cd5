// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package schema

// ContentCampaignTable represents the 'content.campaign' table
type ContentCampaignTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	Status      string
	StartsAt    string
	EndsAt      string
	CreatedBy   string
	CreatedAt   string
	UpdatedAt   string
}

var ContentCampaign = ContentCampaignTable{
	Table:       "content.campaign",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Status:      "status",
	StartsAt:    "startsat",
	EndsAt:      "endsat",
	CreatedBy:   "createdby",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
