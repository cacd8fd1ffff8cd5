// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package schema

// ContentPostTable represents the 'content.post' table
type ContentPostTable struct {
	Table       string
	ID          string
	CampaignID  string
	Platform    string
	Body        string
	MediaURL    string
	Status      string
	ScheduledAt string
	PublishedAt string
	ExternalID  string
	CreatedBy   string
	CreatedAt   string
	UpdatedAt   string
}

var ContentPost = ContentPostTable{
	Table:       "content.post",
	ID:          "id",
	CampaignID:  "campaignid",
	Platform:    "platform",
	Body:        "body",
	MediaURL:    "mediaurl",
	Status:      "status",
	ScheduledAt: "scheduledat",
	PublishedAt: "publishedat",
	ExternalID:  "externalid",
	CreatedBy:   "createdby",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
