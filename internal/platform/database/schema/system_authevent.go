// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package schema

// SystemAuthEventTable represents the 'system.authevent' table
type SystemAuthEventTable struct {
	Table     string
	ID        string
	UserID    string
	Email     string
	EventType string
	IPAddress string
	UserAgent string
	Extra     string
	Timestamp string
}

var SystemAuthEvent = SystemAuthEventTable{
	Table:     "system.authevent",
	ID:        "id",
	UserID:    "userid",
	Email:     "email",
	EventType: "eventtype",
	IPAddress: "ipaddress",
	UserAgent: "useragent",
	Extra:     "extra",
	Timestamp: "timestamp",
}
