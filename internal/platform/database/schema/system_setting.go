// Copyright (c) 2026 Pollen Labs. All rights reserved.
// Author: dev@pollenlabs.io

package schema

// SystemSettingTable represents the 'system.setting' table
type SystemSettingTable struct {
	Table       string
	ID          string
	Key         string
	Value       string
	Description string
	CreatedAt   string
	UpdatedAt   string
}

var SystemSetting = SystemSettingTable{
	Table:       "system.setting",
	ID:          "id",
	Key:         "key",
	Value:       "value",
	Description: "description",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}
