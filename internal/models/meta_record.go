package models

import "time"

// Collection keys for the metadata tier.
const (
	MetaKeyProjects = "projects"
	MetaKeyGroups   = "groups"
	MetaKeySettings = "playback_settings"
)

// MetaRecord is one durable key-value row in the metadata tier. The value is
// a JSON document: a whole collection for projects and groups, a single
// object for settings. Collections are always rewritten wholesale.
type MetaRecord struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     []byte    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the MetaRecord model.
func (MetaRecord) TableName() string {
	return "meta_records"
}
