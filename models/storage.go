// models/storage.go
package models

import "time"

// Keys for records kept in the generic storage table.
const (
	StorageKeyOperatorProfile = "userInfo"
	StorageKeyPrefixInputs    = "settlementInputs_" // + gameID
)

// StorageEntry is one JSON-valued record in the key/value storage table. It
// backs the small keyed collections (operator profile, per-game settlement
// inputs) that don't warrant a table of their own.
type StorageEntry struct {
	Key       string    `json:"key" gorm:"primaryKey;size:128"`
	Value     string    `json:"value" gorm:"type:text"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OperatorProfile is the local operator's identity shown in the lobby.
type OperatorProfile struct {
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}
