// utils/storage.go
package utils

import (
	"encoding/json"
	"errors"
	"log"

	"bounty-settlement-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore is the key/value persistence adapter for the small keyed collections
// (operator profile, per-game settlement inputs). Values are stored as JSON in
// the storage_entries table.
//
// Failures never propagate as a crash: Get falls back to the caller's default
// and Set reports false, leaving the in-memory state authoritative so the
// caller may retry or warn the operator.
type KVStore struct {
	DB *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{DB: db}
}

// Get unmarshals the value stored under key into out. It returns false — and
// leaves out untouched, so pre-filled defaults survive — when the key is
// missing or the stored value cannot be decoded.
func (s *KVStore) Get(key string, out interface{}) bool {
	var entry models.StorageEntry
	if err := s.DB.First(&entry, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("❌ [KV] read %q failed: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(entry.Value), out); err != nil {
		log.Printf("❌ [KV] decode %q failed: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key, replacing any previous value. Returns false when
// the value cannot be serialized or the write fails.
func (s *KVStore) Set(key string, value interface{}) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("❌ [KV] encode %q failed: %v", key, err)
		return false
	}
	entry := models.StorageEntry{Key: key, Value: string(raw)}
	err = s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		log.Printf("❌ [KV] write %q failed: %v", key, err)
		return false
	}
	return true
}
