// Package recovery is the recovery cache: an append-only list of encrypted
// recovery phrases kept as one JSON document under a single key of a kv
// repository.
//
// Append is a read-modify-write of the whole list. When the repository
// implements kv.Updater the cycle runs atomically; otherwise the last writer
// wins, which is acceptable while only one onboarding session runs per device.
package recovery

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atomist-global-seeds/blockstack-browser/internal/client/models"
	"github.com/atomist-global-seeds/blockstack-browser/internal/client/repositories/kv"
	"github.com/atomist-global-seeds/blockstack-browser/internal/common"
	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
)

// Store appends and lists recovery records.
type Store interface {
	Append(ctx context.Context, identityName, encryptedPhrase string) error
	Read(ctx context.Context) ([]models.RecoveryRecord, error)
}

// KVStore implements Store on top of a kv.Repository.
type KVStore struct {
	repo   kv.Repository
	key    string
	logger logging.Logger
}

func NewKVStore(repo kv.Repository, logger logging.Logger) *KVStore {
	return &KVStore{repo: repo, key: common.RecoveryCacheKey, logger: logger}
}

// Append adds one record. A stored list that cannot be read or parsed is
// logged and replaced by a fresh list on both the atomic and the plain path,
// so the new record is never lost to old corruption.
func (s *KVStore) Append(ctx context.Context, identityName, encryptedPhrase string) error {
	record := models.RecoveryRecord{IdentityName: identityName, EncryptedPhrase: encryptedPhrase}

	if u, ok := s.repo.(kv.Updater); ok {
		err := u.Update(ctx, s.key, func(current string, found bool) (string, error) {
			records := s.decodeOrEmpty(ctx, current, found)
			return encode(append(records, record))
		})
		if err == nil {
			return nil
		}
		// A failed read inside the transaction must not drop the record, so
		// fall through to the plain cycle, which treats it as an empty list.
		s.logger.Warn(ctx, "atomic recovery cache update failed, retrying as plain write", "error", err)
	}

	current, found, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn(ctx, "recovery cache unreadable, starting from empty list", "error", err)
		current, found = "", false
	}
	value, err := encode(append(s.decodeOrEmpty(ctx, current, found), record))
	if err != nil {
		return fmt.Errorf("%w: append: %w", common.ErrStore, err)
	}
	if err := s.repo.Set(ctx, s.key, value); err != nil {
		return fmt.Errorf("%w: append: %w", common.ErrStore, err)
	}
	return nil
}

// Read returns every record in insertion order. An absent list is empty.
func (s *KVStore) Read(ctx context.Context) ([]models.RecoveryRecord, error) {
	current, found, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", common.ErrStore, err)
	}
	if !found || current == "" {
		return []models.RecoveryRecord{}, nil
	}
	records, err := decode(current)
	if err != nil {
		return nil, fmt.Errorf("%w: read: %w", common.ErrStore, err)
	}
	return records, nil
}

func (s *KVStore) decodeOrEmpty(ctx context.Context, current string, found bool) []models.RecoveryRecord {
	if !found || current == "" {
		return nil
	}
	records, err := decode(current)
	if err != nil {
		s.logger.Warn(ctx, "recovery cache corrupt, starting from empty list", "error", err)
		return nil
	}
	return records
}

func decode(s string) ([]models.RecoveryRecord, error) {
	var records []models.RecoveryRecord
	if err := json.Unmarshal([]byte(s), &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.RecoveryRecord{}
	}
	return records, nil
}

func encode(records []models.RecoveryRecord) (string, error) {
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Latest returns the most recently appended record for identityName.
func Latest(records []models.RecoveryRecord, identityName string) (models.RecoveryRecord, error) {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].IdentityName == identityName {
			return records[i], nil
		}
	}
	return models.RecoveryRecord{}, fmt.Errorf("recovery record %q: %w", identityName, common.ErrorNotFound)
}

var _ Store = (*KVStore)(nil)
