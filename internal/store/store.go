// internal/store/store.go

// Package store persists the full product set as a JSON array inside an
// embedded bbolt database, keyed by schema-version strings. Parallel keys
// carry the schema generations: loading migrates a legacy-generation set
// into the current key while leaving the legacy key untouched for rollback.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	"github.com/beautyshelf/beautyshelf-backend/internal/models"
	"github.com/beautyshelf/beautyshelf-backend/internal/reconcile"
)

const bucketName = "inventory"

type Store struct {
	db         *bolt.DB
	currentKey []byte
	legacyKey  []byte
}

// Open opens (or creates) the database file and ensures the inventory
// bucket exists.
func Open(path, currentKey, legacyKey string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create inventory bucket: %w", err)
	}

	return &Store{
		db:         db,
		currentKey: []byte(currentKey),
		legacyKey:  []byte(legacyKey),
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the active record set. When the current-version key has never
// been written but a legacy-generation set exists, the legacy records are
// migrated into the current schema, persisted under the current key, and
// returned; the legacy key is left in place.
func (s *Store) Load() ([]models.Product, error) {
	var current, legacy []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		current = cloneBytes(b.Get(s.currentKey))
		legacy = cloneBytes(b.Get(s.legacyKey))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read product records: %w", err)
	}

	if current != nil {
		var records []models.Product
		if err := json.Unmarshal(current, &records); err != nil {
			return nil, fmt.Errorf("decode stored products: %w", err)
		}
		return records, nil
	}

	if legacy == nil {
		return []models.Product{}, nil
	}

	var old []reconcile.LegacyRecord
	if err := json.Unmarshal(legacy, &old); err != nil {
		return nil, fmt.Errorf("decode legacy products: %w", err)
	}

	records := reconcile.MigrateLegacy(old, time.Now(), uuid.NewString)
	if err := s.Save(records); err != nil {
		return nil, err
	}
	logrus.WithField("count", len(records)).Info("Migrated legacy product records")
	return records, nil
}

// Save replaces the current-version record set in a single write
// transaction.
func (s *Store) Save(records []models.Product) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode product records: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(s.currentKey, payload)
	})
	if err != nil {
		return fmt.Errorf("write product records: %w", err)
	}
	return nil
}

// bbolt values are only valid inside their transaction
func cloneBytes(v []byte) []byte {
	if v == nil {
		return nil
	}
	return append([]byte(nil), v...)
}
