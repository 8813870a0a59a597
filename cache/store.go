// Package cache persists the latest leaderboard snapshot so the read
// path can serve it without regrading every prediction, and so a
// restart does not start cold.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/fairwaycup/matchplay/engine"
)

const leaderboardBucket = "leaderboard"

// snapshotKey is the single key the current snapshot lives under.
var snapshotKey = []byte("current")

// Snapshot is a ranked leaderboard with its computation time.
type Snapshot struct {
	Rows        []engine.LeaderboardRow `json:"rows"`
	Graded      bool                    `json:"graded"`
	RefreshedAt time.Time               `json:"refreshed_at"`
}

type LeaderboardStore interface {
	Get() (Snapshot, bool, error)
	Set(snap Snapshot) error
	Close() error
}

// BoltStore implements LeaderboardStore on a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(dbPath string) (*BoltStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", dbPath, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(leaderboardBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get() (Snapshot, bool, error) {
	var snap Snapshot
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(leaderboardBucket))
		if bucket == nil {
			return nil
		}
		data := bucket.Get(snapshotKey)
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &snap)
	})
	if err != nil {
		return Snapshot{}, false, fmt.Errorf("failed to read leaderboard snapshot: %w", err)
	}
	return snap, found, nil
}

func (s *BoltStore) Set(snap Snapshot) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(leaderboardBucket))
		if bucket == nil {
			return fmt.Errorf("bucket %s does not exist", leaderboardBucket)
		}
		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("failed to marshal leaderboard snapshot: %w", err)
		}
		return bucket.Put(snapshotKey, data)
	})
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
