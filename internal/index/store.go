package index

import (
	"errors"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"kblog/internal/domain/content"
	domainerr "kblog/internal/domain/errors"
	"os"
	"path/filepath"
	"time"
)

// Store is the on-disk content index, rebuilt from scratch on every build.
type Store struct {
	db   *bolt.DB
	path string
}

type OpenOptions struct {
	Path string // e.g. ".kblog/index.db"
	// Timeout waits for the file lock held by another build; default 1s.
	Timeout time.Duration
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, domainerr.Query("open", err)
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, domainerr.Query("open", fmt.Errorf("%s: %w", opt.Path, err))
	}
	return &Store{db: db, path: opt.Path}, nil
}

func (s *Store) Path() string { return s.path }

// Count returns the number of indexed documents of lang, drafts included.
func (s *Store) Count(lang content.Language) (int, error) {
	n := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		dateB := tx.Bucket(bDate)
		if dateB == nil {
			return errNotBuilt
		}
		if sb := dateB.Bucket([]byte(lang)); sb != nil {
			n = sb.Stats().KeyN
		}
		return nil
	})
	if err != nil {
		return 0, domainerr.Query("count", err)
	}
	return n, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
