package index

import (
	"encoding/json"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"kblog/internal/domain/content"
	domainerr "kblog/internal/domain/errors"
	"strings"
)

// Rebuild replaces the index content with posts. Posts are expected in
// content-scan order. When no post carries a Seq, positions are used;
// otherwise every post must have one.
func (s *Store) Rebuild(posts []content.Post) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bPosts, bDate, bPath} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
		}

		postsB, err := tx.CreateBucket(bPosts)
		if err != nil {
			return err
		}
		dateB, err := tx.CreateBucket(bDate)
		if err != nil {
			return err
		}
		pathB, err := tx.CreateBucket(bPath)
		if err != nil {
			return err
		}

		number := content.Unnumbered(posts)
		for i, p := range posts {
			switch {
			case number:
				p.Seq = i + 1
			case p.Seq <= 0:
				return fmt.Errorf("post %s: missing scan ordinal", p.CanonicalPath)
			}
			if strings.TrimSpace(p.CanonicalPath) == "" {
				continue
			}
			if !p.Language.Valid() {
				return fmt.Errorf("post %s: unknown language %q", p.CanonicalPath, p.Language)
			}
			pb, err := json.Marshal(p)
			if err != nil {
				return err
			}
			sk := seqKey(p.Seq)
			if err := postsB.Put(sk, pb); err != nil {
				return err
			}

			sb, err := dateB.CreateBucketIfNotExists([]byte(p.Language))
			if err != nil {
				return err
			}
			if err := sb.Put(makeDateSeqKey(p.Date, p.Seq), sk); err != nil {
				return err
			}
			if err := pathB.Put(makePathKey(string(p.Language), p.CanonicalPath, p.Seq), sk); err != nil {
				return err
			}
		}
		return nil
	})
	return domainerr.Query("rebuild", err)
}
