package sqlite

import (
	"fmt"
	"time"

	"github.com/julianstephens/quitline/internal/storage"
)

const sqliteTimestamp = "2006-01-02T15:04:05.000Z"

func (s *Store) History(key string, limit int) ([]storage.Revision, error) {
	if limit <= 0 {
		limit = storage.MaxHistoryPerKey
	}
	rows, err := s.db.Query(`
		SELECT key, value, replaced_at FROM kv_history
		WHERE key = ? ORDER BY id DESC LIMIT ?`, key, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []storage.Revision
	for rows.Next() {
		var rev storage.Revision
		var replacedAt string
		if err := rows.Scan(&rev.Key, &rev.Value, &replacedAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(sqliteTimestamp, replacedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing replaced_at %q: %w", replacedAt, err)
		}
		rev.ReplacedAt = t
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}
