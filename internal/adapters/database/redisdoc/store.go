// Package redisdoc implements the repository ports on Redis as a document
// store: every entity is one JSON document, collections keep a sorted-set
// index ordered by creation time, and denormalized counters live in hashes
// so they can be adjusted atomically alongside document writes.
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apphgio/tools_platform_app/internal/apperrors"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "atp"

// scanWindow is how many index entries are fetched per round trip while
// filtering a collection in process.
const scanWindow = 200

type store struct {
	rdb *redis.Client
}

func docKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, collection, id)
}

func indexKey(collection string) string {
	return fmt.Sprintf("%s:%s:index", keyPrefix, collection)
}

func lookupKey(collection, field, value string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, collection, field, value)
}

func counterKey(collection string) string {
	return fmt.Sprintf("%s:toolcount:%s", keyPrefix, collection)
}

// getDoc unmarshals one document into out. Missing keys map to ErrNotFound.
func (s *store) getDoc(ctx context.Context, collection, id string, out any) error {
	raw, err := s.rdb.Get(ctx, docKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to read %s document %s: %w", collection, id, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s document %s: %w", collection, id, err)
	}
	return nil
}

// setDoc writes one document and indexes it by the given instant. The SET
// and ZADD travel in one pipeline so the index never references a missing
// document for long.
func (s *store) setDoc(ctx context.Context, collection, id string, doc any, indexedAt time.Time) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode %s document %s: %w", collection, id, err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, docKey(collection, id), raw, 0)
	pipe.ZAdd(ctx, indexKey(collection), redis.Z{Score: float64(indexedAt.UnixNano()), Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write %s document %s: %w", collection, id, err)
	}
	return nil
}

// deleteDoc removes one document and its index entry.
func (s *store) deleteDoc(ctx context.Context, collection, id string) error {
	pipe := s.rdb.TxPipeline()
	del := pipe.Del(ctx, docKey(collection, id))
	pipe.ZRem(ctx, indexKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s document %s: %w", collection, id, err)
	}
	if del.Val() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// listDocs walks a collection's index newest first and returns every
// document the predicate accepts. Filtering runs in process; a nil match
// accepts everything.
func listDocs[T any](ctx context.Context, s *store, collection string, match func(*T) bool) ([]T, error) {
	out := []T{}
	for offset := int64(0); ; offset += scanWindow {
		ids, err := s.rdb.ZRevRange(ctx, indexKey(collection), offset, offset+scanWindow-1).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s index: %w", collection, err)
		}
		if len(ids) == 0 {
			return out, nil
		}

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = docKey(collection, id)
		}
		raws, err := s.rdb.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s documents: %w", collection, err)
		}
		for i, raw := range raws {
			str, ok := raw.(string)
			if !ok {
				// Index entry without a document; skip rather than fail the listing.
				continue
			}
			var doc T
			if err := json.Unmarshal([]byte(str), &doc); err != nil {
				return nil, fmt.Errorf("failed to decode %s document %s: %w", collection, ids[i], err)
			}
			if match == nil || match(&doc) {
				out = append(out, doc)
			}
		}
		if int64(len(ids)) < scanWindow {
			return out, nil
		}
	}
}

// resolveLookup reads a secondary-index key (e.g. email to user ID).
func (s *store) resolveLookup(ctx context.Context, collection, field, value string) (string, error) {
	id, err := s.rdb.Get(ctx, lookupKey(collection, field, value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve %s %s lookup: %w", collection, field, err)
	}
	return id, nil
}
