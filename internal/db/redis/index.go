package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"
)

// Doc is one indexed narrative: a hash keyed by prefix+id holding the
// payload fields plus the embedding under the vector field.
type Doc struct {
	Key    string
	Fields map[string]string
	Vector []float32
}

// VectorField is the hash field holding the embedding blob.
const VectorField = "vector"

// CreateVectorIndex creates a FLAT FLOAT32 L2 index over hashes with
// the given key prefix. Returns ErrIndexExists when already present.
func (s *Store) CreateVectorIndex(ctx context.Context, name, prefix string, dim int) error {
	if name == "" {
		return errors.New("index name is required")
	}
	if dim <= 0 {
		return errors.New("dim must be positive")
	}

	args := []string{
		name, "ON", "HASH", "PREFIX", "1", prefix, "SCHEMA",
		VectorField, "VECTOR", "FLAT", "6",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(dim),
		"DISTANCE_METRIC", "L2",
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return ErrIndexExists
		}
		return err
	}
	return nil
}

// DropIndex removes an FT index by name.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return ErrIndexNotFound
		}
		return err
	}
	return nil
}

// IndexExists probes index existence via FT.INFO; "unknown index name" means absent.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// WriteDocs stores documents in a single DoMulti round-trip. The
// vector is serialized into the payload hash alongside the fields.
func (s *Store) WriteDocs(ctx context.Context, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, len(docs))
	for i, doc := range docs {
		cmd := s.b().Hset().Key(doc.Key).FieldValue()
		for k, v := range doc.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmd = cmd.FieldValue(VectorField, vectorToBytes(doc.Vector))
		cmds[i] = cmd.Build()
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return fmt.Errorf("write doc %s: %w", docs[i].Key, err)
		}
	}
	return nil
}
