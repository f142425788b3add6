package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
)

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c)
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateVectorIndex_Args(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE" &&
				cmd[1] == "narratives" &&
				slices.Contains(cmd, "PREFIX") &&
				slices.Contains(cmd, "narr:") &&
				slices.Contains(cmd, "FLOAT32") &&
				slices.Contains(cmd, "1536") &&
				slices.Contains(cmd, "L2")
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c)
	if err := s.CreateVectorIndex(context.Background(), "narratives", "narr:", 1536); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateVectorIndex_AlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.CREATE"
		})).
		Return(mock.Result(mock.RedisError("Index already exists")))

	s := NewStoreForTest(c)
	err := s.CreateVectorIndex(context.Background(), "narratives", "narr:", 8)
	if !errors.Is(err, ErrIndexExists) {
		t.Fatalf("expected ErrIndexExists, got %v", err)
	}
}

func TestIndexExists_Absent(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "narratives")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	s := NewStoreForTest(c)
	ok, err := s.IndexExists(context.Background(), "narratives")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent index")
	}
}

func TestWriteDocs_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	s := NewStoreForTest(c)
	if err := s.WriteDocs(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearchKNN_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH" && cmd[1] == "narratives"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(2), // total
			mock.RedisString("narr:T028"),
			mock.RedisArray(
				mock.RedisString("__vector_score"),
				mock.RedisString("0.1"),
				mock.RedisString("transaction_id"),
				mock.RedisString("T028"),
			),
			mock.RedisString("narr:T031"),
			mock.RedisArray(
				mock.RedisString("__vector_score"),
				mock.RedisString("0.4"),
				mock.RedisString("transaction_id"),
				mock.RedisString("T031"),
			),
		)))

	s := NewStoreForTest(c)
	entries, err := s.SearchKNN(context.Background(), "narratives", []float32{0.1, 0.2}, 3, []string{"transaction_id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Key != "narr:T028" || entries[0].Distance != 0.1 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[0].Fields["transaction_id"] != "T028" {
		t.Errorf("fields = %v", entries[0].Fields)
	}
	if _, ok := entries[0].Fields["__vector_score"]; ok {
		t.Error("score pseudo-field must be stripped from Fields")
	}
}

func TestSearchKNN_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0))))

	s := NewStoreForTest(c)
	entries, err := s.SearchKNN(context.Background(), "narratives", []float32{0.1}, 3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}

func TestSearchKNN_UnknownIndex(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "FT.SEARCH"
		})).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	s := NewStoreForTest(c)
	_, err := s.SearchKNN(context.Background(), "narratives", []float32{0.1}, 3, nil)
	if !errors.Is(err, ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestSearchKNN_Validation(t *testing.T) {
	s := NewStoreForTest(mock.NewClient(gomock.NewController(t)))

	if _, err := s.SearchKNN(context.Background(), "", []float32{1}, 3, nil); err == nil {
		t.Error("empty index must be rejected")
	}
	if _, err := s.SearchKNN(context.Background(), "idx", nil, 3, nil); err == nil {
		t.Error("empty vector must be rejected")
	}
	if _, err := s.SearchKNN(context.Background(), "idx", []float32{1}, 0, nil); err == nil {
		t.Error("non-positive k must be rejected")
	}
}

func TestVectorToBytes(t *testing.T) {
	got := vectorToBytes([]float32{1, 0.5})
	if len(got) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(got))
	}
	first := math.Float32frombits(binary.LittleEndian.Uint32([]byte(got)[:4]))
	if first != 1 {
		t.Errorf("first float = %f", first)
	}
}
