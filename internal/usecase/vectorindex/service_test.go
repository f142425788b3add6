package vectorindex

import (
	"context"
	"errors"
	"testing"

	"github.com/sandeep-kumarpalo/taglayer/internal/db/redis"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

type mockSource struct {
	rows []record.Transaction
	note string
}

func (m *mockSource) TaggedTransactions(context.Context) ([]record.Transaction, string) {
	return m.rows, m.note
}

type mockIndex struct {
	dropErr   error
	createErr error
	docs      []redis.Doc
	created   string
	dim       int
}

func (m *mockIndex) CreateVectorIndex(_ context.Context, name, _ string, dim int) error {
	m.created = name
	m.dim = dim
	return m.createErr
}

func (m *mockIndex) DropIndex(context.Context, string) error { return m.dropErr }

func (m *mockIndex) WriteDocs(_ context.Context, docs []redis.Doc) error {
	m.docs = docs
	return nil
}

type mockEmbedder struct {
	texts []string
	err   error
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	m.texts = append(m.texts, text)
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

func TestBuildIndexesTaggedNarratives(t *testing.T) {
	src := &mockSource{rows: []record.Transaction{
		{TransactionID: "T028", MaskedNarrative: "[MASKED] split deposits", Narrative: "split deposits"},
		{TransactionID: "T031", Narrative: "crypto transfer"},
		{TransactionID: "T040"},
	}}
	idx := &mockIndex{dropErr: redis.ErrIndexNotFound}
	emb := &mockEmbedder{}

	rep, err := New(src, idx, emb, "narratives").Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if rep.Indexed != 2 || rep.Skipped != 1 {
		t.Errorf("report = %+v", rep)
	}
	if emb.texts[0] != "[MASKED] split deposits" {
		t.Errorf("masked narrative must win over the original: %q", emb.texts[0])
	}
	if emb.texts[1] != "crypto transfer" {
		t.Errorf("original narrative is the fallback: %q", emb.texts[1])
	}
	if idx.created != "narratives" || idx.dim != 3 {
		t.Errorf("index created = %q dim = %d", idx.created, idx.dim)
	}
	if len(idx.docs) != 2 || idx.docs[0].Key != "narr:T028" {
		t.Errorf("docs = %+v", idx.docs)
	}
	if idx.docs[0].Fields[IDField] != "T028" {
		t.Errorf("doc fields = %v", idx.docs[0].Fields)
	}
}

func TestBuildNoTaggedData(t *testing.T) {
	svc := New(&mockSource{note: "tagged file missing"}, &mockIndex{}, &mockEmbedder{}, "narratives")

	_, err := svc.Build(context.Background())
	if !errors.Is(err, domain.ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
}

func TestBuildEmbedderFailureAborts(t *testing.T) {
	src := &mockSource{rows: []record.Transaction{{TransactionID: "T028", Narrative: "x"}}}
	svc := New(src, &mockIndex{}, &mockEmbedder{err: errors.New("quota exceeded")}, "narratives")

	_, err := svc.Build(context.Background())
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}
