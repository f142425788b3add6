package tagging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain"
	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

type mockSource struct {
	comms []record.Communication
	txs   []record.Transaction
	regs  []record.RegParagraph
	note  string
}

func (m *mockSource) RawCommunications(context.Context) ([]record.Communication, string) {
	return m.comms, m.note
}

func (m *mockSource) RawTransactions(context.Context) ([]record.Transaction, string) {
	return m.txs, m.note
}

func (m *mockSource) RawRegParagraphs(context.Context) ([]record.RegParagraph, string) {
	return m.regs, m.note
}

type mockSink struct {
	comms []record.Communication
	txs   []record.Transaction
	regs  []record.RegParagraph
	err   error
}

func (m *mockSink) WriteTaggedCommunications(_ context.Context, rows []record.Communication) error {
	m.comms = rows
	return m.err
}

func (m *mockSink) WriteTaggedTransactions(_ context.Context, rows []record.Transaction) error {
	m.txs = rows
	return m.err
}

func (m *mockSink) WriteTaggedRegParagraphs(_ context.Context, rows []record.RegParagraph) error {
	m.regs = rows
	return m.err
}

// mockTagger fails failures[id] times before succeeding for that id.
type mockTagger struct {
	failures map[string]int
	attempts map[string]int
}

func newMockTagger(failures map[string]int) *mockTagger {
	return &mockTagger{failures: failures, attempts: map[string]int{}}
}

func (m *mockTagger) fail(id string) error {
	m.attempts[id]++
	if m.attempts[id] <= m.failures[id] {
		return domain.ErrTaggingProviderError
	}
	return nil
}

func (m *mockTagger) TagCommunication(_ context.Context, c record.Communication) (record.Communication, error) {
	if err := m.fail(c.MessageID); err != nil {
		return record.Communication{}, err
	}
	c.MaskedText = "[MASKED] " + c.Text
	c.Risk = record.RiskHigh
	return c, nil
}

func (m *mockTagger) TagTransaction(_ context.Context, t record.Transaction) (record.Transaction, error) {
	if err := m.fail(t.TransactionID); err != nil {
		return record.Transaction{}, err
	}
	score := 9.0
	t.RiskScore = &score
	t.Tags = []string{"structuring"}
	return t, nil
}

func (m *mockTagger) TagRegParagraph(_ context.Context, p record.RegParagraph) (record.RegParagraph, error) {
	if err := m.fail(p.ParagraphID); err != nil {
		return record.RegParagraph{}, err
	}
	p.Owner = "Compliance"
	return p, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func TestTagCommunicationsSuccess(t *testing.T) {
	src := &mockSource{comms: []record.Communication{
		{MessageID: "C1", Text: "hello"},
		{MessageID: "C2", Text: "world"},
	}}
	sink := &mockSink{}
	svc := New(src, sink, newMockTagger(nil))
	svc.sleep = noSleep

	rep, err := svc.TagCommunications(context.Background())
	if err != nil {
		t.Fatalf("TagCommunications: %v", err)
	}

	if rep.Total != 2 || rep.Tagged != 2 || rep.Skipped != 0 {
		t.Errorf("report = %+v", rep)
	}
	if len(sink.comms) != 2 || sink.comms[0].MaskedText != "[MASKED] hello" {
		t.Errorf("sink rows = %+v", sink.comms)
	}
}

func TestTagTransactionsRetriesThenSucceeds(t *testing.T) {
	src := &mockSource{txs: []record.Transaction{{TransactionID: "T1"}}}
	sink := &mockSink{}
	tagger := newMockTagger(map[string]int{"T1": 2})
	svc := New(src, sink, tagger)
	svc.sleep = noSleep

	rep, err := svc.TagTransactions(context.Background())
	if err != nil {
		t.Fatalf("TagTransactions: %v", err)
	}

	if rep.Tagged != 1 || rep.Skipped != 0 {
		t.Errorf("report = %+v", rep)
	}
	if tagger.attempts["T1"] != 3 {
		t.Errorf("attempts = %d, want 3", tagger.attempts["T1"])
	}
}

func TestTagRegParagraphsSkipsAfterRetryBudget(t *testing.T) {
	src := &mockSource{regs: []record.RegParagraph{
		{ParagraphID: "R1"},
		{ParagraphID: "R2"},
	}}
	sink := &mockSink{}
	tagger := newMockTagger(map[string]int{"R1": maxAttempts})
	svc := New(src, sink, tagger)
	svc.sleep = noSleep

	rep, err := svc.TagRegParagraphs(context.Background())
	if err != nil {
		t.Fatalf("TagRegParagraphs: %v", err)
	}

	if rep.Total != 2 || rep.Tagged != 1 || rep.Skipped != 1 {
		t.Errorf("report = %+v", rep)
	}
	if len(sink.regs) != 1 || sink.regs[0].ParagraphID != "R2" {
		t.Errorf("failed record must not reach the tagged output: %+v", sink.regs)
	}
	if tagger.attempts["R1"] != maxAttempts {
		t.Errorf("attempts = %d, want %d", tagger.attempts["R1"], maxAttempts)
	}
}

func TestRunAggregatesAllDatasets(t *testing.T) {
	src := &mockSource{
		comms: []record.Communication{{MessageID: "C1"}},
		txs:   []record.Transaction{{TransactionID: "T1"}},
		regs:  []record.RegParagraph{{ParagraphID: "R1"}},
	}
	sink := &mockSink{}
	svc := New(src, sink, newMockTagger(nil))
	svc.sleep = noSleep

	rep, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Communications.Tagged != 1 || rep.Transactions.Tagged != 1 || rep.RegParagraphs.Tagged != 1 {
		t.Errorf("report = %+v", rep)
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	src := &mockSource{comms: []record.Communication{{MessageID: "C1"}}}
	sink := &mockSink{}
	tagger := newMockTagger(map[string]int{"C1": maxAttempts})
	svc := New(src, sink, tagger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.TagCommunications(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSinkErrorPropagates(t *testing.T) {
	src := &mockSource{comms: []record.Communication{{MessageID: "C1"}}}
	sink := &mockSink{err: errors.New("disk full")}
	svc := New(src, sink, newMockTagger(nil))
	svc.sleep = noSleep

	if _, err := svc.TagCommunications(context.Background()); err == nil {
		t.Fatal("expected sink error to propagate")
	}
}
