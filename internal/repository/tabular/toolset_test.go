package tabular

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandeep-kumarpalo/taglayer/internal/domain/record"
)

func TestRawToolsetSearchPIIFilters(t *testing.T) {
	s, dataDir, _ := newTestStore(t)
	writeFile(t, filepath.Join(dataDir, "customer_communication_logs.csv"),
		"message_id,channel,text\nC001,chat,My NRIC is S1234567A\nC002,email,lunch plans\nC003,chat,nric on file\n")

	payload := NewRawToolset(s).SearchPII(context.Background(), "NRIC", 20)

	env, ok := payload.(map[string]any)
	if !ok {
		t.Fatalf("payload type %T", payload)
	}
	hits := env["hits"].([]map[string]any)
	if len(hits) != 2 {
		t.Fatalf("hits = %v", hits)
	}
	if env["count"] != 2 || env["approximate"] != true {
		t.Errorf("envelope = %v", env)
	}
	if hits[0]["message_id"] != "C001" || hits[1]["message_id"] != "C003" {
		t.Errorf("filter must be case-insensitive and keep table order: %v", hits)
	}
}

func TestRawToolsetHonorsLimit(t *testing.T) {
	s, dataDir, _ := newTestStore(t)
	writeFile(t, filepath.Join(dataDir, "transaction_narratives.csv"),
		"transaction_id,amount_sgd,date,narrative\nT1,100,d,crypto buy\nT2,200,d,crypto sell\nT3,300,d,crypto swap\n")

	payload := NewRawToolset(s).SearchAML(context.Background(), "crypto", 2)

	env := payload.(map[string]any)
	matches := env["matches"].([]map[string]any)
	if len(matches) != 2 {
		t.Fatalf("limit not applied: %v", matches)
	}
	if matches[0]["amount_sgd"] != 100.0 {
		t.Errorf("amount = %v", matches[0]["amount_sgd"])
	}
}

func TestRawToolsetMissingTableNote(t *testing.T) {
	s, _, _ := newTestStore(t)

	payload := NewRawToolset(s).SearchReg(context.Background(), "mas 610", 20)

	env := payload.(map[string]any)
	if env["count"] != 0 {
		t.Errorf("count = %v", env["count"])
	}
	if note, _ := env["note"].(string); note == "" {
		t.Error("missing table must carry a note")
	}
}

func TestTaggedToolsetMatchesByID(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	score := 9.0
	if err := s.WriteTaggedTransactions(ctx, []record.Transaction{
		{TransactionID: "T028", MaskedNarrative: "[MASKED] split deposits", Tags: []string{"structuring"}, RiskScore: &score},
		{TransactionID: "T031", MaskedNarrative: "[MASKED] crypto transfer"},
	}); err != nil {
		t.Fatal(err)
	}

	payload := NewTaggedToolset(s).SearchAML(ctx, "T028", 20)

	env := payload.(map[string]any)
	matches := env["matches"].([]map[string]any)
	if len(matches) != 1 || matches[0]["transaction_id"] != "T028" {
		t.Fatalf("matches = %v", matches)
	}
	if matches[0]["risk_score"] != 9.0 {
		t.Errorf("risk score = %v", matches[0]["risk_score"])
	}
}

func TestTaggedToolsetCarriesTaggedFields(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	if err := s.WriteTaggedCommunications(ctx, []record.Communication{
		{MessageID: "C001", MaskedText: "[MASKED] NRIC mention", Entities: []string{"NRIC"}, Risk: record.RiskHigh},
	}); err != nil {
		t.Fatal(err)
	}

	payload := NewTaggedToolset(s).SearchPII(ctx, "nric", 20)

	env := payload.(map[string]any)
	hits := env["hits"].([]map[string]any)
	if len(hits) != 1 {
		t.Fatalf("hits = %v", hits)
	}
	if hits[0]["risk_flag"] != "High" {
		t.Errorf("risk flag = %v", hits[0]["risk_flag"])
	}
	entities := hits[0]["pii_entities"].([]string)
	if len(entities) != 1 || entities[0] != "NRIC" {
		t.Errorf("entities = %v", entities)
	}
}
