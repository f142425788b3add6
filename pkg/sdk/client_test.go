package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAsk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/ask" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("auth header = %q", r.Header.Get("Authorization"))
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["query"] != "structuring" || req["mode"] != ModeTagged {
			t.Errorf("request = %v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(AskResponse{
			Answer: "**High-Risk Transactions:**",
			Trace:  Trace{Intent: "aml", Mode: ModeTagged, ToolName: "search_aml_tool", HitCount: 4},
		})
	}))
	defer server.Close()

	client := New(server.URL, WithAPIKey("secret"))
	resp, err := client.Ask(context.Background(), "structuring", ModeTagged)
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if resp.Answer != "**High-Risk Transactions:**" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Trace.ToolName != "search_aml_tool" || resp.Trace.HitCount != 4 {
		t.Errorf("trace = %+v", resp.Trace)
	}
}

func TestAsk_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "invalid_mode",
			"message": "invalid mode",
		})
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Ask(context.Background(), "hello", "vector_layer")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "invalid_mode" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/summary" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"aml_high_risk_count": 3})
	}))
	defer server.Close()

	client := New(server.URL)
	out, err := client.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if out["aml_high_risk_count"] != float64(3) {
		t.Errorf("summary = %v", out)
	}
}

func TestHealth_Degraded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(HealthResponse{
			Status: "degraded",
			Checks: map[string]string{"data": "error"},
		})
	}))
	defer server.Close()

	client := New(server.URL)
	out, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if out.Status != "degraded" || out.Checks["data"] != "error" {
		t.Errorf("health = %+v", out)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/summary" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New(server.URL + "/")
	if _, err := client.Summary(context.Background()); err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
}
