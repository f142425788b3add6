package config

import (
	"os"
	"testing"

	"github.com/sandeep-kumarpalo/taglayer/internal/repository/tabular"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 8080 {
		t.Errorf("port = %d, expected 8080", cfg.HTTP.Port)
	}
	if cfg.Data.DataDir != "data" || cfg.Data.OutputDir != "outputs" {
		t.Errorf("data dirs = %q / %q", cfg.Data.DataDir, cfg.Data.OutputDir)
	}
	if cfg.Similarity.IndexName != "narratives" {
		t.Errorf("index name = %q", cfg.Similarity.IndexName)
	}
	if cfg.HTTP.ReadTimeoutSec <= 0 || cfg.HTTP.WriteTimeoutSec <= 0 || cfg.HTTP.ShutdownSec <= 0 {
		t.Errorf("timeouts not defaulted: %+v", cfg.HTTP)
	}
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{
		HTTP: HTTPConfig{Port: 9090},
		Data: tabular.Config{DataDir: "tables", OutputDir: "enriched"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, expected 9090 preserved", cfg.HTTP.Port)
	}
	if cfg.Data.DataDir != "tables" || cfg.Data.OutputDir != "enriched" {
		t.Errorf("data dirs overwritten: %+v", cfg.Data)
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Config{HTTP: HTTPConfig{Port: 70000}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestValidate_TaggingModelRequired(t *testing.T) {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8080},
		Tagging: ProviderConfig{APIKey: "test-key"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for tagging api_key without model")
	}

	cfg.Tagging.Model = "gpt-4o-mini"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_LoggingLevel(t *testing.T) {
	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		cfg := Config{HTTP: HTTPConfig{Port: 8080}, Logging: LoggingConfig{Level: level}}
		if err := cfg.Validate(); err != nil {
			t.Errorf("unexpected error for level %q: %v", level, err)
		}
	}

	cfg := Config{HTTP: HTTPConfig{Port: 8080}, Logging: LoggingConfig{Level: "loud"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid logging level")
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TAGLAYER_TEST_KEY", "sk-123")
	defer os.Unsetenv("TAGLAYER_TEST_KEY")

	in := []byte("api_key: ${TAGLAYER_TEST_KEY}\nmodel: ${TAGLAYER_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: sk-123\nmodel: gpt-4o-mini\n" {
		t.Errorf("expanded = %q", out)
	}
}
