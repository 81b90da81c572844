package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("WORKER_COUNT", "")
	t.Setenv("LLM_PROVIDER", "")

	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Errorf("expected memory store, got %q", cfg.StoreBackend)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.LLMTimeout != 30*time.Second {
		t.Errorf("expected 30s LLM timeout, got %s", cfg.LLMTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("WORKER_COUNT", "-3")
	t.Setenv("JOB_TTL", "15m")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.StoreBackend != StoreRedis {
		t.Errorf("expected redis store, got %q", cfg.StoreBackend)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected invalid worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 15*time.Minute {
		t.Errorf("expected 15m job TTL, got %s", cfg.JobTTL)
	}
	if !cfg.MinioUseSSL {
		t.Error("expected MinioUseSSL true")
	}
}

func validConfig() Config {
	return Config{
		APIKey:       "secret",
		StoreBackend: StoreMemory,
		ChunkSize:    1200,
		ChunkOverlap: 100,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing api key", func(c *Config) { c.APIKey = "" }, "FINDOC_API_KEY"},
		{"provider without key", func(c *Config) { c.LLMProvider = "anthropic" }, "LLM_API_KEY"},
		{"ollama needs no key", func(c *Config) { c.LLMProvider = "ollama" }, ""},
		{"unknown provider", func(c *Config) { c.LLMProvider = "mystery" }, "unknown LLM_PROVIDER"},
		{"postgres without dsn", func(c *Config) { c.StoreBackend = StorePostgres }, "DATABASE_URL"},
		{"unknown store", func(c *Config) { c.StoreBackend = "s3" }, "unknown STORE_BACKEND"},
		{"minio without keys", func(c *Config) { c.MinioEndpoint = "localhost:9000" }, "MINIO_ACCESS_KEY"},
		{"overlap too large", func(c *Config) { c.ChunkOverlap = 1200 }, "CHUNK_OVERLAP"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadTuning_EmptyPathIsDefault(t *testing.T) {
	tun, err := LoadTuning("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tun.Responder.TablePreviewRows != 5 {
		t.Errorf("expected default preview rows 5, got %d", tun.Responder.TablePreviewRows)
	}
}

func TestLoadTuning_OverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	body := `responder:
  table_preview_rows: 3
classifier:
  context_lines: 4
  keywords:
    summary_table: [recap]
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	tun, err := LoadTuning(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tun.Responder.TablePreviewRows != 3 {
		t.Errorf("expected preview rows 3, got %d", tun.Responder.TablePreviewRows)
	}
	if tun.Responder.EntitiesPerType != 5 {
		t.Errorf("expected untouched limit to keep default 5, got %d", tun.Responder.EntitiesPerType)
	}
	if tun.Classifier.ContextLines != 4 {
		t.Errorf("expected context lines 4, got %d", tun.Classifier.ContextLines)
	}
	if got := tun.Classifier.Keywords["summary_table"]; len(got) != 1 || got[0] != "recap" {
		t.Errorf("expected summary keywords [recap], got %v", got)
	}
	if len(tun.Classifier.Keywords["securities_table"]) == 0 {
		t.Error("expected securities keywords to keep their defaults")
	}
}

func TestLoadTuning_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("responder: [not, a, map]"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTuning(path); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}
