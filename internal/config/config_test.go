package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if cfg.Dungeon != dungeon.DefaultConfig() {
		t.Errorf("dungeon section = %+v, want defaults", cfg.Dungeon)
	}
	if cfg.Store.Enabled {
		t.Error("store should be disabled by default")
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("store driver = %q, want sqlite", cfg.Store.Driver)
	}
	if len(cfg.Viewer.AllowedOrigins) != 0 {
		t.Errorf("expected empty allowed origins by default, got %v", cfg.Viewer.AllowedOrigins)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Errorf("expected no error for missing file, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for missing file, got nil")
	}
	if cfg.Viewer.Listen != ":8080" {
		t.Errorf("Listen = %q, want default", cfg.Viewer.Listen)
	}
}

func TestLoadConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "dungeon.yaml")

	content := `
dungeon:
  min_width: 20
  max_width: 30
  passage_width: 1
  minimum_gap: 2
render:
  scale: 8
store:
  enabled: true
  driver: postgres
  sqlite_path: ignored.db
  postgres:
    host: db.example.com
    database: dungeons
    conn_max_lifetime: 2m
viewer:
  allowed_origins:
    - "https://example.com"
    - "http://localhost:3000"
  max_per_ip: 5
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Dungeon.MinWidth != 20 || cfg.Dungeon.MaxWidth != 30 {
		t.Errorf("width bounds = %d..%d, want 20..30", cfg.Dungeon.MinWidth, cfg.Dungeon.MaxWidth)
	}
	if cfg.Dungeon.MaxHeight != dungeon.DefaultMaxHeight {
		t.Errorf("unset MaxHeight = %d, want default", cfg.Dungeon.MaxHeight)
	}
	if cfg.Dungeon.PassageWidth != 1 || cfg.Dungeon.MinimumGap != 2 {
		t.Errorf("passage = %d gap %d", cfg.Dungeon.PassageWidth, cfg.Dungeon.MinimumGap)
	}
	if cfg.Render.Scale != 8 || cfg.Render.GIFDelay != 5 {
		t.Errorf("render = %+v", cfg.Render)
	}
	if !cfg.Store.Enabled || cfg.Store.Driver != "postgres" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.Postgres.Host != "db.example.com" || cfg.Store.Postgres.Port != 5432 {
		t.Errorf("postgres = %+v", cfg.Store.Postgres)
	}
	if cfg.Store.Postgres.ConnMaxLifetime != 2*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 2m", cfg.Store.Postgres.ConnMaxLifetime)
	}
	if len(cfg.Viewer.AllowedOrigins) != 2 || cfg.Viewer.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("allowed origins = %v", cfg.Viewer.AllowedOrigins)
	}
	if cfg.Viewer.MaxPerIP != 5 || cfg.Viewer.MaxTotal != 100 {
		t.Errorf("limits = %d/%d, want 5/100", cfg.Viewer.MaxPerIP, cfg.Viewer.MaxTotal)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(configPath, []byte("dungeon: [oops"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(configPath)
	if err == nil {
		t.Error("expected parse error")
	}
	if cfg == nil || cfg.Dungeon != dungeon.DefaultConfig() {
		t.Error("expected defaults after parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   error
	}{
		{"bad modifier", func(c *AppConfig) { c.Dungeon.Modifier = 3 }, dungeon.ErrInvalidModifier},
		{"zero scale", func(c *AppConfig) { c.Render.Scale = 0 }, nil},
		{"negative limit", func(c *AppConfig) { c.Viewer.MaxPerIP = -1 }, nil},
		{"no frame buffer", func(c *AppConfig) { c.Viewer.FrameBuffer = 0 }, nil},
		{"enabled store without path", func(c *AppConfig) {
			c.Store.Enabled = true
			c.Store.SQLitePath = ""
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	if err != nil {
		t.Fatalf("Schema() failed: %v", err)
	}

	var doc struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("schema is not valid JSON: %v", err)
	}
	if doc.Title == "" {
		t.Error("schema has no title")
	}
	for _, section := range []string{"dungeon", "render", "store", "viewer"} {
		if _, ok := doc.Properties[section]; !ok {
			t.Errorf("schema missing %q section", section)
		}
	}

	var dungeonSection struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(doc.Properties["dungeon"], &dungeonSection); err != nil {
		t.Fatalf("dungeon section: %v", err)
	}
	if _, ok := dungeonSection.Properties["passage_width"]; !ok {
		t.Error("dungeon section missing passage_width")
	}
}

func TestIsOriginAllowed_EmptyList_SameOrigin(t *testing.T) {
	cfg := ViewerConfig{
		AllowedOrigins: []string{},
	}

	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected empty origin to be allowed (same-origin)")
	}
	if !cfg.IsOriginAllowed("http://localhost:4000", "localhost:4000") {
		t.Error("expected matching origin to be allowed (same-origin)")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected different origin to be rejected (same-origin policy)")
	}
}

func TestIsOriginAllowed_Wildcard(t *testing.T) {
	cfg := ViewerConfig{
		AllowedOrigins: []string{"*"},
	}

	if !cfg.IsOriginAllowed("http://anything.com", "localhost:4000") {
		t.Error("expected wildcard to allow any origin")
	}
	if !cfg.IsOriginAllowed("", "localhost:4000") {
		t.Error("expected wildcard to allow empty origin")
	}
}

func TestIsOriginAllowed_ExactMatch(t *testing.T) {
	cfg := ViewerConfig{
		AllowedOrigins: []string{
			"https://example.com",
			"http://localhost:3000",
		},
	}

	if !cfg.IsOriginAllowed("https://example.com", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}
	if !cfg.IsOriginAllowed("http://localhost:3000", "localhost:4000") {
		t.Error("expected exact match to be allowed")
	}
	if cfg.IsOriginAllowed("http://evil.com", "localhost:4000") {
		t.Error("expected non-matching origin to be rejected")
	}
	if cfg.IsOriginAllowed("https://example.com:8080", "localhost:4000") {
		t.Error("expected partial match to be rejected")
	}
}

func TestIsSameOrigin(t *testing.T) {
	tests := []struct {
		origin      string
		requestHost string
		expected    bool
	}{
		{"", "localhost:4000", true},                       // No origin header
		{"http://localhost:4000", "localhost:4000", true},  // HTTP match
		{"https://localhost:4000", "localhost:4000", true}, // HTTPS match
		{"http://localhost:4000/", "localhost:4000", true}, // Trailing slash
		{"http://example.com", "localhost:4000", false},    // Different host
		{"http://localhost:3000", "localhost:4000", false}, // Different port
		{"ws://localhost:4000", "localhost:4000", true},    // WebSocket scheme
	}

	for _, tt := range tests {
		result := isSameOrigin(tt.origin, tt.requestHost)
		if result != tt.expected {
			t.Errorf("isSameOrigin(%q, %q) = %v, want %v",
				tt.origin, tt.requestHost, result, tt.expected)
		}
	}
}
