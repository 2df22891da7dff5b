// Package config loads the YAML document shared by the dungeongen and
// dungeonview commands.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
	"github.com/lawnchairsociety/dungeonbuilder/internal/render"
	"github.com/lawnchairsociety/dungeonbuilder/internal/store"
)

// AppConfig holds every configurable section.
type AppConfig struct {
	Dungeon dungeon.Config `yaml:"dungeon" json:"dungeon"`
	Render  RenderConfig   `yaml:"render" json:"render"`
	Store   StoreConfig    `yaml:"store" json:"store"`
	Viewer  ViewerConfig   `yaml:"viewer" json:"viewer"`
}

// RenderConfig holds image and animation output settings.
type RenderConfig struct {
	// Scale is the pixel size of one cell.
	Scale int `yaml:"scale" json:"scale" jsonschema:"minimum=1"`

	// GIFStride captures one animation frame every GIFStride carving events.
	GIFStride int `yaml:"gif_stride" json:"gif_stride" jsonschema:"minimum=1"`

	// GIFDelay is the per-frame delay in hundredths of a second.
	GIFDelay int `yaml:"gif_delay" json:"gif_delay" jsonschema:"minimum=1"`
}

// StoreConfig enables the layout archive.
type StoreConfig struct {
	Enabled      bool `yaml:"enabled" json:"enabled"`
	store.Config `yaml:",inline"`
}

// ViewerConfig holds settings for the live excavation viewer.
type ViewerConfig struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// AllowedOrigins is a list of origins allowed to open the stream.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins (not recommended for production).
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`

	// MaxPerIP is the maximum concurrent streams from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip" json:"max_per_ip" jsonschema:"minimum=0"`

	// MaxTotal is the maximum concurrent streams overall. 0 means unlimited.
	MaxTotal int `yaml:"max_total" json:"max_total" jsonschema:"minimum=0"`

	// FrameBuffer is how many frames may queue for a slow client.
	FrameBuffer int `yaml:"frame_buffer" json:"frame_buffer" jsonschema:"minimum=1"`

	// ListLimit caps the number of archived dungeons returned by the index.
	ListLimit int `yaml:"list_limit" json:"list_limit" jsonschema:"minimum=0"`
}

// DefaultConfig returns an AppConfig with every section defaulted.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Dungeon: dungeon.DefaultConfig(),
		Render: RenderConfig{
			Scale:     render.DefaultScale,
			GIFStride: render.DefaultStride,
			GIFDelay:  render.DefaultGIFDelay,
		},
		Store: StoreConfig{
			Enabled: false,
			Config:  store.DefaultConfig("data/dungeons.db"),
		},
		Viewer: ViewerConfig{
			Listen:         ":8080",
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxPerIP:       3,
			MaxTotal:       100,
			FrameBuffer:    256,
			ListLimit:      50,
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// A missing file yields the defaults; a parse error yields the defaults and
// the error.
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.Dungeon.Validate(); err != nil {
		return err
	}
	if c.Render.Scale < 1 || c.Render.GIFStride < 1 || c.Render.GIFDelay < 1 {
		return fmt.Errorf("config: render scale, gif_stride and gif_delay must be positive")
	}
	if c.Store.Enabled {
		if err := c.Store.Config.Validate(); err != nil {
			return err
		}
	}
	if c.Viewer.MaxPerIP < 0 || c.Viewer.MaxTotal < 0 {
		return fmt.Errorf("config: viewer connection limits must not be negative")
	}
	if c.Viewer.FrameBuffer < 1 {
		return fmt.Errorf("config: viewer frame_buffer must be positive")
	}
	return nil
}

// Schema returns the JSON schema of AppConfig, for editor completion of
// config files.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(new(AppConfig))
	schema.Title = "dungeonbuilder configuration"
	schema.Description = "Generation, rendering, archive and viewer settings"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

// IsOriginAllowed checks if the given origin may open a viewer stream.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *ViewerConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	// "http://localhost:3000" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
