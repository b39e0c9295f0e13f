package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

type LLMConfig struct {
	Model       string  `json:"model" env:"SPOTIPAL_LLM_MODEL"`
	APIKey      string  `json:"api_key" env:"SPOTIPAL_LLM_API_KEY"`
	BaseURL     string  `json:"base_url" env:"SPOTIPAL_LLM_BASE_URL"`
	MaxTokens   int     `json:"max_tokens" env:"SPOTIPAL_LLM_MAX_TOKENS"`
	Temperature float64 `json:"temperature" env:"SPOTIPAL_LLM_TEMPERATURE"`
}

type SpotifyConfig struct {
	ClientID     string `json:"client_id" env:"SPOTIPAL_SPOTIFY_CLIENT_ID"`
	ClientSecret string `json:"client_secret" env:"SPOTIPAL_SPOTIFY_CLIENT_SECRET"`
	RefreshToken string `json:"refresh_token" env:"SPOTIPAL_SPOTIFY_REFRESH_TOKEN"`
	// AccessToken bypasses the refresh flow when set. Mostly for tests
	// and short-lived experiments.
	AccessToken       string  `json:"access_token,omitempty" env:"SPOTIPAL_SPOTIFY_ACCESS_TOKEN"`
	BaseURL           string  `json:"base_url" env:"SPOTIPAL_SPOTIFY_BASE_URL"`
	RequestsPerSecond float64 `json:"requests_per_second" env:"SPOTIPAL_SPOTIFY_RPS"`
}

type AgentConfig struct {
	MaxToolIterations int `json:"max_tool_iterations" env:"SPOTIPAL_AGENT_MAX_TOOL_ITERATIONS"`
}

type RecommenderConfig struct {
	AverageSongDurationMS int `json:"average_song_duration_ms" env:"SPOTIPAL_RECOMMENDER_AVG_SONG_MS"`
	DefaultLimit          int `json:"default_limit" env:"SPOTIPAL_RECOMMENDER_DEFAULT_LIMIT"`
}

type SessionConfig struct {
	// Path of the sqlite session database. Empty means in-memory only.
	Path string `json:"path" env:"SPOTIPAL_SESSION_PATH"`
	// TTLHours is how long an idle session survives before eviction.
	// Zero disables eviction.
	TTLHours int `json:"ttl_hours" env:"SPOTIPAL_SESSION_TTL_HOURS"`
	// SweepSchedule is a cron expression controlling eviction cadence.
	SweepSchedule string `json:"sweep_schedule" env:"SPOTIPAL_SESSION_SWEEP_SCHEDULE"`
}

type GatewayConfig struct {
	Host  string `json:"host" env:"SPOTIPAL_GATEWAY_HOST"`
	Port  int    `json:"port" env:"SPOTIPAL_GATEWAY_PORT"`
	Token string `json:"token" env:"SPOTIPAL_GATEWAY_TOKEN"`
}

type Config struct {
	LLM         LLMConfig         `json:"llm"`
	Spotify     SpotifyConfig     `json:"spotify"`
	Agent       AgentConfig       `json:"agent"`
	Recommender RecommenderConfig `json:"recommender"`
	Session     SessionConfig     `json:"session"`
	Gateway     GatewayConfig     `json:"gateway"`
}

func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Model:       "gpt-4o",
			BaseURL:     "https://api.openai.com/v1",
			MaxTokens:   4096,
			Temperature: 0.7,
		},
		Spotify: SpotifyConfig{
			BaseURL:           "https://api.spotify.com/v1",
			RequestsPerSecond: 10,
		},
		Agent: AgentConfig{
			MaxToolIterations: 10,
		},
		Recommender: RecommenderConfig{
			AverageSongDurationMS: 200000,
			DefaultLimit:          20,
		},
		Session: SessionConfig{
			Path:          "~/.spotipal/sessions.db",
			TTLHours:      72,
			SweepSchedule: "*/10 * * * *",
		},
		Gateway: GatewayConfig{
			Host: "127.0.0.1",
			Port: 18890,
		},
	}
}

// LoadConfig reads path if it exists, overlays environment variables, and
// falls back to defaults for anything unset.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Session.Path = ExpandHome(cfg.Session.Path)
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// DefaultConfigPath resolves to ~/.spotipal/config.json.
func DefaultConfigPath() string {
	return ExpandHome("~/.spotipal/config.json")
}

func ExpandHome(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
