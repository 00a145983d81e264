package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config stores runtime configuration for the app.
type Config struct {
	Gemini   GeminiConfig
	Supabase SupabaseConfig
	Audio    AudioConfig
	Storage  StorageConfig
	Session  SessionConfig
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SupabaseConfig struct {
	// DSN is the Postgres connection string of the Supabase project.
	// Empty disables the remote sink.
	DSN string
}

type AudioConfig struct {
	FFmpegCommand string
	InputFormat   string
	InputDevice   string
	SampleRate    int
	Channels      int
}

type StorageConfig struct {
	DBPath string
}

type SessionConfig struct {
	ChunkSize int
}

// Load resolves configuration from a .env file (when present), the
// environment and sensible defaults.
func Load() (Config, error) {
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, errors.New("could not determine home directory")
	}

	cfg := Config{
		Gemini: GeminiConfig{
			APIKey: strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
			Model:  envOrDefault("GEMINI_MODEL", "gemini-3-flash-preview"),
		},
		Supabase: SupabaseConfig{
			DSN: strings.TrimSpace(os.Getenv("SUPABASE_DB_URL")),
		},
		Audio: AudioConfig{
			FFmpegCommand: envOrDefault("LESSONCADDY_FFMPEG_COMMAND", "ffmpeg"),
			InputFormat:   envOrDefault("LESSONCADDY_AUDIO_INPUT_FORMAT", "pulse"),
			InputDevice:   envOrDefault("LESSONCADDY_AUDIO_INPUT_DEVICE", "default"),
			SampleRate:    envOrDefaultInt("LESSONCADDY_SAMPLE_RATE", 16000),
			Channels:      envOrDefaultInt("LESSONCADDY_CHANNELS", 1),
		},
		Storage: StorageConfig{
			DBPath: envOrDefault("LESSONCADDY_DB_PATH",
				filepath.Join(home, ".local", "share", "lessoncaddy", "lessoncaddy.sqlite")),
		},
		Session: SessionConfig{
			ChunkSize: envOrDefaultInt("LESSONCADDY_AUDIO_CHUNK_SIZE", 4096),
		},
	}

	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Session.ChunkSize < 256 {
		cfg.Session.ChunkSize = 4096
	}

	return cfg, nil
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
