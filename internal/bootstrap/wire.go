package bootstrap

import (
	"log"

	"lessoncaddy/internal/audio"
	"lessoncaddy/internal/config"
	"lessoncaddy/internal/ports"
	"lessoncaddy/internal/providers/gemini"
	"lessoncaddy/internal/providers/supabase"
	"lessoncaddy/internal/store"
	"lessoncaddy/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Controller *usecase.Controller
	Store      *store.SQLite
	Config     config.Config
}

// Build wires all backend dependencies for the current runtime. The
// remote sink is optional: a missing or unreachable Supabase
// configuration disables it without failing startup.
func Build(events ports.EventSink) (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	local, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return Services{}, err
	}

	var sink ports.SummarySink
	if cfg.Supabase.DSN != "" {
		remote, err := supabase.Connect(cfg.Supabase.DSN)
		if err != nil {
			log.Printf("remote sink disabled: %v", err)
		} else {
			sink = remote
		}
	}

	controller := usecase.NewController(
		audio.NewFFmpegCapture(cfg.Audio.FFmpegCommand),
		gemini.NewSummarizer(gemini.Config{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		}),
		local,
		sink,
		events,
		usecase.Config{
			Audio: ports.AudioConfig{
				SampleRate:  cfg.Audio.SampleRate,
				Channels:    cfg.Audio.Channels,
				InputFormat: cfg.Audio.InputFormat,
				InputDevice: cfg.Audio.InputDevice,
			},
			ChunkSize: cfg.Session.ChunkSize,
		},
	)

	return Services{Controller: controller, Store: local, Config: cfg}, nil
}
