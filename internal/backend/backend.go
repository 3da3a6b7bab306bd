// Package backend wires one storage adapter set, the media store, and the
// synthesizer into a Container that the HTTP server and the CLI commands
// share.
package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"otter.camp/lingot/internal/config"
	"otter.camp/lingot/internal/ingest"
	"otter.camp/lingot/internal/media"
	"otter.camp/lingot/internal/store"
	"otter.camp/lingot/internal/store/jsonfile"
	"otter.camp/lingot/internal/store/memory"
	"otter.camp/lingot/internal/store/postgres"
	"otter.camp/lingot/internal/tts"
)

// Stores bundles every port. The three adapters each implement all of them,
// so one struct field per port keeps call sites honest about which port they
// depend on.
type Stores struct {
	Users        store.UserStore
	Sessions     store.SessionStore
	AppSettings  store.AppSettingsStore
	Documents    store.DocumentStore
	Sentences    store.SentenceStore
	Words        store.WordStore
	Links        store.LinkStore
	Conjugations store.ConjugationStore
	Trackers     store.TrackerStore
}

// Container is the assembled application core.
type Container struct {
	Config *config.Config
	Stores Stores
	Media  *media.Store
	Synth  tts.Synthesizer
	Ingest *ingest.Service
	Logger zerolog.Logger

	closer func() error
}

// Open builds the container for cfg.Driver(). The caller owns Close.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	c := &Container{
		Config: cfg,
		Logger: logger,
		closer: func() error { return nil },
	}

	switch cfg.Driver() {
	case config.DriverPostgres:
		pg, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		c.Stores = storesFrom(pg)
		c.closer = pg.Close
	case config.DriverJSONFile:
		jf, err := jsonfile.Open(cfg.JSONFilePath)
		if err != nil {
			return nil, fmt.Errorf("open jsonfile store: %w", err)
		}
		c.Stores = storesFrom(jf)
	case config.DriverMemory:
		c.Stores = storesFrom(memory.New())
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		return nil, fmt.Errorf("open media store: %w", err)
	}
	c.Media = mediaStore

	c.Synth = tts.Disabled{}
	if cfg.TTSEnabled {
		synth, err := tts.NewGoogleSynthesizer(cfg.TTSEndpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("configure synthesizer: %w", err)
		}
		c.Synth = synth
	}

	c.Ingest = ingest.NewService(
		c.Stores.Documents,
		c.Stores.Sentences,
		c.Stores.Words,
		c.Stores.Links,
		c.Stores.Conjugations,
		c.Media,
		c.Synth,
		logger,
	)

	logger.Info().
		Str("storage_driver", cfg.Driver()).
		Str("media_dir", cfg.MediaDir).
		Str("synthesizer", c.Synth.Name()).
		Msg("backend initialized")

	return c, nil
}

func (c *Container) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer()
}

// fullStore is what each adapter actually provides.
type fullStore interface {
	store.UserStore
	store.SessionStore
	store.AppSettingsStore
	store.DocumentStore
	store.SentenceStore
	store.WordStore
	store.LinkStore
	store.ConjugationStore
	store.TrackerStore
}

func storesFrom(s fullStore) Stores {
	return Stores{
		Users:        s,
		Sessions:     s,
		AppSettings:  s,
		Documents:    s,
		Sentences:    s,
		Words:        s,
		Links:        s,
		Conjugations: s,
		Trackers:     s,
	}
}
