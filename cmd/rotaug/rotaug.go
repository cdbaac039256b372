package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/bmharper/rotaug"
	"github.com/bmharper/rotaug/internal/config"
	"github.com/bmharper/rotaug/internal/logging"
	"github.com/rs/zerolog/log"
)

// Usage: rotaug [config.toml|config.yaml]
// Without a config file, settings come from ROTAUG_* environment variables.
func main() {
	cfg := &config.Config{}
	if len(os.Args) > 1 {
		var err error
		cfg, err = config.Load(os.Args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load config")
		}
	}
	if err := cfg.Finalize(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}

	logger := logging.New(&cfg.Logging)

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	batch := rotaug.NewBatch(cfg.Options(), rng, logger)
	summary, err := batch.Run()
	if err != nil {
		logger.Fatal().Err(err).Int("processed", summary.Processed).Msg("Batch failed")
	}

	fmt.Printf("%v\n", summary.Processed)
}
