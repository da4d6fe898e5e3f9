// Package config loads shopkit configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 into a
// small typed API: LoadEnv reads one or more .env files into the process
// environment, and Load parses the environment into any annotated struct.
// Each configuration type is parsed once and cached for the lifetime of the
// process, so packages can call Load independently without re-reading the
// environment.
//
// Annotate struct fields with env tags:
//
//	type StoreConfig struct {
//	    BaseURL string `env:"SHOPKIT_BASE_URL,required"`
//	    Timeout time.Duration `env:"SHOPKIT_TIMEOUT" envDefault:"15s"`
//	}
//
// Then load it:
//
//	cfg, err := config.Load[StoreConfig]()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// MustLoad panics on failure for binaries that cannot start without valid
// configuration. ResetCache clears the per-type cache, which tests use when
// they mutate the environment between loads.
package config
