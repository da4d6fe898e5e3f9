package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	cacheMu sync.Mutex
	cache   = make(map[string]any)

	defaultEnvOnce sync.Once
)

// LoadEnv reads the given .env files into the process environment. Later
// files override earlier ones. With no arguments it loads ./.env and
// tolerates its absence.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		// A missing default .env is fine, the environment may already
		// be populated by the shell or the orchestrator.
		_ = godotenv.Load()
		return nil
	}
	for _, f := range files {
		if err := godotenv.Overload(f); err != nil {
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}
	return nil
}

// MustLoadEnv is LoadEnv that panics on failure.
func MustLoadEnv(files ...string) {
	if err := LoadEnv(files...); err != nil {
		panic(err)
	}
}

// Load parses the environment into a value of type T. The first successful
// parse per type is cached; subsequent calls return a copy of the cached
// value without touching the environment again.
func Load[T any]() (T, error) {
	defaultEnvOnce.Do(func() {
		_ = godotenv.Load()
	})

	key := typeKey[T]()

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := cache[key]; ok {
		return cached.(T), nil
	}

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, errors.Join(ErrParsingConfig, err)
	}

	cache[key] = cfg
	return cfg, nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any]() T {
	cfg, err := Load[T]()
	if err != nil {
		panic(err)
	}
	return cfg
}

// ResetCache drops all cached configurations. Intended for tests that
// change environment variables between loads.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[string]any)
}

func typeKey[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.PkgPath() == "" {
		return fmt.Sprintf("%v", t)
	}
	return t.PkgPath() + "." + t.Name()
}
