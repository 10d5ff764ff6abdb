// Package config resolves command defaults from an optional .env file and
// RAYTRACER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is loaded by the commands unless --env points elsewhere
const DefaultEnvFile = ".env"

// ErrInvalidConfig is returned when a variable cannot be parsed
var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds the defaults for every command flag
type Config struct {
	Scene    string   // RAYTRACER_SCENE
	Mesh     string   // RAYTRACER_MESH, PLY path for the mesh scene
	Output   string   // RAYTRACER_OUTPUT
	Width    int      // RAYTRACER_WIDTH
	Height   int      // RAYTRACER_HEIGHT
	Samples  int      // RAYTRACER_SAMPLES
	Seed     int64    // RAYTRACER_SEED
	Workers  []string // RAYTRACER_WORKERS, comma-separated host:port list
	Port     int      // RAYTRACER_PORT
	Threads  int      // RAYTRACER_THREADS, 0 uses every logical core
	Tonemap  string   // RAYTRACER_TONEMAP
	Bias     float64  // RAYTRACER_BIAS
	LogLevel string   // RAYTRACER_LOG_LEVEL
	Preview  int      // RAYTRACER_PREVIEW, longest preview edge, 0 disables
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Scene:    "spheres",
		Output:   "render.ppm",
		Width:    800,
		Height:   800,
		Samples:  100,
		Seed:     1,
		Port:     9000,
		Tonemap:  "max",
		Bias:     0.85,
		LogLevel: "notice",
	}
}

// Load reads path into the process environment, then builds a Config from
// the environment. A missing file is not an error and variables already set
// in the environment take precedence over the file.
func Load(path string) (Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from RAYTRACER_* variables over the defaults
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.Scene = getEnv("RAYTRACER_SCENE", cfg.Scene)
	cfg.Mesh = getEnv("RAYTRACER_MESH", cfg.Mesh)
	cfg.Output = getEnv("RAYTRACER_OUTPUT", cfg.Output)
	cfg.Tonemap = getEnv("RAYTRACER_TONEMAP", cfg.Tonemap)
	cfg.LogLevel = getEnv("RAYTRACER_LOG_LEVEL", cfg.LogLevel)

	cfg.Width = getInt("RAYTRACER_WIDTH", cfg.Width, &errs)
	cfg.Height = getInt("RAYTRACER_HEIGHT", cfg.Height, &errs)
	cfg.Samples = getInt("RAYTRACER_SAMPLES", cfg.Samples, &errs)
	cfg.Port = getInt("RAYTRACER_PORT", cfg.Port, &errs)
	cfg.Threads = getInt("RAYTRACER_THREADS", cfg.Threads, &errs)
	cfg.Preview = getInt("RAYTRACER_PREVIEW", cfg.Preview, &errs)

	if value, ok := os.LookupEnv("RAYTRACER_SEED"); ok {
		seed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: RAYTRACER_SEED=%q", ErrInvalidConfig, value))
		} else {
			cfg.Seed = seed
		}
	}
	if value, ok := os.LookupEnv("RAYTRACER_BIAS"); ok {
		bias, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: RAYTRACER_BIAS=%q", ErrInvalidConfig, value))
		} else {
			cfg.Bias = bias
		}
	}
	if value, ok := os.LookupEnv("RAYTRACER_WORKERS"); ok {
		cfg.Workers = SplitList(value)
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SplitList splits a comma-separated list, dropping blank entries
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, value))
		return fallback
	}
	return n
}
