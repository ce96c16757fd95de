package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Storage   StorageConfig   `koanf:"storage"`
	Playback  PlaybackConfig  `koanf:"playback"`
	Providers ProvidersConfig `koanf:"providers"`
	Locale    string          `koanf:"locale"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // sqlite, memory
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

type PlaybackConfig struct {
	// Speed compresses scripted playback offsets. 0.1 plays a scripted
	// conversation at ten times real speed.
	Speed float64 `koanf:"speed"`
}

type ProvidersConfig struct {
	Speech   string `koanf:"speech"`
	Reasoner string `koanf:"reasoner"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load from config.yaml file first
	if err := k.Load(file.Provider("config.yaml"), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider("COPILOT_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "COPILOT_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "memory")
	}
	if !k.Exists("storage.sqlite.path") {
		k.Set("storage.sqlite.path", "copilot.db")
	}
	if !k.Exists("playback.speed") {
		k.Set("playback.speed", 0.1)
	}
	if !k.Exists("providers.speech") {
		k.Set("providers.speech", "scripted")
	}
	if !k.Exists("providers.reasoner") {
		k.Set("providers.reasoner", "fixture")
	}
	if !k.Exists("locale") {
		k.Set("locale", "en-US")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
