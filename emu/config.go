package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"famicore/emu/log"
	"famicore/hw/input"
)

type Config struct {
	Input input.Config `toml:"input"`
	Video VideoConfig  `toml:"video"`
	Audio AudioConfig  `toml:"audio"`
}

type VideoConfig struct {
	Scale        int  `toml:"scale"`
	DisableVSync bool `toml:"disable_vsync"`
}

type AudioConfig struct {
	DisableAudio bool `toml:"disable_audio"`
	SampleRate   int  `toml:"sample_rate"`
}

const (
	cfgDirname  = "famicore"
	cfgFilename = "config.toml"
)

// DefaultConfig returns the configuration used when there's no config file.
func DefaultConfig() Config {
	return Config{
		Input: input.DefaultConfig(),
		Video: VideoConfig{Scale: 3},
		Audio: AudioConfig{SampleRate: 44100},
	}
}

// Check validates cfg and replaces out of range values with defaults.
func (cfg *Config) Check() error {
	def := DefaultConfig()
	if cfg.Video.Scale < 1 || cfg.Video.Scale > 8 {
		log.ModEmu.WarnZ("invalid window scale, using default").Int("scale", cfg.Video.Scale).End()
		cfg.Video.Scale = def.Video.Scale
	}
	if cfg.Audio.SampleRate < 8000 || cfg.Audio.SampleRate > 96000 {
		log.ModEmu.WarnZ("invalid sample rate, using default").Int("rate", cfg.Audio.SampleRate).End()
		cfg.Audio.SampleRate = def.Audio.SampleRate
	}
	if err := cfg.Input.Check(); err != nil {
		return fmt.Errorf("input config: %w", err)
	}
	return nil
}

// ConfigPath returns the path of the config file.
func ConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cfgDirname, cfgFilename), nil
}

// LoadConfig decodes the config file at path. Missing keys keep their
// default value.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Check(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigOrDefault loads the configuration from the user config
// directory, or provide a default one.
func LoadConfigOrDefault() Config {
	path, err := ConfigPath()
	if err != nil {
		log.ModEmu.WarnZ("no config directory").Error("err", err).End()
		return DefaultConfig()
	}

	cfg, err := LoadConfig(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return DefaultConfig()
	case err != nil:
		log.ModEmu.WarnZ("failed to load config, using default").Error("err", err).End()
		return DefaultConfig()
	}
	return cfg
}

// SaveConfig writes cfg into the user config directory.
func SaveConfig(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	buf, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
