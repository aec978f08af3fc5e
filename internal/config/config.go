// Package config loads memeforge settings from a YAML file overlaid with
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "MEMEFORGE_CONFIG"
	EnvLogLevel   = "MEMEFORGE_LOG_LEVEL"
	EnvPassphrase = "MEMEFORGE_STORE_PASSPHRASE"
	appDirName    = "memeforge"
)

type Config struct {
	Canvas    CanvasConfig      `yaml:"canvas"`
	History   HistoryConfig     `yaml:"history"`
	Text      TextConfig        `yaml:"text"`
	Brush     BrushConfig       `yaml:"brush"`
	Templates map[string]string `yaml:"templates" validate:"dive,keys,required,endkeys,url"`
	Storage   StorageConfig     `yaml:"storage"`
	Export    ExportConfig      `yaml:"export"`
	Share     ShareConfig       `yaml:"share"`
	UI        UIConfig          `yaml:"ui"`
	Log       LogConfig         `yaml:"log"`
}

type CanvasConfig struct {
	Width  int `yaml:"width" validate:"gte=16,lte=8192"`
	Height int `yaml:"height" validate:"gte=16,lte=8192"`
}

type HistoryConfig struct {
	// Limit caps retained undo entries. Zero keeps everything.
	Limit int `yaml:"limit" validate:"gte=0"`
}

type TextConfig struct {
	FontSize     float64 `yaml:"font_size" validate:"gt=0,lte=400"`
	FontFamily   string  `yaml:"font_family" validate:"required"`
	Fill         string  `yaml:"fill" validate:"hexcolor"`
	Outline      string  `yaml:"outline" validate:"hexcolor"`
	OutlineWidth float64 `yaml:"outline_width" validate:"gte=0,lte=20"`
}

type BrushConfig struct {
	Size  float64 `yaml:"size" validate:"gt=0,lte=100"`
	Color string  `yaml:"color" validate:"hexcolor"`
}

type StorageConfig struct {
	Path        string `yaml:"path" validate:"required"`
	Compression bool   `yaml:"compression"`
	Passphrase  string `yaml:"passphrase"`
}

type ExportConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

type ShareConfig struct {
	Caption string `yaml:"caption" validate:"required"`
	PageURL string `yaml:"page_url" validate:"omitempty,url"`
}

type UIConfig struct {
	WindowWidth   int           `yaml:"window_width" validate:"gte=640"`
	WindowHeight  int           `yaml:"window_height" validate:"gte=480"`
	ToastDuration time.Duration `yaml:"toast_duration" validate:"gte=0"`
}

type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// Default returns the built-in settings. Paths are left empty and resolved by
// Load.
func Default() Config {
	return Config{
		Canvas:  CanvasConfig{Width: 600, Height: 400},
		History: HistoryConfig{Limit: 0},
		Text: TextConfig{
			FontSize:     40,
			FontFamily:   "Impact",
			Fill:         "#ffffff",
			Outline:      "#000000",
			OutlineWidth: 2,
		},
		Brush: BrushConfig{Size: 5, Color: "#ff0000"},
		Templates: map[string]string{
			"doge":         "https://i.imgflip.com/4/1bij.jpg",
			"grumpycat":    "https://i.imgflip.com/8k0sa.jpg",
			"distractedbf": "https://i.imgflip.com/9vct.jpg",
		},
		Share: ShareConfig{Caption: "Check out this meme I made!"},
		UI:    UIConfig{WindowWidth: 1280, WindowHeight: 860, ToastDuration: 3 * time.Second},
		Log:   LogConfig{Level: "info"},
	}
}

// Path returns the config file location: $MEMEFORGE_CONFIG if set, otherwise
// config.yaml in the user config directory.
func Path() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnvironment()
	if err := cfg.resolvePaths(path); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnvironment() {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvPassphrase); v != "" {
		c.Storage.Passphrase = v
	}
}

func (c *Config) resolvePaths(configPath string) error {
	base := ""
	if configPath != "" {
		base = filepath.Dir(configPath)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		base = filepath.Join(dir, appDirName)
	}
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(base, "store.json")
	}
	if c.Export.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Export.Dir = filepath.Join(home, "Pictures")
		} else {
			c.Export.Dir = "."
		}
	}
	c.Storage.Path = expandHome(c.Storage.Path)
	c.Export.Dir = expandHome(c.Export.Dir)
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}
