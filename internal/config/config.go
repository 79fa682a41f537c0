package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig []byte

// Config holds all application configuration. Values come from three
// layers: built-in defaults, the TOML config file, and AUTO_SUBS_*
// environment variables (highest precedence). A .env file in the working
// directory is honored for the environment layer.
type Config struct {
	Whisper   WhisperConfig   `toml:"whisper"`
	Audio     AudioConfig     `toml:"audio"`
	Subtitles SubtitlesConfig `toml:"subtitles"`
	Video     VideoConfig     `toml:"video"`
	Paths     PathsConfig     `toml:"paths"`
	Behavior  BehaviorConfig  `toml:"behavior"`
}

type WhisperConfig struct {
	Model    string `toml:"model"`
	Language string `toml:"language"`
	ModelDir string `toml:"model_dir"`
}

type AudioConfig struct {
	SampleRate int    `toml:"sample_rate"`
	Channels   int    `toml:"channels"`
	Format     string `toml:"format"`
}

type SubtitlesConfig struct {
	FontSize     int    `toml:"font_size"`
	FontColor    string `toml:"font_color"`
	OutlineColor string `toml:"outline_color"`
	Position     string `toml:"position"`
}

type VideoConfig struct {
	Codec  string `toml:"codec"`
	CRF    int    `toml:"crf"`
	Preset string `toml:"preset"`
}

type PathsConfig struct {
	OutputDir string `toml:"output_dir"`
	TempDir   string `toml:"temp_dir"`
}

type BehaviorConfig struct {
	KeepFiles     bool `toml:"keep_files"`
	AutoOverwrite bool `toml:"auto_overwrite"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Whisper: WhisperConfig{Model: "base", Language: "auto"},
		Audio:   AudioConfig{SampleRate: 16000, Channels: 1, Format: "wav"},
		Subtitles: SubtitlesConfig{
			FontSize:     24,
			FontColor:    "FFFFFF",
			OutlineColor: "000000",
			Position:     "bottom",
		},
		Video:    VideoConfig{Codec: "libx264", CRF: 23, Preset: "medium"},
		Paths:    PathsConfig{OutputDir: ".", TempDir: os.TempDir()},
		Behavior: BehaviorConfig{},
	}
}

// DefaultPath is the per-user location of the config file.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "auto-subs", "config.toml")
}

// Load reads the config file at path (or the default location when path is
// empty), applies it over the defaults, and finally applies environment
// overrides. A missing file is not an error; defaults are used.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

// Init writes the sample config to path, refusing to clobber an existing
// file.
func Init(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, sampleConfig, 0644)
}

func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setString("AUTO_SUBS_MODEL", &cfg.Whisper.Model)
	setString("AUTO_SUBS_LANGUAGE", &cfg.Whisper.Language)
	setString("AUTO_SUBS_MODEL_DIR", &cfg.Whisper.ModelDir)
	setInt("AUTO_SUBS_SAMPLE_RATE", &cfg.Audio.SampleRate)
	setString("AUTO_SUBS_OUTPUT_DIR", &cfg.Paths.OutputDir)
	setString("AUTO_SUBS_TEMP_DIR", &cfg.Paths.TempDir)
	setInt("AUTO_SUBS_FONT_SIZE", &cfg.Subtitles.FontSize)
	setString("AUTO_SUBS_VIDEO_CODEC", &cfg.Video.Codec)
	setBool("AUTO_SUBS_KEEP_FILES", &cfg.Behavior.KeepFiles)
	setBool("AUTO_SUBS_AUTO_OVERWRITE", &cfg.Behavior.AutoOverwrite)
}
