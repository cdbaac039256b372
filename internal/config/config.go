// Package config loads batch configuration from TOML or YAML files,
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmharper/rotaug"
	"github.com/bmharper/rotaug/internal/logging"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvInputDir    = "ROTAUG_INPUT_DIR"
	EnvOutputDir   = "ROTAUG_OUTPUT_DIR"
	EnvLogPath     = "ROTAUG_LOG_PATH"
	EnvImageExt    = "ROTAUG_IMAGE_EXT"
	EnvAngleRange  = "ROTAUG_ANGLE_RANGE"
	EnvBgColor     = "ROTAUG_BG_COLOR"
	EnvJPEGQuality = "ROTAUG_JPEG_QUALITY"
	EnvMaxSize     = "ROTAUG_MAX_SIZE"
	EnvSeed        = "ROTAUG_SEED"
	EnvLogLevel    = "ROTAUG_LOG_LEVEL"
	EnvLogFormat   = "ROTAUG_LOG_FORMAT"
)

var ErrInvalid = errors.New("invalid config")

// Config is the root configuration of a batch run
type Config struct {
	InputDir    string         `toml:"input_dir" yaml:"input_dir"`
	OutputDir   string         `toml:"output_dir" yaml:"output_dir"` // Defaults to "{input_dir}_rotation"
	LogPath     string         `toml:"log_path" yaml:"log_path"`     // Defaults to "{basename(input_dir)}_angles.txt"
	ImageExt    string         `toml:"image_ext" yaml:"image_ext"`
	AngleRange  []int          `toml:"angle_range" yaml:"angle_range"` // Inclusive [min, max]
	BgColor     []int          `toml:"bg_color" yaml:"bg_color"`       // Blue, green, red
	JPEGQuality int            `toml:"jpeg_quality" yaml:"jpeg_quality"`
	MaxSize     int            `toml:"max_size" yaml:"max_size"`
	Seed        uint64         `toml:"seed" yaml:"seed"` // Zero seeds from the clock
	Logging     logging.Config `toml:"logging" yaml:"logging"`
}

// Load reads a config file. The syntax is chosen by extension: .yaml/.yml, otherwise TOML.
// The result is not finalized.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %v: %w", path, err)
	}
	return &cfg, nil
}

// Finalize loads environment overrides, fills defaults, and validates
func (c *Config) Finalize() error {
	if err := c.loadEnv(); err != nil {
		return err
	}
	c.loadDefaults()
	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay that differ from zero values
func (c *Config) Merge(overlay *Config) {
	if overlay.InputDir != "" {
		c.InputDir = overlay.InputDir
	}
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.LogPath != "" {
		c.LogPath = overlay.LogPath
	}
	if overlay.ImageExt != "" {
		c.ImageExt = overlay.ImageExt
	}
	if overlay.AngleRange != nil {
		c.AngleRange = overlay.AngleRange
	}
	if overlay.BgColor != nil {
		c.BgColor = overlay.BgColor
	}
	if overlay.JPEGQuality != 0 {
		c.JPEGQuality = overlay.JPEGQuality
	}
	if overlay.MaxSize != 0 {
		c.MaxSize = overlay.MaxSize
	}
	if overlay.Seed != 0 {
		c.Seed = overlay.Seed
	}
	c.Logging.Merge(&overlay.Logging)
}

// Options converts a finalized config into batch options.
// bg_color is given as B,G,R and becomes an RGB Background.
func (c *Config) Options() rotaug.Options {
	bg := rotaug.BGR(uint8(c.BgColor[0]), uint8(c.BgColor[1]), uint8(c.BgColor[2]))
	return rotaug.Options{
		InputDir:    c.InputDir,
		OutputDir:   c.OutputDir,
		LogPath:     c.LogPath,
		ImageExt:    c.ImageExt,
		AngleRange:  rotaug.AngleRange{Min: c.AngleRange[0], Max: c.AngleRange[1]},
		Background:  bg,
		JPEGQuality: c.JPEGQuality,
		MaxSize:     c.MaxSize,
	}
}

func (c *Config) loadDefaults() {
	c.ImageExt = strings.TrimPrefix(c.ImageExt, ".")
	if c.ImageExt == "" {
		c.ImageExt = "jpg"
	}
	if c.AngleRange == nil {
		c.AngleRange = []int{rotaug.DefaultAngleRange.Min, rotaug.DefaultAngleRange.Max}
	}
	if c.BgColor == nil {
		c.BgColor = []int{143, 148, 151}
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = 95
	}
	if c.InputDir != "" {
		dir := filepath.Clean(c.InputDir)
		if c.OutputDir == "" {
			c.OutputDir = dir + "_rotation"
		}
		if c.LogPath == "" {
			c.LogPath = filepath.Base(dir) + "_angles.txt"
		}
	}
}

func (c *Config) loadEnv() error {
	if v := os.Getenv(EnvInputDir); v != "" {
		c.InputDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvLogPath); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv(EnvImageExt); v != "" {
		c.ImageExt = v
	}
	if v := os.Getenv(EnvAngleRange); v != "" {
		r, err := parseInts(v)
		if err != nil {
			return fmt.Errorf("%v: %w", EnvAngleRange, err)
		}
		c.AngleRange = r
	}
	if v := os.Getenv(EnvBgColor); v != "" {
		bg, err := rotaug.ParseColor(v)
		if err != nil {
			return fmt.Errorf("%v: %w", EnvBgColor, err)
		}
		c.BgColor = make([]int, len(bg))
		for i, v := range bg {
			c.BgColor[i] = int(v)
		}
	}
	if v := os.Getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%v: %w", EnvJPEGQuality, err)
		}
		c.JPEGQuality = q
	}
	if v := os.Getenv(EnvMaxSize); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%v: %w", EnvMaxSize, err)
		}
		c.MaxSize = m
	}
	if v := os.Getenv(EnvSeed); v != "" {
		s, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%v: %w", EnvSeed, err)
		}
		c.Seed = s
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = logging.Level(v)
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = logging.Format(v)
	}
	return nil
}

func (c *Config) validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("%w: input_dir is required", ErrInvalid)
	}
	if len(c.AngleRange) != 2 {
		return fmt.Errorf("%w: angle_range must be [min, max], got %v", ErrInvalid, c.AngleRange)
	}
	if c.AngleRange[0] > c.AngleRange[1] {
		return fmt.Errorf("%w: angle_range min %v > max %v", ErrInvalid, c.AngleRange[0], c.AngleRange[1])
	}
	if len(c.BgColor) != 3 {
		return fmt.Errorf("%w: bg_color must have 3 channels, got %v", ErrInvalid, c.BgColor)
	}
	for _, v := range c.BgColor {
		if v < 0 || v > 255 {
			return fmt.Errorf("%w: bg_color value %v out of range 0..255", ErrInvalid, v)
		}
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("%w: jpeg_quality %v out of range 1..100", ErrInvalid, c.JPEGQuality)
	}
	if c.MaxSize < 0 {
		return fmt.Errorf("%w: max_size must not be negative", ErrInvalid)
	}
	return nil
}

// Parse "a,b,c" into integers
func parseInts(s string) ([]int, error) {
	vals := []int{}
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}
