// Package config loads the flat key=value configuration file described in
// the external interfaces contract. It owns no simulation behavior; it only
// parses recognized options and leaves everything else to callers.
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/duskward/core/pkg/errs"
)

// Config holds the recognized configuration options. Unrecognized keys are
// preserved in Extra so callers can still inspect them.
type Config struct {
	ScreenWidth                  int
	ScreenHeight                 int
	FontName                     string
	IsTilesMode                  bool
	IsAudioEnabled                bool
	IsIntroLvlSkipped            bool
	IsLightExplored              bool
	IsASCIISymbolForStrangeItems bool
	KeyRepeatDelayMs             int
	KeyRepeatIntervalMs          int

	Extra map[string]string
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ScreenWidth:                  1280,
		ScreenHeight:                 720,
		FontName:                     "courier_bold",
		IsTilesMode:                  false,
		IsAudioEnabled:               true,
		IsIntroLvlSkipped:            false,
		IsLightExplored:              false,
		IsASCIISymbolForStrangeItems: false,
		KeyRepeatDelayMs:             400,
		KeyRepeatIntervalMs:          80,
		Extra:                        map[string]string{},
	}
}

// Load reads a flat key=value file at path. A missing file is not an error;
// it simply yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errs.Wrap(errs.CodeAssetMissing, err, "opening config file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		cfg.apply(key, value)
	}
	if err := scanner.Err(); err != nil {
		return cfg, errs.Wrap(errs.CodeSaveCorrupt, err, "reading config file")
	}
	return cfg, nil
}

func (c *Config) apply(key, value string) {
	switch key {
	case "screen_width":
		c.ScreenWidth = atoiOr(value, c.ScreenWidth)
	case "screen_height":
		c.ScreenHeight = atoiOr(value, c.ScreenHeight)
	case "font_name":
		c.FontName = value
	case "is_tiles_mode":
		c.IsTilesMode = boolOr(value, c.IsTilesMode)
	case "is_audio_enabled":
		c.IsAudioEnabled = boolOr(value, c.IsAudioEnabled)
	case "is_intro_lvl_skipped":
		c.IsIntroLvlSkipped = boolOr(value, c.IsIntroLvlSkipped)
	case "is_light_explored":
		c.IsLightExplored = boolOr(value, c.IsLightExplored)
	case "is_ascii_symbol_for_strange_items":
		c.IsASCIISymbolForStrangeItems = boolOr(value, c.IsASCIISymbolForStrangeItems)
	case "key_repeat_delay_ms":
		c.KeyRepeatDelayMs = atoiOr(value, c.KeyRepeatDelayMs)
	case "key_repeat_interval_ms":
		c.KeyRepeatIntervalMs = atoiOr(value, c.KeyRepeatIntervalMs)
	default:
		if c.Extra == nil {
			c.Extra = map[string]string{}
		}
		c.Extra[key] = value
	}
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func boolOr(s string, fallback bool) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

// AssetDir resolves the asset lookup directory, honoring the GAME_DATA_DIR
// environment variable override.
func AssetDir(fallback string) string {
	if dir := os.Getenv("GAME_DATA_DIR"); dir != "" {
		return dir
	}
	return fallback
}
