package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// ColorConfig holds console colors as "r,g,b" strings, ready for progress.NewColors.
type ColorConfig struct {
	Pass      string
	Fail      string
	Skip      string
	Warn      string
	Error     string
	Timestamp string
	Info      string
}

// slots binds each color_* ini key to its field.
func (c *ColorConfig) slots() map[string]*string {
	return map[string]*string{
		"color_pass":      &c.Pass,
		"color_fail":      &c.Fail,
		"color_skip":      &c.Skip,
		"color_warn":      &c.Warn,
		"color_error":     &c.Error,
		"color_timestamp": &c.Timestamp,
		"color_info":      &c.Info,
	}
}

// loadColors overlays color keys from the embedded defaults, then each of paths in order.
// blank keys and missing files leave earlier values in place.
func loadColors(fsys fs.FS, paths ...string) (ColorConfig, error) {
	var res ColorConfig

	embedded, err := fs.ReadFile(fsys, "defaults/config")
	if err != nil {
		return ColorConfig{}, fmt.Errorf("read embedded defaults: %w", err)
	}
	if err := res.overlay(embedded); err != nil {
		return ColorConfig{}, fmt.Errorf("embedded defaults: %w", err)
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err := os.ReadFile(p) //nolint:gosec // config path built by Load
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return ColorConfig{}, fmt.Errorf("read config %s: %w", p, err)
		}
		if err := res.overlay(data); err != nil {
			return ColorConfig{}, fmt.Errorf("%s: %w", p, err)
		}
	}
	return res, nil
}

func (c *ColorConfig) overlay(data []byte) error {
	f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, data)
	if err != nil {
		return fmt.Errorf("parse ini: %w", err)
	}
	sec := f.Section("")
	for key, field := range c.slots() {
		if !sec.HasKey(key) {
			continue
		}
		v := strings.TrimSpace(sec.Key(key).String())
		if v == "" {
			continue
		}
		rgb, err := hexToRGB(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*field = rgb
	}
	return nil
}

// hexToRGB converts "#rrggbb" or the "#rgb" shorthand to "r,g,b".
func hexToRGB(s string) (string, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return "", fmt.Errorf("%q: want #rrggbb", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", fmt.Errorf("%q: want 3 or 6 hex digits", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "", fmt.Errorf("%q: not a hex number", s)
	}
	return fmt.Sprintf("%d,%d,%d", v>>16&0xff, v>>8&0xff, v&0xff), nil
}
