// Package config reads stockroom settings through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/schedule"
)

// Defaults for settings read through viper.
const (
	DefaultSchedule   = schedule.DefaultSchedule
	DefaultServerAddr = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
)

// Dir returns the stockroom configuration directory.
func Dir() string {
	return ExpandPath("~/.config/stockroom")
}

// SetDefaults registers default values for every key stockroom reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("database.path", filepath.Join(Dir(), "stockroom.db"))
	v.SetDefault("report.output_dir", ".")
	v.SetDefault("report.formats", []string{"xlsx", "pdf"})
	v.SetDefault("report.schedule", DefaultSchedule)
	v.SetDefault("report.timezone", "UTC")
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("sheets.token_file", filepath.Join(Dir(), "sheets-token.json"))
}

// DatabasePath returns the expanded database path.
func DatabasePath() string {
	return ExpandPath(viper.GetString("database.path"))
}

// OutputDir returns the expanded report output directory.
func OutputDir() string {
	return ExpandPath(viper.GetString("report.output_dir"))
}

// Location loads the configured report time zone.
func Location() (*time.Location, error) {
	name := viper.GetString("report.timezone")
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: report.timezone %q: %v", common.ErrInvalidConfig, name, err)
	}
	return loc, nil
}

// ExpandPath expands a leading ~ and $VAR references in path.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	return os.ExpandEnv(path)
}
