package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/export"
	"github.com/Veraticus/stockroom/internal/notify"
	"github.com/Veraticus/stockroom/internal/report"
	"github.com/Veraticus/stockroom/internal/storage"
)

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath()

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// parsePeriodArg parses an optional YYYY-MM argument. Without one the
// previous calendar month in the report time zone is used.
func parsePeriodArg(args []string) (report.Period, error) {
	if len(args) > 0 && args[0] != "" {
		return report.ParsePeriod(args[0])
	}

	loc, err := config.Location()
	if err != nil {
		return report.Period{}, err
	}
	return report.PeriodOf(time.Now().In(loc)).Previous(), nil
}

// configuredFormats returns the export formats listed under report.formats.
func configuredFormats() ([]export.Format, error) {
	names := viper.GetStringSlice("report.formats")
	formats := make([]export.Format, 0, len(names))
	for _, name := range names {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// newNotifierFromConfig builds the Slack notifier, or returns nil when
// delivery is not configured.
func newNotifierFromConfig() (notify.Notifier, error) {
	token := viper.GetString("slack.token")
	channel := viper.GetString("slack.channel")
	if token == "" && channel == "" {
		return nil, nil
	}
	n, err := notify.NewSlackNotifier(token, channel, slog.Default())
	if err != nil {
		return nil, err
	}
	return n, nil
}

// writeDocument stores doc under dir and returns the written path.
func writeDocument(dir string, doc *export.Document) (string, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, doc.FileName)
	if err := os.WriteFile(path, doc.Data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// printStructured writes v as JSON or YAML.
func printStructured(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q: must be table, json, or yaml", format)
	}
}

// saveConfig writes the current viper settings back to the config file.
func saveConfig() error {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = filepath.Join(config.Dir(), "config.yaml")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configFile), 0750); err != nil {
		return err
	}

	return viper.WriteConfigAs(configFile)
}
