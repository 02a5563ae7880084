// Package sheets publishes monthly request reports to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// DefaultSpreadsheetName is used when a new spreadsheet is created.
const DefaultSpreadsheetName = "Monthly Request Reports"

// Credential errors.
var (
	ErrNoCredentials        = errors.New("no Google Sheets credentials configured")
	ErrAmbiguousCredentials = errors.New("both OAuth and service account credentials configured")
)

// AuthMethod is how the writer authenticates against the Sheets API.
type AuthMethod int

// Supported authentication methods.
const (
	AuthOAuth AuthMethod = iota + 1
	AuthServiceAccount
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns the writer defaults; credentials are left empty.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "UTC",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// envFallbacks maps GOOGLE_SHEETS_* variables onto the fields they fill.
func (c *Config) envFallbacks() map[string]*string {
	return map[string]*string{
		"GOOGLE_SHEETS_CLIENT_ID":            &c.ClientID,
		"GOOGLE_SHEETS_CLIENT_SECRET":        &c.ClientSecret,
		"GOOGLE_SHEETS_REFRESH_TOKEN":        &c.RefreshToken,
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH": &c.ServiceAccountPath,
		"GOOGLE_SHEETS_SPREADSHEET_ID":       &c.SpreadsheetID,
	}
}

// LoadFromEnv fills fields that are still empty from GOOGLE_SHEETS_*
// variables. The spreadsheet name is replaced only while it holds the
// default. It fails when no credentials are available afterwards.
func (c *Config) LoadFromEnv() error {
	for key, dst := range c.envFallbacks() {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	if name := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_NAME"); name != "" && c.SpreadsheetName == DefaultSpreadsheetName {
		c.SpreadsheetName = name
	}
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}

	if !c.hasOAuth() && !c.hasServiceAccount() {
		return ErrNoCredentials
	}
	return nil
}

func (c *Config) hasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

func (c *Config) hasServiceAccount() bool {
	return c.ServiceAccountPath != ""
}

// AuthMethod reports which credentials the config carries. Exactly one
// complete set must be present.
func (c *Config) AuthMethod() (AuthMethod, error) {
	switch oauth, sa := c.hasOAuth(), c.hasServiceAccount(); {
	case oauth && sa:
		return 0, ErrAmbiguousCredentials
	case oauth:
		return AuthOAuth, nil
	case sa:
		return AuthServiceAccount, nil
	default:
		return 0, ErrNoCredentials
	}
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.AuthMethod(); err != nil {
		errs = append(errs, err)
	}
	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.BatchSize))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("retry attempts cannot be negative, got %d", c.RetryAttempts))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("retry delay cannot be negative, got %s", c.RetryDelay))
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("invalid time zone %q: %w", c.TimeZone, err))
		}
	}

	return errors.Join(errs...)
}
