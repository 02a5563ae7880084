package config

import (
	"github.com/spf13/viper"

	"github.com/Veraticus/stockroom/internal/sheets"
)

// LoadSheetsConfig builds the Sheets writer config. Precedence is the config
// file or STOCKROOM_SHEETS_* variables, then GOOGLE_SHEETS_* variables, then
// sheets.DefaultConfig.
func LoadSheetsConfig() (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	for key, dst := range map[string]*string{
		"sheets.client_id":            &cfg.ClientID,
		"sheets.client_secret":        &cfg.ClientSecret,
		"sheets.refresh_token":        &cfg.RefreshToken,
		"sheets.service_account_path": &cfg.ServiceAccountPath,
		"sheets.spreadsheet_id":       &cfg.SpreadsheetID,
		"sheets.spreadsheet_name":     &cfg.SpreadsheetName,
		"report.timezone":             &cfg.TimeZone,
	} {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	if viper.IsSet("sheets.formatting") {
		cfg.EnableFormatting = viper.GetBool("sheets.formatting")
	}

	if err := cfg.LoadFromEnv(); err != nil {
		return nil, err
	}
	cfg.ServiceAccountPath = ExpandPath(cfg.ServiceAccountPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
