package tui

import "github.com/Veraticus/stockroom/internal/tui/themes"

// Config controls how the dashboard is drawn before the first resize.
type Config struct {
	Theme     themes.Theme
	Width     int
	Height    int
	RankLimit int
}

// Option adjusts a Config.
type Option func(*Config)

func defaultConfig() Config {
	return Config{Theme: themes.Default, Width: 80, Height: 24, RankLimit: 10}
}

// WithTheme picks the color theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithSize sets the size used until the terminal reports its own.
func WithSize(width, height int) Option {
	return func(c *Config) { c.Width, c.Height = width, height }
}

// WithRankLimit caps how many entries each ranked tab shows.
func WithRankLimit(n int) Option {
	return func(c *Config) { c.RankLimit = n }
}
