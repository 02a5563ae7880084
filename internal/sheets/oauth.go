package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// DefaultCallbackAddr is where the interactive flow listens for Google's
// redirect.
const DefaultCallbackAddr = "localhost:8080"

const (
	callbackPath        = "/callback"
	defaultAuthTimeout  = 5 * time.Minute
	callbackReadTimeout = 10 * time.Second
)

// OAuth2Config describes the desktop OAuth client used to publish reports.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CallbackAddr string
	Timeout      time.Duration
	// OpenURL, when set, is called with the consent URL, e.g. to launch a
	// browser.
	OpenURL func(url string)
}

func oauthClientConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  redirectURL,
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// callbackResult is what the redirect handler hands back to the waiting flow.
type callbackResult struct {
	err  error
	code string
}

const (
	consentDeniedPage = `<html><body><h1>Stockroom was not authorized</h1><p>%s</p><p>Run the auth command again to retry.</p></body></html>`
	consentOKPage     = `<html><body><h1>Stockroom can now publish reports</h1><p>This tab can be closed.</p></body></html>`
)

// callbackHandler accepts one redirect carrying the expected state and
// forwards its authorization code. Later redirects are answered but dropped.
func callbackHandler(state string, results chan<- callbackResult) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var result callbackResult
		switch {
		case q.Get("error") != "":
			result.err = fmt.Errorf("authorization denied: %s", q.Get("error"))
		case q.Get("state") != state:
			result.err = fmt.Errorf("authorization state mismatch")
		case q.Get("code") == "":
			result.err = fmt.Errorf("no authorization code received")
		default:
			result.code = q.Get("code")
		}

		select {
		case results <- result:
		default:
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if result.err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = fmt.Fprintf(w, consentDeniedPage, result.err)
			return
		}
		_, _ = fmt.Fprint(w, consentOKPage)
	})
	return mux
}

// AuthenticateOAuth2Interactive runs the browser consent flow and exchanges
// the returned code for a token that carries a refresh token.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	addr := config.CallbackAddr
	if addr == "" {
		addr = DefaultCallbackAddr
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultAuthTimeout
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the OAuth callback on %s: %w", addr, err)
	}

	redirectURL := "http://" + listener.Addr().String() + callbackPath
	client := oauthClientConfig(config.ClientID, config.ClientSecret, redirectURL)
	state := uuid.NewString()

	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           callbackHandler(state, results),
		ReadHeaderTimeout: callbackReadTimeout,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case results <- callbackResult{err: fmt.Errorf("callback server stopped: %w", err)}:
			default:
			}
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("OAuth callback server did not shut down cleanly", "error", err)
		}
	}()

	// Offline access with forced consent so Google always issues a refresh token.
	consentURL := client.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("Authorize stockroom to publish reports to Google Sheets", "url", consentURL, "callback", redirectURL)
	if config.OpenURL != nil {
		config.OpenURL(consentURL)
	}

	var result callbackResult
	select {
	case result = <-results:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, fmt.Errorf("no OAuth callback received within %s", timeout)
	}
	if result.err != nil {
		return nil, result.err
	}

	token, err := client.Exchange(ctx, result.code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	slog.Info("Google Sheets authorization complete")

	persistToken(config.TokenFile, token)
	return token, nil
}

// persistToken saves token when a token file is configured. Failures are
// logged; the token is still usable for this run.
func persistToken(path string, token *oauth2.Token) {
	if path == "" {
		return
	}
	if err := SaveToken(path, token); err != nil {
		slog.Warn("Could not save OAuth token", "file", path, "error", err)
		return
	}
	slog.Debug("Saved OAuth token", "file", path)
}

// LoadToken reads a token previously written by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", path, err)
	}
	return &token, nil
}

// SaveToken writes a token to path with owner-only permissions.
func SaveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// RefreshTokenIfNeeded returns token unchanged while it is valid and a
// refreshed copy otherwise.
func RefreshTokenIfNeeded(ctx context.Context, config OAuth2Config, token *oauth2.Token) (*oauth2.Token, error) {
	if token.Valid() {
		return token, nil
	}

	fresh, err := oauthClientConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	slog.Debug("Refreshed OAuth token")

	persistToken(config.TokenFile, fresh)
	return fresh, nil
}

// GetOrCreateToken reuses the saved token when there is one and falls back
// to the interactive flow.
func GetOrCreateToken(ctx context.Context, config OAuth2Config) (*oauth2.Token, error) {
	if config.TokenFile != "" {
		if token, err := LoadToken(config.TokenFile); err == nil {
			return RefreshTokenIfNeeded(ctx, config, token)
		}
		slog.Debug("No saved OAuth token", "file", config.TokenFile)
	}

	return AuthenticateOAuth2Interactive(ctx, config)
}
