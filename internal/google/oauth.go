package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Environment variables supplying the OAuth client credentials.
const (
	EnvClientID     = "GSPACE_CLIENT_ID"
	EnvClientSecret = "GSPACE_CLIENT_SECRET"
)

// tokenDir is the directory holding per-account token files. Overridable
// for tests and through SetTokenDir.
var tokenDir string

// SetTokenDir overrides where token files are stored. An empty value
// restores the default (~/.gspace/tokens).
func SetTokenDir(dir string) {
	tokenDir = dir
}

func tokenDirPath() string {
	if tokenDir != "" {
		return tokenDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".gspace", "tokens")
	}
	return filepath.Join(home, ".gspace", "tokens")
}

func tokenFile(account string) string {
	if account == "" {
		account = "default"
	}
	// Account names become file names; keep them flat
	safe := strings.ReplaceAll(account, string(filepath.Separator), "_")
	return filepath.Join(tokenDirPath(), safe+".json")
}

// GetOAuthConfig returns the OAuth2 configuration shared by all services.
// Client credentials come from the environment.
func GetOAuthConfig() (*oauth2.Config, error) {
	clientID := os.Getenv(EnvClientID)
	clientSecret := os.Getenv(EnvClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("OAuth client credentials not set: export %s and %s", EnvClientID, EnvClientSecret)
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       DefaultOAuthScopes,
	}, nil
}

// HasTokenForAccount checks if a token file exists for the account.
func HasTokenForAccount(account string) bool {
	_, err := os.Stat(tokenFile(account))
	return err == nil
}

// HasToken checks if a token file exists for the default account.
func HasToken() bool {
	return HasTokenForAccount("default")
}

// GetAuthURLForAccount returns the OAuth URL for user authorization.
func GetAuthURLForAccount(account string) (string, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(account, oauth2.AccessTypeOffline), nil
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves
// them for the account.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	conf, err := GetOAuthConfig()
	if err != nil {
		return err
	}

	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return writeToken(account, token)
}

func writeToken(account string, token *oauth2.Token) error {
	if err := os.MkdirAll(tokenDirPath(), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(tokenFile(account), data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func readToken(account string) (*oauth2.Token, error) {
	data, err := os.ReadFile(tokenFile(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token file for account %s: %w", account, err)
	}
	return &token, nil
}

// GetTokenSourceForAccount returns a refreshing token source for the stored
// token. Refreshed tokens are persisted back to disk.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf, err := GetOAuthConfig()
	if err != nil {
		return nil, err
	}

	token, err := readToken(account)
	if err != nil {
		return nil, err
	}

	return &persistingTokenSource{
		account: account,
		base:    conf.TokenSource(ctx, token),
		last:    token,
	}, nil
}

// persistingTokenSource writes refreshed tokens back to the token file so
// the next process start does not need another refresh round-trip. Token
// is safe for concurrent use.
type persistingTokenSource struct {
	account string
	base    oauth2.TokenSource

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.last = token
		if werr := writeToken(s.account, token); werr != nil {
			return nil, fmt.Errorf("failed to persist refreshed token: %w", werr)
		}
	}
	return token, nil
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication. HTTP/1.1 is forced to avoid HTTP/2 protocol errors seen
// with the Google API endpoints.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return newOAuthClient(ctx, ts), nil
}

// GetHTTPClientForAccountWithProvider returns an authenticated HTTP client
// whose token comes from the given provider instead of the token files on
// disk. A nil provider falls back to the file-based path.
func GetHTTPClientForAccountWithProvider(ctx context.Context, account string, provider TokenProvider) (*http.Client, error) {
	if provider == nil {
		return GetHTTPClientForAccount(ctx, account)
	}
	if !provider.HasTokenForAccount(account) {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	token, err := provider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	// Wrap with a refreshing source when client credentials are available;
	// otherwise the provider's token is used as-is.
	ts := oauth2.TokenSource(oauth2.StaticTokenSource(token))
	if conf, cerr := GetOAuthConfig(); cerr == nil {
		ts = conf.TokenSource(ctx, token)
	}
	return newOAuthClient(ctx, ts), nil
}

func newOAuthClient(ctx context.Context, ts oauth2.TokenSource) *http.Client {
	client := oauth2.NewClient(ctx, ts)

	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client
}

// GetHTTPClient returns an authenticated HTTP client for the default account.
func GetHTTPClient(ctx context.Context) (*http.Client, error) {
	return GetHTTPClientForAccount(ctx, "default")
}
