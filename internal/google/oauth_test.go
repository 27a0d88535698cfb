package google

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func setupTokenDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetTokenDir(dir)
	t.Cleanup(func() { SetTokenDir("") })
	return dir
}

func TestHasTokenForAccount(t *testing.T) {
	dir := setupTokenDir(t)

	if HasTokenForAccount("work") {
		t.Error("Expected no token before writing one")
	}

	token := &oauth2.Token{AccessToken: "at", RefreshToken: "rt", Expiry: time.Now()}
	if err := writeToken("work", token); err != nil {
		t.Fatalf("writeToken: %v", err)
	}

	if !HasTokenForAccount("work") {
		t.Error("Expected token after writing one")
	}
	if HasTokenForAccount("other") {
		t.Error("Token for one account must not leak to another")
	}

	// Token file must not be world-readable
	info, err := os.Stat(filepath.Join(dir, "work.json"))
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected file mode 0600, got %o", perm)
	}
}

func TestWriteTokenRoundTrip(t *testing.T) {
	setupTokenDir(t)

	want := &oauth2.Token{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}
	if err := writeToken("default", want); err != nil {
		t.Fatalf("writeToken: %v", err)
	}

	got, err := readToken("default")
	if err != nil {
		t.Fatalf("readToken: %v", err)
	}
	if got.AccessToken != want.AccessToken {
		t.Errorf("AccessToken = %q, want %q", got.AccessToken, want.AccessToken)
	}
	if got.RefreshToken != want.RefreshToken {
		t.Errorf("RefreshToken = %q, want %q", got.RefreshToken, want.RefreshToken)
	}
}

func TestReadTokenMissing(t *testing.T) {
	setupTokenDir(t)

	if _, err := readToken("missing"); err == nil {
		t.Error("Expected error for missing token")
	}
}

func TestReadTokenCorrupt(t *testing.T) {
	dir := setupTokenDir(t)

	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := readToken("bad"); err == nil {
		t.Error("Expected error for corrupt token file")
	}
}

func TestTokenFileNameEscapesSeparators(t *testing.T) {
	setupTokenDir(t)

	path := tokenFile("../evil")
	if filepath.Dir(path) != tokenDirPath() {
		t.Errorf("Account name escaped the token directory: %s", path)
	}
}

func TestGetOAuthConfigRequiresCredentials(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")

	if _, err := GetOAuthConfig(); err == nil {
		t.Error("Expected error without client credentials")
	}
}

func TestGetOAuthConfig(t *testing.T) {
	t.Setenv(EnvClientID, "id.apps.googleusercontent.com")
	t.Setenv(EnvClientSecret, "secret")

	conf, err := GetOAuthConfig()
	if err != nil {
		t.Fatalf("GetOAuthConfig: %v", err)
	}
	if conf.ClientID != "id.apps.googleusercontent.com" {
		t.Errorf("Unexpected client ID: %s", conf.ClientID)
	}
	if len(conf.Scopes) == 0 {
		t.Error("Expected scopes to be configured")
	}
}

func TestStaticTokenProvider(t *testing.T) {
	provider := &StaticTokenProvider{
		Tokens: map[string]*oauth2.Token{
			"work": {AccessToken: "at"},
		},
	}

	if !provider.HasTokenForAccount("work") {
		t.Error("Expected token for work account")
	}
	if provider.HasTokenForAccount("other") {
		t.Error("Did not expect token for other account")
	}

	token, err := provider.GetTokenForAccount(context.Background(), "work")
	if err != nil {
		t.Fatalf("GetTokenForAccount: %v", err)
	}
	if token.AccessToken != "at" {
		t.Errorf("Unexpected token: %s", token.AccessToken)
	}

	if _, err := provider.GetTokenForAccount(context.Background(), "other"); err == nil {
		t.Error("Expected error for unknown account")
	}
}

func TestTokenFileIsJSON(t *testing.T) {
	dir := setupTokenDir(t)

	token := &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}
	if err := writeToken("default", token); err != nil {
		t.Fatalf("writeToken: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "default.json"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Errorf("Token file is not valid JSON: %v", err)
	}
}

func TestGetHTTPClientForAccountWithProvider(t *testing.T) {
	provider := &StaticTokenProvider{
		Tokens: map[string]*oauth2.Token{
			"work": {
				AccessToken: "at",
				TokenType:   "Bearer",
				Expiry:      time.Now().Add(time.Hour),
			},
		},
	}

	client, err := GetHTTPClientForAccountWithProvider(context.Background(), "work", provider)
	if err != nil {
		t.Fatalf("GetHTTPClientForAccountWithProvider: %v", err)
	}
	if client == nil {
		t.Fatal("Expected a client")
	}

	if _, err := GetHTTPClientForAccountWithProvider(context.Background(), "other", provider); err == nil {
		t.Error("Expected error for account without a token")
	}
}

type staticTokenSource struct {
	token *oauth2.Token
}

func (s *staticTokenSource) Token() (*oauth2.Token, error) {
	return s.token, nil
}

func TestPersistingTokenSourceConcurrent(t *testing.T) {
	dir := setupTokenDir(t)

	ts := &persistingTokenSource{
		account: "work",
		base: &staticTokenSource{token: &oauth2.Token{
			AccessToken: "refreshed",
			TokenType:   "Bearer",
			Expiry:      time.Now().Add(time.Hour),
		}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := ts.Token()
			if err != nil {
				t.Errorf("Token: %v", err)
				return
			}
			if token.AccessToken != "refreshed" {
				t.Errorf("Unexpected token: %s", token.AccessToken)
			}
		}()
	}
	wg.Wait()

	persisted, err := readToken("work")
	if err != nil {
		t.Fatalf("readToken: %v", err)
	}
	if persisted.AccessToken != "refreshed" {
		t.Errorf("Persisted token = %s, want refreshed", persisted.AccessToken)
	}
	if _, err := os.Stat(filepath.Join(dir, "work.json")); err != nil {
		t.Errorf("Expected persisted token file: %v", err)
	}
}
