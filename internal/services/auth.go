package services

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"monthlify/internal/shared"
)

// authTimeout bounds how long the browser flow waits for the callback.
const authTimeout = 2 * time.Minute

// Authenticator runs the OAuth authorization-code flow for the Spotify Web
// API and hands out authenticated clients. Completed flows are cached so
// subsequent runs skip the browser.
type Authenticator struct {
	auth        *spotifyauth.Authenticator
	cache       *TokenCache
	config      shared.ServerConfig
	redirectURI string
	logger      *log.Logger

	// openBrowser is swappable in tests.
	openBrowser func(string) error
}

// NewAuthenticator builds an authenticator from validated credentials.
func NewAuthenticator(cfg shared.SpotifyConfig, server shared.ServerConfig, cache *TokenCache, logger *log.Logger) *Authenticator {
	auth := spotifyauth.New(
		spotifyauth.WithClientID(cfg.ClientID),
		spotifyauth.WithClientSecret(cfg.ClientSecret),
		spotifyauth.WithRedirectURL(cfg.RedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserReadPrivate,
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopePlaylistReadPrivate,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopePlaylistModifyPublic,
		),
	)

	return &Authenticator{
		auth:        auth,
		cache:       cache,
		config:      server,
		redirectURI: cfg.RedirectURI,
		logger:      logger,
		openBrowser: shared.OpenBrowser,
	}
}

// CachedToken returns the cached token, or nil when no flow has completed.
func (a *Authenticator) CachedToken() (*oauth2.Token, error) {
	return a.cache.Load()
}

// Client returns an authenticated API client, running the browser flow if no
// cached token exists. Refreshed tokens are written back to the cache.
func (a *Authenticator) Client(ctx context.Context) (*spotify.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		return nil, err
	}

	if token == nil {
		token, err = a.Login(ctx)
		if err != nil {
			return nil, err
		}
	}

	httpClient := a.auth.Client(ctx, token)
	client := spotify.New(httpClient, spotify.WithRetry(true))

	// The oauth2 transport refreshes expired tokens transparently; persist
	// the refreshed token so the next run does not repeat the refresh.
	if transport, ok := httpClient.Transport.(*oauth2.Transport); ok {
		if refreshed, err := transport.Source.Token(); err == nil && refreshed.AccessToken != token.AccessToken {
			if saveErr := a.cache.Save(refreshed); saveErr != nil {
				a.logger.Warn("could not persist refreshed token", "error", saveErr)
			}
		}
	}

	return client, nil
}

// Login runs the full authorization-code flow: opens the authorization URL
// in a browser, waits for the redirect on a local listener, and caches the
// resulting token.
func (a *Authenticator) Login(ctx context.Context) (*oauth2.Token, error) {
	state := shared.GenerateState()

	callback, err := newCallbackServer(a.auth, a.config, a.redirectURI, state)
	if err != nil {
		return nil, err
	}
	defer callback.Close()

	authURL := a.auth.AuthURL(state)
	a.logger.Info("opening browser for authorization", "url", authURL)

	if err := a.openBrowser(authURL); err != nil {
		a.logger.Warn("could not open browser, visit the URL manually", "url", authURL)
	}

	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	token, err := callback.Wait(ctx)
	if err != nil {
		return nil, err
	}

	if err := a.cache.Save(token); err != nil {
		return nil, err
	}

	a.logger.Info("authorization complete", "cache", a.cache.Path())
	return token, nil
}

// Logout discards the cached token.
func (a *Authenticator) Logout() error {
	return a.cache.Delete()
}

// callbackServer is a one-shot HTTP server that handles a single OAuth
// redirect and then shuts down.
type callbackServer struct {
	server   *http.Server
	listener net.Listener
	result   chan callbackResult
	once     sync.Once
}

type callbackResult struct {
	token *oauth2.Token
	err   error
}

func newCallbackServer(auth *spotifyauth.Authenticator, cfg shared.ServerConfig, redirectURI, state string) (*callbackServer, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listening on %s: %v", shared.ErrAuthFailed, addr, err)
	}

	cs := &callbackServer{
		listener: listener,
		result:   make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath(redirectURI), func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != state {
			cs.send(callbackResult{err: fmt.Errorf("%w: state mismatch", shared.ErrAuthFailed)})
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		token, err := auth.Token(r.Context(), state, r)
		if err != nil {
			cs.send(callbackResult{err: fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)})
			http.Error(w, "Authorization failed", http.StatusBadRequest)
			return
		}

		cs.send(callbackResult{token: token})

		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, callbackPage)
	})

	cs.server = &http.Server{Handler: mux}
	go cs.server.Serve(listener) //nolint:errcheck

	return cs, nil
}

func (cs *callbackServer) send(result callbackResult) {
	cs.once.Do(func() {
		cs.result <- result
		close(cs.result)
	})
}

// Wait blocks until the redirect arrives or the context expires.
func (cs *callbackServer) Wait(ctx context.Context) (*oauth2.Token, error) {
	select {
	case result := <-cs.result:
		return result.token, result.err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: no authorization callback received", shared.ErrTimeout)
	}
}

func (cs *callbackServer) Close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_ = cs.server.Shutdown(shutdownCtx)
}

// callbackPath extracts the redirect path from the configured redirect URI,
// falling back to /callback.
func callbackPath(redirectURI string) string {
	if u, err := url.Parse(redirectURI); err == nil && u.Path != "" {
		return u.Path
	}

	return "/callback"
}

const callbackPage = `<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
