package strava

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/2beens/sportfrei/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const stateLength = 24

type AuthParams struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURI  string
	RedirectAddr string
	Scopes       []string
	Timeout      time.Duration
}

// Authenticator runs the Strava OAuth authorization-code flow and builds
// refreshing token sources for the API client.
type Authenticator struct {
	oauthConfig  *oauth2.Config
	redirectAddr string
	timeout      time.Duration
	httpTimeout  time.Duration
}

func NewAuthenticator(params AuthParams) *Authenticator {
	return &Authenticator{
		oauthConfig: &oauth2.Config{
			ClientID:     params.ClientID,
			ClientSecret: params.ClientSecret,
			Endpoint: oauth2.Endpoint{
				AuthURL:   params.AuthURL,
				TokenURL:  params.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: params.RedirectURI,
			// strava expects a single comma separated scope value
			Scopes: []string{strings.Join(params.Scopes, ",")},
		},
		redirectAddr: params.RedirectAddr,
		timeout:      params.Timeout,
		httpTimeout:  15 * time.Second,
	}
}

// AuthCodeURL is the page the user has to open to grant access.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("approval_prompt", "auto"),
	)
}

// Authorize waits for the browser redirect carrying the authorization code
// and exchanges it for a token. openURL is called with the authorization
// page once the callback server is listening.
func (a *Authenticator) Authorize(ctx context.Context, openURL func(string)) (*oauth2.Token, error) {
	state, err := pkg.GenerateRandomString(stateLength)
	if err != nil {
		return nil, fmt.Errorf("generate oauth state: %w", err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	listener, err := net.Listen("tcp", a.redirectAddr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", a.redirectAddr, err)
	}

	callback := newCallbackHandler(state)
	server := &http.Server{
		Handler:           callback.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("strava auth: shutdown callback server: %s", err)
		}
	}()

	authURL := a.AuthCodeURL(state)
	log.Debugf("strava auth: waiting for callback on %s", a.redirectAddr)
	if openURL != nil {
		openURL(authURL)
	}

	var code string
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for authorization: %w", ctx.Err())
	case err := <-serveErr:
		return nil, fmt.Errorf("callback server: %w", err)
	case res := <-callback.result:
		if res.err != nil {
			return nil, res.err
		}
		code = res.code
	}

	token, err := a.oauthConfig.Exchange(withTracedHttpClient(ctx, a.httpTimeout), code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return token, nil
}

// TokenSource returns a token source that refreshes the access token from
// refreshToken when needed. onRotate is called whenever Strava hands out a
// new refresh token, so it can be persisted.
func (a *Authenticator) TokenSource(ctx context.Context, refreshToken string, onRotate func(*oauth2.Token)) oauth2.TokenSource {
	base := a.oauthConfig.TokenSource(
		withTracedHttpClient(ctx, a.httpTimeout),
		&oauth2.Token{RefreshToken: refreshToken},
	)
	return &rotatingTokenSource{
		base:         base,
		refreshToken: refreshToken,
		onRotate:     onRotate,
	}
}

type rotatingTokenSource struct {
	mu           sync.Mutex
	base         oauth2.TokenSource
	refreshToken string
	onRotate     func(*oauth2.Token)
}

func (s *rotatingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.base.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			retrieveErr.Response.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, err)
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token.RefreshToken != "" && token.RefreshToken != s.refreshToken {
		s.refreshToken = token.RefreshToken
		if s.onRotate != nil {
			s.onRotate(token)
		}
	}

	return token, nil
}

type callbackResult struct {
	code string
	err  error
}

type callbackHandler struct {
	state  string
	once   sync.Once
	result chan callbackResult
}

func newCallbackHandler(state string) *callbackHandler {
	return &callbackHandler{
		state:  state,
		result: make(chan callbackResult, 1),
	}
}

func (h *callbackHandler) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("strava-auth-callback"))
	r.HandleFunc("/", h.handleCallback).Methods(http.MethodGet)
	return r
}

func (h *callbackHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var res callbackResult
	switch {
	case query.Get("error") != "":
		res.err = fmt.Errorf("authorization denied: %s", query.Get("error"))
	case query.Get("state") != h.state:
		http.Error(w, "invalid state", http.StatusBadRequest)
		log.Warnf("strava auth: callback with invalid state")
		return
	case query.Get("code") == "":
		http.Error(w, "missing code", http.StatusBadRequest)
		log.Warnf("strava auth: callback without code")
		return
	default:
		res.code = query.Get("code")
	}

	h.once.Do(func() {
		h.result <- res
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if res.err != nil {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<html><body><h3>SportFrei: authorization failed.</h3></body></html>"))
		return
	}
	_, _ = w.Write([]byte("<html><body><h3>SportFrei: authorization complete, you can close this tab.</h3></body></html>"))
}

func withTracedHttpClient(ctx context.Context, timeout time.Duration) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	})
}
