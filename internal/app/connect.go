package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/2beens/sportfrei/internal/config"
	"github.com/2beens/sportfrei/internal/credentials"
	"github.com/2beens/sportfrei/internal/strava"
	"github.com/2beens/sportfrei/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	EnvClientID     = "SPORTFREI_STRAVA_CLIENT_ID"
	EnvClientSecret = "SPORTFREI_STRAVA_CLIENT_SECRET"
	EnvSentryDSN    = "SENTRY_DSN"
)

type ConnectParams struct {
	Config *config.Config
	Store  *credentials.Store
	// In and Out are used to ask for missing client keys and to show the
	// authorization link.
	In  io.Reader
	Out io.Writer
	// OpenBrowser opens the authorization page; nil only prints the link.
	OpenBrowser func(url string) error
	// Metrics is optional.
	Metrics *metrics.Manager
}

// Connect returns an authenticated Strava client. Missing client keys are
// taken from the environment or asked for, a missing refresh token starts
// the browser authorization flow. Everything obtained is saved to the store.
func Connect(ctx context.Context, params ConnectParams) (*strava.Client, error) {
	cfg := params.Config

	creds, err := params.Store.Load()
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	creds, changed, err := resolveClientKeys(creds, params.In, params.Out)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := params.Store.Save(creds); err != nil {
			return nil, fmt.Errorf("save credentials: %w", err)
		}
	}

	authenticator := strava.NewAuthenticator(strava.AuthParams{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		AuthURL:      cfg.StravaAuthUrl,
		TokenURL:     cfg.StravaTokenUrl,
		RedirectURI:  cfg.RedirectURI,
		RedirectAddr: cfg.RedirectAddr,
		Scopes:       cfg.Scopes,
		Timeout:      config.DefaultAuthTimeout,
	})

	if creds.RefreshToken == "" {
		token, err := authenticator.Authorize(ctx, func(authURL string) {
			_, _ = fmt.Fprintf(params.Out, "Open this link to authorize SportFrei with Strava:\n\n  %s\n\n", authURL)
			if params.OpenBrowser != nil {
				if err := params.OpenBrowser(authURL); err != nil {
					log.Debugf("open browser: %s", err)
				}
			}
		})
		if err != nil {
			return nil, fmt.Errorf("authorize: %w", err)
		}
		if token.RefreshToken == "" {
			return nil, errors.New("authorize: no refresh token received")
		}
		if err := params.Store.UpdateRefreshToken(token.RefreshToken); err != nil {
			return nil, fmt.Errorf("save refresh token: %w", err)
		}
		creds.RefreshToken = token.RefreshToken
		log.Infof("authorized, credentials saved to %s", params.Store.Path())
	}

	tokenSource := authenticator.TokenSource(ctx, creds.RefreshToken, func(token *oauth2.Token) {
		if params.Metrics != nil {
			params.Metrics.CounterTokenRotations.Inc()
		}
		if err := params.Store.UpdateRefreshToken(token.RefreshToken); err != nil {
			log.Errorf("persist rotated refresh token: %s", err)
		}
	})

	return strava.NewClient(ctx, strava.NewClientParams{
		ApiUrl:      cfg.StravaApiUrl,
		TokenSource: tokenSource,
		CacheSizeMB: cfg.CacheSizeMB,
		CacheTTL:    time.Duration(cfg.CacheTTLSeconds) * time.Second,
		Timeout:     config.DefaultHttpTimeout,
		Metrics:     params.Metrics,
	}), nil
}

// ForgetRefreshToken drops a refresh token Strava no longer accepts, so the
// next start authorizes again.
func ForgetRefreshToken(store *credentials.Store) error {
	return store.UpdateRefreshToken("")
}

func resolveClientKeys(creds credentials.Credentials, in io.Reader, out io.Writer) (credentials.Credentials, bool, error) {
	changed := false
	if id := os.Getenv(EnvClientID); id != "" && id != creds.ClientID {
		creds.ClientID = id
		changed = true
	}
	if secret := os.Getenv(EnvClientSecret); secret != "" && secret != creds.ClientSecret {
		creds.ClientSecret = secret
		changed = true
	}
	if creds.HasClient() {
		return creds, changed, nil
	}

	if in == nil {
		return creds, false, fmt.Errorf("strava client id/secret not set, use %s and %s", EnvClientID, EnvClientSecret)
	}

	scanner := bufio.NewScanner(in)
	ask := func(prompt string) (string, error) {
		_, _ = fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		return strings.TrimSpace(scanner.Text()), nil
	}

	if creds.ClientID == "" {
		id, err := ask("Strava client ID: ")
		if err != nil {
			return creds, false, fmt.Errorf("read client id: %w", err)
		}
		creds.ClientID = id
	}
	if creds.ClientSecret == "" {
		secret, err := ask("Strava client secret: ")
		if err != nil {
			return creds, false, fmt.Errorf("read client secret: %w", err)
		}
		creds.ClientSecret = secret
	}
	if !creds.HasClient() {
		return creds, false, errors.New("strava client id and secret are required")
	}

	return creds, true, nil
}

// OpenBrowser opens url with the platform's default handler.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
