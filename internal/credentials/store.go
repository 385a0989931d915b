package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/sportfrei/pkg"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	appDirName = "sportfrei"
	fileName   = "credentials.toml"
)

var ErrNotFound = errors.New("credentials not found")

// Credentials are the Strava app keys plus the long-lived refresh token.
type Credentials struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

func (c Credentials) HasClient() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (c Credentials) Complete() bool {
	return c.HasClient() && c.RefreshToken != ""
}

// Store keeps credentials in a TOML file readable only by the user.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is <user config dir>/sportfrei/credentials.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() (Credentials, error) {
	exists, err := pkg.PathExists(s.path, false)
	if err != nil {
		return Credentials{}, err
	}
	if !exists {
		return Credentials{}, ErrNotFound
	}

	var creds Credentials
	if _, err := toml.DecodeFile(s.path, &creds); err != nil {
		return Credentials{}, fmt.Errorf("decode credentials %s: %w", s.path, err)
	}
	return creds, nil
}

func (s *Store) Save(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(creds)
}

func (s *Store) save(creds Credentials) error {
	if err := pkg.EnsureDir(s.path); err != nil {
		return fmt.Errorf("ensure credentials dir: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("open credentials file: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(creds); err != nil {
		return multierr.Append(
			fmt.Errorf("encode credentials: %w", err),
			multierr.Append(f.Close(), os.Remove(tmpPath)),
		)
	}
	if err := f.Close(); err != nil {
		return multierr.Append(fmt.Errorf("close credentials file: %w", err), os.Remove(tmpPath))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace credentials file: %w", err)
	}

	log.Debugf("credentials saved to %s", s.path)
	return nil
}

// UpdateRefreshToken rewrites only the refresh token, keeping the client keys.
func (s *Store) UpdateRefreshToken(refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.load()
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	creds.RefreshToken = refreshToken
	return s.save(creds)
}
