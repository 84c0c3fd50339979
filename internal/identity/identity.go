// Package identity supplies the session token the wallet client sends with
// every request. The token is written by the login flow and only read here.
package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrNoIdentity means no session token is available
var ErrNoIdentity = errors.New("identity: no session token")

// User is the signed-in account as the client knows it
type User struct {
	ID       string
	Name     string
	Username string
}

// Provider hands out the current identity
type Provider interface {
	// Token returns the bearer token, or ErrNoIdentity
	Token() (string, error)

	// Unauthorized signals that the server rejected the token
	Unauthorized()

	CurrentUser() (*User, bool)
}

// FileProvider keeps the token in a file shared by the terminal wallet and
// the overlay server. The cached token is reused while the file's size and
// modification time are unchanged, so a login in one process reaches the
// other without a restart.
type FileProvider struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	token string
	stamp fileStamp
	user  *User
}

// fileStamp identifies the version of the token file the cache came from
type fileStamp struct {
	modNano int64
	size    int64
}

func stampOf(info fs.FileInfo) fileStamp {
	return fileStamp{modNano: info.ModTime().UnixNano(), size: info.Size()}
}

func NewFileProvider(path string, logger *slog.Logger) *FileProvider {
	return &FileProvider{path: path, logger: logger}
}

func (p *FileProvider) Token() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		p.forget()
		return "", ErrNoIdentity
	}
	if err != nil {
		return "", fmt.Errorf("identity: stat token file: %w", err)
	}

	if stamp := stampOf(info); p.token == "" || stamp != p.stamp {
		raw, err := os.ReadFile(p.path)
		if errors.Is(err, fs.ErrNotExist) {
			p.forget()
			return "", ErrNoIdentity
		}
		if err != nil {
			return "", fmt.Errorf("identity: read token file: %w", err)
		}
		next := strings.TrimSpace(string(raw))
		if next != p.token {
			// written by another process; its user is unknown here
			p.user = nil
		}
		p.token, p.stamp = next, stamp
	}

	if p.token == "" {
		return "", ErrNoIdentity
	}
	return p.token, nil
}

// forget drops the cached session; callers hold mu
func (p *FileProvider) forget() {
	p.token = ""
	p.stamp = fileStamp{}
	p.user = nil
}

// Save stores a freshly issued token and the user it belongs to
func (p *FileProvider) Save(token string, u *User) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrNoIdentity
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.WriteFile(p.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("identity: write token file: %w", err)
	}
	info, err := os.Stat(p.path)
	if err != nil {
		return fmt.Errorf("identity: stat token file: %w", err)
	}

	p.token, p.stamp, p.user = token, stampOf(info), u
	return nil
}

// Unauthorized drops the rejected token. The file is removed only while it
// still holds that token; a newer login saved meanwhile is kept and picked
// up by the next Token call. Safe to call repeatedly.
func (p *FileProvider) Unauthorized() {
	p.mu.Lock()
	defer p.mu.Unlock()

	rejected := p.token
	p.forget()
	if rejected == "" {
		return
	}

	raw, err := os.ReadFile(p.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			p.logger.Warn("Failed to read token file", "path", p.path, "error", err)
		}
		return
	}
	if strings.TrimSpace(string(raw)) != rejected {
		return
	}
	if err := os.Remove(p.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.Warn("Failed to remove token file", "path", p.path, "error", err)
	}
}

func (p *FileProvider) CurrentUser() (*User, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user, p.user != nil
}

// StaticProvider holds a fixed token in memory
type StaticProvider struct {
	token        string
	user         *User
	unauthorized atomic.Int32
}

func NewStaticProvider(token string, u *User) *StaticProvider {
	return &StaticProvider{token: token, user: u}
}

func (p *StaticProvider) Token() (string, error) {
	if p.token == "" {
		return "", ErrNoIdentity
	}
	return p.token, nil
}

// Unauthorized only counts the signal; the token stays as configured
func (p *StaticProvider) Unauthorized() {
	p.unauthorized.Add(1)
}

// UnauthorizedCalls reports how often Unauthorized was signalled
func (p *StaticProvider) UnauthorizedCalls() int {
	return int(p.unauthorized.Load())
}

func (p *StaticProvider) CurrentUser() (*User, bool) {
	return p.user, p.user != nil
}

var (
	_ Provider = (*FileProvider)(nil)
	_ Provider = (*StaticProvider)(nil)
)
