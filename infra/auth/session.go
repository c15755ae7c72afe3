package auth

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

// SessionProvider supplies the session cookie the backend issued at login.
// Login itself happens in the web app; the client only reuses the cookie.
type SessionProvider interface {
	SessionCookie() (*http.Cookie, error)
}

// FileSessionProvider reads the session cookie value from a file on disk.
type FileSessionProvider struct {
	path string
	name string
}

// NewFileSessionProvider creates a SessionProvider for the cookie called name
// whose value lives at path.
func NewFileSessionProvider(path, name string) *FileSessionProvider {
	return &FileSessionProvider{path: path, name: name}
}

// SessionCookie reads and returns the cookie, trimming whitespace.
// A missing file is reported with an error wrapping os.ErrNotExist so
// callers can fall back to an anonymous session.
func (f *FileSessionProvider) SessionCookie() (*http.Cookie, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading session from %s: %w", f.path, err)
	}

	value := strings.TrimSpace(string(data))
	if value == "" {
		return nil, fmt.Errorf("session file %s is empty", f.path)
	}

	return &http.Cookie{Name: f.name, Value: value, Path: "/", HttpOnly: true}, nil
}
