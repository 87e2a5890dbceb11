package auth

import (
	"fmt"
	"os"
	"strings"
)

// TokenProvider supplies the bearer token sent with every instance API
// request.
type TokenProvider interface {
	AccessToken() (string, error)
}

// FileTokenProvider reads the token from a file on disk. There is no OAuth
// flow here; the token is an application token provisioned out of band in
// the instance's web settings.
type FileTokenProvider struct {
	path string
}

// NewFileTokenProvider creates a provider reading from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// AccessToken reads the file and returns the token, trimming whitespace.
func (f *FileTokenProvider) AccessToken() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}

	return token, nil
}
