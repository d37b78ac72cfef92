package utils

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/arslanyasin/bnw-orders-backend-sub000/config"
)

// DocumentStore persists generated documents and hands back a public URL.
// Files live under a local directory served statically; Fetch falls back to
// an HTTP GET for URLs that are not ours.
type DocumentStore struct {
	Dir     string
	BaseURL string
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Dir:     config.GetEnv("DOCUMENT_DIR", "documents"),
		BaseURL: strings.TrimRight(config.GetEnv("DOCUMENT_BASE_URL", "http://localhost:3000/documents"), "/"),
	}
}

func (s *DocumentStore) Store(data []byte, key string) (string, error) {
	path := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + key, nil
}

func (s *DocumentStore) Fetch(url string) ([]byte, error) {
	if key, ok := strings.CutPrefix(url, s.BaseURL+"/"); ok {
		return os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(key)))
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("document fetch returned %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
