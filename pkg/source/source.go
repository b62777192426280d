// Package source reads model bytes from local files, remote URLs and
// OpenSCAD sources.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/stlview/pkg/openscad"
)

// MaxRemoteSize bounds how much a remote fetch will read
const MaxRemoteSize = 256 << 20

// Loader reads model bytes from wherever a location points
type Loader struct {
	Client *http.Client
	SCAD   *openscad.Renderer
	log    *zap.Logger
}

// NewLoader creates a loader using the default HTTP client
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		Client: http.DefaultClient,
		SCAD:   openscad.NewRenderer(log.Named("openscad")),
		log:    log,
	}
}

// IsRemote reports whether location is an http(s) URL
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Read returns the STL bytes for location. OpenSCAD sources are rendered
// first. ctx bounds remote fetches and renders.
func (l *Loader) Read(ctx context.Context, location string) ([]byte, error) {
	switch {
	case IsRemote(location):
		return l.fetch(ctx, location)
	case openscad.IsSource(location):
		return l.SCAD.Render(ctx, location)
	default:
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		return data, nil
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", url, err)
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	if len(data) > MaxRemoteSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", url, MaxRemoteSize)
	}

	l.log.Debug("fetched model", zap.String("url", url), zap.Int("bytes", len(data)))
	return data, nil
}

// WatchList returns the local files whose changes should reload location:
// the file itself, plus every use/include dependency for OpenSCAD sources.
// Remote locations have none.
func (l *Loader) WatchList(location string) ([]string, error) {
	switch {
	case location == "" || IsRemote(location):
		return nil, nil
	case openscad.IsSource(location):
		return l.SCAD.Dependencies(location)
	default:
		return []string{location}, nil
	}
}
