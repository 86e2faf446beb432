// Package static keeps the static GTFS feed used to name realtime routes
// up to date on disk.
package static

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mini-rodalies-3d/stopboard/internal/errors"
	"github.com/mini-rodalies-3d/stopboard/internal/logger"
)

// Manifest is written next to the downloaded zip as <zip>.manifest.json
type Manifest struct {
	UpdatedAt string `json:"updated_at"`
	SourceURL string `json:"source_url"`
}

// Refresher downloads the static feed when the local copy is missing or old
type Refresher struct {
	client     *http.Client
	url        string
	path       string
	maxAgeDays int
	userAgent  string
	now        func() time.Time
}

// NewRefresher creates a refresher that keeps path no older than maxAgeDays
func NewRefresher(url, path string, maxAgeDays int, userAgent string, timeout time.Duration) *Refresher {
	return &Refresher{
		client:     &http.Client{Timeout: timeout},
		url:        url,
		path:       path,
		maxAgeDays: maxAgeDays,
		userAgent:  userAgent,
		now:        time.Now,
	}
}

func manifestPath(zipPath string) string {
	return zipPath + ".manifest.json"
}

// RefreshIfStale downloads the feed if needed. It reports whether a download
// happened.
func (r *Refresher) RefreshIfStale(ctx context.Context) (bool, error) {
	log := logger.ComponentLogger("static")

	if !r.isStaleOrMissing() {
		log.Debugw("Static GTFS is fresh, skipping refresh", "path", r.path)
		return false, nil
	}

	log.Infow("Refreshing static GTFS", "url", r.url, "path", r.path)
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return false, errors.Wrap(err, "creating cache directory")
	}
	if err := r.download(ctx); err != nil {
		return false, err
	}

	manifest := Manifest{
		UpdatedAt: r.now().UTC().Format(time.RFC3339),
		SourceURL: r.url,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		return true, err
	}
	if err := os.WriteFile(manifestPath(r.path), data, 0644); err != nil {
		return true, errors.Wrap(err, "writing manifest")
	}

	log.Infow("Static GTFS refreshed", "path", r.path)
	return true, nil
}

func (r *Refresher) isStaleOrMissing() bool {
	if _, err := os.Stat(r.path); err != nil {
		return true
	}

	data, err := os.ReadFile(manifestPath(r.path))
	if err != nil {
		return true
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return true
	}
	if manifest.SourceURL != r.url {
		return true
	}

	updatedAt, err := time.Parse(time.RFC3339, manifest.UpdatedAt)
	if err != nil {
		return true
	}

	age := r.now().Sub(updatedAt)
	maxAge := time.Duration(r.maxAgeDays) * 24 * time.Hour
	return age > maxAge
}

// download writes to a temp file first so a failed transfer never replaces a
// good feed
func (r *Refresher) download(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return errors.Transport(err, "failed to fetch static GTFS")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Protocolf("static GTFS returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".gtfs-*.zip")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return errors.Transport(err, "failed to read static GTFS")
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}
