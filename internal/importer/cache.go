package importer

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheTTL      = 24 * time.Hour
	bodySuffix    = ".body"
	metaSuffix    = ".meta"
	partialSuffix = ".part"
)

// urlCache keeps downloaded scripts on disk and revalidates them with
// conditional requests once they are older than cacheTTL.
type urlCache struct {
	dir    string
	client *http.Client
	now    func() time.Time
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	ContentType  string    `json:"contentType"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

func newURLCache(dir string, client *http.Client) (*urlCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("importer: create cache dir: %w", err)
	}
	return &urlCache{dir: dir, client: client, now: time.Now}, nil
}

// Fetch returns the cached body path and its metadata. A stale copy is
// served when the refresh fails.
func (c *urlCache) Fetch(ctx context.Context, rawURL string) (string, cacheMeta, error) {
	bodyPath, metaPath, partialPath := c.pathsFor(cacheKey(rawURL))

	meta, _ := readMeta(metaPath)
	info, _ := os.Stat(bodyPath)
	if info != nil && info.Size() > 0 && c.now().Sub(meta.CachedAt) < cacheTTL {
		return bodyPath, meta, nil
	}

	refreshed, err := c.download(ctx, rawURL, bodyPath, metaPath, partialPath, meta, info)
	if err == nil {
		return bodyPath, refreshed, nil
	}
	if info != nil && info.Size() > 0 {
		logf("refresh %s failed, serving cached copy: %v", rawURL, err)
		return bodyPath, meta, nil
	}
	return "", cacheMeta{}, err
}

func (c *urlCache) download(ctx context.Context, rawURL, bodyPath, metaPath, partialPath string, meta cacheMeta, current os.FileInfo) (cacheMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return cacheMeta{}, err
	}
	if current != nil && current.Size() > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return cacheMeta{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current != nil && current.Size() > 0 {
			meta.CachedAt = c.now().UTC()
			if err := writeMeta(metaPath, meta); err != nil {
				return cacheMeta{}, err
			}
			return meta, nil
		}
		return c.download(ctx, rawURL, bodyPath, metaPath, partialPath, cacheMeta{}, nil)
	case http.StatusOK:
		return c.saveBody(resp, bodyPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return cacheMeta{}, fmt.Errorf("importer: download %s: %s (%s)", rawURL, resp.Status, string(body))
	}
}

func (c *urlCache) saveBody(resp *http.Response, bodyPath, metaPath, partialPath string) (cacheMeta, error) {
	file, err := os.OpenFile(partialPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return cacheMeta{}, err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		return cacheMeta{}, err
	}
	if err := file.Close(); err != nil {
		return cacheMeta{}, err
	}
	if err := os.Rename(partialPath, bodyPath); err != nil {
		return cacheMeta{}, err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		ContentType:  resp.Header.Get("Content-Type"),
		CachedAt:     c.now().UTC(),
	}
	if info, err := os.Stat(bodyPath); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(metaPath, meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func (c *urlCache) pathsFor(key string) (string, string, string) {
	base := filepath.Join(c.dir, key)
	return base + bodySuffix, base + metaSuffix, base + partialSuffix
}

func cacheKey(rawURL string) string {
	sum := sha1.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
