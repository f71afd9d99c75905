// Package assets fetches remote assets and inlines them as data URIs.
//
// Exported artifacts must be self-contained: a PNG capture or a static
// HTML bundle cannot depend on the lesson logo still being reachable at
// its remote URL. The [Inliner] fetches the asset once (with retry and a
// TTL cache) and rewrites the document to carry the bytes inline.
//
// Inlining is a decoration, not a requirement: fetch failures fall back
// to the original URL and never fail an export.
package assets

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/formulalab/masterclass/pkg/cache"
	"github.com/formulalab/masterclass/pkg/httputil"
	"github.com/formulalab/masterclass/pkg/lesson"
)

// Inliner fetches remote assets and converts them to data URIs.
type Inliner struct {
	client *http.Client
	cache  cache.Cache
	logger *log.Logger
}

// NewInliner creates an inliner. A nil cache disables caching; a nil
// client uses a default with a short timeout.
func NewInliner(client *http.Client, c cache.Cache, logger *log.Logger) *Inliner {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Inliner{client: client, cache: c, logger: logger}
}

// InlineLogo returns a copy of doc with the logo URL replaced by a data
// URI. Data URIs and empty logos pass through untouched; a failed fetch
// leaves the original URL in place.
func (in *Inliner) InlineLogo(ctx context.Context, doc lesson.Document) lesson.Document {
	out := doc.Clone()
	if out.LogoURL == "" || strings.HasPrefix(out.LogoURL, "data:") {
		return out
	}

	uri, err := in.DataURI(ctx, out.LogoURL)
	if err != nil {
		in.logger.Warn("logo inline failed, keeping remote URL",
			"url", out.LogoURL, "err", err)
		return out
	}
	out.LogoURL = uri
	return out
}

// DataURI fetches url and returns its content as a data URI.
func (in *Inliner) DataURI(ctx context.Context, url string) (string, error) {
	key := cache.AssetKey(url)
	if data, hit, err := in.cache.Get(ctx, key); err == nil && hit {
		return string(data), nil
	}

	var body []byte
	var contentType string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		body, contentType, err = httputil.GetBytes(ctx, in.client, url)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fetch asset: %w", err)
	}
	if contentType == "" || !strings.HasPrefix(contentType, "image/") {
		contentType = "image/png"
	}

	uri := fmt.Sprintf("data:%s;base64,%s",
		contentType, base64.StdEncoding.EncodeToString(body))
	_ = in.cache.Set(ctx, key, []byte(uri), cache.TTLAsset)
	return uri, nil
}
