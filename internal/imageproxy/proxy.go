// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imageproxy relays remote images (party logos, politician photos)
// from a fixed allow-list of hosts so that pages and share cards never
// load third-party URLs directly.
package imageproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CacheControl is sent with every relayed image: one hour at the edge,
// revalidating in the background for up to a day.
const CacheControl = "public, max-age=3600, s-maxage=3600, stale-while-revalidate=86400"

// maxImageBytes bounds how much of an upstream body is relayed.
const maxImageBytes = 10 << 20

const maxRedirects = 5

// DefaultAllowedHosts are the hosts the store serves attachments from.
var DefaultAllowedHosts = []string{
	"dl.airtable.com",
	"v5.airtableusercontent.com",
	"upload.wikimedia.org",
}

// Validation errors, reported to clients as 400.
var (
	ErrMissingURL     = errors.New("missing url")
	ErrInvalidURL     = errors.New("invalid url")
	ErrHostNotAllowed = errors.New("host not allowed")
)

// UpstreamError carries a non-2xx status from the image host.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.Status)
}

// Image is a fetched upstream body.
type Image struct {
	Data        []byte
	ContentType string
}

// Proxy validates and relays image URLs.
type Proxy struct {
	allowed map[string]bool
	client  *http.Client
}

// New creates a proxy for the given hosts. An empty list selects
// DefaultAllowedHosts.
func New(hosts []string) *Proxy {
	if len(hosts) == 0 {
		hosts = DefaultAllowedHosts
	}
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allowed[h] = true
		}
	}
	p := &Proxy{allowed: allowed}
	p.client = &http.Client{
		Timeout:       10 * time.Second,
		CheckRedirect: p.checkRedirect,
	}
	return p
}

// checkRedirect holds every hop to the allow-list.
func (p *Proxy) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if _, err := p.Validate(req.URL.String()); err != nil {
		return fmt.Errorf("redirect to %q: %w", req.URL.Host, err)
	}
	return nil
}

// Validate parses raw and checks it against the allow-list.
func (p *Proxy) Validate(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, ErrInvalidURL
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, ErrInvalidURL
	}
	if !p.allowed[strings.ToLower(u.Hostname())] {
		return nil, ErrHostNotAllowed
	}
	return u, nil
}

// Fetch validates raw and downloads it.
func (p *Proxy) Fetch(ctx context.Context, raw string) (*Image, error) {
	u, err := p.Validate(raw)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("image request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Status: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("image read body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return &Image{Data: data, ContentType: ct}, nil
}

// ServeHTTP relays the image named by the "u" query parameter.
func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	img, err := p.Fetch(r.Context(), r.URL.Query().Get("u"))
	if err != nil {
		var ue *UpstreamError
		switch {
		case errors.Is(err, ErrMissingURL), errors.Is(err, ErrInvalidURL):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrHostNotAllowed):
			// Redirect failures wrap the target host; do not echo it.
			http.Error(w, ErrHostNotAllowed.Error(), http.StatusBadRequest)
		case errors.As(err, &ue):
			http.Error(w, err.Error(), ue.Status)
		default:
			slog.Warn("image relay failed", "url", r.URL.Query().Get("u"), "error", err)
			http.Error(w, "upstream fetch failed", http.StatusBadGateway)
		}
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.Header().Set("Cache-Control", CacheControl)
	w.WriteHeader(http.StatusOK)
	w.Write(img.Data)
}
