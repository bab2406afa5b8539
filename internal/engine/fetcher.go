package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-devotional/internal/config"
)

// VCardFetcher retrieves a remote address book.
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher implements VCardFetcher over plain HTTP(S) with optional Basic auth.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with the configured timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: config.HTTPTimeout,
		},
	}
}

// Fetch downloads the address book at targetURL.
// Only http and https are accepted, and the body is capped at MaxHTTPResponseSize.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	// Query strings may carry tokens; keep them out of the logs.
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, u.Scheme+"://"+u.Host+u.Path),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.AcceptVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %d %s", config.ErrFetchStatus, resp.StatusCode, resp.Status)
	}

	// An HTML 200 is a sign-in page or captive portal, not an address book.
	mediaType := responseMediaType(resp)
	if mediaType == config.MimeTextHTML {
		_ = resp.Body.Close()
		log.Warn(config.ErrFetchMediaType, slog.String(config.LogKeyMediaType, mediaType))
		return nil, fmt.Errorf("%s: %s", config.ErrFetchMediaType, mediaType)
	}

	log.Debug(config.MsgFetchDone,
		slog.Int64(config.LogKeySizeBytes, resp.ContentLength),
		slog.String(config.LogKeyMediaType, mediaType))

	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// responseMediaType returns the lower-cased media type of resp without
// parameters, or "" when the header is missing or unparsable.
func responseMediaType(resp *http.Response) string {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get(config.HeaderContentType))
	if err != nil {
		return ""
	}
	return mediaType
}
