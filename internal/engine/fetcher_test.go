package engine_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-devotional/internal/config"
	"github.com/tartampluch/go-devotional/internal/engine"
)

func TestHTTPFetcher_DownloadsWithCredentials(t *testing.T) {
	const body = "BEGIN:VCARD\nVERSION:3.0\nFN:Test\nEND:VCARD"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok, "Basic auth header should be present")
		assert.Equal(t, "reader", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		assert.Equal(t, config.AcceptVCard, r.Header.Get(config.HeaderAccept))

		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "reader", "s3cret")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestHTTPFetcher_AnonymousRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := r.BasicAuth()
		assert.False(t, ok, "no credentials, no Authorization header")
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	_ = rc.Close()
}

func TestHTTPFetcher_StatusErrors(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(code), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			defer ts.Close()

			rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
			require.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), http.StatusText(code))
		})
	}
}

func TestHTTPFetcher_ContentTypes(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     bool
	}{
		{"vCard", "text/vcard; charset=utf-8", false},
		{"Legacy vCard", "text/x-vcard", false},
		{"Generic binary", "application/octet-stream", false},
		{"Unlabelled", "", false},
		{"HTML sign-in page", "text/html; charset=utf-8", true},
		{"HTML upper case", "TEXT/HTML", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header()[config.HeaderContentType] = []string{tt.contentType}
				_, _ = w.Write([]byte("BEGIN:VCARD\nVERSION:3.0\nFN:Test\nEND:VCARD"))
			}))
			defer ts.Close()

			rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, rc)
				assert.Contains(t, err.Error(), config.ErrFetchMediaType)
				return
			}
			require.NoError(t, err)
			_ = rc.Close()
		})
	}
}

func TestHTTPFetcher_BodyIsCapped(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, io.LimitReader(infiniteReader{}, config.MaxHTTPResponseSize+1024))
	}))
	defer ts.Close()

	rc, err := engine.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	n, err := io.Copy(io.Discard, rc)
	require.NoError(t, err)
	assert.EqualValues(t, config.MaxHTTPResponseSize, n)
}

func TestHTTPFetcher_RespectsContextDeadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := engine.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_RejectsBadURLs(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Control character", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP", "ftp://example.com/people.vcf", config.ErrProtocol},
		{"File", "file:///etc/passwd", config.ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.NewHTTPFetcher().Fetch(context.Background(), tt.url, "", "")
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), err.Error())
		})
	}
}

type infiniteReader struct{}

func (infiniteReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 'x'
	}
	return len(p), nil
}
