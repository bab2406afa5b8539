package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/tartampluch/go-devotional/internal/config"
)

// Snapshot is everything the server publishes after one sync.
// Nil views are not served (the route answers 503 until they are set).
type Snapshot struct {
	ICS    []byte
	Header any
	Week   any
	People any
}

// resource is one rendered response body and its metadata for HTTP caching.
type resource struct {
	data         []byte
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// published maps a route to its resource. It is replaced wholesale on Update.
type published map[string]*resource

// FeedServer serves the generated ICS feed and the JSON views via HTTP.
type FeedServer struct {
	// Written on sync, read on every request: lock-free reads.
	cache  atomic.Pointer[published]
	router *mux.Router
	Port   string
}

// NewFeedServer creates a new instance of the server.
func NewFeedServer(port string) *FeedServer {
	s := &FeedServer{Port: port}
	s.router = s.routes()
	return s
}

func (s *FeedServer) routes() *mux.Router {
	r := mux.NewRouter()
	methods := []string{http.MethodGet, http.MethodHead}

	r.HandleFunc(config.RouteRoot, s.serve(config.RouteCalendar)).Methods(methods...)
	r.HandleFunc(config.RouteCalendar, s.serve(config.RouteCalendar)).Methods(methods...)
	r.HandleFunc(config.RouteHeader, s.serve(config.RouteHeader)).Methods(methods...)
	r.HandleFunc(config.RouteWeek, s.serve(config.RouteWeek)).Methods(methods...)
	r.HandleFunc(config.RoutePeople, s.serve(config.RoutePeople)).Methods(methods...)

	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	return r
}

// Handler returns the router wrapped with CORS and panic recovery.
func (s *FeedServer) Handler() http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead}),
		handlers.IgnoreOptions(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(
			slog.Default().With(config.LogKeyComponent, config.CompServer).Handler(),
			slog.LevelError,
		)),
	)
	return recovery(cors(s.router))
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *FeedServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces every served resource. Views that fail to encode
// are logged and left unpublished.
func (s *FeedServer) Update(snap Snapshot) {
	lastMod := time.Now().UTC().Format(http.TimeFormat)
	next := published{}

	if snap.ICS != nil {
		next[config.RouteCalendar] = newResource(snap.ICS, config.MimeTextCalendar, lastMod)
	}

	views := map[string]any{
		config.RouteHeader: snap.Header,
		config.RouteWeek:   snap.Week,
		config.RoutePeople: snap.People,
	}
	for route, view := range views {
		if view == nil {
			continue
		}
		data, err := json.Marshal(view)
		if err != nil {
			slog.Error(config.ErrJSONEncode,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyURL, route,
				config.LogKeyError, err)
			continue
		}
		next[route] = newResource(data, config.MimeJSON, lastMod)
	}

	s.cache.Store(&next)

	var etag string
	if feed := next[config.RouteCalendar]; feed != nil {
		etag = feed.etag
	}
	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(snap.ICS),
		config.LogKeyETag, etag,
		config.LogKeyCount, len(next),
	)
}

func newResource(data []byte, contentType, lastModified string) *resource {
	hash := sha256.Sum256(data)
	return &resource{
		data:         data,
		contentType:  contentType,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:])),
		lastModified: lastModified,
	}
}

func (s *FeedServer) lookup(route string) *resource {
	p := s.cache.Load()
	if p == nil {
		return nil
	}
	return (*p)[route]
}

// serve returns a handler for the resource published under route, with HTTP
// caching support.
func (s *FeedServer) serve(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item := s.lookup(route)
		if item == nil {
			w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
			http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
			return
		}

		w.Header().Set(config.HeaderContentType, item.contentType)
		w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
		w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
		w.Header().Set(config.HeaderETag, item.etag)
		w.Header().Set(config.HeaderLastModified, item.lastModified)

		if notModified(r, item) {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if r.Method == http.MethodGet {
			if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
				slog.Error(config.ErrWriteResp,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyError, err,
				)
			}
		}
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, item *resource) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == item.etag
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	clientTime, err := time.Parse(http.TimeFormat, since)
	if err != nil {
		return false
	}
	serverTime, err := time.Parse(http.TimeFormat, item.lastModified)
	if err != nil {
		return false
	}
	return !serverTime.After(clientTime)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
}
