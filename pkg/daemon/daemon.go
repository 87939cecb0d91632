// Package daemon serves the compatibility table over HTTP so the website can
// fetch it, or query it, without shipping a copy of the data file.
package daemon

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/networkupstools/nut-hcl/internal/query"
	"github.com/networkupstools/nut-hcl/internal/version"
	"github.com/networkupstools/nut-hcl/pkg/hcl"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

type server struct {
	records []hcl.Record
	js      []byte
}

// NewRouter builds the HTTP handler serving records. The slice is treated
// as read-only.
func NewRouter(records []hcl.Record, timeout time.Duration) (http.Handler, error) {
	var js bytes.Buffer
	if err := hcl.EncodeJS(&js, records); err != nil {
		return nil, err
	}
	s := &server{records: records, js: js.Bytes()}

	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Timeout(timeout),
	)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	router.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, version.Get())
	})
	router.Get("/ups_data.js", s.handleJS)
	router.Get("/levels", s.handleLevels)
	router.Get("/vendors", s.handleVendors)
	router.Route("/records", func(r chi.Router) {
		r.Get("/", s.handleRecords)
		r.Get("/{index}", s.handleRecord)
	})
	return router, nil
}

// Run serves until ctx is cancelled and then shuts the server down,
// waiting for in-flight requests.
func Run(ctx context.Context, cfg Config, records []hcl.Record) error {
	router, err := NewRouter(records, cfg.Timeout)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.Endpoint,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("endpoint", cfg.Endpoint).Int("records", len(records)).Msg("serving compatibility table")
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *server) handleJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(s.js)
}

func (s *server) handleLevels(w http.ResponseWriter, r *http.Request) {
	type level struct {
		Level int    `json:"level"`
		Label string `json:"label"`
	}
	levels := []level{}
	for _, l := range hcl.KnownLevels() {
		levels = append(levels, level{Level: int(l), Label: l.Label()})
	}
	writeJSON(w, http.StatusOK, levels)
}

func (s *server) handleVendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, query.Vendors(s.records))
}

func (s *server) handleRecords(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	records, err := query.Apply(s.records, params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(query.Select(s.records, params.Filter))))
	writeJSON(w, http.StatusOK, records)
}

func (s *server) handleRecord(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("record index must be a number"))
		return
	}
	if index < 0 || index >= len(s.records) {
		writeError(w, http.StatusNotFound, errors.New("record not found"))
		return
	}
	writeJSON(w, http.StatusOK, s.records[index])
}

func parseParams(r *http.Request) (query.Params, error) {
	q := r.URL.Query()
	p := query.Params{
		Filter: query.Filter{
			Vendor: q.Get("vendor"),
			Model:  q.Get("model"),
			Note:   q.Get("note"),
			Driver: q.Get("driver"),
			Search: q.Get("q"),
		},
	}
	for _, v := range q["level"] {
		var l hcl.SupportLevel
		if err := l.Set(v); err != nil {
			return p, errors.New("invalid level " + strconv.Quote(v) + ": " + err.Error())
		}
		p.Filter.Levels = append(p.Filter.Levels, l)
	}

	var err error
	if p.SortBy, err = query.ParseColumn(q.Get("sort")); err != nil {
		return p, err
	}
	if v := q.Get("desc"); v != "" {
		if p.Descending, err = strconv.ParseBool(v); err != nil {
			return p, errors.New("desc must be a boolean")
		}
	}
	if p.Offset, err = intParam(q.Get("offset")); err != nil {
		return p, errors.New("offset must be a non-negative number")
	}
	if p.Limit, err = intParam(q.Get("limit")); err != nil {
		return p, errors.New("limit must be a non-negative number")
	}
	return p, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.New("invalid")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// requestLogger logs one line per request through the global zerolog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
