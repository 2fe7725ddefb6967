// Package server wraps the expedition selector in a small JSON-over-HTTP
// surface. The selector itself stays a pure function; this layer only parses
// requests, loads datasets, and shapes responses.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"expedition-backend/internal/dataset"
	"expedition-backend/internal/expedition"
)

type Server struct {
	loader      *dataset.Loader
	log         *zap.Logger
	maxAttempts int
	watcher     *dataset.Watcher
}

// New creates a server over the datasets in cfg.DataDir. Datasets load
// lazily on the first request and are shared by all requests afterwards.
// With a WatchInterval the dataset files are polled and reloaded on change.
func New(cfg Config, log *zap.Logger) *Server {
	s := &Server{
		loader:      dataset.NewLoader(cfg.DataDir),
		log:         log,
		maxAttempts: cfg.MaxAttempts,
	}
	if cfg.WatchInterval > 0 {
		s.watcher = dataset.NewWatcher(dataset.Paths{BaseDir: cfg.DataDir}, cfg.WatchInterval, func(path string) {
			log.Info("dataset changed, reloading", zap.String("path", path))
			s.loader.Invalidate()
		})
		s.watcher.Start()
	}
	return s
}

// Close stops the dataset watcher when one is running.
func (s *Server) Close() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
}

// Routes returns the handler mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/select", s.handleSelect)
	mux.HandleFunc("/replace", s.handleReplace)
	mux.HandleFunc("/content", s.handleContent)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// selectParams mirrors the CLI-shaped request parameters. Lists accept JSON
// arrays in a POST body or comma-separated strings in query params.
type selectParams struct {
	MageCount      int      `json:"mage_count"`
	Length         string   `json:"length"`
	ContentWaves   []string `json:"content_waves"`
	ContentBoxes   []string `json:"content_boxes"`
	Strictness     string   `json:"strictness"`
	Seed           *int64   `json:"seed"`
	MaxAttempts    int      `json:"max_attempts"`
	SettingWave    string   `json:"setting_wave"`
	SettingVariant string   `json:"setting_variant"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params, err := s.selectParamsFrom(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	col, err := s.loader.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}

	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = s.maxAttempts
	}
	packet, err := expedition.Select(col, expedition.Request{
		MageCount:      params.MageCount,
		Length:         expedition.Length(params.Length),
		Strictness:     expedition.Strictness(params.Strictness),
		ContentWaves:   params.ContentWaves,
		ContentBoxes:   params.ContentBoxes,
		Seed:           params.Seed,
		MaxAttempts:    maxAttempts,
		SettingWave:    params.SettingWave,
		SettingVariant: params.SettingVariant,
	})
	if err != nil {
		s.logOutcome("select", start, err)
		s.writeError(w, err)
		return
	}

	s.log.Info("select",
		zap.Int("mage_count", params.MageCount),
		zap.String("length", string(packet.Meta.Inputs.Length)),
		zap.Int("attempts", packet.Meta.AttemptsTaken),
		zap.Duration("took", time.Since(start)),
	)
	writeJSON(w, http.StatusOK, packet)
}

type replaceParams struct {
	ExistingNames []string `json:"existing_mage_names"`
	ContentWaves  []string `json:"content_waves"`
	ContentBoxes  []string `json:"content_boxes"`
	Seed          *int64   `json:"seed"`
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var params replaceParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, badRequest("invalid JSON body"))
		return
	}
	col, err := s.loader.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	rep, err := expedition.ReplaceMage(col, expedition.ReplaceRequest{
		ExistingNames: params.ExistingNames,
		ContentWaves:  params.ContentWaves,
		ContentBoxes:  params.ContentBoxes,
		Seed:          params.Seed,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	col, err := s.loader.Load()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expedition.Content(col))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// selectParamsFrom accepts a JSON POST body or GET query parameters.
func (s *Server) selectParamsFrom(r *http.Request) (selectParams, error) {
	var p selectParams
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			return p, badRequest("invalid JSON body")
		}
		return p, nil
	}

	q := r.URL.Query()
	n, ok, msg := parseInt(q.Get("mage_count"))
	if msg != "" {
		return p, badRequest("invalid mage_count")
	}
	if !ok {
		return p, badRequest("missing param mage_count")
	}
	p.MageCount = n
	p.Length = q.Get("length")
	p.Strictness = q.Get("strictness")
	p.ContentWaves = splitCSV(q.Get("content_waves"))
	p.ContentBoxes = splitCSV(q.Get("content_boxes"))
	p.SettingWave = q.Get("setting_wave")
	p.SettingVariant = q.Get("setting_variant")
	if v, ok, msg := parseInt(q.Get("max_attempts")); msg != "" {
		return p, badRequest("invalid max_attempts")
	} else if ok {
		p.MaxAttempts = v
	}
	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return p, badRequest("invalid seed")
		}
		p.Seed = &seed
	}
	return p, nil
}

func parseInt(s string) (int, bool, string) {
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid integer"
	}
	return v, true, ""
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type errResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind"`
	Violations []string `json:"violations,omitempty"`
}

type requestError struct{ msg string }

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error { return &requestError{msg: msg} }

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	resp := errResponse{Error: err.Error(), Kind: "internal"}

	var (
		scopeErr   *expedition.ScopeError
		poolErr    *expedition.InsufficientPoolError
		exhausted  *expedition.CollisionExhaustedError
		badData    *dataset.ValidationError
		badSetting *expedition.UnknownSettingError
		badReq     *requestError
	)
	switch {
	case errors.As(err, &badReq),
		errors.Is(err, expedition.ErrInvalidLength),
		errors.Is(err, expedition.ErrInvalidStrictness),
		errors.Is(err, expedition.ErrInvalidMageCount),
		errors.Is(err, expedition.ErrVariantWithoutWave):
		status, resp.Kind = http.StatusBadRequest, "invalid_request"
	case errors.As(err, &badSetting):
		status, resp.Kind = http.StatusBadRequest, "unknown_setting"
	case errors.As(err, &scopeErr):
		status, resp.Kind = http.StatusBadRequest, "scope"
	case errors.As(err, &poolErr):
		status, resp.Kind = http.StatusUnprocessableEntity, "insufficient_pool"
	case errors.As(err, &exhausted):
		status, resp.Kind = http.StatusUnprocessableEntity, "collision_exhausted"
		for _, v := range exhausted.LastViolations {
			resp.Violations = append(resp.Violations, v.String())
		}
	case errors.As(err, &badData):
		resp.Kind = "dataset"
	}

	if status >= 500 {
		s.log.Error("request failed", zap.String("kind", resp.Kind), zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func (s *Server) logOutcome(route string, start time.Time, err error) {
	s.log.Warn(route+" failed", zap.Error(err), zap.Duration("took", time.Since(start)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
