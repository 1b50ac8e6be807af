package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/plateforge/plateforge/pkg/compositor"
	"github.com/plateforge/plateforge/pkg/effects/compose"
	"github.com/plateforge/plateforge/pkg/fonts"
	"github.com/plateforge/plateforge/pkg/pipeline"
	"github.com/plateforge/plateforge/pkg/plate"
)

const (
	// maxAPICount caps per-request batch sizes; bigger datasets belong
	// in a CLI run.
	maxAPICount = 500

	serveShutdownTimeout = 10 * time.Second
)

// serveCommand creates the serve command exposing generation over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		Long: `Serve the generation API over HTTP.

Endpoints:
  GET  /healthz          liveness probe
  GET  /api/presets      list effect presets
  GET  /api/effects      list catalog effects
  GET  /api/plate        render one plate image (query: type, province, seed)
  POST /api/generate     run a batch (JSON body, same fields as the CLI flags)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the base plate cache")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, addr string, noCache bool) error {
	runner, err := c.newRunner(cmd, noCache, "")
	if err != nil {
		return err
	}
	defer runner.Close()

	s := &apiServer{cli: c, runner: runner}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)
		r.Get("/effects", s.handleEffects)
		r.Get("/plate", s.handlePlate)
		r.Post("/generate", s.handleGenerate)
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-cmd.Context().Done():
		c.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return cmd.Context().Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// =============================================================================
// API Server
// =============================================================================

type apiServer struct {
	cli    *CLI
	runner *pipeline.Runner
}

func (s *apiServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cli.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handlePresets(w http.ResponseWriter, r *http.Request) {
	type preset struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Always      []string `json:"always,omitempty"`
	}
	var out []preset
	for _, p := range compose.Presets() {
		out = append(out, preset{Name: p.Name, Description: p.Description, Always: p.Options.Force})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *apiServer) handleEffects(w http.ResponseWriter, r *http.Request) {
	type effect struct {
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		Probability float64  `json:"probability"`
		Effective   float64  `json:"effective_probability"`
		Conflicts   []string `json:"conflicts,omitempty"`
		Enabled     bool     `json:"enabled"`
	}
	cat := s.runner.Catalog
	var out []effect
	for _, name := range cat.Names() {
		d, _ := cat.Get(name)
		out = append(out, effect{
			Name:        d.Name,
			Category:    string(d.Category),
			Probability: d.Probability,
			Effective:   cat.EffectiveProbability(d.Name),
			Conflicts:   compose.Conflicts(d.Name),
			Enabled:     d.Enabled,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handlePlate renders a single plate and returns it as a PNG. Intended
// for quick previews and catalog tuning.
func (s *apiServer) handlePlate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	genOpts := plate.GenerateOptions{
		Type:     plate.Type(q.Get("type")),
		Province: q.Get("province"),
	}
	if genOpts.Type == "" {
		genOpts.Type = plate.TypeOrdinarySmall
	}

	var seed uint64
	if _, err := fmt.Sscanf(q.Get("seed"), "%d", &seed); err != nil || seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	number, err := plate.Generate(rng, genOpts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	comp, err := compositor.New(fonts.NewManager(s.cli.Config.FontDirs...), compositor.Options{
		HanFont:   s.cli.Config.HanFont,
		LatinFont: s.cli.Config.LatinFont,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	img, err := comp.Compose(number)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if q.Get("effects") == "true" {
		engine := compose.NewEngine(s.runner.Catalog, compose.WithSeed(seed))
		if img, _, err = engine.Apply(img, compose.DefaultOptions()); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	data, err := compositor.EncodeBytes(img, compositor.FormatPNG)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Plate-Number", number.String())
	_, _ = w.Write(data)
}

func (s *apiServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse request: %w", err))
		return
	}
	if opts.Count > maxAPICount {
		writeError(w, http.StatusBadRequest, fmt.Errorf("count exceeds API limit of %d", maxAPICount))
		return
	}
	opts.Logger = s.cli.Logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    result.RunID,
		"seed":      result.Seed,
		"generated": result.Generated,
		"failed":    result.Failed,
		"files":     result.Files,
		"duration":  result.Duration.String(),
	})
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
