package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	appai "github.com/bryanwahyu/accessiscan/internal/application/ai"
	appscans "github.com/bryanwahyu/accessiscan/internal/application/scans"
	domai "github.com/bryanwahyu/accessiscan/internal/domain/ai"
	domain "github.com/bryanwahyu/accessiscan/internal/domain/scans"
	"github.com/bryanwahyu/accessiscan/internal/infra/engine"
	"github.com/bryanwahyu/accessiscan/internal/middleware"
)

// Options wires the router's collaborators. Only Scans is required.
type Options struct {
	Scans               *appscans.Service
	AI                  *appai.Service
	Checkers            map[string]middleware.HealthChecker
	AllowedOrigins      []string
	AllowPrivateTargets bool
	RateCapacity        int
	RateRefillPerSecond int
}

type Router struct {
	scansSvc     *appscans.Service
	aiSvc        *appai.Service
	allowPrivate bool
	origins      []string
	watchers     *watchers
	limiter      *middleware.RateLimiter
	mux          chi.Router
}

// errBadRequest marks malformed input that no domain error covers.
var errBadRequest = errors.New("bad request")

func NewRouter(o Options) *Router {
	r := &Router{
		scansSvc:     o.Scans,
		aiSvc:        o.AI,
		allowPrivate: o.AllowPrivateTargets,
		origins:      o.AllowedOrigins,
		watchers:     newWatchers(),
	}
	capacity, refill := o.RateCapacity, o.RateRefillPerSecond
	if capacity <= 0 {
		capacity = 10
	}
	if refill <= 0 {
		refill = 1
	}
	r.limiter = middleware.NewRateLimiter(capacity, refill)

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Get("/healthz", middleware.HealthHandler(o.Checkers))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.With(middleware.RateLimitMiddleware(r.limiter)).
			Post("/scans", r.wrap(r.handleStartScan))
		rt.Get("/scans", r.wrap(r.handleHistory))
		rt.Get("/summary", r.wrap(r.handleSummary))

		rt.Route("/scans/{id}", func(rt chi.Router) {
			rt.Get("/", r.wrap(r.handleGet))
			rt.Get("/report", r.wrap(r.handleReport))
			rt.Get("/pdf", r.wrap(r.handlePDF))
			rt.Post("/archive", r.wrap(r.handleArchive))
			rt.Post("/advice", r.wrap(r.handleAdvice))
			rt.Get("/progress", r.handleProgress)
		})
	})

	r.mux = mux
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Close stops every background watcher and the rate limiter sweeper, and
// waits for them to exit.
func (r *Router) Close() {
	r.watchers.close()
	r.limiter.Stop()
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				log.Printf("request_id=%s path=%s err=%q detail=%q",
					middleware.RequestID(req.Context()), req.URL.Path, err, engine.Detail(err))
			}
			http.Error(w, err.Error(), status)
		}
	}
}

func statusFor(err error) int {
	var engErr *engine.Error
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidURL),
		errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, engine.ErrReportNotReady):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrScanNotCompleted):
		return http.StatusConflict
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrArchiveDisabled),
		errors.Is(err, domai.ErrDisabled):
		return http.StatusNotImplemented
	case errors.As(err, &engErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func scanIDParam(req *http.Request) (domain.ScanID, error) {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateScanID(id); err != nil {
		return "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return domain.ScanID(id), nil
}

// POST /v1/scans
// Body: {"url": "https://example.com", "name": "Example"}
func (r *Router) handleStartScan(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<16)).Decode(&body); err != nil {
		return fmt.Errorf("%w: invalid JSON body", errBadRequest)
	}
	if err := middleware.ValidateURL(body.URL, r.allowPrivate); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidURL, err)
	}

	res, err := r.scansSvc.StartScan(req.Context(), appscans.StartScanCommand{
		URL:  strings.TrimSpace(body.URL),
		Name: middleware.SanitizeString(body.Name),
	})
	if err != nil {
		return err
	}
	middleware.IncrementScansSubmitted()
	r.watch(res.Scan.ID)

	return writeJSON(w, http.StatusCreated, res)
}

// GET /v1/scans?page=&page_size=&status=&website=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	page := middleware.ValidatePage(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	size = middleware.ValidateLimit(size)

	status, err := parseStatus(q.Get("status"))
	if err != nil {
		return err
	}
	res, err := r.scansSvc.History(req.Context(), page, size, domain.Filter{
		Status:  status,
		Website: middleware.SanitizeString(q.Get("website")),
	})
	if err != nil {
		return err
	}
	if res.Data == nil {
		res.Data = []*domain.TrackedScan{}
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/summary
func (r *Router) handleSummary(w http.ResponseWriter, req *http.Request) error {
	sum, err := r.scansSvc.Summary(req.Context())
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, sum)
}

// GET /v1/scans/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	scan, err := r.scansSvc.Get(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, scan)
}

// GET /v1/scans/{id}/report?severity=
func (r *Router) handleReport(w http.ResponseWriter, req *http.Request) error {
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	rep, err := r.scansSvc.Report(req.Context(), id, req.URL.Query().Get("severity"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, rep)
}

// GET /v1/scans/{id}/pdf
func (r *Router) handlePDF(w http.ResponseWriter, req *http.Request) error {
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	pw := &pdfWriter{w: w, filename: appscans.PDFFileName(id)}
	if _, err := r.scansSvc.DownloadPDF(req.Context(), id, pw); err != nil {
		if !pw.started {
			return err
		}
		// headers are gone; the client sees a truncated body
		log.Printf("request_id=%s msg=\"pdf stream aborted\" scan=%s err=%v",
			middleware.RequestID(req.Context()), id, err)
		return nil
	}
	// empty document
	pw.start()
	return nil
}

// POST /v1/scans/{id}/archive
func (r *Router) handleArchive(w http.ResponseWriter, req *http.Request) error {
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	url, err := r.scansSvc.ArchivePDF(req.Context(), id)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// POST /v1/scans/{id}/advice
func (r *Router) handleAdvice(w http.ResponseWriter, req *http.Request) error {
	if !r.aiSvc.Enabled() {
		return domai.ErrDisabled
	}
	id, err := scanIDParam(req)
	if err != nil {
		return err
	}
	rep, err := r.scansSvc.Report(req.Context(), id, "")
	if err != nil {
		return err
	}
	advice, err := r.aiSvc.Advise(req.Context(), rep)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	_, err = w.Write([]byte(advice))
	return err
}

func parseStatus(raw string) (domain.Status, error) {
	switch s := domain.Status(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return "", nil
	case domain.StatusQueued, domain.StatusProcessing, domain.StatusCompleted, domain.StatusFailed:
		return s, nil
	default:
		return "", fmt.Errorf("%w: unknown status %q", domain.ErrInvalidFilter, raw)
	}
}

// pdfWriter defers the PDF headers until the first byte arrives so an
// engine error can still be reported with a proper status.
type pdfWriter struct {
	w        http.ResponseWriter
	filename string
	started  bool
}

func (p *pdfWriter) start() {
	if p.started {
		return
	}
	p.started = true
	h := p.w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", p.filename))
	p.w.WriteHeader(http.StatusOK)
}

func (p *pdfWriter) Write(b []byte) (int, error) {
	p.start()
	return p.w.Write(b)
}
