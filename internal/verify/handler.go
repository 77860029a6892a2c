package verify

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/tui-lander/internal/games/lander/sim"
)

// maxBodyBytes caps the size of a validation request body.
const maxBodyBytes = 4 << 10

// ConfigResponse is the body of GET /config.
type ConfigResponse struct {
	Params sim.Params `json:"params"`
	Token  string     `json:"token"`
}

// ValidateResponse is the body of POST /validate.
type ValidateResponse struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

// HandlerOptions configures the HTTP surface.
type HandlerOptions struct {
	// RatePerSecond and Burst configure the per-IP token bucket.
	// A zero rate disables limiting.
	RatePerSecond float64
	Burst         int
	Logger        *log.Logger
}

// DefaultHandlerOptions returns options suitable for a public endpoint.
func DefaultHandlerOptions() HandlerOptions {
	return HandlerOptions{
		RatePerSecond: 5,
		Burst:         10,
	}
}

// NewRouter builds the validator's HTTP routes:
//
//	GET  /config    signed gameplay parameters
//	POST /validate  result validation
//	GET  /health    liveness
func NewRouter(v *Validator, opts HandlerOptions) (http.Handler, error) {
	token, err := v.Token()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(corsMiddleware)
	if opts.RatePerSecond > 0 {
		r.Use(newIPLimiter(rate.Limit(opts.RatePerSecond), opts.Burst).middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	configBody := ConfigResponse{Params: v.Params(), Token: token}
	r.Get("/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, configBody)
	})

	r.Post("/validate", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			reject(w, http.StatusBadRequest, ErrInvalidRequest)
			return
		}
		sub, err := ParseSubmission(data)
		if err != nil {
			reject(w, http.StatusBadRequest, ErrInvalidRequest)
			return
		}

		if err := v.Validate(sub); err != nil {
			var rej *Rejection
			if !errors.As(err, &rej) {
				rej = ErrInvalidRequest
			}
			logger.Debug("result rejected", "reason", rej.Reason, "remote", r.RemoteAddr)
			reject(w, http.StatusBadRequest, rej)
			return
		}
		writeJSON(w, http.StatusOK, ValidateResponse{OK: true})
	})

	return r, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func reject(w http.ResponseWriter, status int, rej *Rejection) {
	writeJSON(w, status, ValidateResponse{OK: false, Reason: rej.Reason})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, POST")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with status and latency.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}

// maxTrackedIPs bounds the limiter table; it is reset when exceeded.
const maxTrackedIPs = 4096

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !l.get(ip).Allow() {
			reject(w, http.StatusTooManyRequests, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
