package handler

import (
	"bufio"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/session"
)

// RequestObserver counts served requests.
type RequestObserver interface {
	HTTPRequest(method, status string)
}

// Services are the application services behind the HTTP API. Stream and
// Metrics are optional; their routes are only mounted when set. Checks are
// reported by /healthz.
type Services struct {
	Market    *service.MarketService
	Portfolio *service.PortfolioService
	Orders    *service.OrderService
	Entry     *service.EntryService
	Funds     *service.FundsService
	Archive   *service.ArchiveService
	Dashboard *service.Dashboard
	Sessions  *session.Manager

	Stream   http.HandlerFunc
	Metrics  http.Handler
	Observer RequestObserver
	Checks   map[string]HealthCheck
}

// NewRouter creates a chi router with all routes registered, request
// logging, CORS, and Content-Type validation middleware. Everything under
// /api requires a session.
func NewRouter(svc Services, corsOrigins []string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware.
	r.Use(requestLogging(logger, svc.Observer))
	r.Use(cors(corsOrigins))
	r.Use(contentTypeJSON)

	authH := NewAuthHandler(svc.Sessions)
	marketH := NewMarketHandler(svc.Market, svc.Archive)
	orderH := NewOrderHandler(svc.Orders, svc.Entry)
	accountH := NewAccountHandler(svc.Portfolio, svc.Dashboard, svc.Funds)
	healthH := NewHealthHandler(svc.Checks)

	// Health check.
	r.Get("/healthz", healthH.HealthCheck)
	if svc.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", svc.Metrics)
	}
	if svc.Stream != nil {
		r.Get("/ws/prices", svc.Stream)
	}

	// Auth routes.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authH.Login)
		r.Post("/signup", authH.Signup)
		r.Post("/social/{provider}", authH.SocialLogin)
		r.Post("/logout", authH.Logout)
		r.With(requireSession(svc.Sessions)).Get("/session", authH.Session)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireSession(svc.Sessions))

		r.Get("/dashboard", accountH.Dashboard)

		// Market routes.
		r.Get("/instruments", marketH.List)
		r.Get("/instruments/{id}", marketH.Get)
		r.Get("/instruments/{id}/candles", marketH.Candles)
		r.Post("/instruments/{id}/candles/archive", marketH.Archive)
		r.Get("/market/stats", marketH.Stats)

		// Account routes.
		r.Get("/portfolio", accountH.Portfolio)
		r.Post("/funds/deposit", accountH.Deposit)
		r.Post("/funds/withdraw", accountH.Withdraw)
		r.Get("/funds/transfers", accountH.Transfers)

		// Order routes.
		r.Get("/orders", orderH.List)
		r.Get("/orders/{order_id}", orderH.Get)
		r.Post("/orders", orderH.Submit)
		r.Post("/trade/{id}/entry", orderH.Entry)
	})

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration using slog. observer may be nil.
func requestLogging(logger *slog.Logger, observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
			if observer != nil {
				observer.HTTPRequest(r.Method, strconv.Itoa(ww.status))
			}
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Hijack passes through to the underlying writer for websocket upgrades.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("handler: response writer does not support hijacking")
	}
	if !w.wroteHeader {
		w.status = http.StatusSwitchingProtocols
		w.wroteHeader = true
	}
	return h.Hijack()
}

// contentTypeJSON is middleware that validates Content-Type for POST, PUT, and
// PATCH requests that carry a body. If the Content-Type header doesn't start
// with "application/json", it returns 400 Bad Request before the handler runs.
func contentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if r.ContentLength != 0 && (ct == "" || !strings.HasPrefix(ct, "application/json")) {
				WriteError(w, http.StatusBadRequest, "invalid_request",
					"Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// cors sets CORS headers for allowed origins and answers preflight
// requests. An empty list or "*" allows every origin.
func cors(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && originAllowed(allowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.Header().Add("Vary", "Origin")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, o := range allowed {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// requireSession rejects requests without a live session and stores the
// session in the request context.
func requireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessions.Get(r.Context(), bearerToken(r))
			if err != nil {
				mapError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// bearerToken extracts the token from an "Authorization: Bearer" header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
