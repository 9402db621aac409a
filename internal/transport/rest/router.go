package rest

import (
	"net/http"
	"strings"

	_ "descontamina/docs"
	"descontamina/internal/cache"
	"descontamina/internal/catalog"
	"descontamina/internal/service"
	"descontamina/internal/transport/rest/handler"
	"descontamina/internal/transport/rest/middleware"
	"descontamina/internal/view"

	"github.com/gorilla/mux"
	"github.com/m-mizutani/goerr/v2"
	"github.com/swaggo/swag"
	"go.uber.org/zap"
)

const (
	routeReport = "report"
	submitPath  = "/api/submit_diagnosis"
	submitScope = "submit"
	apiDocsName = "swagger"
)

// Container holds all dependencies for the router
type Container struct {
	Catalog     *catalog.Catalog
	Submissions *service.SubmissionService
	Reports     *service.ReportService
	Renderer    *view.Renderer
	Logger      *zap.Logger

	// RateLimit may be nil, which disables submission limiting
	RateLimit       cache.RateLimitCache
	SubmitPerMinute int

	PublicBaseURL      string
	CalLink            string
	CORSAllowedOrigins []string
	// TrustedProxies are the IPs or CIDR ranges whose X-Forwarded-For is believed
	TrustedProxies     []string
}

// NewRouter creates the router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	pageHandler := handler.NewPageHandler(c.Renderer, c.Catalog, submitPath, c.CalLink, c.Logger)
	diagnosisHandler := handler.NewDiagnosisHandler(c.Submissions, reportURLBuilder(r, c.PublicBaseURL), c.Logger)
	reportHandler := handler.NewReportHandler(c.Reports, c.Renderer, c.Logger)

	// Initialize middleware
	trusted, err := middleware.ParseTrustedProxies(c.TrustedProxies)
	if err != nil {
		c.Logger.Warn("ignoring trusted proxies, keying rate limits on peer address", zap.Error(err))
		trusted = nil
	}
	limiter := middleware.NewRateLimiter(c.RateLimit, submitScope, c.SubmitPerMinute, trusted, c.Logger)

	r.Use(middleware.Recovery(c.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(c.Logger))
	r.Use(middleware.CORS(c.CORSAllowedOrigins))

	// Pages
	r.HandleFunc("/", pageHandler.Landing).Methods("GET")
	r.HandleFunc("/diagnostico", pageHandler.Survey).Methods("GET")
	r.HandleFunc("/agenda", pageHandler.Schedule).Methods("GET")
	r.HandleFunc("/relatorio/{ref}", reportHandler.Get).Methods("GET").Name(routeReport)

	// API
	api := r.PathPrefix("/api").Subrouter()
	api.Handle("/submit_diagnosis", limiter.Limit(http.HandlerFunc(diagnosisHandler.Submit))).Methods("POST", "OPTIONS")
	api.HandleFunc("/schedule_meeting", handler.ScheduleMeeting).Methods("POST", "OPTIONS")
	api.HandleFunc("/webhook/cal", handler.CalWebhook).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/swagger/doc.json", apiDocs(c.Logger)).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(pageHandler.NotFound)

	return r
}

// reportURLBuilder resolves the named report route against the public base
// URL, or against the request's own scheme and host when none is configured.
func reportURLBuilder(r *mux.Router, publicBaseURL string) handler.ReportURLFunc {
	return func(req *http.Request, ref string) (string, error) {
		u, err := r.Get(routeReport).URL("ref", ref)
		if err != nil {
			return "", goerr.Wrap(err, "failed to build report url")
		}
		base := publicBaseURL
		if base == "" {
			base = requestScheme(req) + "://" + req.Host
		}
		return strings.TrimRight(base, "/") + u.Path, nil
	}
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func apiDocs(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc(apiDocsName)
		if err != nil {
			logger.Error("api document unavailable", zap.Error(err))
			http.Error(w, "api document unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	}
}
