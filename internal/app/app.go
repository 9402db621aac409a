package app

import (
	"context"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	"descontamina/internal/cache"
	"descontamina/internal/catalog"
	"descontamina/internal/config"
	"descontamina/internal/repository"
	"descontamina/internal/service"
	"descontamina/internal/transport/rest"
	"descontamina/internal/view"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	searchTimeout   = 8 * time.Second
	rateLimitWindow = time.Minute
)

// App is the wired process: store, collaborators, services and router
type App struct {
	Config      *config.Config
	Catalog     *catalog.Catalog
	Repo        repository.DiagnosisRepo
	Redis       *redis.Client
	Submissions *service.SubmissionService
	Reports     *service.ReportService
	Handler     http.Handler

	logger *zap.Logger
}

// New connects every configured backend and builds the services. Optional
// collaborators that are not configured are left out and logged.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, err
	}

	repo, err := repository.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Catalog: cat, Repo: repo, logger: logger}

	var limiter cache.RateLimitCache
	if cfg.Redis.URI != "" {
		rdb, err := newRedisClient(ctx, cfg.Redis.URI)
		if err != nil {
			logger.Warn("redis unavailable, submissions are not rate limited", zap.Error(err))
		} else {
			a.Redis = rdb
			limiter = cache.NewRateLimitCache(rdb, rateLimitWindow)
			logger.Info("connected to Redis")
		}
	}

	generator, err := newGenerator(ctx, cfg.AI)
	if err != nil {
		logger.Warn("text generation unavailable, using fallback narratives", zap.Error(err))
	}

	var searcher service.Searcher
	if cfg.SearchEnabled() {
		sc, err := service.NewSearchClient(ctx, cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			logger.Warn("search unavailable, using default case study", zap.Error(err))
		} else {
			searcher = sc
		}
	} else {
		logger.Info("search not configured, using default case study")
	}

	refs := service.NewReferenceCodec(cfg.ReportSigningSecret)
	crm := service.NewPipedriveClient(cfg.PipedriveAPIKey, cfg.PipedriveDomain, logger)

	narrative := service.NewNarrativeService(cat, generator, cfg.AI.Timeout(), logger)
	caseStudy := service.NewCaseStudyService(cat, searcher, searchTimeout, logger)
	composer := service.NewComposer(cat, narrative, caseStudy)

	a.Submissions = service.NewSubmissionService(cat, repo, crm, refs, logger)
	a.Reports = service.NewReportService(cat, repo, composer, refs, service.ReportOptions{
		CalLink:       cfg.CalLink,
		ConsultantB64: loadConsultantPhoto(cfg.ConsultantPhotoPath, logger),
	}, logger)

	renderer, err := view.NewRenderer()
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.Handler = rest.NewRouter(&rest.Container{
		Catalog:            cat,
		Submissions:        a.Submissions,
		Reports:            a.Reports,
		Renderer:           renderer,
		Logger:             logger,
		RateLimit:          limiter,
		SubmitPerMinute:    cfg.Redis.SubmitPerMinute,
		PublicBaseURL:      cfg.PublicBaseURL,
		CalLink:            cfg.CalLink,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
	})
	return a, nil
}

// Close waits for background CRM pushes and releases the store clients
func (a *App) Close(ctx context.Context) {
	if a.Submissions != nil {
		a.Submissions.Wait()
	}
	if a.Repo != nil {
		if err := a.Repo.Close(ctx); err != nil {
			a.logger.Warn("failed to close document store", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}

// newGenerator returns nil, nil when no API key is set
func newGenerator(ctx context.Context, cfg *config.AIConfig) (service.Generator, error) {
	if !cfg.IsEnabled() {
		return nil, nil
	}
	if cfg.Transport == config.TransportSDK {
		gen, err := service.NewGenAIClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
	return service.NewGeminiClient(cfg), nil
}

func newRedisClient(ctx context.Context, uri string) (*redis.Client, error) {
	var opts *redis.Options
	if strings.Contains(uri, "://") {
		parsed, err := redis.ParseURL(uri)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid REDIS_URI")
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: uri}
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, goerr.Wrap(err, "failed to ping Redis")
	}
	return rdb, nil
}

func loadConsultantPhoto(path string, logger *zap.Logger) string {
	if path == "" {
		return ""
	}
	b, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("consultant photo unavailable", zap.String("path", path), zap.Error(err))
		return ""
	}
	return base64.StdEncoding.EncodeToString(b)
}
