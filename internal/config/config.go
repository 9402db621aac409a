package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreMongo     = "mongo"
	StoreFirestore = "firestore"
	StoreMemory    = "memory"
	StoreNone      = "none"
)

const DefaultCalLink = "https://cal.com/movemind-treinamento-lm9pd0/move"

// Config holds the process configuration read from the environment
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	Store StoreConfig
	Redis RedisConfig
	AI    *AIConfig

	SearchAPIKey string
	SearchCX     string

	PipedriveAPIKey string
	PipedriveDomain string

	ReportSigningSecret string
	CalLink             string
	ConsultantPhotoPath string

	SentryDSN          string
	CORSAllowedOrigins []string
	TrustedProxies     []string
}

// StoreConfig selects and addresses the document store
type StoreConfig struct {
	Backend             string
	MongoURI            string
	MongoDatabase       string
	FirestoreProjectID  string
	FirestoreDatabaseID string
}

// RedisConfig addresses the rate limit counter store
type RedisConfig struct {
	URI             string
	SubmitPerMinute int
}

// Load reads the configuration. A .env file in the working directory is
// applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "production"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		Store: StoreConfig{
			MongoURI:            os.Getenv("MONGO_URI"),
			MongoDatabase:       getEnv("MONGO_DATABASE", "descontamina"),
			FirestoreProjectID:  os.Getenv("FIRESTORE_PROJECT_ID"),
			FirestoreDatabaseID: getEnv("FIRESTORE_DATABASE_ID", "descontamina"),
		},
		Redis: RedisConfig{
			URI:             os.Getenv("REDIS_URI"),
			SubmitPerMinute: getEnvInt("SUBMIT_RATE_LIMIT", 10),
		},
		AI:                  DefaultAIConfig(),
		SearchAPIKey:        os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchCX:            os.Getenv("GOOGLE_SEARCH_CX"),
		PipedriveAPIKey:     os.Getenv("PIPEDRIVE_API_KEY"),
		PipedriveDomain:     os.Getenv("PIPEDRIVE_DOMAIN"),
		ReportSigningSecret: os.Getenv("REPORT_SIGNING_SECRET"),
		CalLink:             strings.TrimSpace(getEnv("CAL_DIRECT_LINK", DefaultCalLink)),
		ConsultantPhotoPath: os.Getenv("CONSULTANT_PHOTO_PATH"),
		SentryDSN:           os.Getenv("SENTRY_DSN"),
		CORSAllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		TrustedProxies:      splitList(os.Getenv("TRUSTED_PROXIES")),
	}
	cfg.Store.Backend = resolveBackend(os.Getenv("STORE_BACKEND"), cfg.Store)
	return cfg
}

func resolveBackend(explicit string, s StoreConfig) string {
	switch b := strings.ToLower(strings.TrimSpace(explicit)); b {
	case StoreMongo, StoreFirestore, StoreMemory, StoreNone:
		return b
	}
	if s.MongoURI != "" {
		return StoreMongo
	}
	if s.FirestoreProjectID != "" {
		return StoreFirestore
	}
	return StoreNone
}

// IsDev reports whether the process runs in local development mode
func (c *Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// SearchEnabled reports whether the case study search is configured
func (c *Config) SearchEnabled() bool {
	return c.SearchAPIKey != "" && c.SearchCX != ""
}

// CRMEnabled reports whether the Pipedrive push is configured
func (c *Config) CRMEnabled() bool {
	return c.PipedriveAPIKey != "" && c.PipedriveDomain != ""
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
