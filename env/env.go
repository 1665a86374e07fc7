package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

type Env struct {
	Server    ServerConfig
	SQLite    SQLiteConfig
	MongoDB   MongoDBConfig
	Upload    UploadConfig
	Analytics AnalyticsConfig
}

type ServerConfig struct {
	Port int
}

type SQLiteConfig struct {
	DSN string
}

// MongoDBConfig configures the import journal, it is disabled when URI is empty.
type MongoDBConfig struct {
	URI string
	DB  string
}

func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

type UploadConfig struct {
	AllowedExtensions []string
	MaxBytes          int64
}

type AnalyticsConfig struct {
	Limit int
}

const (
	defaultServerPort     = 8080
	defaultSQLiteDSN      = "file:bookshelf.db?_foreign_keys=on"
	defaultMongoDBName    = "bookshelf"
	defaultExtensions     = "txt"
	defaultMaxUploadBytes = 1 << 20
	defaultAnalyticsLimit = 5
)

// Load reads configuration from the environment. Values in a .env file named by files,
// or ./.env when none is given, are loaded first without overriding variables already set.
func Load(files ...string) (*Env, error) {

	if err := godotenv.Load(files...); err != nil {
		if len(files) > 0 || !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
		slog.Debug("No .env file found, using system environment")
	}

	serverPort, err := getInt("SERVER_PORT", defaultServerPort)
	if err != nil {
		return nil, err
	}

	maxUploadBytes, err := getInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)
	if err != nil {
		return nil, err
	}

	analyticsLimit, err := getInt("ANALYTICS_LIMIT", defaultAnalyticsLimit)
	if err != nil {
		return nil, err
	}

	extensions := lo.Compact(lo.Map(strings.Split(GetEnv("ALLOWED_EXTENSIONS", defaultExtensions), ","), func(ext string, _ int) string {
		return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	}))

	return &Env{
		Server: ServerConfig{
			Port: serverPort,
		},
		SQLite: SQLiteConfig{
			DSN: GetEnv("SQLITE_DSN", defaultSQLiteDSN),
		},
		MongoDB: MongoDBConfig{
			URI: GetEnv("MONGODB_URI"),
			DB:  GetEnv("MONGODB_NAME", defaultMongoDBName),
		},
		Upload: UploadConfig{
			AllowedExtensions: extensions,
			MaxBytes:          int64(maxUploadBytes),
		},
		Analytics: AnalyticsConfig{
			Limit: analyticsLimit,
		},
	}, nil
}

func GetEnv(key string, defaultValue ...string) string {

	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}

	return value
}

func getInt(key string, defaultValue int) (int, error) {

	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return parsed, nil
}
