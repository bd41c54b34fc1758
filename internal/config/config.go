package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string `yaml:"app_env"`
	ServerPort string `yaml:"server_port"`

	DBDriver string `yaml:"db_driver"` // mysql, postgres or sqlite
	DBDSN    string `yaml:"db_dsn"`
	ResetDB  bool   `yaml:"reset_db"`

	// ContactStore selects the backing store of the contact-unlock core: sql or memory.
	ContactStore string `yaml:"contact_store"`

	RedisAddr string `yaml:"redis_addr"`
	RedisDB   int    `yaml:"redis_db"`
	RedisPass string `yaml:"redis_password"`

	JWTSecret string `yaml:"jwt_secret"`

	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	HealthCheckSpec string `yaml:"health_check_spec"`

	AnalyticsBatchSize     int           `yaml:"analytics_batch_size"`
	AnalyticsFlushInterval time.Duration `yaml:"analytics_flush_interval"`

	RetryAttempts int           `yaml:"retry_attempts"`
	RetryDelay    time.Duration `yaml:"retry_delay"`

	SwaggerHost string `yaml:"swagger_host"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() *Config {
	return &Config{
		AppEnv:                 "development",
		ServerPort:             "8080",
		DBDriver:               "mysql",
		DBDSN:                  "user:password@tcp(localhost:3306)/truckrecruit?charset=utf8mb4&parseTime=True&loc=UTC",
		ContactStore:           "sql",
		RedisAddr:              "localhost:6379",
		JWTSecret:              "change-me",
		AMQPExchange:           "truckrecruit.events",
		HealthCheckSpec:        "@every 5m",
		AnalyticsBatchSize:     10,
		AnalyticsFlushInterval: 5 * time.Second,
		RetryAttempts:          3,
		RetryDelay:             time.Second,
	}
}

// Load builds Config from, in increasing precedence: defaults, the yaml file named by
// CONFIG_FILE, a .env file in the working directory, and the process environment.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)
	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBDSN = getEnv("DB_DSN", cfg.DBDSN)
	cfg.ResetDB = getEnvBool("RESET_DB", cfg.ResetDB)
	cfg.ContactStore = getEnv("CONTACT_STORE", cfg.ContactStore)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = getEnvInt("REDIS_DB", cfg.RedisDB)
	cfg.RedisPass = getEnv("REDIS_PASSWORD", cfg.RedisPass)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.HealthCheckSpec = getEnv("HEALTH_CHECK_SPEC", cfg.HealthCheckSpec)
	cfg.AnalyticsBatchSize = getEnvInt("ANALYTICS_BATCH_SIZE", cfg.AnalyticsBatchSize)
	cfg.AnalyticsFlushInterval = getEnvDuration("ANALYTICS_FLUSH_INTERVAL", cfg.AnalyticsFlushInterval)
	cfg.RetryAttempts = getEnvInt("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDuration("RETRY_DELAY", cfg.RetryDelay)
	cfg.SwaggerHost = getEnv("SWAGGER_HOST", cfg.SwaggerHost)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
