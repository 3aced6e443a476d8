// backend-go/internal/config/config.go
package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Engine   EngineConfig
	Batch    BatchConfig
	Reports  ReportsConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	DecisionTTLSeconds int
}

// EngineConfig carries the replenishment tunables. Everything here was
// once a hard-coded policy value; it is injected into the engine at
// construction time so deployments can override per environment.
type EngineConfig struct {
	DefaultServiceLevel     float64
	DefaultLeadTimeDays     float64
	DefaultLeadTimeStdDev   float64
	DefaultCostPerOrder     float64
	HoldingCostRate         float64
	TransferBufferUnits     int
	TransferCostPerMile     float64
	TransferMinHandlingCost float64
	TransferRadiusMiles     float64
	TransferMaxResults      int
}

type BatchConfig struct {
	Workers            int
	PairTimeoutSeconds int
}

type ReportsConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 15)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "replenish")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_DECISION_TTL_SECONDS", 300)
		viper.SetDefault("ENGINE_DEFAULT_SERVICE_LEVEL", 0.95)
		viper.SetDefault("ENGINE_DEFAULT_LEAD_TIME_DAYS", 7.0)
		viper.SetDefault("ENGINE_DEFAULT_LEAD_TIME_STD_DEV", 2.0)
		viper.SetDefault("ENGINE_DEFAULT_COST_PER_ORDER", 50.0)
		viper.SetDefault("ENGINE_HOLDING_COST_RATE", 0.25)
		viper.SetDefault("ENGINE_TRANSFER_BUFFER_UNITS", 20)
		viper.SetDefault("ENGINE_TRANSFER_COST_PER_MILE", 0.50)
		viper.SetDefault("ENGINE_TRANSFER_MIN_HANDLING_COST", 10.0)
		viper.SetDefault("ENGINE_TRANSFER_RADIUS_MILES", 75.0)
		viper.SetDefault("ENGINE_TRANSFER_MAX_RESULTS", 3)
		viper.SetDefault("BATCH_WORKERS", 8)
		viper.SetDefault("BATCH_PAIR_TIMEOUT_SECONDS", 30)
		viper.SetDefault("REPORTS_ENABLED", false)
		viper.SetDefault("REPORTS_ENDPOINT", "")
		viper.SetDefault("REPORTS_ACCESS_KEY", "")
		viper.SetDefault("REPORTS_SECRET_KEY", "")
		viper.SetDefault("REPORTS_BUCKET", "")
		viper.SetDefault("REPORTS_REGION", "us-east-1")
		viper.SetDefault("REPORTS_USE_SSL", true)

		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				DecisionTTLSeconds: viper.GetInt("CACHE_DECISION_TTL_SECONDS"),
			},
			Engine: EngineConfig{
				DefaultServiceLevel:     viper.GetFloat64("ENGINE_DEFAULT_SERVICE_LEVEL"),
				DefaultLeadTimeDays:     viper.GetFloat64("ENGINE_DEFAULT_LEAD_TIME_DAYS"),
				DefaultLeadTimeStdDev:   viper.GetFloat64("ENGINE_DEFAULT_LEAD_TIME_STD_DEV"),
				DefaultCostPerOrder:     viper.GetFloat64("ENGINE_DEFAULT_COST_PER_ORDER"),
				HoldingCostRate:         viper.GetFloat64("ENGINE_HOLDING_COST_RATE"),
				TransferBufferUnits:     viper.GetInt("ENGINE_TRANSFER_BUFFER_UNITS"),
				TransferCostPerMile:     viper.GetFloat64("ENGINE_TRANSFER_COST_PER_MILE"),
				TransferMinHandlingCost: viper.GetFloat64("ENGINE_TRANSFER_MIN_HANDLING_COST"),
				TransferRadiusMiles:     viper.GetFloat64("ENGINE_TRANSFER_RADIUS_MILES"),
				TransferMaxResults:      viper.GetInt("ENGINE_TRANSFER_MAX_RESULTS"),
			},
			Batch: BatchConfig{
				Workers:            viper.GetInt("BATCH_WORKERS"),
				PairTimeoutSeconds: viper.GetInt("BATCH_PAIR_TIMEOUT_SECONDS"),
			},
			Reports: ReportsConfig{
				Enabled:   viper.GetBool("REPORTS_ENABLED"),
				Endpoint:  viper.GetString("REPORTS_ENDPOINT"),
				AccessKey: viper.GetString("REPORTS_ACCESS_KEY"),
				SecretKey: viper.GetString("REPORTS_SECRET_KEY"),
				Bucket:    viper.GetString("REPORTS_BUCKET"),
				Region:    viper.GetString("REPORTS_REGION"),
				UseSSL:    viper.GetBool("REPORTS_USE_SSL"),
			},
		}
	})

	return instance
}
