package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	AI        AIConfig        `mapstructure:"ai"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AuthConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

// AIConfig holds settings for the optional LLM second-opinion pass.
type AIConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Provider     string        `mapstructure:"provider"` // "claude" or "openai"
	ClaudeAPIKey string        `mapstructure:"claude_api_key"`
	OpenAIAPIKey string        `mapstructure:"openai_api_key"`
	Model        string        `mapstructure:"model"`
	MaxTokens    int           `mapstructure:"max_tokens"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// AnalysisConfig holds settings for the analysis service.
type AnalysisConfig struct {
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/listingshield")
	}

	// Environment variables
	v.SetEnvPrefix("LISTINGSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested env vars explicitly (viper doesn't auto-bind nested struct fields)
	v.BindEnv("database.host", "LISTINGSHIELD_DATABASE_HOST")
	v.BindEnv("database.port", "LISTINGSHIELD_DATABASE_PORT")
	v.BindEnv("database.user", "LISTINGSHIELD_DATABASE_USER")
	v.BindEnv("database.password", "LISTINGSHIELD_DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "LISTINGSHIELD_DATABASE_DBNAME")
	v.BindEnv("database.sslmode", "LISTINGSHIELD_DATABASE_SSLMODE")
	v.BindEnv("redis.host", "LISTINGSHIELD_REDIS_HOST")
	v.BindEnv("redis.port", "LISTINGSHIELD_REDIS_PORT")
	v.BindEnv("redis.password", "LISTINGSHIELD_REDIS_PASSWORD")
	v.BindEnv("auth.api_key", "LISTINGSHIELD_AUTH_API_KEY")
	v.BindEnv("ai.enabled", "LISTINGSHIELD_AI_ENABLED")
	v.BindEnv("ai.claude_api_key", "LISTINGSHIELD_AI_CLAUDE_API_KEY")
	v.BindEnv("ai.openai_api_key", "LISTINGSHIELD_AI_OPENAI_API_KEY")
	v.BindEnv("app.environment", "LISTINGSHIELD_APP_ENVIRONMENT")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}
