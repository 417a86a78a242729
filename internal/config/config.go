package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Kafka          KafkaConfig          `mapstructure:"kafka"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	Recommendation RecommendationConfig `mapstructure:"recommendation"`
	Security       SecurityConfig       `mapstructure:"security"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Hot  RedisInstanceConfig `mapstructure:"hot"`
	Warm RedisInstanceConfig `mapstructure:"warm"`
}

type RedisInstanceConfig struct {
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		InteractionEvents string `mapstructure:"interaction_events"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RecommendationConfig groups every knob of the recommendation pipeline:
// similarity indexing, interaction scoring, and cache lifetimes.
type RecommendationConfig struct {
	MaxResults   int                `mapstructure:"max_results"`
	Similarity   SimilarityConfig   `mapstructure:"similarity"`
	Interactions InteractionsConfig `mapstructure:"interactions"`
	Caching      CachingConfig      `mapstructure:"caching"`
}

type SimilarityConfig struct {
	TopN       int           `mapstructure:"top_n"`
	MinDocFreq int           `mapstructure:"min_doc_freq"`
	IndexTTL   time.Duration `mapstructure:"index_ttl"`
}

type InteractionsConfig struct {
	WindowDays     int     `mapstructure:"window_days"`
	FavoriteWeight float64 `mapstructure:"favorite_weight"`
	CookWeight     float64 `mapstructure:"cook_weight"`
	ViewWeight     float64 `mapstructure:"view_weight"`
	DefaultWeight  float64 `mapstructure:"default_weight"`
}

type CachingConfig struct {
	PreferencesTTL         time.Duration `mapstructure:"preferences_ttl"`
	FavoriteIngredientsTTL time.Duration `mapstructure:"favorite_ingredients_ttl"`
	RecommendationsTTL     time.Duration `mapstructure:"recommendations_ttl"`
	InteractionScoresTTL   time.Duration `mapstructure:"interaction_scores_ttl"`
	AlmostMatchTTL         time.Duration `mapstructure:"almost_match_ttl"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.hot.max_retries", 3)
	viper.SetDefault("redis.hot.pool_size", 10)
	viper.SetDefault("redis.hot.timeout", "5s")
	viper.SetDefault("redis.warm.max_retries", 3)
	viper.SetDefault("redis.warm.pool_size", 5)
	viper.SetDefault("redis.warm.timeout", "10s")

	// Kafka defaults
	viper.SetDefault("kafka.brokers", []string{"localhost:9092"})
	viper.SetDefault("kafka.topics.interaction_events", "recipe-interactions")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Recommendation defaults
	viper.SetDefault("recommendation.max_results", 12)
	viper.SetDefault("recommendation.similarity.top_n", 3)
	viper.SetDefault("recommendation.similarity.min_doc_freq", 2)
	viper.SetDefault("recommendation.similarity.index_ttl", "24h")
	viper.SetDefault("recommendation.interactions.window_days", 30)
	viper.SetDefault("recommendation.interactions.favorite_weight", 5.0)
	viper.SetDefault("recommendation.interactions.cook_weight", 3.0)
	viper.SetDefault("recommendation.interactions.view_weight", 1.0)
	viper.SetDefault("recommendation.interactions.default_weight", 1.0)

	// Caching defaults
	viper.SetDefault("recommendation.caching.preferences_ttl", "6h")
	viper.SetDefault("recommendation.caching.favorite_ingredients_ttl", "30m")
	viper.SetDefault("recommendation.caching.recommendations_ttl", "30m")
	viper.SetDefault("recommendation.caching.interaction_scores_ttl", "20m")
	viper.SetDefault("recommendation.caching.almost_match_ttl", "5m")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"*"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"*"})
}
