package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT" validate:"required"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFile        string        `mapstructure:"LOG_FILE"`

	GenerativeProvider  string        `mapstructure:"GENERATIVE_PROVIDER" validate:"oneof=mock openai gemini"`
	GenerativeBaseURL   string        `mapstructure:"GENERATIVE_BASE_URL" validate:"required_if=GenerativeProvider openai"`
	GenerativeModel     string        `mapstructure:"GENERATIVE_MODEL"`
	GenerativeAPIKey    string        `mapstructure:"GENERATIVE_API_KEY" validate:"required_if=GenerativeProvider gemini"`
	GenerativeTimeout   time.Duration `mapstructure:"GENERATIVE_TIMEOUT" validate:"gt=0"`
	GenerativeRetries   int           `mapstructure:"GENERATIVE_RETRIES" validate:"gte=0,lte=3"`
	GenerativeCacheTTL  time.Duration `mapstructure:"GENERATIVE_CACHE_TTL"`
	GenerativeMaxTokens int           `mapstructure:"GENERATIVE_MAX_TOKENS" validate:"gt=0"`

	TemplatesFile string `mapstructure:"TEMPLATES_FILE"`

	KafkaBrokers        string `mapstructure:"KAFKA_BROKERS"`
	KafkaResponsesTopic string `mapstructure:"KAFKA_RESPONSES_TOPIC"`
	KafkaOutcomesTopic  string `mapstructure:"KAFKA_OUTCOMES_TOPIC"`

	QualityWarnThreshold int `mapstructure:"QUALITY_WARN_THRESHOLD" validate:"gte=0,lte=100"`
	BatchConcurrency     int `mapstructure:"BATCH_CONCURRENCY" validate:"gt=0"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "60s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("GENERATIVE_PROVIDER", "mock")
	v.SetDefault("GENERATIVE_TIMEOUT", "20s")
	v.SetDefault("GENERATIVE_RETRIES", 1)
	v.SetDefault("GENERATIVE_CACHE_TTL", "60s")
	v.SetDefault("GENERATIVE_MAX_TOKENS", 1024)
	v.SetDefault("KAFKA_RESPONSES_TOPIC", "reply-drafts")
	v.SetDefault("KAFKA_OUTCOMES_TOPIC", "template-outcomes")
	v.SetDefault("QUALITY_WARN_THRESHOLD", 60)
	v.SetDefault("BATCH_CONCURRENCY", 4)

	// AutomaticEnv only resolves keys viper already knows about.
	for _, key := range []string{"DATABASE_URL", "ADMIN_KEY", "LOG_FILE", "GENERATIVE_BASE_URL", "GENERATIVE_MODEL", "GENERATIVE_API_KEY", "TEMPLATES_FILE", "KAFKA_BROKERS"} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.GenerativeProvider = strings.ToLower(strings.TrimSpace(cfg.GenerativeProvider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// Brokers splits KAFKA_BROKERS; an empty result disables publishing.
func (c Config) Brokers() []string {
	return splitList(c.KafkaBrokers)
}

// CORSOrigins splits CORS_ALLOWED_ORIGINS.
func (c Config) CORSOrigins() []string {
	return splitList(c.CORSAllowed)
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
