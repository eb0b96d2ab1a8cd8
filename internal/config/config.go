package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	Auth    AuthConfig
	LLM     LLMConfig
	Cache   CacheConfig
	Session SessionConfig
	Logger  LoggerConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	BodyLimit    int
}

type DBConfig struct {
	Path string
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	// JWTSecret is the shared secret the platform signs session tokens
	// with. This service only validates tokens, it never issues them.
	JWTSecret string
}

type LLMConfig struct {
	APIKey        string
	BaseURL       string
	Model         string
	Timeout       time.Duration
	MaxInputChars int
	QuestionCount int
	MaxAttempts   int
	InitialWait   time.Duration
	MaxWait       time.Duration
}

type CacheConfig struct {
	QuizTTL time.Duration
}

type SessionConfig struct {
	// TTL is how long an idle assessment session stays in the registry
	// before it is evicted. Evicted sessions lose unsubmitted progress.
	TTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8090)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("server.idle_timeout", 60)
	viper.SetDefault("server.body_limit_mb", 10)
	viper.SetDefault("db.path", "quizforge.db")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.timeout", 60)
	viper.SetDefault("llm.max_input_chars", 15000)
	viper.SetDefault("llm.question_count", 5)
	viper.SetDefault("llm.max_attempts", 3)
	viper.SetDefault("llm.initial_wait_ms", 500)
	viper.SetDefault("llm.max_wait_ms", 8000)
	viper.SetDefault("cache.quiz_ttl", 3600)
	viper.SetDefault("session.ttl", 7200)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
			IdleTimeout:  viper.GetDuration("server.idle_timeout") * time.Second,
			BodyLimit:    viper.GetInt("server.body_limit_mb") * 1024 * 1024,
		},
		DB: DBConfig{
			Path: viper.GetString("db.path"),
		},
		Redis: RedisConfig{
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("auth.jwt_secret"),
		},
		LLM: LLMConfig{
			APIKey:        viper.GetString("llm.api_key"),
			BaseURL:       viper.GetString("llm.base_url"),
			Model:         viper.GetString("llm.model"),
			Timeout:       viper.GetDuration("llm.timeout") * time.Second,
			MaxInputChars: viper.GetInt("llm.max_input_chars"),
			QuestionCount: viper.GetInt("llm.question_count"),
			MaxAttempts:   viper.GetInt("llm.max_attempts"),
			InitialWait:   viper.GetDuration("llm.initial_wait_ms") * time.Millisecond,
			MaxWait:       viper.GetDuration("llm.max_wait_ms") * time.Millisecond,
		},
		Cache: CacheConfig{
			QuizTTL: viper.GetDuration("cache.quiz_ttl") * time.Second,
		},
		Session: SessionConfig{
			TTL: viper.GetDuration("session.ttl") * time.Second,
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if path := os.Getenv("DB_PATH"); path != "" {
		config.DB.Path = path
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}

	return config, nil
}
