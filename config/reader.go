package config

import (
	"os"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// IdentityConfig - настройки внешнего identity provider (профили и сессии)
type IdentityConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// DevAuthHeader разрешает X-User-ID заголовок вместо реального токена
	// (только для локальной разработки и тестов)
	DevAuthHeader bool `yaml:"dev_auth_header"`
}

type RateLimitConfig struct {
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

type FeedConfig struct {
	MaxPageSize int `yaml:"max_page_size"`
}

type ConfigSchema struct {
	Databases struct {
		Master   DBConfig   `yaml:"master"`
		Replicas []DBConfig `yaml:"replicas"`
	} `yaml:"db"`
	Redis    RedisConfig    `yaml:"redis"`
	Identity IdentityConfig `yaml:"identity"`
	Backend  struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Feed      FeedConfig      `yaml:"feed"`
	Logs      struct {
		Level string `yaml:"level"`
	} `yaml:"logs"`
}

var AppConfig *ConfigSchema

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	var conf ConfigSchema
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return err
	}

	// Секреты можно переопределить через окружение, чтобы не хранить их в yaml
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		conf.Databases.Master.Password = v
		for i := range conf.Databases.Replicas {
			conf.Databases.Replicas[i].Password = v
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		conf.Redis.Password = v
	}
	if v := os.Getenv("IDENTITY_API_KEY"); v != "" {
		conf.Identity.APIKey = v
	}

	if conf.RateLimit.Limit <= 0 {
		conf.RateLimit.Limit = 3
	}
	if conf.RateLimit.WindowSeconds <= 0 {
		conf.RateLimit.WindowSeconds = 60
	}
	if conf.Feed.MaxPageSize <= 0 || conf.Feed.MaxPageSize > 100 {
		conf.Feed.MaxPageSize = 100
	}

	AppConfig = &conf
	return nil
}
