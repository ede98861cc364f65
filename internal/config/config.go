package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // минуты
	} `yaml:"jwt"`

	// Параметры автоподбора
	Matching struct {
		DefaultOrderRadiusKm float64 `yaml:"default_order_radius_km"` // радиус заявки, если не задан
		LookbackDays         int     `yaml:"lookback_days"`           // давность кандидатов; <= 0 выключает фильтр
		NotifyCap            int     `yaml:"notify_cap"`              // максимум уведомлений за один проход
		RunTimeoutSec        int     `yaml:"run_timeout_sec"`         // дедлайн одного прохода воркера
	} `yaml:"matching"`

	// Очередь фоновых задач подбора
	Worker struct {
		QueueSize   int `yaml:"queue_size"`
		Concurrency int `yaml:"concurrency"`
	} `yaml:"worker"`

	// Расписание проверки просроченного транспорта (формат cron)
	Overdue struct {
		Schedule string `yaml:"schedule"`
	} `yaml:"overdue"`
}

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}
	} else {
		// Переменные окружения (тесты/контейнер)
		cfg.Database.DSN = dbURL
		cfg.Server.Env = os.Getenv("SERVER_ENV")
		cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
		cfg.JWT.TTL = 60
	}

	applyDefaults(&cfg)
	AppConfig = &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 4000
	}
	if cfg.Matching.DefaultOrderRadiusKm <= 0 {
		cfg.Matching.DefaultOrderRadiusKm = 80
	}
	if cfg.Matching.LookbackDays == 0 {
		cfg.Matching.LookbackDays = 90
	}
	if cfg.Matching.NotifyCap <= 0 {
		cfg.Matching.NotifyCap = 50
	}
	if cfg.Matching.RunTimeoutSec <= 0 {
		cfg.Matching.RunTimeoutSec = 120
	}
	if cfg.Worker.QueueSize <= 0 {
		cfg.Worker.QueueSize = 1024
	}
	if cfg.Worker.Concurrency <= 0 {
		cfg.Worker.Concurrency = 4
	}
	if cfg.Overdue.Schedule == "" {
		cfg.Overdue.Schedule = "0 * * * *" // раз в час
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}

// Lookback возвращает окно давности кандидатов как Duration.
func (c *Config) Lookback() time.Duration {
	if c.Matching.LookbackDays <= 0 {
		return 0
	}
	return time.Duration(c.Matching.LookbackDays) * 24 * time.Hour
}

// RunTimeout возвращает дедлайн одного прохода подбора.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.Matching.RunTimeoutSec) * time.Second
}
