package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server          ServerConfig          `toml:"server"`
	Database        DatabaseConfig        `toml:"database"`
	Logs            LogsConfig            `toml:"logs"`
	Metrics         MetricsConfig         `toml:"metrics"`
	ScheduleGateway ScheduleGatewayConfig `toml:"schedule_gateway"`
	Redis           RedisConfig           `toml:"redis"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// ScheduleGatewayConfig адрес шлюза расписаний для клиентов редактирования
type ScheduleGatewayConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// RedisConfig кэш истории ёмкости; пустой Addr отключает кэш
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	HistoryTTL int    `toml:"history_ttl"`
}

// Enabled включён ли кэш
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load читает конфигурацию из файла, применяет значения по умолчанию и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			ServiceName: "schedule-service",
			Path:        "/metrics",
		},
		ScheduleGateway: ScheduleGatewayConfig{
			Timeout: 10,
		},
		Redis: RedisConfig{
			HistoryTTL: 60,
		},
	}
}

// applyEnv переопределяет значения из переменных окружения (секреты и адреса для контейнеров)
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "SCHEDULE_DB_HOST")
	setInt(&cfg.Database.Port, "SCHEDULE_DB_PORT")
	setString(&cfg.Database.User, "SCHEDULE_DB_USER")
	setString(&cfg.Database.Password, "SCHEDULE_DB_PASSWORD")
	setString(&cfg.Database.DBName, "SCHEDULE_DB_NAME")
	setInt(&cfg.Server.HTTPPort, "SCHEDULE_HTTP_PORT")
	setString(&cfg.Logs.Level, "SCHEDULE_LOG_LEVEL")
	setString(&cfg.ScheduleGateway.URL, "SCHEDULE_GATEWAY_URL")
	setString(&cfg.Redis.Addr, "SCHEDULE_REDIS_ADDR")
	setString(&cfg.Redis.Password, "SCHEDULE_REDIS_PASSWORD")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// Validate проверяет обязательные поля
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database host, user and dbname are required", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	if c.ScheduleGateway.Timeout <= 0 {
		return fmt.Errorf("%w: schedule_gateway.timeout must be positive", ErrInvalidConfig)
	}
	if c.Redis.Enabled() && c.Redis.HistoryTTL <= 0 {
		return fmt.Errorf("%w: redis.history_ttl must be positive", ErrInvalidConfig)
	}
	return nil
}
