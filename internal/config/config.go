package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Backend   BackendConfig
	Breaker   BreakerConfig
	Providers ProvidersConfig
	Journey   JourneyConfig
	Worker    WorkerConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type CacheConfig struct {
	DirectPathTTL time.Duration
}

type LogConfig struct {
	Level string
}

// BackendConfig - planner instances, по одному на регион
type BackendConfig struct {
	Instances            map[string]string
	Timeout              time.Duration
	PlacesTimeout        time.Duration
	StreetNetworkTimeout time.Duration
	PlannerTimeout       time.Duration
	PoolSize             int
	ConnTTL              time.Duration
	DialTimeout          time.Duration
}

type BreakerConfig struct {
	FailMax      int
	ResetTimeout time.Duration
}

type ProvidersConfig struct {
	UpdateInterval time.Duration
	LegacyFile     string
	HTTPTimeout    time.Duration
	FailMax        int
	ResetTimeout   time.Duration
}

// JourneyConfig - значения параметров поиска по умолчанию
type JourneyConfig struct {
	MaxDuration            int
	MaxNbTransfers         int
	MaxDurationToPt        map[domain.FallbackMode]int
	Speeds                 map[domain.FallbackMode]float64
	ParkDuration           int
	WalkingTransferPenalty int
	TransferPenalty        int
	FirstSectionModes      []domain.FallbackMode
	LastSectionModes       []domain.FallbackMode
}

type WorkerConfig struct {
	Enabled         bool
	ConsumerGroup   string
	RefreshInterval time.Duration
	BatchSize       int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("API_HOST", "0.0.0.0")
	v.SetDefault("API_PORT", 8080)
	v.SetDefault("API_ENV", "development")
	v.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_CONN_MAX_IDLE_TIME", 60)

	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("DIRECT_PATH_CACHE_TTL", 600)

	v.SetDefault("BACKEND_TIMEOUT_MS", 10000)
	v.SetDefault("BACKEND_PLACES_TIMEOUT_MS", 2000)
	v.SetDefault("BACKEND_STREET_NETWORK_TIMEOUT_MS", 5000)
	v.SetDefault("BACKEND_PLANNER_TIMEOUT_MS", 10000)
	v.SetDefault("BACKEND_POOL_SIZE", 10)
	v.SetDefault("BACKEND_CONN_TTL", 60)
	v.SetDefault("BACKEND_DIAL_TIMEOUT_MS", 1000)

	v.SetDefault("BREAKER_FAIL_MAX", 5)
	v.SetDefault("BREAKER_RESET_TIMEOUT", 60)

	v.SetDefault("PROVIDERS_UPDATE_INTERVAL", 60)
	v.SetDefault("PROVIDERS_HTTP_TIMEOUT_MS", 2000)
	v.SetDefault("PROVIDERS_FAIL_MAX", 4)
	v.SetDefault("PROVIDERS_RESET_TIMEOUT", 60)

	v.SetDefault("JOURNEY_MAX_DURATION", 86400)
	v.SetDefault("JOURNEY_MAX_NB_TRANSFERS", 10)
	v.SetDefault("JOURNEY_PARK_DURATION", 300)
	v.SetDefault("JOURNEY_WALKING_TRANSFER_PENALTY", 120)
	v.SetDefault("JOURNEY_TRANSFER_PENALTY", 120)
	v.SetDefault("JOURNEY_MAX_DURATION_TO_PT", "walking=1800,bike=1800,bss=1800,car=1800,car_no_park=1800,ridesharing=1800,taxi=1800")
	v.SetDefault("JOURNEY_SPEEDS", "walking=1.12,bike=4.1,bss=4.1,car=11.11,car_no_park=11.11,ridesharing=6.94,taxi=11.11")
	v.SetDefault("JOURNEY_FIRST_SECTION_MODES", "walking")
	v.SetDefault("JOURNEY_LAST_SECTION_MODES", "walking")

	v.SetDefault("WORKER_ENABLED", true)
	v.SetDefault("WORKER_CONSUMER_GROUP", "provider-status-auditors")
	v.SetDefault("WORKER_REFRESH_INTERVAL", 30)
	v.SetDefault("WORKER_BATCH_SIZE", 50)
}

// Load читает .env (если есть) и переменные окружения
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	instances, err := ParseInstances(v.GetString("BACKEND_INSTANCES"))
	if err != nil {
		return nil, fmt.Errorf("BACKEND_INSTANCES: %w", err)
	}
	maxToPt, err := parseModeInts(v.GetString("JOURNEY_MAX_DURATION_TO_PT"))
	if err != nil {
		return nil, fmt.Errorf("JOURNEY_MAX_DURATION_TO_PT: %w", err)
	}
	speeds, err := parseModeFloats(v.GetString("JOURNEY_SPEEDS"))
	if err != nil {
		return nil, fmt.Errorf("JOURNEY_SPEEDS: %w", err)
	}
	firstModes, err := ParseModes(v.GetString("JOURNEY_FIRST_SECTION_MODES"))
	if err != nil {
		return nil, fmt.Errorf("JOURNEY_FIRST_SECTION_MODES: %w", err)
	}
	lastModes, err := ParseModes(v.GetString("JOURNEY_LAST_SECTION_MODES"))
	if err != nil {
		return nil, fmt.Errorf("JOURNEY_LAST_SECTION_MODES: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetString("DB_HOST") != "",
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  v.GetString("REDIS_HOST") != "",
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			DirectPathTTL: time.Duration(v.GetInt("DIRECT_PATH_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Backend: BackendConfig{
			Instances:            instances,
			Timeout:              time.Duration(v.GetInt("BACKEND_TIMEOUT_MS")) * time.Millisecond,
			PlacesTimeout:        time.Duration(v.GetInt("BACKEND_PLACES_TIMEOUT_MS")) * time.Millisecond,
			StreetNetworkTimeout: time.Duration(v.GetInt("BACKEND_STREET_NETWORK_TIMEOUT_MS")) * time.Millisecond,
			PlannerTimeout:       time.Duration(v.GetInt("BACKEND_PLANNER_TIMEOUT_MS")) * time.Millisecond,
			PoolSize:             v.GetInt("BACKEND_POOL_SIZE"),
			ConnTTL:              time.Duration(v.GetInt("BACKEND_CONN_TTL")) * time.Second,
			DialTimeout:          time.Duration(v.GetInt("BACKEND_DIAL_TIMEOUT_MS")) * time.Millisecond,
		},
		Breaker: BreakerConfig{
			FailMax:      v.GetInt("BREAKER_FAIL_MAX"),
			ResetTimeout: time.Duration(v.GetInt("BREAKER_RESET_TIMEOUT")) * time.Second,
		},
		Providers: ProvidersConfig{
			UpdateInterval: time.Duration(v.GetInt("PROVIDERS_UPDATE_INTERVAL")) * time.Second,
			LegacyFile:     v.GetString("PROVIDERS_LEGACY_FILE"),
			HTTPTimeout:    time.Duration(v.GetInt("PROVIDERS_HTTP_TIMEOUT_MS")) * time.Millisecond,
			FailMax:        v.GetInt("PROVIDERS_FAIL_MAX"),
			ResetTimeout:   time.Duration(v.GetInt("PROVIDERS_RESET_TIMEOUT")) * time.Second,
		},
		Journey: JourneyConfig{
			MaxDuration:            v.GetInt("JOURNEY_MAX_DURATION"),
			MaxNbTransfers:         v.GetInt("JOURNEY_MAX_NB_TRANSFERS"),
			MaxDurationToPt:        maxToPt,
			Speeds:                 speeds,
			ParkDuration:           v.GetInt("JOURNEY_PARK_DURATION"),
			WalkingTransferPenalty: v.GetInt("JOURNEY_WALKING_TRANSFER_PENALTY"),
			TransferPenalty:        v.GetInt("JOURNEY_TRANSFER_PENALTY"),
			FirstSectionModes:      firstModes,
			LastSectionModes:       lastModes,
		},
		Worker: WorkerConfig{
			Enabled:         v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:   v.GetString("WORKER_CONSUMER_GROUP"),
			RefreshInterval: time.Duration(v.GetInt("WORKER_REFRESH_INTERVAL")) * time.Second,
			BatchSize:       v.GetInt("WORKER_BATCH_SIZE"),
		},
	}

	return cfg, nil
}

// ParseInstances разбирает "paris=host:port,lyon=host:port"
func ParseInstances(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, pair := range splitList(s) {
		region, addr, ok := strings.Cut(pair, "=")
		region, addr = strings.TrimSpace(region), strings.TrimSpace(addr)
		if !ok || region == "" || addr == "" {
			return nil, fmt.Errorf("invalid instance %q, want region=host:port", pair)
		}
		if _, dup := out[region]; dup {
			return nil, fmt.Errorf("duplicate region %q", region)
		}
		out[region] = addr
	}
	return out, nil
}

// ParseModes разбирает "walking,bike"
func ParseModes(s string) ([]domain.FallbackMode, error) {
	var modes []domain.FallbackMode
	for _, raw := range splitList(s) {
		m, err := domain.ParseFallbackMode(raw)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

func parseModeInts(s string) (map[domain.FallbackMode]int, error) {
	out := make(map[domain.FallbackMode]int)
	err := parseModePairs(s, func(m domain.FallbackMode, raw string) error {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid duration %q for %s", raw, m)
		}
		out[m] = n
		return nil
	})
	return out, err
}

func parseModeFloats(s string) (map[domain.FallbackMode]float64, error) {
	out := make(map[domain.FallbackMode]float64)
	err := parseModePairs(s, func(m domain.FallbackMode, raw string) error {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid speed %q for %s", raw, m)
		}
		out[m] = f
		return nil
	})
	return out, err
}

func parseModePairs(s string, set func(domain.FallbackMode, string) error) error {
	for _, pair := range splitList(s) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid entry %q, want mode=value", pair)
		}
		m, err := domain.ParseFallbackMode(strings.TrimSpace(key))
		if err != nil {
			return err
		}
		if err := set(m, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

func (c *Config) GetRedisAddr() string {
	return c.Redis.Addr()
}

// DSN - строка подключения к хранилищу провайдеров
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=journey-planner",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
