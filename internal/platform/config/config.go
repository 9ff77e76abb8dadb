package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-wide configuration.
type Server struct {
	Addr           string
	Env            string
	LogLevel       string
	RequestTimeout time.Duration
	TrustedProxies string
	Timezone       string
	AdminToken     string

	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Protocol  ProtocolConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// ProtocolConfig tunes protocol issuance. Reservations expire after
// ReservationTTL; by then the code is persisted with its appointment.
type ProtocolConfig struct {
	MaxAttempts    int
	ReservationTTL time.Duration
	DatedPrefix    string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Production reports whether UNIAGENDAS_ENV is "production".
func (s Server) Production() bool {
	return s.Env == "production"
}

// FromEnv builds a Server config from environment variables so main stays lean.
// Unset variables take defaults; malformed values are an error.
func FromEnv() (Server, error) {
	p := &parser{}
	cfg := Server{
		Addr:           p.str("UNIAGENDAS_ADDR", ":8080"),
		Env:            p.str("UNIAGENDAS_ENV", "development"),
		LogLevel:       p.str("LOG_LEVEL", "info"),
		RequestTimeout: p.duration("REQUEST_TIMEOUT", 30*time.Second),
		TrustedProxies: os.Getenv("TRUSTED_PROXIES"),
		Timezone:       p.str("UNIAGENDAS_TIMEZONE", "America/Sao_Paulo"),
		AdminToken:     os.Getenv("ADMIN_API_TOKEN"),
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    p.int("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    p.int("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: 5 * time.Minute,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:    p.str("KAFKA_TOPIC", "uniagendas.appointments"),
			ClientID: "uniagendas",
		},
		Protocol: ProtocolConfig{
			MaxAttempts:    p.int("PROTOCOL_MAX_ATTEMPTS", 5),
			ReservationTTL: p.duration("PROTOCOL_RESERVATION_TTL", 24*time.Hour),
			DatedPrefix:    p.str("DATED_PROTOCOL_PREFIX", "UNI"),
		},
		RateLimit: RateLimitConfig{
			RPS:   p.float("RATE_LIMIT_RPS", 5),
			Burst: p.int("RATE_LIMIT_BURST", 20),
		},
	}
	if p.err != nil {
		return Server{}, p.err
	}
	if cfg.Protocol.MaxAttempts < 1 {
		return Server{}, fmt.Errorf("PROTOCOL_MAX_ATTEMPTS must be at least 1, got %d", cfg.Protocol.MaxAttempts)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Server{}, fmt.Errorf("UNIAGENDAS_TIMEZONE: %w", err)
	}
	return cfg, nil
}

// Location resolves Timezone. FromEnv has already checked it loads.
func (s Server) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// parser keeps the first conversion error so FromEnv reads top to bottom.
type parser struct {
	err error
}

func (p *parser) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *parser) int(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) float(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return v
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("parse %s=%q: %w", key, raw, err)
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
