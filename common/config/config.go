package config

import (
	"fmt"
	"os"
	"strconv"
)

func getEnv(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return value
}

func loadEnvString(key string, result *string) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	*result = s
}

func loadEnvUint(key string, result *uint) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	*result = uint(n)
}

func loadEnvInt(key string, result *int) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	*result = n
}

func loadEnvBool(key string, result *bool) {
	s, ok := os.LookupEnv(key)

	if !ok {
		return
	}
	*result = s == "true" || s == "1"
}

/* Configuration */

/* Listen Configuration */

type listenConfig struct {
	Host string `json:"host"`
	Port uint   `json:"port"`
}

func (l listenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

func defaultListenConfig() listenConfig {
	return listenConfig{
		Host: "127.0.0.1",
		Port: 8080,
	}
}

func (l *listenConfig) loadFromEnv() {
	loadEnvString("LISTEN_HOST", &l.Host)
	loadEnvUint("LISTEN_PORT", &l.Port)
}

/* Pool Configuration */

type poolConfig struct {
	NumWorkers     int `json:"num_workers"`
	ResultChanSize int `json:"result_chan_size"`
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		NumWorkers:     4,
		ResultChanSize: 8,
	}
}

func (p *poolConfig) loadFromEnv() {
	loadEnvInt("POOL_NUM_WORKERS", &p.NumWorkers)
	loadEnvInt("POOL_RESULT_CHAN_SIZE", &p.ResultChanSize)
}

/* Redis Configuration */

type redisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     uint   `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (r *redisConfig) loadFromEnv() {
	loadEnvBool("REDIS_ENABLED", &r.Enabled)
	loadEnvString("REDIS_HOST", &r.Host)
	loadEnvUint("REDIS_PORT", &r.Port)
	loadEnvString("REDIS_PASSWORD", &r.Password)

	if dbStr := getEnv("REDIS_DB", "0"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

func defaultRedisConfig() redisConfig {
	return redisConfig{
		Enabled:  false,
		Host:     "localhost",
		Port:     6379,
		Password: "",
		DB:       0,
	}
}

/* NATS Configuration */

type natsConfig struct {
	Enabled  bool
	Host     string
	Port     uint
	Username string
	Password string
}

func (c *natsConfig) loadFromEnv() {
	loadEnvBool("NATS_ENABLED", &c.Enabled)
	c.Host = getEnv("NATS_HOST", "localhost")

	if portStr := getEnv("NATS_PORT", "4222"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			c.Port = uint(port)
		} else {
			c.Port = 4222
		}
	} else {
		c.Port = 4222
	}

	c.Username = getEnv("NATS_USER", "")
	c.Password = getEnv("NATS_PASSWORD", "")
}

func (c *natsConfig) URL() string {
	return fmt.Sprintf("nats://%s:%d", c.Host, c.Port)
}

func defaultNatsConfig() natsConfig {
	return natsConfig{
		Enabled:  false,
		Host:     "localhost",
		Port:     4222,
		Username: "",
		Password: "",
	}
}

/* Metrics Configuration */

type metricsConfig struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

func (m *metricsConfig) loadFromEnv() {
	loadEnvBool("METRICS_ENABLED", &m.Enabled)
	loadEnvString("METRICS_NAMESPACE", &m.Namespace)
}

func defaultMetricsConfig() metricsConfig {
	return metricsConfig{
		Enabled:   true,
		Namespace: "pool_http_service",
	}
}

type Config struct {
	Listen  listenConfig
	Pool    poolConfig
	Redis   redisConfig
	Nats    natsConfig
	Metrics metricsConfig
}

func (c *Config) LoadFromEnv() {
	c.Listen.loadFromEnv()
	c.Pool.loadFromEnv()
	c.Redis.loadFromEnv()
	c.Nats.loadFromEnv()
	c.Metrics.loadFromEnv()
}

func DefaultConfig() Config {
	return Config{
		Listen:  defaultListenConfig(),
		Pool:    defaultPoolConfig(),
		Redis:   defaultRedisConfig(),
		Nats:    defaultNatsConfig(),
		Metrics: defaultMetricsConfig(),
	}
}
