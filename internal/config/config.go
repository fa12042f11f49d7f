package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	//  Store
	//===============
	// Address of the Redis server, host:port
	redisAddr string
	// Password for the Redis server. Empty when the server runs without auth
	redisPassword string
	// Redis logical database index the tracker works in
	redisDB int

	//===============
	// Cache
	//===============
	// How long a cached page stays fresh before the store drops it
	cacheTTL time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	fetchTimeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string

	//===============
	// Journal
	//===============
	// Where metadata events are appended. Empty disables the journal, "-" selects stderr
	journalPath string
}

type configDTO struct {
	RedisAddr     string        `json:"redisAddr,omitempty"`
	RedisPassword string        `json:"redisPassword,omitempty"`
	RedisDB       int           `json:"redisDb,omitempty"`
	CacheTTL      time.Duration `json:"cacheTtl,omitempty"`
	FetchTimeout  time.Duration `json:"fetchTimeout,omitempty"`
	UserAgent     string        `json:"userAgent,omitempty"`
	JournalPath   string        `json:"journalPath,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {

	// Start with default config
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}

	// For most fields, only override if non-zero value is provided
	if dto.RedisAddr != "" {
		cfg.redisAddr = dto.RedisAddr
	}
	// Note: an empty password and database 0 are valid values, so both are taken as-is
	cfg.redisPassword = dto.RedisPassword
	cfg.redisDB = dto.RedisDB
	if dto.CacheTTL != 0 {
		cfg.cacheTTL = dto.CacheTTL
	}
	if dto.FetchTimeout != 0 {
		cfg.fetchTimeout = dto.FetchTimeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.JournalPath != "" {
		cfg.journalPath = dto.JournalPath
	}

	// File values may have invalidated the defaults
	return cfg.Build()
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with default values for all fields.
// The defaults point at a local unauthenticated Redis and use the ten
// second cache expiry and fetch timeout.
func WithDefault() *Config {
	defaultConfig := Config{
		redisAddr:     "localhost:6379",
		redisPassword: "",
		redisDB:       0,
		cacheTTL:      10 * time.Second,
		fetchTimeout:  10 * time.Second,
		userAgent:     "redis-tracker/1.0",
		journalPath:   "",
	}
	return &defaultConfig
}

func (c *Config) WithRedisAddr(addr string) *Config {
	c.redisAddr = addr
	return c
}

func (c *Config) WithRedisPassword(password string) *Config {
	c.redisPassword = password
	return c
}

func (c *Config) WithRedisDB(db int) *Config {
	c.redisDB = db
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithFetchTimeout(timeout time.Duration) *Config {
	c.fetchTimeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithJournalPath(path string) *Config {
	c.journalPath = path
	return c
}

func (c *Config) Build() (Config, error) {
	if c.redisAddr == "" {
		return Config{}, fmt.Errorf("%w: redisAddr cannot be empty", ErrInvalidConfig)
	}
	if c.redisDB < 0 {
		return Config{}, fmt.Errorf("%w: redisDb cannot be negative", ErrInvalidConfig)
	}
	if c.cacheTTL <= 0 {
		return Config{}, fmt.Errorf("%w: cacheTtl must be positive", ErrInvalidConfig)
	}
	if c.fetchTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: fetchTimeout must be positive", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) RedisAddr() string {
	return c.redisAddr
}

func (c Config) RedisPassword() string {
	return c.redisPassword
}

func (c Config) RedisDB() int {
	return c.redisDB
}

func (c Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c Config) FetchTimeout() time.Duration {
	return c.fetchTimeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) JournalPath() string {
	return c.journalPath
}
