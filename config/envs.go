package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultRESTPort        = 8080
	defaultMazeSize        = 10
	defaultMaxMazeSize     = 100
	defaultStepInterval    = 16 * time.Millisecond
	defaultTokenTTL        = time.Hour
	defaultSessionTTL      = 30 * time.Minute
	defaultJWTIssuer       = "vinom-maze"
	defaultRedisWallPrefix = "maze"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP          string        `yaml:"host_ip"`           // Host IP for the server
	RESTPort        int           `yaml:"rest_port"`         // Port for the REST API
	GinMode         string        `yaml:"gin_mode"`          // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret       string        `yaml:"jwt_secret"`        // Secret key for driver token signing
	JWTIssuer       string        `yaml:"jwt_issuer"`        // Issuer claim for driver tokens
	TokenTTL        time.Duration `yaml:"token_ttl"`         // Lifetime of a driver token
	RedisAddr       string        `yaml:"redis_addr"`        // Redis address; empty disables wall publishing
	RedisPassword   string        `yaml:"redis_password"`    // Password for Redis
	RedisDB         int           `yaml:"redis_db"`          // Redis logical database
	RedisWallPrefix string        `yaml:"redis_wall_prefix"` // Channel prefix for wall events
	DefaultMazeSize int           `yaml:"default_maze_size"` // Maze size used when a request omits it
	MaxMazeSize     int           `yaml:"max_maze_size"`     // Largest maze a client may request
	StepInterval    time.Duration `yaml:"step_interval"`     // Pacing between streamed steps
	SessionTTL      time.Duration `yaml:"session_ttl"`       // Idle time before a maze session is evicted
}

// Load builds the configuration from, in increasing priority: built-in defaults,
// the YAML file named by MAZE_CONFIG_FILE, a .env file and the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := defaults()
	if path, ok := os.LookupEnv("MAZE_CONFIG_FILE"); ok && path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		HostIP:          "0.0.0.0",
		RESTPort:        defaultRESTPort,
		GinMode:         "release",
		JWTIssuer:       defaultJWTIssuer,
		TokenTTL:        defaultTokenTTL,
		RedisWallPrefix: defaultRedisWallPrefix,
		DefaultMazeSize: defaultMazeSize,
		MaxMazeSize:     defaultMaxMazeSize,
		StepInterval:    defaultStepInterval,
		SessionTTL:      defaultSessionTTL,
	}
}

// loadFile overlays the YAML file at path onto cfg.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HostIP = getEnvWithDefault("HOST_IP", cfg.HostIP)
	cfg.GinMode = getEnvWithDefault("GIN_MODE", cfg.GinMode)
	cfg.JWTSecret = getEnvWithDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = getEnvWithDefault("JWT_ISSUER", cfg.JWTIssuer)
	cfg.RedisAddr = getEnvWithDefault("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnvWithDefault("REDIS_PASS", cfg.RedisPassword)
	cfg.RedisWallPrefix = getEnvWithDefault("REDIS_WALL_PREFIX", cfg.RedisWallPrefix)

	var err error
	if cfg.RESTPort, err = getEnvAsInt("REST_PORT", cfg.RESTPort); err != nil {
		return err
	}
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", cfg.RedisDB); err != nil {
		return err
	}
	if cfg.DefaultMazeSize, err = getEnvAsInt("MAZE_SIZE", cfg.DefaultMazeSize); err != nil {
		return err
	}
	if cfg.MaxMazeSize, err = getEnvAsInt("MAZE_MAX_SIZE", cfg.MaxMazeSize); err != nil {
		return err
	}
	if cfg.StepInterval, err = getEnvAsDuration("MAZE_STEP_INTERVAL", cfg.StepInterval); err != nil {
		return err
	}
	if cfg.TokenTTL, err = getEnvAsDuration("JWT_TTL", cfg.TokenTTL); err != nil {
		return err
	}
	if cfg.SessionTTL, err = getEnvAsDuration("MAZE_SESSION_TTL", cfg.SessionTTL); err != nil {
		return err
	}
	return nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	if c.DefaultMazeSize <= 0 || c.MaxMazeSize <= 0 {
		return fmt.Errorf("maze sizes must be positive: default=%d max=%d", c.DefaultMazeSize, c.MaxMazeSize)
	}
	if c.DefaultMazeSize > c.MaxMazeSize {
		return fmt.Errorf("default maze size %d exceeds max %d", c.DefaultMazeSize, c.MaxMazeSize)
	}
	return nil
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an integer environment variable, falling back to defaultValue when unset.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value, nil
}

// getEnvAsDuration retrieves a duration such as "250ms" from the environment.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("environment variable %s must be a duration: %w", key, err)
	}
	return value, nil
}
