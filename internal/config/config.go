package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cyberquest/internal/arena"
)

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

type Config struct {
	Port                     string
	LogLevel                 string
	LogPretty                bool
	AllowedOrigins           []string
	DatabaseURL              string
	RedisAddr                string
	RedisPassword            string
	RedisDB                  int
	RunnerMaxPlayers         int
	QuizMaxPlayers           int
	CountdownTicks           int
	CountdownTickMillis      int
	ObstacleIntervalMillis   int
	ObstacleRetentionSeconds int
	EndGraceMillis           int
	MessagesPerSecond        float64
	MessageBurst             int
	ResultsBuffer            int
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeSeconds int
	DBConnMaxIdleTimeSeconds int
}

func Default() Config {
	return Config{
		Port:                     "8080",
		LogLevel:                 "info",
		RunnerMaxPlayers:         6,
		QuizMaxPlayers:           5,
		CountdownTicks:           3,
		CountdownTickMillis:      1000,
		ObstacleIntervalMillis:   2000,
		ObstacleRetentionSeconds: 10,
		EndGraceMillis:           2000,
		MessagesPerSecond:        60,
		MessageBurst:             120,
		ResultsBuffer:            64,
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           10,
		DBConnMaxLifetimeSeconds: 300,
		DBConnMaxIdleTimeSeconds: 60,
	}
}

func Load() Config {
	cfg := Default()
	if raw := os.Getenv("PORT"); raw != "" {
		cfg.Port = raw
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		cfg.LogLevel = raw
	}
	if raw := os.Getenv("LOG_PRETTY"); raw != "" {
		if value, err := strconv.ParseBool(raw); err == nil {
			cfg.LogPretty = value
		}
	}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		cfg.AllowedOrigins = splitList(raw)
	}
	if raw := os.Getenv("DATABASE_URL"); raw != "" {
		cfg.DatabaseURL = raw
	}
	if raw := os.Getenv("REDIS_ADDR"); raw != "" {
		cfg.RedisAddr = raw
	}
	if raw := os.Getenv("REDIS_PASSWORD"); raw != "" {
		cfg.RedisPassword = raw
	}
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			cfg.RedisDB = value
		}
	}
	positiveInt("RUNNER_MAX_PLAYERS", &cfg.RunnerMaxPlayers)
	positiveInt("QUIZ_MAX_PLAYERS", &cfg.QuizMaxPlayers)
	positiveInt("COUNTDOWN_TICKS", &cfg.CountdownTicks)
	positiveInt("COUNTDOWN_TICK_MS", &cfg.CountdownTickMillis)
	positiveInt("OBSTACLE_INTERVAL_MS", &cfg.ObstacleIntervalMillis)
	positiveInt("OBSTACLE_RETENTION_SECONDS", &cfg.ObstacleRetentionSeconds)
	positiveInt("END_GRACE_MS", &cfg.EndGraceMillis)
	positiveInt("MESSAGE_BURST", &cfg.MessageBurst)
	positiveInt("RESULTS_BUFFER", &cfg.ResultsBuffer)
	positiveInt("DB_MAX_OPEN_CONNS", &cfg.DBMaxOpenConns)
	positiveInt("DB_MAX_IDLE_CONNS", &cfg.DBMaxIdleConns)
	positiveInt("DB_CONN_MAX_LIFETIME_SECONDS", &cfg.DBConnMaxLifetimeSeconds)
	positiveInt("DB_CONN_MAX_IDLE_SECONDS", &cfg.DBConnMaxIdleTimeSeconds)
	if raw := os.Getenv("MESSAGES_PER_SECOND"); raw != "" {
		if value, err := strconv.ParseFloat(raw, 64); err == nil && value > 0 {
			cfg.MessagesPerSecond = value
		}
	}
	return cfg
}

func positiveInt(key string, dest *int) {
	raw := os.Getenv(key)
	if raw == "" {
		return
	}
	if value, err := strconv.Atoi(raw); err == nil && value > 0 {
		*dest = value
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (c Config) CountdownTick() time.Duration {
	return time.Duration(c.CountdownTickMillis) * time.Millisecond
}

func (c Config) ObstacleInterval() time.Duration {
	return time.Duration(c.ObstacleIntervalMillis) * time.Millisecond
}

func (c Config) ObstacleRetention() time.Duration {
	return time.Duration(c.ObstacleRetentionSeconds) * time.Second
}

func (c Config) EndGrace() time.Duration {
	return time.Duration(c.EndGraceMillis) * time.Millisecond
}

// ArenaSettings converts the loaded values into engine settings.
func (c Config) ArenaSettings() arena.Settings {
	settings := arena.DefaultSettings()
	settings.RunnerMaxPlayers = c.RunnerMaxPlayers
	settings.QuizMaxPlayers = c.QuizMaxPlayers
	settings.CountdownTicks = c.CountdownTicks
	settings.TickInterval = c.CountdownTick()
	settings.ObstacleInterval = c.ObstacleInterval()
	settings.ObstacleRetention = c.ObstacleRetention()
	settings.EndGrace = c.EndGrace()
	return settings
}
