package config

import (
	"strings"
	"time"

	"github.com/heartmarshall/readrace/internal/service/notify"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Remote      RemoteConfig      `yaml:"remote"`
	Storage     StorageConfig     `yaml:"storage"`
	Log         LogConfig         `yaml:"log"`
	Notify      NotifyConfig      `yaml:"notify"`
	Progression ProgressionConfig `yaml:"progression"`
	Race        RaceConfig        `yaml:"race"`
	CORS        CORSConfig        `yaml:"cors"`
	Auth        AuthConfig        `yaml:"auth"`
}

// ServerConfig holds the local presentation API settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8787" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimit       float64       `yaml:"rate_limit"       env:"SERVER_RATE_LIMIT"       env-default:"50"  validate:"gte=0"`
	RateBurst       int           `yaml:"rate_burst"       env:"SERVER_RATE_BURST"       env-default:"100" validate:"gte=1"`
}

// RemoteConfig holds the races backend client settings.
type RemoteConfig struct {
	BaseURL          string        `yaml:"base_url"          env:"REMOTE_BASE_URL"          env-required:"true" validate:"required,url"`
	Timeout          time.Duration `yaml:"timeout"           env:"REMOTE_TIMEOUT"           env-default:"10s"`
	RateLimit        float64       `yaml:"rate_limit"        env:"REMOTE_RATE_LIMIT"        env-default:"10" validate:"gte=0"`
	RateBurst        int           `yaml:"rate_burst"        env:"REMOTE_RATE_BURST"        env-default:"20" validate:"gte=1"`
	FailureThreshold uint32        `yaml:"failure_threshold" env:"REMOTE_FAILURE_THRESHOLD" env-default:"5"  validate:"gte=1"`
	OpenTimeout      time.Duration `yaml:"open_timeout"      env:"REMOTE_OPEN_TIMEOUT"      env-default:"30s"`
}

// Storage drivers.
const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
)

// StorageConfig selects where persisted local state lives.
type StorageConfig struct {
	Driver    string         `yaml:"driver"    env:"STORAGE_DRIVER"    env-default:"badger"  validate:"oneof=badger postgres"`
	Path      string         `yaml:"path"      env:"STORAGE_PATH"      env-default:"./data"`
	Namespace string         `yaml:"namespace" env:"STORAGE_NAMESPACE" env-default:"default" validate:"required,max=64"`
	Postgres  DatabaseConfig `yaml:"postgres"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json" validate:"oneof=json text"`
}

// NotifyConfig holds the badge toast schedule.
type NotifyConfig struct {
	ShowDelay  time.Duration `yaml:"show_delay"  env:"NOTIFY_SHOW_DELAY"  env-default:"50ms"`
	VisibleFor time.Duration `yaml:"visible_for" env:"NOTIFY_VISIBLE_FOR" env-default:"4s"`
	FadeOut    time.Duration `yaml:"fade_out"    env:"NOTIFY_FADE_OUT"    env-default:"300ms"`
}

// Timing returns the schedule the notification queue runs on.
func (n NotifyConfig) Timing() notify.Timing {
	return notify.Timing{
		ShowDelay:  n.ShowDelay,
		VisibleFor: n.VisibleFor,
		FadeOut:    n.FadeOut,
	}
}

// ProgressionConfig holds XP rewards and the user's calendar.
type ProgressionConfig struct {
	Timezone       string `yaml:"timezone"          env:"PROGRESSION_TIMEZONE"`
	RaceFinishXP   int    `yaml:"race_finish_xp"    env:"PROGRESSION_RACE_FINISH_XP"    env-default:"50"  validate:"gte=0"`
	RaceWinBonusXP int    `yaml:"race_win_bonus_xp" env:"PROGRESSION_RACE_WIN_BONUS_XP" env-default:"100" validate:"gte=0"`
}

// RaceConfig holds race session settings.
type RaceConfig struct {
	LeaderboardPollInterval time.Duration `yaml:"leaderboard_poll_interval" env:"RACE_LEADERBOARD_POLL_INTERVAL" env-default:"15s"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// AuthConfig holds the session used against the remote backend.
type AuthConfig struct {
	SessionToken string `yaml:"session_token" env:"AUTH_SESSION_TOKEN"`
}

// Origins splits AllowedOrigins into a trimmed list.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
