package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Backend    BackendConfig    `yaml:"backend"`
	Session    SessionConfig    `yaml:"session"`
	Log        LogConfig        `yaml:"log"`
	Web        WebConfig        `yaml:"web"`
	DevBackend DevBackendConfig `yaml:"dev_backend"`
}

// ServerConfig holds the console HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"HOST"                    env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	SecureCookie    bool          `yaml:"secure_cookie"    env:"SECURE_COOKIE"           env-default:"false"`
}

// BackendConfig points the console at the REST backend.
type BackendConfig struct {
	BaseURL string        `yaml:"base_url" env:"BACKEND_URL"     env-default:"http://localhost:8090"`
	Timeout time.Duration `yaml:"timeout"  env:"BACKEND_TIMEOUT" env-default:"15s"`
}

// SessionConfig selects where browser sessions are kept.
type SessionConfig struct {
	Store         string        `yaml:"store"          env:"SESSION_STORE"    env-default:"sqlite"`
	DSN           string        `yaml:"dsn"            env:"DB_PATH"          env-default:"console.db"`
	RedisAddr     string        `yaml:"redis_addr"     env:"REDIS_ADDR"       env-default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"       env:"REDIS_DB"         env-default:"0"`
	Duration      time.Duration `yaml:"duration"       env:"SESSION_DURATION" env-default:"720h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// WebConfig locates templates and static assets.
type WebConfig struct {
	TemplateDir string `yaml:"template_dir" env:"TEMPLATE_DIR" env-default:"web/templates"`
	StaticDir   string `yaml:"static_dir"   env:"STATIC_DIR"   env-default:"web/static"`
}

// DevBackendConfig configures cmd/devbackend.
type DevBackendConfig struct {
	Port          int           `yaml:"port"           env:"DEVBACKEND_PORT"    env-default:"8090"`
	Driver        string        `yaml:"driver"         env:"DEVBACKEND_DRIVER"  env-default:"sqlite"`
	DSN           string        `yaml:"dsn"            env:"DEVBACKEND_DB_PATH" env-default:"backend.db"`
	JWTSecret     string        `yaml:"jwt_secret"     env:"JWT_SECRET"`
	TokenTTL      time.Duration `yaml:"token_ttl"      env:"JWT_TOKEN_TTL"      env-default:"24h"`
	AdminName     string        `yaml:"admin_name"     env:"ADMIN_NAME"         env-default:"Administrator"`
	AdminEmail    string        `yaml:"admin_email"    env:"ADMIN_EMAIL"`
	AdminPassword string        `yaml:"admin_password" env:"ADMIN_PASSWORD"`
}
