package config

import "time"

// Storage backend names.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// StaticDir, when set, is served as the chat UI at the site root.
	StaticDir string `mapstructure:"static_dir" yaml:"static_dir"`

	// Storage selects the persistence backend: "file" or "sqlite".
	Storage      string `mapstructure:"storage" yaml:"storage"`
	DataDir      string `mapstructure:"data_dir" yaml:"data_dir"`
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	// CredentialMode requires login with a password instead of name-only join.
	CredentialMode bool `mapstructure:"credential_mode" yaml:"credential_mode"`
	// AdminName is the display name granted ban/unban privilege.
	AdminName string `mapstructure:"admin_name" yaml:"admin_name"`

	// MaxImageBytes caps embedded image payloads; larger ones are dropped.
	MaxImageBytes int64 `mapstructure:"max_image_bytes" yaml:"max_image_bytes"`
	// WSReadLimit caps a whole WebSocket frame. It must exceed
	// MaxImageBytes so an oversize image can be dropped without killing
	// the connection.
	WSReadLimit int64 `mapstructure:"ws_read_limit" yaml:"ws_read_limit"`
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		Storage:           StorageFile,
		DataDir:           "data",
		DatabasePath:      "data/khat.db",
		MaxImageBytes:     4 << 20,
		WSReadLimit:       6 << 20,
	}
}
