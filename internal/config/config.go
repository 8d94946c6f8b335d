package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/igor37/exorg/internal/resolve"
)

// Config holds the application configuration
type Config struct {
	Strict          bool              `mapstructure:"strict"`
	MaxIncludeDepth int               `mapstructure:"max_include_depth"`
	OutDir          string            `mapstructure:"out_dir"`
	Extensions      map[string]string `mapstructure:"extensions"`
	DebounceMs      int               `mapstructure:"debounce_ms"`
	Debug           bool              `mapstructure:"debug"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("strict", false)
	viper.SetDefault("max_include_depth", resolve.DefaultMaxDepth)
	viper.SetDefault("out_dir", ".")
	viper.SetDefault("extensions", map[string]string{})
	viper.SetDefault("debounce_ms", 300)
	viper.SetDefault("debug", false)

	viper.SetConfigName("exorg")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "exorg"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("EXORG")
	viper.AutomaticEnv()

	// Try to read config, but don't fail if not found or malformed
	_ = viper.ReadInConfig()

	return viper.Unmarshal(&C)
}

// GetStrict returns whether recoverable document problems are hard errors
func GetStrict() bool {
	return viper.GetBool("strict")
}

// GetMaxIncludeDepth returns the include nesting limit
func GetMaxIncludeDepth() int {
	return viper.GetInt("max_include_depth")
}

// GetOutDir returns the output directory with tilde expansion
func GetOutDir() string {
	return expandTilde(viper.GetString("out_dir"))
}

// GetExtensions returns extra language extension pairs from configuration
func GetExtensions() map[string]string {
	return viper.GetStringMapString("extensions")
}

// GetDebounce returns the watch-mode debounce interval
func GetDebounce() time.Duration {
	return time.Duration(viper.GetInt("debounce_ms")) * time.Millisecond
}

// GetDebug returns whether debug logging is enabled
func GetDebug() bool {
	return viper.GetBool("debug")
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
