// Package config loads and validates server settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Line ending names accepted by Config.LineEnding.
const (
	LineEndingLF   = "lf"
	LineEndingCRLF = "crlf"
)

// Config holds the settings of a server. It can be decoded from TOML or YAML;
// durations are written as strings such as "1s" or "500ms".
type Config struct {
	// Directory is the root whose files are served.
	Directory string `toml:"directory" yaml:"directory"`
	// Port is the TCP port bound on all IPv4 interfaces.
	Port uint16 `toml:"port" yaml:"port"`
	// ReadTimeout bounds the single read of a request.
	ReadTimeout time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	// WriteTimeout bounds writing the response.
	WriteTimeout time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	// BufferSize is the maximum number of request bytes read per connection.
	BufferSize int `toml:"buffer_size" yaml:"buffer_size"`
	// MaxConnections caps connections handled at once. Zero means no cap;
	// one handles connections strictly one after another.
	MaxConnections int `toml:"max_connections" yaml:"max_connections"`
	// LineEnding is "lf" (bare "\n") or "crlf".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`
	// AccessLog enables one log line per handled request.
	AccessLog bool `toml:"access_log" yaml:"access_log"`
}

// Default returns the settings used when nothing else is given.
func Default() Config {
	return Config{
		Directory:      ".",
		Port:           1024,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		BufferSize:     1024,
		MaxConnections: 64,
		LineEnding:     LineEndingLF,
		AccessLog:      true,
	}
}

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load reads path on top of Default. The format is chosen by extension:
// .toml for TOML, .yaml or .yml for YAML. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return cfg, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF and keeps the defaults.
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used. It does not touch
// the filesystem; the directory is checked when the server is built.
func (c Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory must not be empty")
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read_timeout must be positive, got %s", c.ReadTimeout)
	}
	if c.WriteTimeout <= 0 {
		return fmt.Errorf("write_timeout must be positive, got %s", c.WriteTimeout)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be positive, got %d", c.BufferSize)
	}
	if c.MaxConnections < 0 {
		return fmt.Errorf("max_connections must not be negative, got %d", c.MaxConnections)
	}
	switch c.LineEnding {
	case LineEndingLF, LineEndingCRLF:
	default:
		return fmt.Errorf("line_ending must be %q or %q, got %q", LineEndingLF, LineEndingCRLF, c.LineEnding)
	}
	return nil
}

// EOL returns the line terminator selected by LineEnding.
func (c Config) EOL() string {
	if c.LineEnding == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}
