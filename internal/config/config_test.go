package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Directory != "." || cfg.Port != 1024 {
		t.Errorf("Default() = %+v, want directory . and port 1024", cfg)
	}
	if cfg.ReadTimeout != time.Second || cfg.WriteTimeout != time.Second {
		t.Errorf("Default() timeouts = %s/%s, want 1s/1s", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if cfg.BufferSize != 1024 {
		t.Errorf("Default().BufferSize = %d, want 1024", cfg.BufferSize)
	}
	if cfg.EOL() != "\n" {
		t.Errorf("Default().EOL() = %q, want bare newline", cfg.EOL())
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    func(Config) bool
	}{
		{
			name: "TOML",
			file: "sfs.toml",
			content: `directory = "public"
port = 8080
read_timeout = "250ms"
line_ending = "crlf"
access_log = false
`,
			want: func(c Config) bool {
				return c.Directory == "public" && c.Port == 8080 &&
					c.ReadTimeout == 250*time.Millisecond && c.WriteTimeout == time.Second &&
					c.EOL() == "\r\n" && !c.AccessLog
			},
		},
		{
			name: "YAML",
			file: "sfs.yaml",
			content: `directory: www
port: 9000
write_timeout: 2s
max_connections: 1
`,
			want: func(c Config) bool {
				return c.Directory == "www" && c.Port == 9000 &&
					c.WriteTimeout == 2*time.Second && c.MaxConnections == 1 &&
					c.BufferSize == 1024 && c.AccessLog
			},
		},
		{
			name:    "YML extension",
			file:    "sfs.yml",
			content: "buffer_size: 4096\n",
			want:    func(c Config) bool { return c.BufferSize == 4096 && c.Directory == "." },
		},
		{
			name:    "Empty YAML keeps defaults",
			file:    "empty.yaml",
			content: "",
			want:    func(c Config) bool { return c == Default() },
		},
		{
			name:    "Empty TOML keeps defaults",
			file:    "empty.toml",
			content: "",
			want:    func(c Config) bool { return c == Default() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if !tt.want(cfg) {
				t.Errorf("Load() = %+v", cfg)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{name: "Unknown format", file: "sfs.ini", content: "port=1", wantErr: "unsupported config format"},
		{name: "Bad TOML", file: "bad.toml", content: "port = ", wantErr: "failed to parse"},
		{name: "Unknown TOML key", file: "extra.toml", content: "colour = \"red\"\n", wantErr: "unknown key"},
		{name: "Bad YAML", file: "bad.yaml", content: "port: [1,", wantErr: "failed to parse"},
		{name: "Unknown YAML key", file: "extra.yaml", content: "port: 8080\ncolour: red\n", wantErr: "colour"},
		{name: "Port out of range", file: "port.toml", content: "port = 70000\n", wantErr: "failed to parse"},
		{name: "Invalid line ending", file: "eol.yaml", content: "line_ending: cr\n", wantErr: "line_ending"},
		{name: "Zero buffer", file: "buf.toml", content: "buffer_size = 0\n", wantErr: "buffer_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "Empty directory", mutate: func(c *Config) { c.Directory = "" }},
		{name: "Zero read timeout", mutate: func(c *Config) { c.ReadTimeout = 0 }},
		{name: "Negative write timeout", mutate: func(c *Config) { c.WriteTimeout = -time.Second }},
		{name: "Negative max connections", mutate: func(c *Config) { c.MaxConnections = -1 }},
		{name: "Empty line ending", mutate: func(c *Config) { c.LineEnding = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error")
			}
		})
	}
}
