package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
		Upload:  UploadConfig{MaxFileSize: 1, MaxFilesPerCategory: 20, MaxConcurrent: 1, MaxWaitTime: time.Second},
		Session: SessionConfig{TTL: time.Minute, SweepInterval: time.Second, MaxSessions: 1},
		Rate:    RateLimitConfig{Enabled: true, RequestsPerMinute: 100, UploadLimit: 10},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Upload.MaxFilesPerCategory != 20 {
		t.Errorf("Upload.MaxFilesPerCategory = %d, want %d", cfg.Upload.MaxFilesPerCategory, 20)
	}
	if cfg.Upload.MaxFileSize != 52428800 {
		t.Errorf("Upload.MaxFileSize = %d, want %d", cfg.Upload.MaxFileSize, 52428800)
	}
	if cfg.Session.TTL != 30*time.Minute {
		t.Errorf("Session.TTL = %v, want %v", cfg.Session.TTL, 30*time.Minute)
	}
	if cfg.Cache.MaxEntries != 256 {
		t.Errorf("Cache.MaxEntries = %d, want %d", cfg.Cache.MaxEntries, 256)
	}
	if !cfg.Security.EnableCSP {
		t.Error("Security.EnableCSP should default to true")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"SERVER_PORT":                   "9090",
		"UPLOAD_MAX_FILES_PER_CATEGORY": "5",
		"LOG_LEVEL":                     "debug",
		"CACHE_DISABLED":                "true",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Upload.MaxFilesPerCategory != 5 {
		t.Errorf("Upload.MaxFilesPerCategory = %d, want %d", cfg.Upload.MaxFilesPerCategory, 5)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Cache.Disabled {
		t.Error("Cache.Disabled = false, want true")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 7070)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{"PORT": "3000"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}
}

func TestLoad_InvalidInteger(t *testing.T) {
	_, err := LoadFrom(MapLookup(map[string]string{"SESSION_MAX": "lots"}))
	if err == nil {
		t.Fatal("LoadFrom() expected error for non-numeric SESSION_MAX")
	}
	if !strings.Contains(err.Error(), "SESSION_MAX") {
		t.Errorf("error should mention SESSION_MAX: %v", err)
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"SERVER_READ_TIMEOUT":  "45s",
		"UPLOAD_MAX_WAIT_TIME": "1m30s",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Upload.MaxWaitTime != 90*time.Second {
		t.Errorf("Upload.MaxWaitTime = %v, want %v", cfg.Upload.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	expected := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if len(cfg.Security.TrustedProxies) != len(expected) {
		t.Fatalf("TrustedProxies length = %d, want %d", len(cfg.Security.TrustedProxies), len(expected))
	}
	for i, v := range expected {
		if cfg.Security.TrustedProxies[i] != v {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], v)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"zero files per category", func(c *Config) { c.Upload.MaxFilesPerCategory = 0 }, "UPLOAD_MAX_FILES_PER_CATEGORY"},
		{"zero session ttl", func(c *Config) { c.Session.TTL = 0 }, "SESSION_TTL"},
		{"negative cache size", func(c *Config) { c.Cache.MaxEntries = -1 }, "CACHE_MAX_ENTRIES"},
		{"invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"invalid log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantKey) {
				t.Errorf("error should mention %s: %v", tt.wantKey, err)
			}
		})
	}

	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 8080, ":8080"},
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"127.0.0.1", 3000, "127.0.0.1:3000"},
	}

	for _, tt := range tests {
		cfg := &ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() with host=%q, port=%d = %q, want %q", tt.host, tt.port, got, tt.want)
		}
	}
}

func TestUploadConfig_MaxRequestSize(t *testing.T) {
	c := UploadConfig{MaxFileSize: 10, MaxFilesPerCategory: 3}
	if got, want := c.MaxRequestSize(), int64(10*3*2+1<<20); got != want {
		t.Errorf("MaxRequestSize() = %d, want %d", got, want)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !strings.Contains(cfg.String(), "MaxFilesPerCategory: 20") {
		t.Errorf("String() = %s", cfg.String())
	}
}
