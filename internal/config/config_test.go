package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: time.Second,
			RequestTimeout:  time.Minute,
		},
		Data: DataConfig{CSVPath: "record.csv"},
		Export: ExportConfig{
			MaxBodySize:   1024,
			MaxConcurrent: 1,
			MaxWaitTime:   time.Second,
			SweepInterval: time.Minute,
			SweepMaxAge:   time.Hour,
		},
		Rate:     RateLimitConfig{Enabled: true, RequestsPerMinute: 100},
		Security: SecurityConfig{AllowedOrigins: []string{"*"}},
		Logging:  LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 3000)
	}
	if cfg.Data.CSVPath != "record.csv" {
		t.Errorf("Data.CSVPath = %q, want %q", cfg.Data.CSVPath, "record.csv")
	}
	if cfg.Export.TempDir != "" {
		t.Errorf("Export.TempDir = %q, want empty", cfg.Export.TempDir)
	}
	if cfg.Export.MaxConcurrent != 8 {
		t.Errorf("Export.MaxConcurrent = %d, want %d", cfg.Export.MaxConcurrent, 8)
	}
	if cfg.Export.MaxBodySize != 10485760 {
		t.Errorf("Export.MaxBodySize = %d, want %d", cfg.Export.MaxBodySize, 10485760)
	}
	if len(cfg.Security.AllowedOrigins) != 1 || cfg.Security.AllowedOrigins[0] != "*" {
		t.Errorf("Security.AllowedOrigins = %v, want [*]", cfg.Security.AllowedOrigins)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DATA_CSV_PATH", "/data/sales.csv")
	t.Setenv("EXPORT_MAX_CONCURRENT", "2")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Data.CSVPath != "/data/sales.csv" {
		t.Errorf("Data.CSVPath = %q", cfg.Data.CSVPath)
	}
	if cfg.Export.MaxConcurrent != 2 {
		t.Errorf("Export.MaxConcurrent = %d, want %d", cfg.Export.MaxConcurrent, 2)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	t.Setenv("PORT", "4000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 4000)
	}
}

func TestLoad_PrimaryWinsOverAlt(t *testing.T) {
	t.Setenv("SERVER_PORT", "5000")
	t.Setenv("PORT", "4000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 5000)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "45s")
	t.Setenv("EXPORT_MAX_WAIT_TIME", "1m30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Export.MaxWaitTime != 90*time.Second {
		t.Errorf("Export.MaxWaitTime = %v, want %v", cfg.Export.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("EXPORT_MAX_CONCURRENT", "many")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error for non-numeric value")
	}
	if !strings.Contains(err.Error(), "EXPORT_MAX_CONCURRENT") {
		t.Errorf("error should mention EXPORT_MAX_CONCURRENT: %v", err)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12 , 192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
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
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"invalid port", func(c *Config) { c.Server.Port = 99999 }, "SERVER_PORT"},
		{"empty csv path", func(c *Config) { c.Data.CSVPath = " " }, "DATA_CSV_PATH"},
		{"zero export slots", func(c *Config) { c.Export.MaxConcurrent = 0 }, "EXPORT_MAX_CONCURRENT"},
		{"zero body size", func(c *Config) { c.Export.MaxBodySize = 0 }, "EXPORT_MAX_BODY_SIZE"},
		{"no origins", func(c *Config) { c.Security.AllowedOrigins = nil }, "CORS_ALLOWED_ORIGINS"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"rate limit without rate", func(c *Config) { c.Rate.RequestsPerMinute = 0 }, "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"rate limit disabled", func(c *Config) { c.Rate.Enabled = false; c.Rate.RequestsPerMinute = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error mentioning %s", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error should mention %s: %v", tt.wantErr, err)
			}
		})
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"", 3000, ":3000"},
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

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	if !strings.Contains(str, "record.csv") {
		t.Errorf("String() should include the CSV path: %s", str)
	}
}
