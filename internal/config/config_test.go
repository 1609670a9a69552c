package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected
// default values. Changes to defaults are intentional when this test is
// updated alongside them.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Depth is 2", func(t *testing.T) {
		t.Parallel()
		if cfg.Depth != 2 {
			t.Errorf("expected Depth to be 2, got %d", cfg.Depth)
		}
	})

	t.Run("default Workers is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Workers != 4 {
			t.Errorf("expected Workers to be 4, got %d", cfg.Workers)
		}
	})

	t.Run("default Timeout is 60 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 60*time.Second {
			t.Errorf("expected Timeout to be 60s, got %v", cfg.Timeout)
		}
	})

	t.Run("default FetchTimeout is 10 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.FetchTimeout != 10*time.Second {
			t.Errorf("expected FetchTimeout to be 10s, got %v", cfg.FetchTimeout)
		}
	})

	t.Run("default MaxPages is unlimited", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxPages != 0 {
			t.Errorf("expected MaxPages to be 0, got %d", cfg.MaxPages)
		}
	})

	t.Run("default BatchSize is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.BatchSize != 1 {
			t.Errorf("expected BatchSize to be 1, got %d", cfg.BatchSize)
		}
	})

	t.Run("default Strict is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Strict {
			t.Error("expected Strict to be false")
		}
	})

	t.Run("default MaxBodySize is 5MB", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBodySize != 5*1024*1024 {
			t.Errorf("expected MaxBodySize to be 5MB, got %d", cfg.MaxBodySize)
		}
	})

	t.Run("default UserAgent identifies mailspider", func(t *testing.T) {
		t.Parallel()
		if cfg.UserAgent == "" {
			t.Error("expected UserAgent to be non-empty")
		}
	})

	t.Run("default DBDir is set", func(t *testing.T) {
		t.Parallel()
		if cfg.DBDir == "" {
			t.Error("expected DBDir to be non-empty")
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case exercises one validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	// validConfig returns a minimal valid configuration.
	// Tests modify specific fields to trip validation rules.
	validConfig := func() *Config {
		return &Config{
			Seeds:        []string{"example.com"},
			Depth:        2,
			Workers:      4,
			Timeout:      60 * time.Second,
			FetchTimeout: 10 * time.Second,
			BatchSize:    1,
		}
	}

	t.Run("valid config returns nil", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("multiple seeds is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Seeds = []string{"example.com", "example.org", "example.net"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("empty seeds returns ErrNoSeedURL", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Seeds = nil

		err := cfg.Validate()
		if !errors.Is(err, ErrNoSeedURL) {
			t.Errorf("expected ErrNoSeedURL, got %v", err)
		}
	})

	t.Run("zero depth is valid", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Depth = 0
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("negative depth returns ErrInvalidDepth", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Depth = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidDepth) {
			t.Errorf("expected ErrInvalidDepth, got %v", err)
		}
	})

	t.Run("zero workers returns ErrInvalidWorkerCount", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Workers = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("expected ErrInvalidWorkerCount, got %v", err)
		}
	})

	t.Run("zero timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.Timeout = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("zero fetch timeout returns ErrInvalidTimeout", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.FetchTimeout = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidTimeout) {
			t.Errorf("expected ErrInvalidTimeout, got %v", err)
		}
	})

	t.Run("negative max pages returns ErrInvalidMaxPages", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxPages = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("negative max body size returns ErrInvalidMaxBodySize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MaxBodySize = -1

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidMaxBodySize) {
			t.Errorf("expected ErrInvalidMaxBodySize, got %v", err)
		}
	})

	t.Run("zero batch size returns ErrInvalidBatchSize", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.BatchSize = 0

		err := cfg.Validate()
		if !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("json and markdown together returns ErrConflictingReportFormats", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.JSONReport = true
		cfg.MarkdownReport = true

		err := cfg.Validate()
		if !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

// TestXDGDirs verifies that the XDG helper paths end with the app name.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("data dir ends with mailspider", func(t *testing.T) {
		t.Parallel()
		dir := XDGDataDir()
		if dir == "" {
			t.Fatal("expected non-empty data dir")
		}
	})

	t.Run("config dir ends with mailspider", func(t *testing.T) {
		t.Parallel()
		dir := XDGConfigDir()
		if dir == "" {
			t.Fatal("expected non-empty config dir")
		}
	})
}
