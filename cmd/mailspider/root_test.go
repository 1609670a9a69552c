package main

import (
	"testing"
	"time"

	"github.com/mailspider/mailspider/internal/config"
)

// TestNewRootCmd verifies the command surface.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has expected use line", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "mailspider <url> [url...]" {
			t.Errorf("unexpected use line %q", cmd.Use)
		}
	})

	t.Run("has expected subcommands", func(t *testing.T) {
		t.Parallel()

		want := map[string]bool{"history": false, "init": false, "version": false}
		for _, sub := range cmd.Commands() {
			if _, ok := want[sub.Name()]; ok {
				want[sub.Name()] = true
			}
		}
		for name, found := range want {
			if !found {
				t.Errorf("expected subcommand %q", name)
			}
		}
	})

	t.Run("has persistent verbose flag", func(t *testing.T) {
		t.Parallel()
		if cmd.PersistentFlags().Lookup("verbose") == nil {
			t.Error("expected persistent verbose flag")
		}
	})

	t.Run("registers all scan flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"depth", "threads", "timeout", "fetch-timeout", "max-pages",
			"strict", "ignore", "user-agent", "batch", "config",
			"json", "markdown", "output", "no-color", "no-save",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected flag %q", name)
			}
		}
	})
}

// TestBuildConfig tests flag-to-config translation.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults fill the config", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Depth != config.DefaultDepth {
			t.Errorf("expected default depth, got %d", cfg.Depth)
		}
		if cfg.Workers != config.DefaultWorkers {
			t.Errorf("expected default workers, got %d", cfg.Workers)
		}
		if cfg.Timeout != config.DefaultTimeout {
			t.Errorf("expected default timeout, got %v", cfg.Timeout)
		}
		if len(cfg.Seeds) != 1 || cfg.Seeds[0] != "example.com" {
			t.Errorf("expected positional seed, got %v", cfg.Seeds)
		}
		if cfg.Sites == nil {
			t.Error("expected a site config map even without a config file")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		err := cmd.ParseFlags([]string{
			"-d", "5",
			"-t", "16",
			"--timeout", "300",
			"--strict",
			"--max-pages", "50",
			"--no-save",
			"--json",
		})
		if err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com", "example.org"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if cfg.Depth != 5 {
			t.Errorf("expected depth 5, got %d", cfg.Depth)
		}
		if cfg.Workers != 16 {
			t.Errorf("expected 16 workers, got %d", cfg.Workers)
		}
		if cfg.Timeout != 300*time.Second {
			t.Errorf("expected 300s timeout, got %v", cfg.Timeout)
		}
		if !cfg.Strict {
			t.Error("expected strict mode")
		}
		if cfg.MaxPages != 50 {
			t.Errorf("expected max pages 50, got %d", cfg.MaxPages)
		}
		if !cfg.NoSave {
			t.Error("expected no-save")
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report")
		}
		if len(cfg.Seeds) != 2 {
			t.Errorf("expected 2 seeds, got %v", cfg.Seeds)
		}
	})

	t.Run("explicit missing config file errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"-c", "/nonexistent/config.yaml"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"example.com"}); err == nil {
			t.Error("expected an error for a missing explicit config file")
		}
	})

	t.Run("conflicting report formats fail validation", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"example.com"})
		if err != nil {
			t.Fatalf("expected build to succeed, got %v", err)
		}
		if err := cfg.Validate(); err == nil {
			t.Error("expected validation to reject conflicting formats")
		}
	})
}

// TestFlagsChanged verifies detection of explicitly set flags.
func TestFlagsChanged(t *testing.T) {
	t.Parallel()

	t.Run("nothing changed by default", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		explicit := flagsChanged(cmd)
		if explicit.depth || explicit.threads || explicit.strict || explicit.userAgent || explicit.ignore {
			t.Errorf("expected no explicit flags, got %+v", explicit)
		}
	})

	t.Run("set flags are reported", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		if err := cmd.ParseFlags([]string{"-d", "3", "--strict"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		explicit := flagsChanged(cmd)
		if !explicit.depth || !explicit.strict {
			t.Errorf("expected depth and strict to be explicit, got %+v", explicit)
		}
		if explicit.threads {
			t.Error("expected threads to be implicit")
		}
	})
}
