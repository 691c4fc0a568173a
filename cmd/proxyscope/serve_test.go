package main

import (
	"testing"

	"github.com/nao1215/proxyscope/internal/config"
)

// TestBuildServeConfig tests flag handling of the serve command.
func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"-c", emptyConfig(t)}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildServeConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ListenAddr != config.DefaultListenAddr {
			t.Errorf("expected %s, got %s", config.DefaultListenAddr, cfg.ListenAddr)
		}
		if len(cfg.DataFiles) != 1 || cfg.DataFiles[0] != config.DefaultDataFile {
			t.Errorf("unexpected data files %v", cfg.DataFiles)
		}
		if cfg.SaveToDB {
			t.Error("serve must not record history")
		}
	})

	t.Run("listen flag and file argument", func(t *testing.T) {
		t.Parallel()

		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"-l", ":9000", "-c", emptyConfig(t)}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildServeConfig(cmd, []string{"data.csv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ListenAddr != ":9000" || cfg.DataFiles[0] != "data.csv" {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("too many arguments", func(t *testing.T) {
		t.Parallel()

		if _, err := execute(t, "serve", "a.csv", "b.csv"); err == nil {
			t.Error("expected error for two files")
		}
	})
}
