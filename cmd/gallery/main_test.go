package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/gallery/pkg/level"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(os.Stderr)
	return root.ExecuteContext(context.Background())
}

func TestSnapshotWritesPNG(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "frame.png")
	logFile := filepath.Join(dir, "gallery.log")

	if err := run(t, "snapshot", "-o", out, "--width", "64", "--height", "36", "--shoot", "--log-file", logFile); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
		t.Fatalf("no image written: %v", err)
	}
	if fi, err := os.Stat(logFile); err != nil || fi.Size() == 0 {
		t.Errorf("log file empty: %v", err)
	}
}

func TestStatsOnLevelFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.txt")
	if err := os.WriteFile(path, []byte("G--.\n|X.|\nL-P-\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, "stats", path, "--headings", "4", "--log-file", filepath.Join(dir, "log")); err != nil {
		t.Fatalf("stats: %v", err)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"missing level", []string{"stats", filepath.Join(dir, "nope.txt")}},
		{"bad headings", []string{"stats", "--headings", "0"}},
		{"bad log level", []string{"stats", "--log-level", "loud"}},
		{"bad fov", []string{"snapshot", "--fov", "0", "-o", filepath.Join(dir, "x.png")}},
		{"unwritable output", []string{"snapshot", "--width", "8", "--height", "8", "-o", filepath.Join(dir, "no", "x.png")}},
		{"too many args", []string{"play", "a", "b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := run(t, tc.args...); err == nil {
				t.Errorf("%v: expected error", tc.args)
			}
		})
	}
}

func TestLoadTilemapDefault(t *testing.T) {
	tm, err := loadTilemap(nil)
	if err != nil {
		t.Fatal(err)
	}
	if tm.Rows != level.Default().Rows {
		t.Errorf("rows = %d, want the built-in level", tm.Rows)
	}
}
