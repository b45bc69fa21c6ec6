package main

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"
)

func TestServerConfig(t *testing.T) {
	f, err := os.CreateTemp("", "words-*.txt")
	if err != nil {
		t.Fatalf("creating temp words file: %v", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.WriteString("CAT\nDOG\n"); err != nil {
		t.Fatalf("writing temp words file: %v", err)
	}
	f.Close()

	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	m := mainFlags{
		port:                 4000,
		wordsFile:            f.Name(),
		language:             "EN",
		turnSeconds:          120,
		maxConsecutivePasses: 6,
		idleMinutes:          30,
	}
	cfg, timersCfg, err := serverConfig(context.Background(), m, logger)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if cfg.Coordinator == nil {
		t.Error("wanted coordinator to be set")
	}
	if want, got := "4000", cfg.Port; want != got {
		t.Errorf("port: wanted %v, got %v", want, got)
	}
	if timersCfg.Registry == nil {
		t.Error("wanted timers config to share the coordinator's registry")
	}
}

func TestServerConfigUnopenableWordsFileErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	m := mainFlags{
		port:                 4000,
		wordsFile:            "/nonexistent/path/to/words.txt",
		language:             "EN",
		turnSeconds:          120,
		maxConsecutivePasses: 6,
		idleMinutes:          30,
	}
	if _, _, err := serverConfig(context.Background(), m, logger); err == nil {
		t.Error("wanted an explicit words file that cannot be opened to fail configuration")
	}
}

func TestCheckOriginFunc(t *testing.T) {
	if fn := checkOriginFunc(""); fn != nil {
		t.Error("wanted nil (permissive) check for empty origin")
	}
	fn := checkOriginFunc("https://example.com")
	if fn == nil {
		t.Fatal("wanted a non-nil check for a configured origin")
	}
}
