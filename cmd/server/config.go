package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/jsholden/wordbourne/bag"
	"github.com/jsholden/wordbourne/coordinator"
	"github.com/jsholden/wordbourne/dictionary"
	"github.com/jsholden/wordbourne/room"
	"github.com/jsholden/wordbourne/server"
	"github.com/jsholden/wordbourne/tile"
	"github.com/jsholden/wordbourne/timers"
	"lukechampine.com/frand"
)

// shuffleTiles adapts frand's math/rand-shaped Shuffle to bag.ShuffleFunc,
// seeded from the OS CSPRNG rather than a predictable default source.
func shuffleTiles(tiles []tile.Tile) {
	frand.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
}

// defaultWordsFiles are tried in order when m.wordsFile is empty.
var defaultWordsFiles = []string{
	"/usr/share/dict/words",
	"words.txt",
}

// serverConfig builds the server configuration and the background timers
// configuration that must run alongside it. The caller is responsible for
// starting timersCfg.Run with a context it controls.
func serverConfig(ctx context.Context, m mainFlags, log *log.Logger) (*server.Config, *timers.Config, error) {
	dict, err := dictionaryChecker(m, log)
	if err != nil {
		return nil, nil, err
	}
	registryCfg := room.RegistryConfig{
		Log:      log,
		IntnFunc: frand.Intn,
	}
	registry, err := registryCfg.NewRegistry()
	if err != nil {
		return nil, nil, err
	}
	coordCfg := coordinator.Config{
		Log:                  log,
		Debug:                m.debugGame,
		Registry:             registry,
		Dictionary:           dict,
		Language:             bag.Language(m.language),
		ShuffleFunc:          shuffleTiles,
		TurnDuration:         time.Duration(m.turnSeconds) * time.Second,
		MaxConsecutivePasses: m.maxConsecutivePasses,
		ExchangeCountsAsPass: true,
	}
	co, err := coordCfg.New()
	if err != nil {
		return nil, nil, err
	}
	timersCfg := timers.Config{
		Log:               log,
		Debug:             m.debugGame,
		Registry:          registry,
		OnTurnTimeout:     co.HandleTurnTimeout,
		IdleThreshold:     time.Duration(m.idleMinutes) * time.Minute,
		IdleSweepInterval: 5 * time.Minute,
		TurnTickInterval:  time.Second,
	}
	cfg := server.Config{
		Port:        fmt.Sprintf("%d", m.port),
		Log:         log,
		Coordinator: co,
		CheckOrigin: checkOriginFunc(m.clientOrigin),
		StopTimeout: 5 * time.Second,
	}
	return &cfg, &timersCfg, nil
}

// dictionaryChecker loads the word list named by m.wordsFile, or the first
// of defaultWordsFiles that exists. An explicitly named words file that
// cannot be opened is a configuration error. When -words-file is unset and
// no default file is found, it logs that fact and falls back to
// dictionary.Config.NewPermissive, which accepts every word.
func dictionaryChecker(m mainFlags, log *log.Logger) (*dictionary.Checker, error) {
	dictCfg := dictionary.Config{Logger: log}
	path := m.wordsFile
	if path == "" {
		for _, candidate := range defaultWordsFiles {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path == "" {
		log.Printf("no words file found, falling back to a permissive dictionary")
		return dictCfg.NewPermissive(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening words file: %w", err)
	}
	defer f.Close()
	return dictCfg.NewFromReader(f)
}

// checkOriginFunc returns nil (permissive) when origin is empty, otherwise
// an http.Request origin check accepting only that origin.
func checkOriginFunc(origin string) func(r *http.Request) bool {
	if origin == "" {
		return nil
	}
	return func(r *http.Request) bool {
		return r.Header.Get("Origin") == origin
	}
}
