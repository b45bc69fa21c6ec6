package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

const (
	environmentVariablePort                 = "PORT"
	environmentVariableWordsFile            = "WORDS_FILE"
	environmentVariableLanguage              = "LANGUAGE"
	environmentVariableDebugGame            = "DEBUG_GAME_MESSAGES"
	environmentVariableTurnSeconds          = "TURN_SECONDS"
	environmentVariableMaxConsecutivePasses = "MAX_CONSECUTIVE_PASSES"
	environmentVariableIdleMinutes          = "IDLE_MINUTES"
	environmentVariableClientOrigin         = "CLIENT_ORIGIN"
)

type mainFlags struct {
	port                 int
	wordsFile            string
	language             string
	debugGame            bool
	turnSeconds          int
	maxConsecutivePasses int
	idleMinutes          int
	clientOrigin         string
}

const (
	defaultPort                 = 4000
	defaultTurnSeconds          = 120
	defaultMaxConsecutivePasses = 6
	defaultIdleMinutes          = 30
)

func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableWordsFile,
		environmentVariableLanguage,
		environmentVariableDebugGame,
		environmentVariableTurnSeconds,
		environmentVariableMaxConsecutivePasses,
		environmentVariableIdleMinutes,
		environmentVariableClientOrigin,
	}
	fmt.Fprintln(fs.Output(), "Starts the word game server")
	fmt.Fprintln(fs.Output(), "Reads environment variables when possible:", fmt.Sprintf("[%s]", strings.Join(envVars, ",")))
	fmt.Fprintln(fs.Output(), fmt.Sprintf("Usage of %s:", fs.Name()))
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet("main", flag.ExitOnError)
	fs.Usage = func() { usage(fs) }

	envOrDefault := func(key, defaultValue string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return defaultValue
	}
	envOrDefaultInt := func(key string, defaultValue int) int {
		v1 := envOrDefault(key, strconv.Itoa(defaultValue))
		if v2, err := strconv.Atoi(v1); err == nil {
			return v2
		}
		return defaultValue
	}
	envPresent := func(key string) bool {
		_, ok := osLookupEnvFunc(key)
		return ok
	}
	fs.IntVar(&m.port, "port", envOrDefaultInt(environmentVariablePort, defaultPort), "The TCP port the server listens on.")
	fs.StringVar(&m.wordsFile, "words-file", envOrDefault(environmentVariableWordsFile, ""), "The list of valid lower-case words that can be used. Auto-discovered from common locations if not set.")
	fs.StringVar(&m.language, "language", envOrDefault(environmentVariableLanguage, "EN"), "The tile distribution language to use: EN or FR.")
	fs.BoolVar(&m.debugGame, "debug-game", envPresent(environmentVariableDebugGame), "Logs game message types in the console if present.")
	fs.IntVar(&m.turnSeconds, "turn-seconds", envOrDefaultInt(environmentVariableTurnSeconds, defaultTurnSeconds), "How long a player has to act before their turn is forcibly passed.")
	fs.IntVar(&m.maxConsecutivePasses, "max-consecutive-passes", envOrDefaultInt(environmentVariableMaxConsecutivePasses, defaultMaxConsecutivePasses), "The number of consecutive passes that ends a game.")
	fs.IntVar(&m.idleMinutes, "idle-minutes", envOrDefaultInt(environmentVariableIdleMinutes, defaultIdleMinutes), "How long a room may sit with no connected players before it is removed.")
	fs.StringVar(&m.clientOrigin, "client-origin", envOrDefault(environmentVariableClientOrigin, ""), "The origin clients connect from. Empty allows any origin.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programArgs := osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}
