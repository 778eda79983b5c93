package logger

import "go.uber.org/zap"

// Log is the package-global logger. It defaults to a no-op logger so
// packages can log before Initialize runs (tests, mainly).
var Log = zap.NewNop()

// Initialize builds the production logger at the given level and
// installs it as Log.
func Initialize(level string) error {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = log
	return nil
}
