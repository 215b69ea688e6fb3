package main

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

var logFile *os.File

func getLogFilePath() (string, error) {
	dir, err := gap.NewScope(gap.User, "voicegen").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "voicegen.log"), nil
}

// audioCacheDir is where rendered tracks are kept between runs.
func audioCacheDir() (string, error) {
	dir, err := gap.NewScope(gap.User, "voicegen").CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audio"), nil
}

// setupLog sends warnings to stderr. With debug enabled everything down to
// debug level goes to the log file instead.
func setupLog(debug bool) error {
	if logFile != nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	log.SetLevel(log.WarnLevel)
	if !debug {
		return nil
	}

	path, err := getLogFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec
		// log disabled
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		// log disabled
		return nil
	}

	logFile = f
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	log.SetReportTimestamp(true)
	log.Debug("Logging to file", "path", path)
	return nil
}

func closeLog() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
