package logging

import (
	"os"
	"sync"
)

var (
	instance *Logger
	mu       sync.RWMutex
)

// InitLogger builds the process-wide logger from config.
// It should be called once at startup before any GetGlobalLogger usage.
func InitLogger(config *Config) error {
	logger, err := NewLogger(config)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	instance = logger
	return nil
}

// GetGlobalLogger returns the process-wide logger.
// Before InitLogger has been called it falls back to an info-level stdout logger.
func GetGlobalLogger() *Logger {
	mu.RLock()
	if instance != nil {
		defer mu.RUnlock()
		return instance
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = NewWriterLogger(os.Stdout, LevelInfo)
	}
	return instance
}
