// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"io"
	"log"
	"os"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. All levels
// write to the given writer with consistent prefixes & flags.
func InitLogger(out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	Info = log.New(out, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Warn = log.New(out, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(out, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(out, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// SetLogLevel adjusts the Debug logger's output depending on environment.
// In production debug output is discarded entirely; in development it
// stays on.
func SetLogLevel(env string) {
	if env == "production" {
		Debug.SetOutput(io.Discard)
	}
}

func init() {
	InitLogger(os.Stdout)
}
