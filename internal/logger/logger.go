package logger

import "log"

// Interface is the interface all loggers have to implement
type Interface interface {
	Error(message string, err error)
	Info(message string)
	Debug(message string)
	Fatal(err error)
}

// Logger writes leveled lines through the standard log package
type Logger struct {
	Verbose bool
}

func New(verbose bool) Logger {
	return Logger{Verbose: verbose}
}

func (l Logger) Error(message string, err error) {
	log.Printf("[ERROR] %s: %v\n", message, err)
}

func (l Logger) Info(message string) {
	log.Printf("[INFO] %s\n", message)
}

// Debug is dropped unless Verbose is set
func (l Logger) Debug(message string) {
	if !l.Verbose {
		return
	}
	log.Printf("[DEBUG] %s\n", message)
}

func (l Logger) Fatal(err error) {
	log.Fatalf("[FATAL] %v\n", err)
}

// Nop discards everything, for tests
type Nop struct{}

func (Nop) Error(string, error) {}
func (Nop) Info(string) {}
func (Nop) Debug(string) {}
func (Nop) Fatal(err error) { log.Fatalf("[FATAL] %v\n", err) }
