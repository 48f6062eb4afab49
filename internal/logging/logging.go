package logging

import "log"

// Logger is the levelled sink injected into components at construction.
// Injecting it (instead of reaching for a package-level logger) keeps log
// output capturable in tests.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Std writes through the standard log package with level prefixes.
type Std struct{}

func (Std) Infof(format string, args ...any)  { log.Printf("[INFO] "+format, args...) }
func (Std) Warnf(format string, args ...any)  { log.Printf("[WARN] "+format, args...) }
func (Std) Errorf(format string, args ...any) { log.Printf("[ERROR] "+format, args...) }

// Default returns the process-wide standard sink.
func Default() Logger { return Std{} }

// OrDefault substitutes the standard sink for a nil logger.
func OrDefault(l Logger) Logger {
	if l == nil {
		return Std{}
	}
	return l
}
