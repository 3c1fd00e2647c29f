package internal

import (
	"io"
	"log"
	"os"
)

// InitLogging sends the standard logger to stderr so stdout stays free for
// converted records.
func InitLogging() {
	InitLoggingTo(os.Stderr)
}

// InitLoggingTo sends the standard logger to w.
func InitLoggingTo(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
