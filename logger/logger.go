package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger.
var Log = logrus.New()

// Init configures the shared logger. Called once at startup and from TestMain
// in test packages.
func Init() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Log.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts verbosity from the configured level name. Unknown names
// fall back to info.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Log.SetLevel(parsed)
}

// SetOutput redirects log output. The terminal shell owns stdout, so the app
// points this at a file in the data directory.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}
