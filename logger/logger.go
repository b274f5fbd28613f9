package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Call Init before first use.
var Log = logrus.New()

func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	Log.SetLevel(logrus.InfoLevel)
}
