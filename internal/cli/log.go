package cli

import (
	"io"

	"github.com/sirupsen/logrus"

	"image-editor/internal/config"
)

// newLogger builds the process logger: coloured text with full timestamps in
// debug mode, JSON otherwise.
func newLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(cfg.Level())

	if cfg.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   cfg.Debug,
		})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	logger.Debug("Debug logging enabled")
	return logger
}
