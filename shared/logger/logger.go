// Package logger builds the process logger.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02 15:04:05"

// New returns a logger writing to out at the given level. format is "text" or "json".
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		textFormat := new(logrus.TextFormatter)
		textFormat.TimestampFormat = timestampFormat
		textFormat.FullTimestamp = true
		log.SetFormatter(textFormat)
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	default:
		return nil, fmt.Errorf("invalid log format %q (use text or json)", format)
	}

	return log, nil
}
