package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/nhle/taskboard/internal/model"
)

// Logging environments.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Setup builds the application logger for cfg.Env. Local development logs
// colored text at debug level to stderr; dev logs plain text at info level;
// prod logs JSON at warn level. When cfg.File is set, output goes to that
// file instead of stderr. The returned closer releases the file.
func Setup(cfg model.LogConfig) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file %s: %w", cfg.File, err)
		}
		log.SetOutput(f)
		closer = f
	}

	switch cfg.Env {
	case EnvLocal, "":
		log.SetLevel(logrus.DebugLevel)
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.File == "",
			FullTimestamp: true,
		})
	case EnvDev:
		log.SetLevel(logrus.InfoLevel)
		log.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	case EnvProd:
		log.SetLevel(logrus.WarnLevel)
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		closer.Close()
		return nil, nil, fmt.Errorf("unknown log env %q", cfg.Env)
	}

	return log, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
