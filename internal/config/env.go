package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// LoadDotEnv loads KEY=VALUE pairs from files (default ".env") into the
// process environment. Variables already set are kept. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
		log.WithField("file", f).Debug("loaded environment file")
	}
	return nil
}
