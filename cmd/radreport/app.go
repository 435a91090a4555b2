package main

import (
	"context"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/mrsinham/radreport/internal/catalog"
	"github.com/mrsinham/radreport/internal/config"
	"github.com/mrsinham/radreport/internal/logging"
)

// newLogger builds the command logger. Output goes to stderr unless
// log.file names a file. The returned closer releases that file.
func newLogger(cfg *config.Config) (*logrus.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)

	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return nil, nil, err
		}
		out, closer = f, f
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: out,
	})
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return logger, closer, nil
}

// loadCatalog reads the configured catalog. A load failure is logged and an
// empty catalog returned with the error, which callers may treat as fatal.
func loadCatalog(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*catalog.Catalog, error) {
	src := cfg.CatalogSource()
	cat, err := catalog.LoadSource(ctx, src)
	if err != nil {
		log.WithError(err).WithField("source", src.Location).Warn("catalog load failed")
		return cat, err
	}

	for _, d := range cat.Dropped() {
		log.WithFields(logrus.Fields{
			"line":   d.Line,
			"name":   d.Name,
			"reason": d.Reason,
		}).Warn("catalog row dropped")
	}
	log.WithFields(logrus.Fields{
		"source":      src.Location,
		"pathologies": cat.Len(),
	}).Debug("catalog loaded")
	return cat, nil
}
