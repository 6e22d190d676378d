// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/go-car-market/internal/config"
	"github.com/MKhiriev/go-car-market/internal/logger"
)

const (
	// janitorInterval is how often the staging directory is swept.
	janitorInterval = 15 * time.Minute

	// staleAfter is the age past which a staged upload is considered
	// abandoned. Normally the service layer removes staged files as soon
	// as the media host upload settles; files this old were orphaned by
	// a crash or kill.
	staleAfter = time.Hour
)

// UploadsJanitor periodically removes abandoned staged upload files from
// the multipart staging directory.
type UploadsJanitor struct {
	dir    string
	logger *logger.Logger
}

func NewUploadsJanitor(cfg config.Uploads, logger *logger.Logger) *UploadsJanitor {
	return &UploadsJanitor{
		dir:    cfg.TempDir,
		logger: logger,
	}
}

// Run starts the sweep loop in a background goroutine and returns
// immediately. The loop runs for the lifetime of the process.
func (j *UploadsJanitor) Run() {
	if j.dir == "" {
		j.logger.Info().Msg("uploads janitor disabled: no staging directory configured")
		return
	}

	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()

		for range ticker.C {
			j.Sweep()
		}
	}()
}

// Sweep deletes every staged upload file older than staleAfter. Errors on
// individual files are logged and do not stop the sweep.
func (j *UploadsJanitor) Sweep() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		j.logger.Error().Err(err).Str("dir", j.dir).Msg("uploads janitor: cannot read staging directory")
		return
	}

	cutoff := time.Now().Add(-staleAfter)
	removed := 0

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(j.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			j.logger.Error().Err(err).Str("file", path).Msg("uploads janitor: cannot remove stale file")
			continue
		}
		removed++
	}

	if removed > 0 {
		j.logger.Info().Int("removed", removed).Msg("uploads janitor: removed stale staged uploads")
	}
}
