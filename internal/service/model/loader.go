package model

import (
	"sync"
	"time"

	"EquitySight/pkg/logger"
)

// Loader reads the artifact once, on first use. Absence of the file is a
// degraded-but-working state: callers receive ok=false and answer neutrally.
type Loader struct {
	path string
	log  *logger.Logger

	mu       sync.Mutex
	loaded   bool
	model    *Linear
	loadedAt time.Time
}

func NewLoader(path string, log *logger.Logger) *Loader {
	return &Loader{path: path, log: log}
}

// Get returns the shared classifier instance. Only the first caller performs
// the load; concurrent callers block on the mutex until it finishes.
func (l *Loader) Get() (*Linear, time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		l.loaded = true
		m, err := LoadArtifact(l.path)
		if err != nil {
			l.log.Warn("model.load artifact unavailable, predictions degrade to neutral",
				logger.String("path", l.path),
				logger.Error(err))
		} else {
			l.model = m
			l.loadedAt = time.Now()
			l.log.Info("model.load artifact ready",
				logger.String("path", l.path),
				logger.Int("n_features", m.NumFeatures()))
		}
	}
	if l.model == nil {
		return nil, time.Time{}, false
	}
	return l.model, l.loadedAt, true
}
