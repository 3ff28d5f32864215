package logger

import (
	"sync"
	"time"
)

// ProgressTracker reports progress of long-running row operations at a fixed
// log interval, so large file parses stay observable without per-row noise.
type ProgressTracker struct {
	logger      Logger
	operation   string
	total       int64
	current     int64
	startTime   time.Time
	lastLogTime time.Time
	logInterval time.Duration
	mutex       sync.Mutex
}

// NewProgressTracker creates a tracker for the named operation. A zero total
// means the size is unknown; progress is then reported as a count only.
func NewProgressTracker(operation string, total int64) *ProgressTracker {
	now := time.Now()
	return &ProgressTracker{
		logger:      GetGlobalLogger().WithComponent("progress"),
		operation:   operation,
		total:       total,
		startTime:   now,
		lastLogTime: now,
		logInterval: 5 * time.Second,
	}
}

// Increment advances the tracker and logs if the interval has elapsed.
func (p *ProgressTracker) Increment(n int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.current += n
	if time.Since(p.lastLogTime) < p.logInterval {
		return
	}
	p.lastLogTime = time.Now()

	fields := Fields{
		"operation": p.operation,
		"processed": p.current,
	}
	if p.total > 0 {
		fields["total"] = p.total
		fields["percent"] = float64(p.current) / float64(p.total) * 100
	}
	p.logger.WithFields(fields).Info("Operation in progress")
}

// Complete logs the final count and elapsed time.
func (p *ProgressTracker) Complete() {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.logger.WithFields(Fields{
		"operation":   p.operation,
		"processed":   p.current,
		"duration_ms": time.Since(p.startTime).Milliseconds(),
	}).Debug("Operation completed")
}
