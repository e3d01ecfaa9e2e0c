package services

import (
	"context"
	"sync"

	"github.com/epeers/election-windows/internal/models"
	log "github.com/sirupsen/logrus"
)

type warningContextKey struct{}

// WarningCollector accumulates warnings during a run.
type WarningCollector struct {
	mu       sync.Mutex
	warnings []models.Warning
}

// NewWarningContext returns a context carrying a fresh WarningCollector,
// plus a reference to the collector so the caller can summarize warnings later.
func NewWarningContext(ctx context.Context) (context.Context, *WarningCollector) {
	wc := &WarningCollector{}
	return context.WithValue(ctx, warningContextKey{}, wc), wc
}

// AddWarning logs w and appends it to the collector in ctx.
// If ctx has no collector, the warning is only logged.
func AddWarning(ctx context.Context, w models.Warning) {
	log.WithField("code", w.Code).Warn(w.Message)

	wc, ok := ctx.Value(warningContextKey{}).(*WarningCollector)
	if !ok || wc == nil {
		return
	}
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.warnings = append(wc.warnings, w)
}

// GetWarnings returns a copy of all collected warnings.
func (wc *WarningCollector) GetWarnings() []models.Warning {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	return append([]models.Warning(nil), wc.warnings...)
}

// Count returns how many warnings with the given code were collected.
func (wc *WarningCollector) Count(code models.WarningCode) int {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	n := 0
	for _, w := range wc.warnings {
		if w.Code == code {
			n++
		}
	}
	return n
}
