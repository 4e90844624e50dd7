// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/pwaudit/pkg/audit"
	"github.com/ssargent/pwaudit/pkg/history"
	"github.com/ssargent/pwaudit/pkg/metrics"
)

// HistoryStore is the subset of history.Store the commands use
type HistoryStore interface {
	Save(summary *audit.Summary) error
	List(limit int) ([]*audit.Summary, error)
	Close() error
}

// HistoryOpener opens the history store in dir
type HistoryOpener func(dir string) (HistoryStore, error)

// Container holds all the dependencies for the application
type Container struct {
	metrics     *metrics.Metrics
	openHistory HistoryOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		metrics:     metrics.New(),
		openHistory: openPebbleHistory,
	}
}

func openPebbleHistory(dir string) (HistoryStore, error) {
	s, err := history.Open(dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Metrics returns the process-wide metrics
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// OpenHistory opens the history store in dir
func (c *Container) OpenHistory(dir string) (HistoryStore, error) {
	return c.openHistory(dir)
}

// SetMetrics replaces the metrics instance (for testing)
func (c *Container) SetMetrics(m *metrics.Metrics) {
	c.metrics = m
}

// SetHistoryOpener allows overriding how the history store is opened (for testing)
func (c *Container) SetHistoryOpener(opener HistoryOpener) {
	c.openHistory = opener
}
