package memory

import (
	"context"
	"sync"

	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

// store keeps only the most recent report. It backs the HTTP API when no
// Redis URL is configured.
type store struct {
	mu     sync.RWMutex
	latest *report.Report
}

func NewStore() persistence.Store {
	return &store{}
}

func (s *store) Save(_ context.Context, r report.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &r
	return nil
}

func (s *store) Get(_ context.Context, reportID string) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil || s.latest.ID != reportID {
		return nil, nil
	}
	r := *s.latest
	return &r, nil
}

func (s *store) Latest(_ context.Context) (*report.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, nil
	}
	r := *s.latest
	return &r, nil
}
