package persistence

import (
	"context"

	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

// Store keeps finished reports. Get and Latest return a nil report and a
// nil error when nothing is stored under the requested key.
type Store interface {
	Save(ctx context.Context, r report.Report) error
	Get(ctx context.Context, reportID string) (*report.Report, error)
	Latest(ctx context.Context) (*report.Report, error)
}
