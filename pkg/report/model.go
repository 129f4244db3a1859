package report

import (
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
)

// Record is the scan outcome of one container. IssueCount is nil when the
// image could not be resolved to a digest and no scan was attempted.
type Record struct {
	Namespace  string              `json:"namespace"`
	Pod        string              `json:"pod"`
	Container  string              `json:"container"`
	Image      string              `json:"image"`
	Init       bool                `json:"init,omitempty"`
	Resolution registry.Resolution `json:"resolution"`
	IssueCount *int                `json:"issue_count"`
	Severities map[string]int      `json:"severities,omitempty"`
}

// IssueCountString renders the issue count the way the tab-separated report
// prints it.
func (r Record) IssueCountString() string {
	if r.IssueCount == nil {
		return "-"
	}
	return strconv.Itoa(*r.IssueCount)
}

type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Namespace   string    `json:"namespace"`
	Registry    string    `json:"registry"`
	Records     []Record  `json:"records"`
}

type Summary struct {
	Containers int `json:"containers"`
	Scanned    int `json:"scanned"`
	HighIssues int `json:"high_issues"`
	Vulnerable int `json:"vulnerable"`
}

func (r Report) Summary() Summary {
	scanned := lo.Filter(r.Records, func(rec Record, _ int) bool {
		return rec.IssueCount != nil
	})
	return Summary{
		Containers: len(r.Records),
		Scanned:    len(scanned),
		HighIssues: lo.SumBy(scanned, func(rec Record) int {
			return *rec.IssueCount
		}),
		Vulnerable: lo.CountBy(scanned, func(rec Record) bool {
			return *rec.IssueCount > 0
		}),
	}
}

// Clock wraps the Now method. Introduced to allow replacing the global state with fixed clocks to facilitate testing.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
}

func (c *SystemClock) Now() time.Time {
	return time.Now()
}
