package report_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

func sampleReport() report.Report {
	return report.Report{
		ID:          "4c2b0a36-4f2b-4a4e-9d3a-3b7c1f0f5e21",
		GeneratedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Namespace:   "default",
		Registry:    "registry.example.com",
		Records: []report.Record{
			{
				Namespace:  "default",
				Pod:        "web",
				Container:  "nginx",
				Image:      "nginx:1.25",
				Resolution: registry.Resolution{Status: registry.OutOfScope},
			},
			{
				Namespace:  "default",
				Pod:        "api",
				Container:  "api",
				Image:      "registry.example.com/team/api:1.0",
				Resolution: registry.Resolution{Status: registry.Resolved, Digest: sampleDigest},
				IssueCount: intPtr(3),
				Severities: map[string]int{"High": 3, "Low": 1},
			},
			{
				Namespace:  "default",
				Pod:        "api",
				Container:  "migrate",
				Image:      "registry.example.com/team/migrate:1.0",
				Init:       true,
				Resolution: registry.Resolution{Status: registry.Resolved, Digest: sampleDigest},
				IssueCount: intPtr(0),
			},
		},
	}
}

func TestHTMLRenderer_Render(t *testing.T) {
	renderer := newRenderer(t)
	out := &bytes.Buffer{}

	require.NoError(t, renderer.Render(out, sampleReport()))

	html := out.String()
	assert.Contains(t, html, "Generated 2026-10-18 12:00:00 UTC")
	assert.Contains(t, html, "namespace <code>default</code>")
	assert.Contains(t, html, "3 containers, 2 scanned, 1 with High issues (3 in total).")
	assert.Contains(t, html, `<tr class="skipped">`)
	assert.Contains(t, html, `<tr class="vulnerable">`)
	assert.Contains(t, html, `<tr class="clean">`)
	assert.Contains(t, html, "migrate (init)")
	assert.Contains(t, html, "High: 3 Low: 1")
}

func TestHTMLRenderer_RenderAllNamespaces(t *testing.T) {
	r := sampleReport()
	r.Namespace = ""
	out := &bytes.Buffer{}

	require.NoError(t, newRenderer(t).Render(out, r))
	assert.Contains(t, out.String(), "for all namespaces")
}

func TestHTMLRenderer_EscapesRecords(t *testing.T) {
	r := sampleReport()
	r.Records[0].Image = "<script>alert(1)</script>"
	out := &bytes.Buffer{}

	require.NoError(t, newRenderer(t).Render(out, r))
	assert.NotContains(t, out.String(), "<script>")
	assert.Contains(t, out.String(), "&lt;script&gt;")
}

func TestHTMLRenderer_RenderToDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, newRenderer(t).RenderToDir(sampleReport(), dir))

	content, err := os.ReadFile(filepath.Join(dir, report.IndexFile))
	require.NoError(t, err)
	assert.Contains(t, string(content), "registry.example.com/team/api:1.0")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestHTMLRenderer_RenderToMissingDir(t *testing.T) {
	err := newRenderer(t).RenderToDir(sampleReport(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "creating temp file")
}

func TestReport_Summary(t *testing.T) {
	assert.Equal(t, report.Summary{
		Containers: 3,
		Scanned:    2,
		HighIssues: 3,
		Vulnerable: 1,
	}, sampleReport().Summary())
	assert.Equal(t, report.Summary{}, report.Report{}.Summary())
}

func TestRecord_IssueCountString(t *testing.T) {
	assert.Equal(t, "-", report.Record{}.IssueCountString())
	assert.Equal(t, "0", report.Record{IssueCount: intPtr(0)}.IssueCountString())
	assert.Equal(t, "12", report.Record{IssueCount: intPtr(12)}.IssueCountString())
}
