package xray

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
)

const pathSummaryArtifact = "/api/v1/summary/artifact"

// Client talks to the Xray summary API.
type Client interface {
	Summary(ctx context.Context, checksums ...string) (SummaryResponse, error)
	// CountHighSeverity is a single-digest shortcut for Summary followed by
	// the package level CountHighSeverity. Callers that also need the
	// severity breakdown call Summary directly.
	CountHighSeverity(ctx context.Context, digest string) (int, error)
}

type client struct {
	baseURL string
	creds   etc.Credentials
	http    *http.Client
}

func NewClient(config etc.Xray, creds etc.Credentials) Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: config.Insecure}

	return &client{
		baseURL: strings.TrimSuffix(config.URL, "/"),
		creds:   creds,
		http: &http.Client{
			Transport: tr,
			Timeout:   config.Timeout,
		},
	}
}

func (c *client) Summary(ctx context.Context, checksums ...string) (summary SummaryResponse, err error) {
	body, err := json.Marshal(SummaryRequest{Checksums: checksums})
	if err != nil {
		return summary, xerrors.Errorf("marshalling summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathSummaryArtifact, bytes.NewReader(body))
	if err != nil {
		return summary, xerrors.Errorf("creating summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.creds.Username != "" {
		req.SetBasicAuth(c.creds.Username, c.creds.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return summary, xerrors.Errorf("requesting artifact summary: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return summary, xerrors.Errorf("requesting artifact summary: %s", unexpectedStatus(resp.StatusCode, msg))
	}

	if err = json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return summary, xerrors.Errorf("decoding artifact summary: %w", err)
	}

	for _, e := range summary.Errors {
		log.WithFields(log.Fields{
			"identifier": e.Identifier,
			"error":      e.Error,
		}).Debug("Xray reported artifact error")
	}

	return summary, nil
}

// CountHighSeverity counts the High issues of the first artifact. An unknown
// digest and an artifact without issues both count as zero.
func (c *client) CountHighSeverity(ctx context.Context, digest string) (int, error) {
	summary, err := c.Summary(ctx, digest)
	if err != nil {
		return 0, err
	}
	return CountHighSeverity(summary), nil
}

func CountHighSeverity(summary SummaryResponse) int {
	issues := firstArtifactIssues(summary)
	return lo.CountBy(issues, func(issue Issue) bool {
		return issue.Severity == SeverityHigh
	})
}

// SeverityCounts counts the issues of the first artifact per severity.
func SeverityCounts(summary SummaryResponse) map[string]int {
	issues := firstArtifactIssues(summary)
	return lo.CountValuesBy(issues, func(issue Issue) string {
		return issue.Severity
	})
}

func firstArtifactIssues(summary SummaryResponse) []Issue {
	if len(summary.Artifacts) == 0 {
		return nil
	}
	return summary.Artifacts[0].Issues
}

func unexpectedStatus(code int, body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Sprintf("unexpected status %d", code)
	}
	return fmt.Sprintf("unexpected status %d: %s", code, msg)
}
