package report

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"

	"github.com/xray-reporter/kube-xray-reporter/pkg/kube"
	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/xray"
)

// Generator produces one report pass.
type Generator interface {
	Generate(ctx context.Context) (Report, error)
}

type Options struct {
	Namespace string
	Registry  string
	// HTMLDir, when set, receives index.html at the end of every pass.
	HTMLDir string
}

type generator struct {
	lister   kube.Lister
	resolver registry.Resolver
	xray     xray.Client
	renderer Renderer
	out      io.Writer
	clock    Clock
	opts     Options
}

func NewGenerator(lister kube.Lister, resolver registry.Resolver, xrayClient xray.Client, renderer Renderer, out io.Writer, clock Clock, opts Options) Generator {
	return &generator{
		lister:   lister,
		resolver: resolver,
		xray:     xrayClient,
		renderer: renderer,
		out:      out,
		clock:    clock,
		opts:     opts,
	}
}

// Generate walks every container sequentially and prints one tab-separated
// line per container as soon as it is known. The first error aborts the pass.
func (g *generator) Generate(ctx context.Context) (report Report, err error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return report, xerrors.Errorf("generating report id: %w", err)
	}

	report = Report{
		ID:          id.String(),
		GeneratedAt: g.clock.Now(),
		Namespace:   g.opts.Namespace,
		Registry:    g.opts.Registry,
		Records:     []Record{},
	}

	containers, err := g.lister.ListContainers(ctx)
	if err != nil {
		return report, err
	}

	for _, c := range containers {
		record, err := g.check(ctx, c)
		if err != nil {
			return report, xerrors.Errorf("checking %s/%s container %s: %w", c.Namespace, c.Pod, c.Name, err)
		}
		if _, err = fmt.Fprintf(g.out, "%s\t%s\t%s\t%s\n", record.Namespace, record.Pod, record.Image, record.IssueCountString()); err != nil {
			return report, xerrors.Errorf("writing report line: %w", err)
		}
		report.Records = append(report.Records, record)
	}

	if g.opts.HTMLDir != "" {
		if err = g.renderer.RenderToDir(report, g.opts.HTMLDir); err != nil {
			return report, xerrors.Errorf("rendering html report: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"report_id":  report.ID,
		"containers": len(report.Records),
	}).Info("Report generated")

	return report, nil
}

func (g *generator) check(ctx context.Context, c kube.Container) (Record, error) {
	record := Record{
		Namespace: c.Namespace,
		Pod:       c.Pod,
		Container: c.Name,
		Image:     c.Image,
		Init:      c.Init,
	}

	resolution, err := g.resolver.Resolve(ctx, c.Image)
	if err != nil {
		return record, err
	}
	record.Resolution = resolution

	if !resolution.HasDigest() {
		return record, nil
	}

	summary, err := g.xray.Summary(ctx, resolution.Digest)
	if err != nil {
		return record, err
	}
	count := xray.CountHighSeverity(summary)
	record.IssueCount = &count
	record.Severities = xray.SeverityCounts(summary)

	return record, nil
}
