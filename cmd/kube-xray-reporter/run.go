package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
	"github.com/xray-reporter/kube-xray-reporter/pkg/ext"
	"github.com/xray-reporter/kube-xray-reporter/pkg/http/api"
	v1 "github.com/xray-reporter/kube-xray-reporter/pkg/http/api/v1"
	"github.com/xray-reporter/kube-xray-reporter/pkg/kube"
	"github.com/xray-reporter/kube-xray-reporter/pkg/metrics"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence/memory"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence/redis"
	"github.com/xray-reporter/kube-xray-reporter/pkg/redisx"
	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
	"github.com/xray-reporter/kube-xray-reporter/pkg/schedule"
	"github.com/xray-reporter/kube-xray-reporter/pkg/xray"
)

const shutdownTimeout = 10 * time.Second

func run(ctx context.Context, info etc.BuildInfo, config etc.Config) error {
	log.WithFields(log.Fields{
		"version":  info.Version,
		"commit":   info.Commit,
		"built_at": info.Date,
	}).Info("Starting kube-xray-reporter")

	if err := etc.Check(config); err != nil {
		return xerrors.Errorf("checking config: %w", err)
	}

	creds, err := etc.PromptCredentials(config.Credentials, ext.DefaultAmbassador, os.Stderr)
	if err != nil {
		return xerrors.Errorf("getting credentials: %w", err)
	}

	kubeClient, err := kube.NewClient(config.Kube.Kubeconfig)
	if err != nil {
		return xerrors.Errorf("creating kubernetes client: %w", err)
	}

	namespace := config.Kube.Namespace
	if config.Kube.AllNamespaces {
		namespace = metav1.NamespaceAll
	}

	resolver, err := registry.NewResolver(config.Registry, creds)
	if err != nil {
		return xerrors.Errorf("creating registry resolver: %w", err)
	}

	renderer, err := report.NewHTMLRenderer()
	if err != nil {
		return err
	}

	clock := &report.SystemClock{}
	generator := report.NewGenerator(
		kube.NewLister(kubeClient, namespace, config.Kube.IncludeInitContainers),
		resolver,
		xray.NewClient(config.Xray, creds),
		renderer,
		os.Stdout,
		clock,
		report.Options{
			Namespace: namespace,
			Registry:  config.Registry.Host,
			HTMLDir:   config.Report.HTMLDir,
		},
	)

	store, err := newStore(config)
	if err != nil {
		return err
	}

	var saver report.Saver
	if store != nil {
		saver = store
	}

	var observers []report.Observer
	var metricsServer *metrics.Server
	if config.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, metrics.NewCollector(reg))
		metricsServer = metrics.NewServer(config.Metrics, reg)
		metricsServer.ListenAndServe()
	}

	var apiServer *api.Server
	if config.API.Enabled {
		apiServer, err = api.NewServer(config.API, v1.NewAPIHandler(info, config, store, renderer))
		if err != nil {
			return xerrors.Errorf("creating API server: %w", err)
		}
		apiServer.ListenAndServe()
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver := report.NewDriver(generator, saver, clock, observers...)
	err = schedule.Run(ctx, config.Schedule.Interval(), driver.Run)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if apiServer != nil {
		apiServer.Shutdown(shutdownCtx)
	}
	if metricsServer != nil {
		metricsServer.Shutdown(shutdownCtx)
	}

	return err
}

// newStore returns nil when reports do not need to be kept, i.e. neither
// Redis nor the HTTP API is configured.
func newStore(config etc.Config) (persistence.Store, error) {
	if config.RedisPool.IsEnabled() {
		client, err := redisx.NewClient(config.RedisPool)
		if err != nil {
			return nil, xerrors.Errorf("creating redis client: %w", err)
		}
		return redis.NewStore(config.RedisStore, client), nil
	}
	if config.API.Enabled {
		log.Debug("Keeping the latest report in memory")
		return memory.NewStore(), nil
	}
	return nil, nil
}
