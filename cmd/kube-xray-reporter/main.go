package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
)

var (
	// Default wise GoReleaser sets three ldflags:
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// stdout carries the tab-separated report.
	log.SetOutput(os.Stderr)
	log.SetLevel(etc.GetLogLevel())
	log.SetReportCaller(false)
	log.SetFormatter(&log.JSONFormatter{})

	info := etc.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	config, err := etc.GetConfig()
	if err != nil {
		log.Fatalf("Error: getting config: %v", err)
	}

	if err = newRootCommand(info, &config, run).Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

type runFunc func(ctx context.Context, info etc.BuildInfo, config etc.Config) error

// newRootCommand binds flags on top of the environment based config, so an
// explicit flag always wins over the matching XRAY_REPORT_* variable.
func newRootCommand(info etc.BuildInfo, config *etc.Config, run runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kube-xray-reporter",
		Short: "Report High severity Xray issues of the images running in a Kubernetes cluster",
		Long: `Lists the pods of a namespace (or of the whole cluster), resolves every
container image hosted in the given registry to its sha256 digest and asks
JFrog Xray for the issues of that digest.

One line per container is printed to stdout:

  namespace<TAB>pod<TAB>image<TAB>high_issue_count

The count is "-" for images that were not scanned.`,
		Example: `  # Single pass over the default namespace
  kube-xray-reporter --registry registry.example.com --xray-url https://example.jfrog.io/xray

  # Whole cluster every 30 minutes with an HTML report
  kube-xray-reporter -A --registry registry.example.com --xray-url https://example.jfrog.io/xray \
    --update-interval 30 --html-dir /var/www/html`,
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), info, *config)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&config.Kube.Namespace, "namespace", "n", config.Kube.Namespace, "Namespace to list pods in")
	flags.BoolVarP(&config.Kube.AllNamespaces, "all-namespaces", "A", config.Kube.AllNamespaces, "List pods in all namespaces")
	flags.StringVar(&config.Kube.Kubeconfig, "kubeconfig", config.Kube.Kubeconfig, "Path to the kubeconfig file, in-cluster config is tried when empty")
	flags.BoolVar(&config.Kube.IncludeInitContainers, "include-init-containers", config.Kube.IncludeInitContainers, "Also report init containers")
	flags.StringVar(&config.Registry.Host, "registry", config.Registry.Host, "Registry host whose images are checked, e.g. registry.example.com")
	flags.StringVar(&config.Xray.URL, "xray-url", config.Xray.URL, "Base URL of the Xray API, e.g. https://example.jfrog.io/xray")
	flags.StringVarP(&config.Credentials.Username, "username", "u", config.Credentials.Username, "Username for the registry and Xray, prompted when empty")
	flags.StringVarP(&config.Credentials.Password, "password", "p", config.Credentials.Password, "Password for the registry and Xray, prompted when empty")
	flags.IntVar(&config.Schedule.UpdateInterval, "update-interval", config.Schedule.UpdateInterval, "Minutes between report passes, 0 runs a single pass")
	flags.StringVar(&config.Report.HTMLDir, "html-dir", config.Report.HTMLDir, "Directory to write index.html to")

	cmd.SetVersionTemplate(fmt.Sprintf("kube-xray-reporter {{.Version}} (commit %s, built at %s)\n", info.Commit, info.Date))

	return cmd
}
