package kube

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// NewClient builds a clientset from the in-cluster config and falls back to
// the local kubeconfig loading rules when not running inside a pod.
func NewClient(kubeconfig string) (kubernetes.Interface, error) {
	if kubeconfig == "" {
		if cfg, err := rest.InClusterConfig(); err == nil {
			log.Debug("Using in-cluster config")
			return kubernetes.NewForConfig(cfg)
		}
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if kubeconfig != "" {
		rules.ExplicitPath = kubeconfig
	}
	cfg, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err != nil {
		return nil, xerrors.Errorf("loading kube config: %w", err)
	}
	log.WithField("host", cfg.Host).Debug("Using local kube config")

	return kubernetes.NewForConfig(cfg)
}
