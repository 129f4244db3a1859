package kube

import (
	"context"

	log "github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// Container identifies a single container image running in a pod.
type Container struct {
	Namespace string
	Pod       string
	Name      string
	Image     string
	Init      bool
}

type Lister interface {
	ListContainers(ctx context.Context) ([]Container, error)
}

type lister struct {
	client                kubernetes.Interface
	namespace             string
	includeInitContainers bool
}

// NewLister returns a Lister over one namespace, or over the whole cluster
// when namespace is metav1.NamespaceAll.
func NewLister(client kubernetes.Interface, namespace string, includeInitContainers bool) Lister {
	return &lister{
		client:                client,
		namespace:             namespace,
		includeInitContainers: includeInitContainers,
	}
}

// ListContainers keeps the order returned by the API server: pods first,
// then containers within each pod.
func (l *lister) ListContainers(ctx context.Context) ([]Container, error) {
	pods, err := l.client.CoreV1().Pods(l.namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, xerrors.Errorf("listing pods: %w", err)
	}

	log.WithFields(log.Fields{
		"namespace": l.namespace,
		"pods":      len(pods.Items),
	}).Debug("Listed pods")

	var containers []Container
	for _, pod := range pods.Items {
		for _, c := range pod.Spec.Containers {
			containers = append(containers, toContainer(pod, c, false))
		}
		if !l.includeInitContainers {
			continue
		}
		for _, c := range pod.Spec.InitContainers {
			containers = append(containers, toContainer(pod, c, true))
		}
	}
	return containers, nil
}

func toContainer(pod corev1.Pod, c corev1.Container, init bool) Container {
	return Container{
		Namespace: pod.Namespace,
		Pod:       pod.Name,
		Name:      c.Name,
		Image:     c.Image,
		Init:      init,
	}
}
