package kube

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func newPod(namespace, name string, images ...string) *corev1.Pod {
	pod := &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Namespace: namespace,
			Name:      name,
		},
	}
	for i, image := range images {
		pod.Spec.Containers = append(pod.Spec.Containers, corev1.Container{
			Name:  name + "-" + string(rune('a'+i)),
			Image: image,
		})
	}
	return pod
}

func TestLister_ListContainers(t *testing.T) {
	withInit := newPod("default", "api", "registry.example.com/team/api:1.0")
	withInit.Spec.InitContainers = []corev1.Container{
		{Name: "migrate", Image: "registry.example.com/team/migrate:1.0"},
	}

	client := fake.NewSimpleClientset(
		withInit,
		newPod("default", "web", "nginx:1.25", "registry.example.com/team/sidecar:2.1"),
		newPod("monitoring", "agent", "registry.example.com/ops/agent:3"),
	)

	t.Run("Should list containers in one namespace", func(t *testing.T) {
		containers, err := NewLister(client, "default", false).ListContainers(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []Container{
			{Namespace: "default", Pod: "api", Name: "api-a", Image: "registry.example.com/team/api:1.0"},
			{Namespace: "default", Pod: "web", Name: "web-a", Image: "nginx:1.25"},
			{Namespace: "default", Pod: "web", Name: "web-b", Image: "registry.example.com/team/sidecar:2.1"},
		}, containers)
	})

	t.Run("Should list containers across all namespaces", func(t *testing.T) {
		containers, err := NewLister(client, metav1.NamespaceAll, false).ListContainers(context.Background())
		require.NoError(t, err)
		assert.Len(t, containers, 4)
	})

	t.Run("Should append init containers after regular containers", func(t *testing.T) {
		containers, err := NewLister(client, "default", true).ListContainers(context.Background())
		require.NoError(t, err)
		require.Len(t, containers, 4)

		var api []Container
		for _, c := range containers {
			if c.Pod == "api" {
				api = append(api, c)
			}
		}
		assert.Equal(t, []Container{
			{Namespace: "default", Pod: "api", Name: "api-a", Image: "registry.example.com/team/api:1.0"},
			{Namespace: "default", Pod: "api", Name: "migrate", Image: "registry.example.com/team/migrate:1.0", Init: true},
		}, api)
	})

	t.Run("Should return empty list for namespace without pods", func(t *testing.T) {
		containers, err := NewLister(client, "empty", false).ListContainers(context.Background())
		require.NoError(t, err)
		assert.Empty(t, containers)
	})
}
