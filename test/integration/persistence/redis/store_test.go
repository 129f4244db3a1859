//go:build integration

package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence/redis"
	"github.com/xray-reporter/kube-xray-reporter/pkg/redisx"
	"github.com/xray-reporter/kube-xray-reporter/test/integration/persistence"
)

// TestStore is an integration test for the Redis persistence store.
func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("An integration test")
	}

	ctx := context.Background()
	redisC, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7.2",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "should start redis container")
	defer func() {
		_ = redisC.Terminate(ctx)
	}()

	client, err := redisx.NewClient(etc.RedisPool{
		URL:               getRedisURL(t, ctx, redisC),
		MaxActive:         5,
		MaxIdle:           5,
		ConnectionTimeout: time.Second,
		ReadTimeout:       time.Second,
		WriteTimeout:      time.Second,
	})
	require.NoError(t, err)
	defer client.Close()

	ttl := 3 * time.Second
	store := redis.NewStore(etc.RedisStore{
		Namespace: "kube.xray.reporter:store",
		ReportTTL: ttl,
	}, client)

	persistence.TestStoreInterface(t, store, func() {
		time.Sleep(ttl + time.Second)
	})
}

func getRedisURL(t *testing.T, ctx context.Context, redisC tc.Container) string {
	t.Helper()
	host, err := redisC.Host(ctx)
	require.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s:%d", host, port.Int())
}
