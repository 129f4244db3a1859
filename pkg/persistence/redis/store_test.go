package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence"
	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence/redis"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
	suite "github.com/xray-reporter/kube-xray-reporter/test/integration/persistence"
)

const namespace = "kube.xray.reporter:store"

func newStore(t *testing.T, addr string, ttl time.Duration) persistence.Store {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: addr, MaxRetries: -1})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return redis.NewStore(etc.RedisStore{
		Namespace: namespace,
		ReportTTL: ttl,
	}, client)
}

func TestStore(t *testing.T) {
	ttl := time.Hour
	mr := miniredis.RunT(t)
	store := newStore(t, mr.Addr(), ttl)

	suite.TestStoreInterface(t, store, func() {
		mr.FastForward(ttl + time.Second)
	})
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newStore(t, mr.Addr(), 10*time.Minute)

	require.NoError(t, store.Save(ctx, report.Report{ID: "123", Records: []report.Record{}}))

	assert.True(t, mr.Exists(namespace+":report:123"))
	assert.Equal(t, 10*time.Minute, mr.TTL(namespace+":report:123"))

	latest, err := mr.Get(namespace + ":report:latest")
	require.NoError(t, err)
	assert.Equal(t, "123", latest)
	assert.Equal(t, 10*time.Minute, mr.TTL(namespace+":report:latest"))
}

func TestStore_LatestPointsToExpiredReport(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newStore(t, mr.Addr(), 10*time.Minute)

	require.NoError(t, mr.Set(namespace+":report:latest", "gone"))

	r, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, r)
}

func TestStore_CorruptedReport(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := newStore(t, mr.Addr(), 10*time.Minute)

	require.NoError(t, mr.Set(namespace+":report:123", "{not json"))

	_, err := store.Get(ctx, "123")
	assert.ErrorContains(t, err, "unmarshalling report")
}

func TestStore_ConnectionError(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, "127.0.0.1:1", 10*time.Minute)

	err := store.Save(ctx, report.Report{ID: "123"})
	assert.ErrorContains(t, err, "saving report")

	_, err = store.Latest(ctx)
	assert.ErrorContains(t, err, "getting latest report id")
}
