package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xray-reporter/kube-xray-reporter/pkg/persistence"
	"github.com/xray-reporter/kube-xray-reporter/pkg/registry"
	"github.com/xray-reporter/kube-xray-reporter/pkg/report"
)

// TestStoreInterface is a generic test that is intended to be called by the implementations of the Store interface.
// When expire is not nil it must advance the store past the configured report TTL.
func TestStoreInterface(t *testing.T, store persistence.Store, expire func()) {
	ctx := context.Background()
	issues := 2

	first := report.Report{
		ID:          "0f1d6b2e-7a8c-4e5f-9b3a-2c1d0e9f8a7b",
		GeneratedAt: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
		Namespace:   "default",
		Registry:    "registry.example.com",
		Records: []report.Record{
			{
				Namespace: "default",
				Pod:       "api",
				Container: "api",
				Image:     "registry.example.com/team/api:1.0",
				Resolution: registry.Resolution{
					Status: registry.Resolved,
					Digest: "917f5b7f4bef1b35ee90f03033f33a81002511c1e0767fd44276d4bd9cd2fa8e",
				},
				IssueCount: &issues,
				Severities: map[string]int{"High": 2},
			},
			{
				Namespace:  "default",
				Pod:        "web",
				Container:  "nginx",
				Image:      "nginx:1.25",
				Resolution: registry.Resolution{Status: registry.OutOfScope},
			},
		},
	}
	second := report.Report{
		ID:          "5b9e3c7d-1f2a-4b6c-8d0e-3a4f5b6c7d8e",
		GeneratedAt: first.GeneratedAt.Add(5 * time.Minute),
		Namespace:   "default",
		Registry:    "registry.example.com",
		Records:     []report.Record{},
	}

	t.Run("Latest of empty store", func(t *testing.T) {
		r, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("Save and get", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, first), "saving report should not fail")

		r, err := store.Get(ctx, first.ID)
		require.NoError(t, err, "getting report should not fail")
		assert.Equal(t, &first, r)

		r, err = store.Latest(ctx)
		require.NoError(t, err, "getting latest report should not fail")
		assert.Equal(t, &first, r)
	})

	t.Run("Latest follows newest report", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, second))

		r, err := store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, &second, r)
	})

	t.Run("Get unknown report", func(t *testing.T) {
		r, err := store.Get(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	if expire == nil {
		return
	}

	t.Run("Reports expire", func(t *testing.T) {
		expire()

		r, err := store.Get(ctx, second.ID)
		require.NoError(t, err, "getting report should not fail")
		assert.Nil(t, r, "report should be nil, i.e. expired")

		r, err = store.Latest(ctx)
		require.NoError(t, err)
		assert.Nil(t, r, "latest report should be nil, i.e. expired")
	})
}
