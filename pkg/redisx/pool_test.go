package redisx

import (
	"net/url"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xray-reporter/kube-xray-reporter/pkg/etc"
)

func TestNewClient(t *testing.T) {

	t.Run("Should return error when configured to connect to secure redis", func(t *testing.T) {
		_, err := NewClient(etc.RedisPool{
			URL: "rediss://hostname:6379",
		})
		assert.EqualError(t, err, "invalid redis URL scheme: rediss")
	})

	t.Run("Should return error when configured with unsupported url scheme", func(t *testing.T) {
		_, err := NewClient(etc.RedisPool{
			URL: "https://hostname:6379",
		})
		assert.EqualError(t, err, "invalid redis URL scheme: https")
	})

	t.Run("Should construct standalone client", func(t *testing.T) {
		client, err := NewClient(etc.RedisPool{
			URL:       "redis://:s3cret@redis.example.com:6379/2",
			MaxActive: 7,
			MaxIdle:   3,
		})
		require.NoError(t, err)
		defer client.Close()

		standalone, ok := client.(*redis.Client)
		require.True(t, ok)
		assert.Equal(t, "redis.example.com:6379", standalone.Options().Addr)
		assert.Equal(t, 2, standalone.Options().DB)
		assert.Equal(t, "s3cret", standalone.Options().Password)
		assert.Equal(t, 7, standalone.Options().MaxActiveConns)
		assert.Equal(t, 3, standalone.Options().MaxIdleConns)
	})

	t.Run("Should return error when sentinel URL has no master name", func(t *testing.T) {
		_, err := NewClient(etc.RedisPool{
			URL: "redis+sentinel://sentinel1:26379",
		})
		assert.EqualError(t, err, "invalid redis sentinel URL: no master name")
	})

}

func TestParseSentinelURL(t *testing.T) {
	testCases := []struct {
		url                 string
		expectedSentinelURL SentinelURL
		expectedError       string
	}{
		{
			url: "redis+sentinel://:s3cret@sentinel1:26379,sentinel2:26379/mymaster/1",
			expectedSentinelURL: SentinelURL{
				Password:    "s3cret",
				Addrs:       []string{"sentinel1:26379", "sentinel2:26379"},
				MonitorName: "mymaster",
				Database:    1,
			},
		},
		{
			url: "redis+sentinel://sentinel1:26379/mymaster",
			expectedSentinelURL: SentinelURL{
				Addrs:       []string{"sentinel1:26379"},
				MonitorName: "mymaster",
			},
		},
		{
			url:           "redis+sentinel://sentinel1:26379/mymaster/zero",
			expectedError: "invalid database number: zero",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			configURL, err := url.Parse(tc.url)
			require.NoError(t, err)

			sentinelURL, err := ParseSentinelURL(configURL)
			if tc.expectedError != "" {
				assert.EqualError(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedSentinelURL, sentinelURL)
		})
	}
}
