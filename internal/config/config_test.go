package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("BACKEND_INSTANCES", "paris=10.0.0.1:9000, lyon=10.0.0.2:9000")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"paris": "10.0.0.1:9000", "lyon": "10.0.0.2:9000"}, cfg.Backend.Instances)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 5, cfg.Breaker.FailMax)
	assert.Equal(t, time.Minute, cfg.Breaker.ResetTimeout)
	assert.Equal(t, 1800, cfg.Journey.MaxDurationToPt[domain.ModeWalking])
	assert.InDelta(t, 1.12, cfg.Journey.Speeds[domain.ModeWalking], 1e-9)
	assert.Equal(t, []domain.FallbackMode{domain.ModeWalking}, cfg.Journey.FirstSectionModes)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddr())
	assert.Equal(t, 20, cfg.Redis.PoolSize)
}

func TestFromViper_OptionalStores(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_HOST", "db.internal")
	v.Set("DB_NAME", "providers")
	v.Set("REDIS_HOST", "cache.internal")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.GetRedisAddr())
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db.internal port=5432")
	assert.Contains(t, cfg.GetDatabaseDSN(), "dbname=providers")
}

func TestFromViper_InvalidModes(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("JOURNEY_FIRST_SECTION_MODES", "walking,hovercraft")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestParseInstances(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    map[string]string
		wantErr bool
	}{
		{name: "empty", in: "", want: map[string]string{}},
		{name: "single", in: "paris=localhost:9000", want: map[string]string{"paris": "localhost:9000"}},
		{name: "missing address", in: "paris=", wantErr: true},
		{name: "no separator", in: "paris", wantErr: true},
		{name: "duplicate", in: "paris=a:1,paris=b:2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstances(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLegacyProviders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	content := `
bss:
  - id: velib
    class: gbfs
    args:
      feed_url: https://velib.example.com/gbfs
      timeout: 3s
realtime:
  - id: sncf
    class: next_departures_http
    args:
      url: https://rt.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	legacy, err := LoadLegacyProviders(path)
	require.NoError(t, err)

	require.Len(t, legacy[domain.ProviderBikeShare], 1)
	velib := legacy[domain.ProviderBikeShare][0]
	assert.Equal(t, "velib", velib.ID)
	assert.Equal(t, "gbfs", velib.Class)
	assert.Equal(t, "https://velib.example.com/gbfs", velib.Args["feed_url"])
	assert.Len(t, legacy[domain.ProviderRealtime], 1)
	assert.Empty(t, legacy[domain.ProviderCarPark])
}

func TestLoadLegacyProviders_MissingClass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bss:\n  - id: velib\n"), 0o600))

	_, err := LoadLegacyProviders(path)
	assert.Error(t, err)
}

func TestLoadLegacyProviders_EmptyPath(t *testing.T) {
	legacy, err := LoadLegacyProviders("")
	require.NoError(t, err)
	assert.Empty(t, legacy)
}
