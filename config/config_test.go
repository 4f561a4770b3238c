package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cable-inspector/internal/domain/entity"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{"HTTP_HOST", "HTTP_PORT", "REQUEST_TIMEOUT", "MAX_UPLOAD_SIZE", "AZURE_STORAGE_ACCOUNT", "AZURE_STORAGE_KEY", "CABLE_ASPECT_CUT"} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.ServerAddress())
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
	require.Equal(t, int64(10*1024*1024), cfg.MaxRequestBodySize)
	require.Equal(t, entity.DefaultParams(), cfg.Params)
	require.False(t, cfg.AzureEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CABLE_MEASURE_THRESHOLD", "80")
	t.Setenv("CABLE_ASPECT_CUT", "0.7")
	t.Setenv("CABLE_AREA_FILTER", "5000")
	t.Setenv("AZURE_STORAGE_ACCOUNT", "acc")
	t.Setenv("AZURE_STORAGE_KEY", "key")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, 80, cfg.Params.MeasureThreshLow)
	require.InDelta(t, 0.7, cfg.Params.AspectCut, 1e-9)
	require.Equal(t, 5000, cfg.Params.AreaFilter)
	require.True(t, cfg.AzureEnabled())
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "port", key: "HTTP_PORT", val: "99999"},
		{name: "upload size", key: "MAX_UPLOAD_SIZE", val: "-1"},
		{name: "aspect", key: "CABLE_ASPECT_CUT", val: "1.5"},
		{name: "threshold", key: "CABLE_MEASURE_THRESHOLD", val: "300"},
		{name: "azure half", key: "AZURE_STORAGE_ACCOUNT", val: "acc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AZURE_STORAGE_KEY", "")
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}

func TestFromEnv_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CABLE_CANNY_LOW", "abc")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, entity.DefaultParams().CannyLow, cfg.Params.CannyLow)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
