package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/poi-parking/internal/config"
)

const testCollection = `{
	"type": "FeatureCollection",
	"features": [
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-95.36, 29.75]},
		 "properties": {"rowid": 1, "name": "City Hall Parking Garage", "geog": "Houston"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-95.37, 29.76]},
		 "properties": {"rowid": 2, "name": "Grand Hotel", "geog": "Houston"}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.08, 37.42]},
		 "properties": {"rowid": 3, "name": "Googleplex", "geog": "South_Bay"}}
	]
}`

// chdirTemp moves into a fresh directory for the duration of the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	return dir
}

// nominatimServer answers every /reverse request with a hotel.
func nominatimServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" || r.Header.Get("User-Agent") == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"name":"","display_name":"Main St, Houston","type":"hotel","class":"tourism","osm_id":%d,"address":{"road":"Main St","city":"Houston"}}`,
			len(r.URL.Query().Get("lat")))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// testConfig returns a fast configuration with a single "test" profile
// reading testCollection from dir.
func testConfig(t *testing.T, dir, baseURL string) *config.Config {
	t.Helper()
	input := filepath.Join(dir, "pois.geojson")
	require.NoError(t, os.WriteFile(input, []byte(testCollection), 0o644))

	profiles := config.DefaultProfiles()
	profiles["test"] = config.Profile{
		Input:      input,
		Output:     filepath.Join(dir, "analysis.csv"),
		Checkpoint: filepath.Join(dir, "progress.json"),
		UserAgent:  "poi-parking-test/1.0",
		Area:       "Test Town",
	}
	return &config.Config{
		Nominatim: config.NominatimConfig{
			BaseURL:     baseURL,
			UserAgent:   "poi-parking-test/1.0",
			TimeoutSecs: 5,
			Zoom:        18,
			RatePerSec:  1000,
		},
		Retry:      config.RetryConfig{MaxAttempts: 2, BackoffMs: 0},
		Pipeline:   config.PipelineConfig{IntervalMs: 0, CheckpointEvery: 10},
		Checkpoint: config.CheckpointConfig{Driver: "file"},
		Profiles:   profiles,
	}
}

// resetFlags restores every flag of cmd to its default and clears Changed.
func resetFlags(t *testing.T, cmd *cobra.Command) {
	t.Helper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		require.NoError(t, f.Value.Set(f.DefValue))
		f.Changed = false
	})
}

// setFlags applies name=value pairs to cmd.
func setFlags(t *testing.T, cmd *cobra.Command, kv ...string) {
	t.Helper()
	for _, pair := range kv {
		name, value, _ := strings.Cut(pair, "=")
		require.NoError(t, cmd.Flags().Set(name, value))
	}
}
