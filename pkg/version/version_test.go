package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersion(t *testing.T, version, commit, buildTime string) {
	t.Helper()
	oldV, oldC, oldB := Version, Commit, BuildTime
	Version, Commit, BuildTime = version, commit, buildTime
	t.Cleanup(func() { Version, Commit, BuildTime = oldV, oldC, oldB })
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name                     string
		version, commit, buildAt string
		want                     string
	}{
		{"development", "0.0.0-dev", "", "", "0.0.0-dev (development)"},
		{"commit only", "1.2.0", "abc1234", "", "1.2.0 (commit: abc1234)"},
		{"full", "1.2.0", "abc1234", "2024-03-01T12:00:00Z", "1.2.0 (commit: abc1234, built at: 2024-03-01T12:00:00Z)"},
		{"empty version", "", "", "", "0.0.0-dev (development)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.version, tt.commit, tt.buildAt)
			assert.Equal(t, tt.want, FormatVersion())
		})
	}
}

func TestApplyBuildSettings(t *testing.T) {
	withVersion(t, "0.0.0-dev", "", "")

	applyBuildSettings([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.time", Value: "2024-03-01T09:00:00-03:00"},
		{Key: "vcs.tag", Value: "v1.4.2"},
		{Key: "vcs.modified", Value: "true"},
	})

	assert.Equal(t, "0123456", Commit)
	assert.Equal(t, "2024-03-01T12:00:00Z", BuildTime)
	assert.Equal(t, "1.4.2-dirty", Version)
}

func TestCompareVersions(t *testing.T) {
	assert.Equal(t, 1, compareVersions("1.10.0", "1.9.3"))
	assert.Equal(t, -1, compareVersions("1.2", "1.2.1"))
	assert.Equal(t, 0, compareVersions("1.2.0-dirty", "1.2.0"))
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tag_name": "v1.3.0"}`))
	}))
	defer srv.Close()

	t.Run("newer release", func(t *testing.T) {
		latest, ok := LatestRelease(context.Background(), srv.Client(), srv.URL, "1.2.9")
		assert.True(t, ok)
		assert.Equal(t, "1.3.0", latest)
	})

	t.Run("up to date", func(t *testing.T) {
		_, ok := LatestRelease(context.Background(), srv.Client(), srv.URL, "1.3.0")
		assert.False(t, ok)
	})

	t.Run("dev builds skip the check", func(t *testing.T) {
		_, ok := LatestRelease(context.Background(), srv.Client(), srv.URL, "0.0.0-dev")
		assert.False(t, ok)
	})

	t.Run("server error", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer failing.Close()

		_, ok := LatestRelease(context.Background(), failing.Client(), failing.URL, "1.0.0")
		assert.False(t, ok)
	})
}
