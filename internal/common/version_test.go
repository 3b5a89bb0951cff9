package common

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withStamp resets the link-time variables for one test.
func withStamp(t *testing.T, version, build, commit string) {
	t.Helper()
	v, b, c := Version, Build, GitCommit
	Version, Build, GitCommit = version, build, commit
	t.Cleanup(func() { Version, Build, GitCommit = v, b, c })
}

func TestCurrentBuild(t *testing.T) {
	withStamp(t, "1.4.0", "2026-10-01T09:00:00Z", "abc1234")

	info := CurrentBuild()
	assert.Equal(t, "1.4.0", info.Version)
	assert.Equal(t, "2026-10-01T09:00:00Z", info.Build)
	assert.Equal(t, "abc1234", info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, "1.4.0 (build: 2026-10-01T09:00:00Z, commit: abc1234)", info.String())
}

func TestShortRevision(t *testing.T) {
	assert.Equal(t, "0123abcd", shortRevision("0123abcd9999ffff"))
	assert.Equal(t, "beef", shortRevision("beef"))
}

func TestLoadVersionFile(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		stamp     [3]string
		want      [3]string
		wantErr   bool
		skipWrite bool
	}{
		{
			name:  "fills defaults",
			file:  "version = \"1.5.2\"\nbuild = \"2026-10-18\"\ncommit = \"f00dbab\"\n",
			stamp: [3]string{"dev", "unknown", "unknown"},
			want:  [3]string{"1.5.2", "2026-10-18", "f00dbab"},
		},
		{
			name:  "link-time values win",
			file:  "version = \"1.5.2\"\ncommit = \"f00dbab\"\n",
			stamp: [3]string{"2.0.0", "unknown", "cafe123"},
			want:  [3]string{"2.0.0", "unknown", "cafe123"},
		},
		{
			name:      "missing file",
			skipWrite: true,
			stamp:     [3]string{"dev", "unknown", "unknown"},
			want:      [3]string{"dev", "unknown", "unknown"},
		},
		{
			name:    "malformed",
			file:    "version: 1.5.2\n",
			stamp:   [3]string{"dev", "unknown", "unknown"},
			want:    [3]string{"dev", "unknown", "unknown"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withStamp(t, tt.stamp[0], tt.stamp[1], tt.stamp[2])
			dir := t.TempDir()
			if !tt.skipWrite {
				require.NoError(t, os.WriteFile(filepath.Join(dir, VersionFileName), []byte(tt.file), 0o644))
			}

			err := LoadVersionFile(dir)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, [3]string{Version, Build, GitCommit})
		})
	}
}
