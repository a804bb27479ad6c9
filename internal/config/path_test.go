package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("TALLY_TEST_DIR", "/var/data")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty stays empty",
			input: "",
			want:  "",
		},
		{
			name:  "bare tilde",
			input: "~",
			want:  home,
		},
		{
			name:  "tilde prefix",
			input: "~/.local/share/tally/tally.db",
			want:  filepath.Join(home, ".local/share/tally/tally.db"),
		},
		{
			name:  "env var",
			input: "$TALLY_TEST_DIR/tally.db",
			want:  "/var/data/tally.db",
		},
		{
			name:  "absolute path untouched",
			input: "/tmp/tally.db",
			want:  "/tmp/tally.db",
		},
		{
			name:  "tilde mid-path untouched",
			input: "/data/~/tally.db",
			want:  "/data/~/tally.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
