package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Config
		wantErr string
	}{
		{
			name: "full document",
			input: `recipes:
  - specvital.junit5.JUnit4to5Migration
include:
  - "src/test/**/*.java"
exclude:
  - generated
workers: 4
timeout: 30s
maxFileSize: 1048576
dryRun: true
recipeFiles:
  - recipes/custom.yaml
`,
			want: &Config{
				Recipes:     []string{"specvital.junit5.JUnit4to5Migration"},
				Include:     []string{"src/test/**/*.java"},
				Exclude:     []string{"generated"},
				Workers:     4,
				Timeout:     30 * time.Second,
				MaxFileSize: 1 << 20,
				DryRun:      true,
				RecipeFiles: []string{"recipes/custom.yaml"},
			},
		},
		{
			name:  "empty document",
			input: "",
			want:  &Config{},
		},
		{
			name:    "unknown key",
			input:   "recipe: x\n",
			wantErr: "field recipe not found",
		},
		{
			name:    "negative workers",
			input:   "workers: -1\n",
			wantErr: "workers must not be negative",
		},
		{
			name:    "bad include pattern",
			input:   "include: [\"src/[\"]\n",
			wantErr: "invalid include pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// When
			got, err := Decode(strings.NewReader(tt.input))

			// Then
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind(t *testing.T) {
	t.Run("should return empty config without a file", func(t *testing.T) {
		cfg, err := Find(t.TempDir())

		require.NoError(t, err)
		assert.Equal(t, &Config{}, cfg)
	})

	t.Run("should resolve recipe files against the config directory", func(t *testing.T) {
		root := t.TempDir()
		content := "recipeFiles:\n  - custom.yaml\n  - /abs/other.yaml\n"
		require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))

		cfg, err := Find(root)

		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "custom.yaml"), "/abs/other.yaml"}, cfg.RecipeFiles)
	})
}
