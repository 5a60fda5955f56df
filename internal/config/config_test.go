package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/pagesift/internal/config"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.Detector.MaxGroups)
	assert.Equal(t, 3, cfg.Detector.SampleSize)
	assert.InDelta(t, 80.0, cfg.Thresholds.FieldGood, 0.0001)
	assert.InDelta(t, 90.0, cfg.Thresholds.OverallExcellent, 0.0001)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{
			name:   "defaults pass",
			mutate: func(*config.Config) {},
		},
		{
			name:    "missing app name",
			mutate:  func(c *config.Config) { c.App.Name = "" },
			wantErr: true,
		},
		{
			name:    "invalid environment",
			mutate:  func(c *config.Config) { c.App.Environment = "testing" },
			wantErr: true,
		},
		{
			name:    "non-positive detector cap",
			mutate:  func(c *config.Config) { c.Detector.MaxGroups = 0 },
			wantErr: true,
		},
		{
			name: "inverted field thresholds",
			mutate: func(c *config.Config) {
				c.Thresholds.FieldGood = 40
				c.Thresholds.FieldNeedsWork = 60
			},
			wantErr: true,
		},
		{
			name: "inverted overall thresholds",
			mutate: func(c *config.Config) {
				c.Thresholds.OverallExcellent = 70
				c.Thresholds.OverallGood = 80
			},
			wantErr: true,
		},
	}

	for i := range tests {
		test := &tests[i]
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			test.mutate(cfg)

			err := cfg.Validate()
			if test.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	t.Parallel()

	content := `app:
  name: pagesift
  environment: production
detector:
  maxGroups: 25
thresholds:
  fieldGood: 85
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Environment)
	assert.Equal(t, 25, cfg.Detector.MaxGroups)
	assert.InDelta(t, 85.0, cfg.Thresholds.FieldGood, 0.0001)
	// Untouched keys keep their defaults.
	assert.Equal(t, 3, cfg.Detector.SampleSize)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "pagesift", cfg.App.Name)
}
