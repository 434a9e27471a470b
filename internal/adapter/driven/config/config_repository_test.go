package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", "log_level = \"debug\"\n[report]\nweekly_resource_cap = 3\n"},
		{"yaml", "config.yaml", "log_level: debug\nreport:\n  weekly_resource_cap: 3\n"},
		{"json", "config.json", `{"log_level": "debug", "report": {"weekly_resource_cap": 3}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfigRepository().LoadConfigFile(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, 3, cfg.Report.WeeklyResourceCap)
			// defaults preenchidos
			assert.Equal(t, "/myorg/creds/", cfg.Credentials.SSMPrefix)
			assert.Equal(t, "Asia/Kolkata", cfg.Report.Timezone)
			assert.Equal(t, 8, cfg.Report.Concurrency)
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	repo := NewConfigRepository()

	_, err := repo.LoadConfigFile(writeFile(t, "config.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported config file format")

	_, err = repo.LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = repo.LoadConfigFile(t.TempDir())
	assert.ErrorContains(t, err, "is a directory")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CLOUD_INSIGHTS_REPORT_WEEKLY_RESOURCE_CAP", "2")
	t.Setenv("CLOUD_INSIGHTS_ARTIFACT_SINK", "s3")
	t.Setenv("CLOUD_INSIGHTS_AWS_FALLBACK_REGIONS", "us-east-1,eu-west-1")

	cfg := types.DefaultConfig()
	require.NoError(t, NewConfigRepository().ApplyEnvOverrides(cfg))

	assert.Equal(t, 2, cfg.Report.WeeklyResourceCap)
	assert.Equal(t, "s3", cfg.Artifact.Sink)
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, cfg.AWS.FallbackRegions)
	assert.Equal(t, "ap-south-1", cfg.Credentials.SSMRegion)
}
