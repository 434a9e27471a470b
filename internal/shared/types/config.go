package types

import "time"

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" mapstructure:"log_format"`

	Credentials CredentialsConfig `json:"credentials" yaml:"credentials" toml:"credentials" mapstructure:"credentials"`
	AWS         AWSConfig         `json:"aws" yaml:"aws" toml:"aws" mapstructure:"aws"`
	Azure       AzureConfig       `json:"azure" yaml:"azure" toml:"azure" mapstructure:"azure"`
	Report      ReportConfig      `json:"report" yaml:"report" toml:"report" mapstructure:"report"`
	Artifact    ArtifactConfig    `json:"artifact" yaml:"artifact" toml:"artifact" mapstructure:"artifact"`
	Server      ServerConfig      `json:"server" yaml:"server" toml:"server" mapstructure:"server"`
}

// CredentialsConfig aponta para o Parameter Store que guarda as credenciais dos clientes.
type CredentialsConfig struct {
	SSMPrefix     string `json:"ssm_prefix" yaml:"ssm_prefix" toml:"ssm_prefix" mapstructure:"ssm_prefix"`
	SSMRegion     string `json:"ssm_region" yaml:"ssm_region" toml:"ssm_region" mapstructure:"ssm_region"`
	SSMProfile    string `json:"ssm_profile" yaml:"ssm_profile" toml:"ssm_profile" mapstructure:"ssm_profile"`
	DefaultRegion string `json:"default_region" yaml:"default_region" toml:"default_region" mapstructure:"default_region"`
}

// AWSConfig controla timeouts, retries e regiões do adaptador AWS.
type AWSConfig struct {
	FallbackRegions   []string `json:"fallback_regions" yaml:"fallback_regions" toml:"fallback_regions" mapstructure:"fallback_regions"`
	ConnectTimeoutSec int      `json:"connect_timeout_sec" yaml:"connect_timeout_sec" toml:"connect_timeout_sec" mapstructure:"connect_timeout_sec"`
	ReadTimeoutSec    int      `json:"read_timeout_sec" yaml:"read_timeout_sec" toml:"read_timeout_sec" mapstructure:"read_timeout_sec"`
	MetricTimeoutSec  int      `json:"metric_call_timeout_sec" yaml:"metric_call_timeout_sec" toml:"metric_call_timeout_sec" mapstructure:"metric_call_timeout_sec"`
	MaxAttempts       int      `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts" mapstructure:"max_attempts"`
}

// AzureConfig selects the ~/.azure/config profile used for Azure billing.
type AzureConfig struct {
	ConfigPath string `json:"config_path" yaml:"config_path" toml:"config_path" mapstructure:"config_path"`
	Profile    string `json:"profile" yaml:"profile" toml:"profile" mapstructure:"profile"`
}

// ReportConfig controla a geração dos relatórios.
type ReportConfig struct {
	OutputDir         string `json:"output_dir" yaml:"output_dir" toml:"output_dir" mapstructure:"output_dir"`
	WeeklyResourceCap int    `json:"weekly_resource_cap" yaml:"weekly_resource_cap" toml:"weekly_resource_cap" mapstructure:"weekly_resource_cap"`
	Concurrency       int    `json:"concurrency" yaml:"concurrency" toml:"concurrency" mapstructure:"concurrency"`
	Timezone          string `json:"timezone" yaml:"timezone" toml:"timezone" mapstructure:"timezone"`
	Website           string `json:"website" yaml:"website" toml:"website" mapstructure:"website"`
	Company           string `json:"company" yaml:"company" toml:"company" mapstructure:"company"`
	LogoPath          string `json:"logo_path" yaml:"logo_path" toml:"logo_path" mapstructure:"logo_path"`
}

// ArtifactConfig selects where generated reports are stored.
type ArtifactConfig struct {
	Sink     string `json:"sink" yaml:"sink" toml:"sink" mapstructure:"sink"`
	S3Bucket string `json:"s3_bucket" yaml:"s3_bucket" toml:"s3_bucket" mapstructure:"s3_bucket"`
	S3Prefix string `json:"s3_prefix" yaml:"s3_prefix" toml:"s3_prefix" mapstructure:"s3_prefix"`
	S3Region string `json:"s3_region" yaml:"s3_region" toml:"s3_region" mapstructure:"s3_region"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr               string `json:"addr" yaml:"addr" toml:"addr" mapstructure:"addr"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" toml:"shutdown_timeout_sec" mapstructure:"shutdown_timeout_sec"`
}

// DefaultConfig retorna a configuração padrão usada quando nenhum arquivo é informado.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "console",
		Credentials: CredentialsConfig{
			SSMPrefix:     "/myorg/creds/",
			SSMRegion:     "ap-south-1",
			DefaultRegion: "us-east-1",
		},
		AWS: AWSConfig{
			FallbackRegions:   []string{"us-east-1", "us-east-2", "us-west-1", "us-west-2", "eu-west-1", "eu-central-1", "ap-south-1"},
			ConnectTimeoutSec: 5,
			ReadTimeoutSec:    10,
			MetricTimeoutSec:  15,
			MaxAttempts:       2,
		},
		Azure: AzureConfig{
			Profile: "default",
		},
		Report: ReportConfig{
			WeeklyResourceCap: 5,
			Concurrency:       8,
			Timezone:          "Asia/Kolkata",
			Website:           "www.nubinix.com",
			Company:           "nubinix",
		},
		Artifact: ArtifactConfig{
			Sink: "local",
		},
		Server: ServerConfig{
			Addr:               ":8080",
			ShutdownTimeoutSec: 10,
		},
	}
}

// MergeDefaults fills zero-valued fields of c from DefaultConfig.
func (c *Config) MergeDefaults() {
	d := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.Credentials.SSMPrefix == "" {
		c.Credentials.SSMPrefix = d.Credentials.SSMPrefix
	}
	if c.Credentials.SSMRegion == "" {
		c.Credentials.SSMRegion = d.Credentials.SSMRegion
	}
	if c.Credentials.DefaultRegion == "" {
		c.Credentials.DefaultRegion = d.Credentials.DefaultRegion
	}
	if len(c.AWS.FallbackRegions) == 0 {
		c.AWS.FallbackRegions = d.AWS.FallbackRegions
	}
	if c.AWS.ConnectTimeoutSec <= 0 {
		c.AWS.ConnectTimeoutSec = d.AWS.ConnectTimeoutSec
	}
	if c.AWS.ReadTimeoutSec <= 0 {
		c.AWS.ReadTimeoutSec = d.AWS.ReadTimeoutSec
	}
	if c.AWS.MetricTimeoutSec <= 0 {
		c.AWS.MetricTimeoutSec = d.AWS.MetricTimeoutSec
	}
	if c.AWS.MaxAttempts <= 0 {
		c.AWS.MaxAttempts = d.AWS.MaxAttempts
	}
	if c.Azure.Profile == "" {
		c.Azure.Profile = d.Azure.Profile
	}
	if c.Report.WeeklyResourceCap <= 0 {
		c.Report.WeeklyResourceCap = d.Report.WeeklyResourceCap
	}
	if c.Report.Concurrency <= 0 {
		c.Report.Concurrency = d.Report.Concurrency
	}
	if c.Report.Timezone == "" {
		c.Report.Timezone = d.Report.Timezone
	}
	if c.Report.Website == "" {
		c.Report.Website = d.Report.Website
	}
	if c.Report.Company == "" {
		c.Report.Company = d.Report.Company
	}
	if c.Artifact.Sink == "" {
		c.Artifact.Sink = d.Artifact.Sink
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Server.ShutdownTimeoutSec <= 0 {
		c.Server.ShutdownTimeoutSec = d.Server.ShutdownTimeoutSec
	}
}

// Seconds converts an integer number of seconds to a time.Duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
