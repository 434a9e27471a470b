package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/diillson/cloud-insights-reports/internal/domain/repository"
	"github.com/diillson/cloud-insights-reports/internal/shared/types"
)

// EnvPrefix é o prefixo das variáveis de ambiente que sobrescrevem o arquivo.
const EnvPrefix = "CLOUD_INSIGHTS"

// envKeys são as chaves aceitas como override, no formato seção.campo.
var envKeys = []string{
	"log_level",
	"log_format",
	"credentials.ssm_prefix",
	"credentials.ssm_region",
	"credentials.ssm_profile",
	"credentials.default_region",
	"aws.fallback_regions",
	"aws.connect_timeout_sec",
	"aws.read_timeout_sec",
	"aws.metric_call_timeout_sec",
	"aws.max_attempts",
	"azure.config_path",
	"azure.profile",
	"report.output_dir",
	"report.weekly_resource_cap",
	"report.concurrency",
	"report.timezone",
	"report.website",
	"report.company",
	"report.logo_path",
	"artifact.sink",
	"artifact.s3_bucket",
	"artifact.s3_prefix",
	"artifact.s3_region",
	"server.addr",
	"server.shutdown_timeout_sec",
}

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	lookupEnv func(string) (string, bool)
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
func NewConfigRepository() repository.ConfigRepository {
	return &ConfigRepositoryImpl{lookupEnv: os.LookupEnv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
// Campos ausentes recebem os valores padrão.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	config.MergeDefaults()
	return &config, nil
}

// ApplyEnvOverrides sobrescreve cfg com as variáveis CLOUD_INSIGHTS_* definidas,
// por exemplo CLOUD_INSIGHTS_REPORT_WEEKLY_RESOURCE_CAP=3.
func (r *ConfigRepositoryImpl) ApplyEnvOverrides(cfg *types.Config) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		envName := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := r.lookupEnv(envName); !ok {
			continue
		}
		if err := v.BindEnv(key, envName); err != nil {
			return fmt.Errorf("error binding %s: %w", envName, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("error applying environment overrides: %w", err)
	}
	cfg.MergeDefaults()
	return nil
}
