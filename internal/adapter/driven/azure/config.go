// Package azure implementa o lado Azure do relatório de faturamento, usando a
// API de Cost Management com as credenciais do Azure CLI.
package azure

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

const (
	DefaultProfile = "default"
	DefaultRegion  = "eastus"
)

// Config são os dados de um perfil de ~/.azure/config.
type Config struct {
	Profile        string
	SubscriptionID string
	TenantID       string
	ClientID       string
	Region         string
}

// DefaultConfigPath returns ~/.azure/config.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("unable to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".azure", "config"), nil
}

// LoadConfig lê o perfil informado do arquivo INI. Se o perfil não existir,
// usa fallbackProfile (quando diferente).
func LoadConfig(path, profile, fallbackProfile string) (*Config, error) {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if fallbackProfile == "" {
		fallbackProfile = DefaultProfile
	}
	if profile == "" {
		profile = fallbackProfile
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("unable to load Azure config file: %w", err)
	}

	section, err := file.GetSection(profile)
	if err != nil && profile != fallbackProfile {
		profile = fallbackProfile
		section, err = file.GetSection(profile)
	}
	if err != nil {
		return nil, fmt.Errorf("profile %s not found in Azure config: %w", profile, err)
	}

	cfg := &Config{
		Profile:        profile,
		SubscriptionID: section.Key("subscription").String(),
		TenantID:       section.Key("tenant").String(),
		ClientID:       section.Key("client_id").String(),
		Region:         section.Key("region").MustString(DefaultRegion),
	}
	if cfg.SubscriptionID == "" {
		return nil, fmt.Errorf("subscription ID not found in profile %s", profile)
	}
	return cfg, nil
}

// Scope returns the Cost Management scope of the subscription.
func (c *Config) Scope() string {
	return fmt.Sprintf("/subscriptions/%s", c.SubscriptionID)
}
