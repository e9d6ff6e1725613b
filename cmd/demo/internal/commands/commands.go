package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/wolfeidau/saasframework/internal/auth"
	"github.com/wolfeidau/saasframework/internal/client"
	"github.com/wolfeidau/saasframework/internal/rbac"
	"gopkg.in/yaml.v3"
)

type Globals struct {
	Debug   bool
	Version string
}

// ClientFlags configure the remote auth and RBAC clients. Values given on the
// command line or in the environment take precedence over the config file.
type ClientFlags struct {
	Config     string        `help:"YAML file with client settings" type:"existingfile" env:"SAAS_CONFIG"`
	AuthURL    string        `name:"auth-url" help:"auth service base URL" env:"SAAS_AUTH_URL"`
	AuthAPIKey string        `name:"auth-api-key" help:"auth service API key" env:"SAAS_AUTH_API_KEY"`
	RBACURL    string        `name:"rbac-url" help:"RBAC service base URL" env:"SAAS_RBAC_URL"`
	RBACAPIKey string        `name:"rbac-api-key" help:"RBAC service API key" env:"SAAS_RBAC_API_KEY"`
	TenantID   string        `help:"tenant sent in the X-Tenant-ID header" env:"SAAS_TENANT_ID"`
	Timeout    time.Duration `help:"timeout for each remote call" env:"SAAS_TIMEOUT"`
}

type serviceFile struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"apiKey"`
}

// fileConfig is the layout of the --config file:
//
//	auth:
//	  url: https://platform.example.com/api/v2/auth
//	  apiKey: auth_...
//	rbac:
//	  url: https://platform.example.com/api/v2/rbac
//	  apiKey: rbac_...
//	tenantId: acme
//	timeout: 10s
type fileConfig struct {
	Auth     serviceFile   `yaml:"auth"`
	RBAC     serviceFile   `yaml:"rbac"`
	TenantID string        `yaml:"tenantId"`
	Timeout  time.Duration `yaml:"timeout"`
}

const defaultTimeout = 30 * time.Second

func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fc, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// clientConfigs merges flags over the config file over the defaults.
func (f *ClientFlags) clientConfigs() (authCfg, rbacCfg client.Config, err error) {
	fc, err := loadFileConfig(f.Config)
	if err != nil {
		return authCfg, rbacCfg, err
	}

	defaults := client.DefaultConfig()
	timeout := f.Timeout
	if timeout == 0 {
		timeout = fc.Timeout
	}
	if timeout == 0 {
		timeout = defaultTimeout
	}
	tenantID := firstNonEmpty(f.TenantID, fc.TenantID)

	authCfg = client.Config{
		BaseURL:  firstNonEmpty(f.AuthURL, fc.Auth.URL, defaults.BaseURL+"/auth"),
		APIKey:   firstNonEmpty(f.AuthAPIKey, fc.Auth.APIKey),
		TenantID: tenantID,
		Timeout:  timeout,
	}
	rbacCfg = client.Config{
		BaseURL:  firstNonEmpty(f.RBACURL, fc.RBAC.URL, defaults.BaseURL+"/rbac"),
		APIKey:   firstNonEmpty(f.RBACAPIKey, fc.RBAC.APIKey),
		TenantID: tenantID,
		Timeout:  timeout,
	}

	return authCfg, rbacCfg, nil
}

// newClients builds both remote clients.
func (f *ClientFlags) newClients() (*auth.Client, *rbac.Client, error) {
	authCfg, rbacCfg, err := f.clientConfigs()
	if err != nil {
		return nil, nil, err
	}

	authClient, err := auth.NewClient(authCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	rbacClient, err := rbac.NewClient(rbacCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create rbac client: %w", err)
	}

	return authClient, rbacClient, nil
}
