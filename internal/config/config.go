// Package config layers settings the same way everywhere: defaults,
// then the YAML config file, then environment variables, then flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fibero-labs/bridgectl/internal/registry"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "BRIDGE_CONFIG"
	EnvAdminToken = "BRIDGE_ADMIN_TOKEN"

	envRPCPrefix  = "BRIDGE_RPC_URL_"  // BRIDGE_RPC_URL_ETH etc.
	envPoolPrefix = "BRIDGE_POOL_ADDR_" // BRIDGE_POOL_ADDR_ETH etc.
)

type GlobalFlags struct {
	ConfigPath string
	JSON       bool
	Verbose    bool
	Timeout    string
}

// ChainSettings is one chain entry as configured.
type ChainSettings struct {
	Name        string   `yaml:"name"`
	RPCURL      string   `yaml:"rpc_url"`
	PoolAddress string   `yaml:"pool_address"`
	Tokens      []string `yaml:"tokens"`
	// TokenAddresses carries the deployed token contracts per symbol,
	// informational metadata surfaced alongside balances.
	TokenAddresses map[string]string `yaml:"token_addresses"`
}

type Settings struct {
	Chains []ChainSettings

	FeeManagerChain   string
	FeeManagerAddress string

	AdminAddress string
	AdminToken   string

	CollaboratorTimeout time.Duration
	ConfirmTimeout      time.Duration
	PollInterval        time.Duration

	JournalPath     string
	JournalLockPath string

	ListenAddress  string
	AllowedOrigins []string
	RatePerMinute  int

	JSON    bool
	Verbose bool
}

type fileConfig struct {
	Chains     []ChainSettings `yaml:"chains"`
	FeeManager struct {
		Chain   string `yaml:"chain"`
		Address string `yaml:"address"`
	} `yaml:"fee_manager"`
	Admin struct {
		Address string `yaml:"address"`
	} `yaml:"admin"`
	Timeouts struct {
		Collaborator string `yaml:"collaborator"`
		Confirmation string `yaml:"confirmation"`
		PollInterval string `yaml:"poll_interval"`
	} `yaml:"timeouts"`
	Journal struct {
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"journal"`
	Server struct {
		Listen         string   `yaml:"listen"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		RatePerMinute  *int     `yaml:"rate_per_minute"`
	} `yaml:"server"`
}

func Load(flags GlobalFlags) (Settings, error) {
	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath := resolveConfigPath(flags.ConfigPath)
	if cfgPath != "" {
		if err := applyFileConfig(cfgPath, &settings); err != nil {
			return Settings{}, err
		}
	}

	applyEnv(&settings)

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func defaultSettings() (Settings, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	stateDir := filepath.Join(home, ".bridgectl")
	return Settings{
		Chains: []ChainSettings{
			{Name: registry.ChainETH, RPCURL: "https://eth.llamarpc.com", Tokens: []string{"USDC", "USDT"}},
			{Name: registry.ChainBSC, RPCURL: "https://bsc-dataseed.binance.org", Tokens: []string{"USDC"}},
			{Name: registry.ChainPolygon, RPCURL: "https://polygon-rpc.com", Tokens: []string{"USDC"}},
		},
		FeeManagerChain:     registry.ChainPolygon,
		CollaboratorTimeout: 10 * time.Second,
		ConfirmTimeout:      2 * time.Minute,
		PollInterval:        2 * time.Second,
		JournalPath:         filepath.Join(stateDir, "journal.db"),
		JournalLockPath:     filepath.Join(stateDir, "journal.lock"),
		ListenAddress:       ":8080",
		RatePerMinute:       100,
	}, nil
}

func resolveConfigPath(flagPath string) string {
	if strings.TrimSpace(flagPath) != "" {
		return strings.TrimSpace(flagPath)
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfigPath)); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(home, ".bridgectl", "config.yaml")
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	var parsed fileConfig
	if err := yaml.Unmarshal(buf, &parsed); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if len(parsed.Chains) > 0 {
		merged := make([]ChainSettings, 0, len(parsed.Chains))
		for _, entry := range parsed.Chains {
			base := chainDefaults(settings.Chains, entry.Name)
			if entry.RPCURL != "" {
				base.RPCURL = entry.RPCURL
			}
			if entry.PoolAddress != "" {
				base.PoolAddress = entry.PoolAddress
			}
			if len(entry.Tokens) > 0 {
				base.Tokens = entry.Tokens
			}
			if len(entry.TokenAddresses) > 0 {
				base.TokenAddresses = entry.TokenAddresses
			}
			base.Name = strings.ToUpper(strings.TrimSpace(entry.Name))
			merged = append(merged, base)
		}
		settings.Chains = merged
	}
	if parsed.FeeManager.Chain != "" {
		settings.FeeManagerChain = strings.ToUpper(strings.TrimSpace(parsed.FeeManager.Chain))
	}
	if parsed.FeeManager.Address != "" {
		settings.FeeManagerAddress = parsed.FeeManager.Address
	}
	if parsed.Admin.Address != "" {
		settings.AdminAddress = parsed.Admin.Address
	}
	if err := applyDuration(parsed.Timeouts.Collaborator, &settings.CollaboratorTimeout, "timeouts.collaborator"); err != nil {
		return err
	}
	if err := applyDuration(parsed.Timeouts.Confirmation, &settings.ConfirmTimeout, "timeouts.confirmation"); err != nil {
		return err
	}
	if err := applyDuration(parsed.Timeouts.PollInterval, &settings.PollInterval, "timeouts.poll_interval"); err != nil {
		return err
	}
	if parsed.Journal.Path != "" {
		settings.JournalPath = parsed.Journal.Path
	}
	if parsed.Journal.LockPath != "" {
		settings.JournalLockPath = parsed.Journal.LockPath
	}
	if parsed.Server.Listen != "" {
		settings.ListenAddress = parsed.Server.Listen
	}
	if len(parsed.Server.AllowedOrigins) > 0 {
		settings.AllowedOrigins = parsed.Server.AllowedOrigins
	}
	if parsed.Server.RatePerMinute != nil {
		settings.RatePerMinute = *parsed.Server.RatePerMinute
	}
	return nil
}

func chainDefaults(chains []ChainSettings, name string) ChainSettings {
	clean := strings.ToUpper(strings.TrimSpace(name))
	for _, c := range chains {
		if c.Name == clean {
			return c
		}
	}
	return ChainSettings{Name: clean}
}

func applyEnv(settings *Settings) {
	for i := range settings.Chains {
		name := settings.Chains[i].Name
		if v := strings.TrimSpace(os.Getenv(envRPCPrefix + name)); v != "" {
			settings.Chains[i].RPCURL = v
		}
		if v := strings.TrimSpace(os.Getenv(envPoolPrefix + name)); v != "" {
			settings.Chains[i].PoolAddress = v
		}
	}
	if v := strings.TrimSpace(os.Getenv("BRIDGE_FEE_MANAGER_ADDR")); v != "" {
		settings.FeeManagerAddress = v
	}
	if v := strings.TrimSpace(os.Getenv("BRIDGE_ADMIN_ADDRESS")); v != "" {
		settings.AdminAddress = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAdminToken)); v != "" {
		settings.AdminToken = v
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	settings.JSON = flags.JSON
	settings.Verbose = flags.Verbose
	if strings.TrimSpace(flags.Timeout) != "" {
		d, err := time.ParseDuration(strings.TrimSpace(flags.Timeout))
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		settings.CollaboratorTimeout = d
	}
	return nil
}

func applyDuration(raw string, target *time.Duration, field string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", field, err)
	}
	*target = d
	return nil
}

// ChainSpecs converts configured chains into registry inputs.
func (s Settings) ChainSpecs() []registry.ChainSpec {
	specs := make([]registry.ChainSpec, 0, len(s.Chains))
	for _, c := range s.Chains {
		specs = append(specs, registry.ChainSpec{
			Name:           c.Name,
			RPCURL:         c.RPCURL,
			PoolAddress:    c.PoolAddress,
			Tokens:         c.Tokens,
			TokenAddresses: c.TokenAddresses,
		})
	}
	return specs
}
