package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	domainconfig "github.com/trebuchet-org/treb-dao/internal/domain/config"
)

type (
	RuntimeConfig = domainconfig.RuntimeConfig
	Network       = domainconfig.Network
	DAOConfig     = domainconfig.DAOConfig
)

// DataDirName holds the deployment registry
const DataDirName = ".treb-dao"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	LoadEnvFiles(projectRoot)

	cfg := &RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		NetworkName:    v.GetString("network"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		JSON:           v.GetBool("json"),
		AssumeYes:      v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
	}

	configFile := v.GetString("config")
	if configFile == "" {
		var err error
		if configFile, err = FindConfigFile(projectRoot); err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(configFile) {
		configFile = filepath.Join(projectRoot, configFile)
	}
	cfg.ConfigFile = configFile

	file, err := LoadDAOFile(configFile)
	if err != nil {
		return nil, err
	}
	if cfg.DAO, err = BuildDAOConfig(file.DAO); err != nil {
		return nil, err
	}
	if cfg.Networks, err = BuildNetworks(file.Networks); err != nil {
		return nil, err
	}

	if cfg.NetworkName != "" {
		network, err := ResolveNetwork(cfg.Networks, cfg.NetworkName)
		if err != nil {
			return nil, err
		}
		cfg.Network = network
		cfg.DeployerKey = DeployerKey(network.Name)
	}

	return cfg, nil
}

// ResolveNetwork looks up a network by name and suggests close matches when
// it is missing
func ResolveNetwork(networks map[string]*Network, name string) (*Network, error) {
	if n, ok := networks[name]; ok {
		return n, nil
	}

	names := lo.Keys(networks)
	sort.Strings(names)
	if len(names) == 0 {
		return nil, fmt.Errorf("network '%s' not found: no networks configured", name)
	}

	matches := fuzzy.Find(name, names)
	if len(matches) > 0 {
		suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string { return m.Str })
		return nil, fmt.Errorf("network '%s' not found, did you mean: %s", name, strings.Join(suggestions, ", "))
	}
	return nil, fmt.Errorf("network '%s' not found (available: %s)", name, strings.Join(names, ", "))
}

// DeployerKey reads the signing key for a network from the environment.
// <NETWORK>_DEPLOYER_PRIVATE_KEY takes precedence over DEPLOYER_PRIVATE_KEY.
func DeployerKey(network string) string {
	scoped := strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(network)) + "_DEPLOYER_PRIVATE_KEY"
	if key := os.Getenv(scoped); key != "" {
		return key
	}
	return os.Getenv("DEPLOYER_PRIVATE_KEY")
}

// LoadEnvFiles loads .env and .env.local from the project root. Existing
// environment variables are not overridden.
func LoadEnvFiles(projectRoot string) {
	for _, name := range []string{".env", ".env.local"} {
		envFile := filepath.Join(projectRoot, name)
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// FindProjectRoot walks up from the current directory to find a DAO config file
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := FindConfigFile(dir); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a DAO project (%s not found)", strings.Join(DefaultConfigFiles, ", "))
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("TREB_DAO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("yes", false)
	v.SetDefault("project_root", projectRoot)

	return v
}
