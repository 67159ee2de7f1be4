package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, COURSEBOT_CONFIG env, ./config.yaml, /etc/coursebot/config.yaml)
//  3. Environment variable overrides
//  4. File reference resolution (_file suffix)
//  5. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := resolveFileReferences(&cfg); err != nil {
		return nil, fmt.Errorf("resolving file references: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. COURSEBOT_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/coursebot/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("COURSEBOT_CONFIG"); envPath != "" {
		return envPath
	}

	candidates := []string{
		"config.yaml",
		"/etc/coursebot/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. Malformed
// numeric, duration and boolean values are errors.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("COURSEBOT_PROVIDER"); v != "" {
		cfg.Provider.Type = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Provider.Anthropic.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_MODEL"); v != "" {
		cfg.Provider.Anthropic.Model = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.Provider.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Provider.Gemini.Model = v
	}
	if v := os.Getenv("COURSEBOT_PROVIDER_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("COURSEBOT_PROVIDER_TIMEOUT: %w", err)
		}
		cfg.Provider.Timeout = d
	}

	if v := os.Getenv("COURSEBOT_MAX_ITERATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COURSEBOT_MAX_ITERATIONS: %w", err)
		}
		cfg.Loop.MaxIterations = n
	}
	if v := os.Getenv("COURSEBOT_ENABLE_ITERATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COURSEBOT_ENABLE_ITERATION: %w", err)
		}
		cfg.Loop.EnableIteration = b
	}
	if v := os.Getenv("COURSEBOT_DEBUG_LOOP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COURSEBOT_DEBUG_LOOP: %w", err)
		}
		cfg.Loop.Debug = b
	}

	if v := os.Getenv("COURSEBOT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COURSEBOT_PORT: %w", err)
		}
		cfg.Server.Port = port
	}

	if v := os.Getenv("COURSEBOT_JWT_SECRET"); v != "" {
		cfg.Server.Auth.JWT.Secret = v
	}

	// COURSEBOT_MCP_SERVERS: JSON array of MCP server configs.
	if v := os.Getenv("COURSEBOT_MCP_SERVERS"); v != "" {
		servers, err := parseMCPServersJSON(v)
		if err != nil {
			return err
		}
		if len(servers) > 0 {
			cfg.MCP.Servers = servers
		}
	}

	if v := os.Getenv("COURSEBOT_ALLOWED_TOOLS"); v != "" {
		cfg.MCP.AllowedTools = splitList(v)
	}
	if v := os.Getenv("COURSEBOT_CATALOG"); v != "" {
		cfg.Catalog.Path = v
	}

	if v := os.Getenv("COURSEBOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("COURSEBOT_DEBUG"); v != "" {
		cfg.Log.Debug = v
	}
	return nil
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseMCPServersJSON parses a JSON array of MCP server configurations.
func parseMCPServersJSON(jsonStr string) ([]MCPServerConfig, error) {
	var servers []MCPServerConfig
	if err := json.Unmarshal([]byte(jsonStr), &servers); err != nil {
		return nil, fmt.Errorf("parsing MCP servers JSON: %w", err)
	}
	return servers, nil
}

// resolveFileReferences reads _file fields and populates the corresponding
// value fields. An explicit value wins over its file reference.
func resolveFileReferences(cfg *Config) error {
	vendors := []struct {
		path string
		v    *VendorConfig
	}{
		{"provider.anthropic", &cfg.Provider.Anthropic},
		{"provider.gemini", &cfg.Provider.Gemini},
	}
	for _, vendor := range vendors {
		if vendor.v.APIKeyFile == "" {
			continue
		}
		if vendor.v.APIKey != "" {
			slog.Debug("ignoring api_key_file, api_key already set", "section", vendor.path)
			continue
		}
		val, err := readSecretFile(vendor.v.APIKeyFile)
		if err != nil {
			return fmt.Errorf("%s.api_key_file: %w", vendor.path, err)
		}
		vendor.v.APIKey = val
	}

	for i := range cfg.Server.Auth.APIKeys {
		k := &cfg.Server.Auth.APIKeys[i]
		if k.KeyFile != "" && k.Key == "" {
			val, err := readSecretFile(k.KeyFile)
			if err != nil {
				return fmt.Errorf("server.auth.api_keys[%d].key_file: %w", i, err)
			}
			k.Key = val
		}
	}
	if jwt := &cfg.Server.Auth.JWT; jwt.SecretFile != "" && jwt.Secret == "" {
		val, err := readSecretFile(jwt.SecretFile)
		if err != nil {
			return fmt.Errorf("server.auth.jwt.secret_file: %w", err)
		}
		jwt.Secret = val
	}

	for i := range cfg.MCP.Servers {
		auth := &cfg.MCP.Servers[i].Auth
		if auth.ClientIDFile != "" && auth.ClientID == "" {
			val, err := readSecretFile(auth.ClientIDFile)
			if err != nil {
				return fmt.Errorf("mcp.servers[%d].auth.client_id_file: %w", i, err)
			}
			auth.ClientID = val
		}
		if auth.ClientSecretFile != "" && auth.ClientSecret == "" {
			val, err := readSecretFile(auth.ClientSecretFile)
			if err != nil {
				return fmt.Errorf("mcp.servers[%d].auth.client_secret_file: %w", i, err)
			}
			auth.ClientSecret = val
		}
	}
	return nil
}

// readSecretFile reads a file and returns its content with surrounding whitespace trimmed.
func readSecretFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
