package mojo

import (
	"crypto/ed25519"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/code-payments/mojo-sdk/pkg/solana"
	compute_budget "github.com/code-payments/mojo-sdk/pkg/solana/computebudget"
	"github.com/code-payments/mojo-sdk/pkg/solana/delegation"
	mojo_program "github.com/code-payments/mojo-sdk/pkg/solana/mojo"
	"github.com/code-payments/mojo-sdk/pkg/solana/system"
)

// Network is a recognized deployment target.
type Network string

const (
	NetworkDevnet   Network = "devnet"
	NetworkMainnet  Network = "mainnet"
	NetworkLocalnet Network = "localnet"
)

// ParseNetwork accepts a network name, case-insensitively.
func ParseNetwork(s string) (Network, error) {
	n := Network(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := defaultConfigs[n]; !ok {
		return "", errors.Errorf("unknown network: %q", s)
	}
	return n, nil
}

// Config is the textual configuration, as read from the environment or a
// config file. Resolve it into an Environment before use.
type Config struct {
	Network string `mapstructure:"network"`

	BaseRPCEndpoint      string `mapstructure:"base_rpc_endpoint"`
	EphemeralRPCEndpoint string `mapstructure:"ephemeral_rpc_endpoint"`

	WorldProgramID      string `mapstructure:"world_program_id"`
	DelegationProgramID string `mapstructure:"delegation_program_id"`
	MagicProgramID      string `mapstructure:"magic_program_id"`
	MagicContextID      string `mapstructure:"magic_context_id"`
	Validator           string `mapstructure:"validator"`

	Commitment string `mapstructure:"commitment"`
	LogLevel   string `mapstructure:"log_level"`

	// Optional compute budget prepended to every submitted transaction.
	ComputeUnitLimit uint32 `mapstructure:"compute_unit_limit"`
	ComputeUnitPrice uint64 `mapstructure:"compute_unit_price"`

	// AddressCacheSize bounds the number of derived addresses kept in memory
	// by a World client. Zero disables the cache.
	AddressCacheSize int `mapstructure:"address_cache_size"`

	// RPCRateLimit caps the transport operations per second sent to each
	// layer. Zero disables the limit.
	RPCRateLimit float64 `mapstructure:"rpc_rate_limit"`
}

var defaultConfigs = map[Network]Config{
	NetworkDevnet: {
		Network:              string(NetworkDevnet),
		BaseRPCEndpoint:      string(solana.EnvironmentDev),
		EphemeralRPCEndpoint: delegation.EphemeralEndpointDevnet,
		Validator:            base58.Encode(delegation.ValidatorAsia),
	},
	NetworkMainnet: {
		Network:              string(NetworkMainnet),
		BaseRPCEndpoint:      string(solana.EnvironmentProd),
		EphemeralRPCEndpoint: delegation.EphemeralEndpointMainnet,
		Validator:            base58.Encode(delegation.ValidatorAsia),
	},
	NetworkLocalnet: {
		Network:              string(NetworkLocalnet),
		BaseRPCEndpoint:      string(solana.EnvironmentLocal),
		EphemeralRPCEndpoint: delegation.EphemeralEndpointLocalnet,
		Validator:            base58.Encode(delegation.ValidatorLocal),
	},
}

// DefaultConfig returns the built-in configuration for a network.
func DefaultConfig(network Network) (Config, error) {
	c, ok := defaultConfigs[network]
	if !ok {
		return Config{}, errors.Errorf("unknown network: %q", network)
	}

	c.WorldProgramID = base58.Encode(mojo_program.DefaultProgramID)
	c.DelegationProgramID = base58.Encode(delegation.PROGRAM_ID)
	c.MagicProgramID = base58.Encode(delegation.MAGIC_PROGRAM_ID)
	c.MagicContextID = base58.Encode(delegation.MAGIC_CONTEXT_ID)
	c.Commitment = "confirmed"
	c.LogLevel = "info"
	c.AddressCacheSize = 1024

	return c, nil
}

var configEnvVars = map[string]string{
	"network":                "MOJO_NETWORK",
	"base_rpc_endpoint":      "MOJO_BASE_RPC_ENDPOINT",
	"ephemeral_rpc_endpoint": "MOJO_EPHEMERAL_RPC_ENDPOINT",
	"world_program_id":       "MOJO_WORLD_PROGRAM_ID",
	"delegation_program_id":  "MOJO_DELEGATION_PROGRAM_ID",
	"magic_program_id":       "MOJO_MAGIC_PROGRAM_ID",
	"magic_context_id":       "MOJO_MAGIC_CONTEXT_ID",
	"validator":              "MOJO_VALIDATOR",
	"commitment":             "MOJO_COMMITMENT",
	"log_level":              "MOJO_LOG_LEVEL",
	"compute_unit_limit":     "MOJO_COMPUTE_UNIT_LIMIT",
	"compute_unit_price":     "MOJO_COMPUTE_UNIT_PRICE",
	"address_cache_size":     "MOJO_ADDRESS_CACHE_SIZE",
	"rpc_rate_limit":         "MOJO_RPC_RATE_LIMIT",
}

// LoadConfig reads the configuration from the MOJO_* environment variables
// and, if path is set, a config file. The network is selected first and its
// defaults fill every key that is not set explicitly.
func LoadConfig(path string) (Config, error) {
	return loadConfig(path, "")
}

// LoadNetworkConfig is LoadConfig with the network forced to network. Every
// other key is still read from the environment and the config file.
func LoadNetworkConfig(path string, network Network) (Config, error) {
	if _, ok := defaultConfigs[network]; !ok {
		return Config{}, errors.Errorf("unknown network: %q", network)
	}
	return loadConfig(path, network)
}

func loadConfig(path string, network Network) (Config, error) {
	v := viper.New()
	for key, env := range configEnvVars {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, errors.Wrapf(err, "failed to bind %s", env)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	if network != "" {
		v.Set("network", string(network))
	}

	network = NetworkDevnet
	if raw := v.GetString("network"); raw != "" {
		var err error
		if network, err = ParseNetwork(raw); err != nil {
			return Config{}, err
		}
	}

	config, err := DefaultConfig(network)
	if err != nil {
		return Config{}, err
	}
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}
	config.Network = string(network)

	return config, nil
}

// Environment is a validated Config with every identifier decoded. It is
// created once at startup and passed to everything that builds instructions.
type Environment struct {
	Network Network

	BaseRPCEndpoint      string
	EphemeralRPCEndpoint string

	WorldProgram      ed25519.PublicKey
	DelegationProgram ed25519.PublicKey
	MagicProgram      ed25519.PublicKey
	MagicContext      ed25519.PublicKey
	Validator         ed25519.PublicKey
	SystemProgram     ed25519.PublicKey
	RentSysvar        ed25519.PublicKey

	Commitment solana.Commitment
	Budget     compute_budget.Budget

	AddressCacheSize int
	RPCRateLimit     float64
}

// Resolve validates c and decodes its identifiers.
func (c Config) Resolve() (*Environment, error) {
	network, err := ParseNetwork(c.Network)
	if err != nil {
		return nil, err
	}

	if c.BaseRPCEndpoint == "" {
		return nil, errors.New("base_rpc_endpoint is required")
	}
	if c.EphemeralRPCEndpoint == "" {
		return nil, errors.New("ephemeral_rpc_endpoint is required")
	}
	if c.AddressCacheSize < 0 {
		return nil, errors.New("address_cache_size cannot be negative")
	}
	if c.RPCRateLimit < 0 {
		return nil, errors.New("rpc_rate_limit cannot be negative")
	}

	env := &Environment{
		Network:              network,
		BaseRPCEndpoint:      c.BaseRPCEndpoint,
		EphemeralRPCEndpoint: c.EphemeralRPCEndpoint,
		SystemProgram:        system.ProgramKey,
		RentSysvar:           system.RentSysVar,
		Budget: compute_budget.Budget{
			UnitLimit: c.ComputeUnitLimit,
			UnitPrice: c.ComputeUnitPrice,
		},
		AddressCacheSize: c.AddressCacheSize,
		RPCRateLimit:     c.RPCRateLimit,
	}

	for _, id := range []struct {
		name  string
		value string
		dst   *ed25519.PublicKey
	}{
		{"world_program_id", c.WorldProgramID, &env.WorldProgram},
		{"delegation_program_id", c.DelegationProgramID, &env.DelegationProgram},
		{"magic_program_id", c.MagicProgramID, &env.MagicProgram},
		{"magic_context_id", c.MagicContextID, &env.MagicContext},
		{"validator", c.Validator, &env.Validator},
	} {
		*id.dst, err = decodePublicKey(id.value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", id.name)
		}
	}

	env.Commitment, err = solana.CommitmentFromString(c.Commitment)
	if err != nil {
		return nil, err
	}

	return env, nil
}

// NewEnvironment resolves the built-in configuration for a network.
func NewEnvironment(network Network) (*Environment, error) {
	c, err := DefaultConfig(network)
	if err != nil {
		return nil, err
	}
	return c.Resolve()
}

func decodePublicKey(s string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrapf(err, "%q is not base58", s)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Errorf("%q decodes to %d bytes", s, len(decoded))
	}
	return decoded, nil
}
