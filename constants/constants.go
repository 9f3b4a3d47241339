// Package constants provides configuration constants for the Hyperliquid API.
package constants

const (
	// MainnetAPIURL is the URL for Hyperliquid mainnet API
	MainnetAPIURL = "https://api.hyperliquid.xyz"

	// TestnetAPIURL is the URL for Hyperliquid testnet API
	TestnetAPIURL = "https://api.hyperliquid-testnet.xyz"

	// LocalAPIURL is the URL for local development
	LocalAPIURL = "http://localhost:3001"

	// DefaultTimeout is the default HTTP request timeout in seconds
	DefaultTimeout = 30

	// DefaultSlippage is the default slippage for market orders (5%)
	DefaultSlippage = 0.05

	// SpotAssetOffset is the starting index for spot assets
	SpotAssetOffset = 10000

	// BuilderPerpDexOffset is the starting index for builder-deployed perp dexs
	BuilderPerpDexOffset = 110000

	// MainnetWSURL is the WebSocket endpoint for mainnet.
	MainnetWSURL = "wss://api.hyperliquid.xyz/ws"

	// TestnetWSURL is the WebSocket endpoint for testnet.
	TestnetWSURL = "wss://api.hyperliquid-testnet.xyz/ws"

	// L1ChainID is the chain id embedded in every L1 Agent EIP-712 domain,
	// for both mainnet and testnet. The venue uses the same value for both;
	// network is distinguished by the Agent.source field instead.
	L1ChainID = 1337

	// AgentSourceMainnet is the Agent.source value for mainnet L1 actions.
	AgentSourceMainnet = "a"

	// AgentSourceTestnet is the Agent.source value for testnet L1 actions.
	AgentSourceTestnet = "b"

	// MainnetSignatureChainID is the default signatureChainId for user
	// actions signed against mainnet (Arbitrum One).
	MainnetSignatureChainID = 42161

	// TestnetSignatureChainID is the default signatureChainId for user
	// actions signed against testnet (Arbitrum Sepolia).
	TestnetSignatureChainID = 421614

	// NonceValidityBackwardMs is the sliding-window backward bound: a nonce
	// at or before now - this value is rejected.
	NonceValidityBackwardMs = 2 * 24 * 3600 * 1000

	// NonceValidityForwardMs is the sliding-window forward bound: a nonce
	// at or after now + this value is rejected.
	NonceValidityForwardMs = 24 * 3600 * 1000

	// DefaultBatchIntervalMs etc are the order batcher's documented defaults.
	DefaultBatchIntervalMs = 100
	DefaultMaxBatchSize    = 100
	DefaultPrioritizeALO   = true
	DefaultMaxWaitTimeMs   = 500

	// DefaultAgentTTLSeconds and DefaultAgentRotateMarginSeconds are the
	// agent manager's documented defaults (not specified exactly by the
	// venue; chosen conservatively).
	DefaultAgentTTLSeconds           = 7 * 24 * 3600
	DefaultAgentRotateMarginSeconds  = 3600
	DefaultAgentMaxConcurrent        = 3

	// WSPingIntervalSeconds and WSPongTimeoutSeconds govern the
	// multiplexer's keepalive and reconnect-on-missed-pong policy.
	WSPingIntervalSeconds = 30
	WSPongTimeoutSeconds  = 15

	// WSReconnectBaseDelayMs and WSReconnectMaxDelayMs bound the
	// multiplexer's exponential backoff.
	WSReconnectBaseDelayMs = 500
	WSReconnectMaxDelayMs  = 30000

	// DefaultRateLimitCapacity and DefaultRateLimitRefillPerSec seed the
	// token bucket each API client constructs; an Exchange and its Info
	// client share one API and so one bucket.
	DefaultRateLimitCapacity     = 100
	DefaultRateLimitRefillPerSec = 10
)
