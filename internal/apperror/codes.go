package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Routing error codes
const (
	// Request-level: no tier produced a viable route.
	CodeNoLiquidity Code = "NO_LIQUIDITY"

	// Venue adapter errors, always absorbed by the aggregation layer.
	CodeVenueNetworkError     Code = "VENUE_NETWORK_ERROR"
	CodeVenueQuoteFailed      Code = "VENUE_QUOTE_FAILED"
	CodeUnsupportedPair       Code = "UNSUPPORTED_PAIR"
	CodeUnsupportedChain      Code = "UNSUPPORTED_CHAIN"
	CodeInvalidQuote          Code = "INVALID_QUOTE"
	CodeInvalidAmount         Code = "INVALID_AMOUNT"
	CodeInvalidAddress        Code = "INVALID_ADDRESS"
	CodeContractCallFailed    Code = "CONTRACT_CALL_FAILED"
	CodeVenueRateLimited      Code = "VENUE_RATE_LIMITED"
	CodeVenueNotRegistered    Code = "VENUE_NOT_REGISTERED"
	CodeAdapterInitFailed     Code = "ADAPTER_INIT_FAILED"
	CodeQuoteTimeout          Code = "QUOTE_TIMEOUT"
	CodeInsufficientLiquidity Code = "INSUFFICIENT_LIQUIDITY"
)

// Graph and pathfinding error codes
const (
	CodeSelfLoopPair   Code = "SELF_LOOP_PAIR"
	CodeEmptyPairRoute Code = "EMPTY_PAIR_ROUTE"
	CodeUnknownToken   Code = "UNKNOWN_TOKEN"
)

// Cross-chain / bridge error codes
const (
	CodeBridgeNotFound     Code = "BRIDGE_NOT_FOUND"
	CodeFeedConnectionLost Code = "FEED_CONNECTION_LOST"
	CodeFeedDecodeError    Code = "FEED_DECODE_ERROR"
)

// Gas oracle error codes
const (
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeGasEstimationFailed      Code = "GAS_ESTIMATION_FAILED"
)

// Circuit breaker error codes
const (
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
