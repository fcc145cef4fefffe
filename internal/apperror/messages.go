package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Routing
	CodeNoLiquidity: "No viable route found for the requested swap",

	// Venue adapters
	CodeVenueNetworkError:     "Venue request failed",
	CodeVenueQuoteFailed:      "Venue quote failed",
	CodeUnsupportedPair:       "Trading pair not supported by venue",
	CodeUnsupportedChain:      "Chain not supported by venue",
	CodeInvalidQuote:          "Invalid quote data from venue",
	CodeInvalidAmount:         "Invalid swap amount",
	CodeInvalidAddress:        "Invalid token address",
	CodeContractCallFailed:    "Smart contract call failed",
	CodeVenueRateLimited:      "Venue rate limit exceeded",
	CodeVenueNotRegistered:    "Venue not registered",
	CodeAdapterInitFailed:     "Venue adapter initialization failed",
	CodeQuoteTimeout:          "Venue quote timed out",
	CodeInsufficientLiquidity: "Insufficient liquidity for trade size",

	// Graph and pathfinding
	CodeSelfLoopPair:   "Token pair cannot reference the same token twice",
	CodeEmptyPairRoute: "Token pair registered without any venue route",
	CodeUnknownToken:   "Token not present in the routing graph",

	// Cross-chain / bridges
	CodeBridgeNotFound:     "Bridge not found",
	CodeFeedConnectionLost: "Price-difference feed connection lost",
	CodeFeedDecodeError:    "Price-difference feed message malformed",

	// Gas oracle
	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumRPCError:         "Ethereum RPC call failed",
	CodeGasEstimationFailed:      "Gas estimation failed",

	// Circuit breaker
	CodeCircuitOpen: "Circuit breaker is open",
}
