package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidInterval      ErrorCode = 102
	ErrCodeInvalidDateRange     ErrorCode = 103
	ErrCodeInvalidPeriod        ErrorCode = 104
	ErrCodeInvalidType          ErrorCode = 105
	ErrCodeMissingParameter     ErrorCode = 106
	ErrCodeInsufficientData     ErrorCode = 107
	ErrCodeInvalidTicker        ErrorCode = 108

	// Cache errors (200-299)
	ErrCodeCacheReadFailed      ErrorCode = 200
	ErrCodeCacheWriteFailed     ErrorCode = 201
	ErrCodeCacheCorrupt         ErrorCode = 202
	ErrCodeCacheVersionMismatch ErrorCode = 203
	ErrCodeDataNotFound         ErrorCode = 204

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Provider errors (400-499)
	ErrCodeProviderUnavailable ErrorCode = 400
	ErrCodeProviderFetchFailed ErrorCode = 401
	ErrCodeProviderTimeout     ErrorCode = 402
	ErrCodeInvalidProvider     ErrorCode = 403
	ErrCodeProviderParseFailed ErrorCode = 404

	// Synchronization errors (500-599)
	ErrCodeSyncFailed    ErrorCode = 500
	ErrCodeSyncCancelled ErrorCode = 501
	ErrCodeNoData        ErrorCode = 502

	// Watchlist and configuration file errors (600-699)
	ErrCodeWatchlistReadFailed  ErrorCode = 600
	ErrCodeWatchlistWriteFailed ErrorCode = 601
	ErrCodeDuplicateTicker      ErrorCode = 602
	ErrCodeTickerNotFound       ErrorCode = 603
	ErrCodeConfigLoadFailed     ErrorCode = 604
)

// Category returns the name of the range the code belongs to.
func (c ErrorCode) Category() string {
	switch {
	case c >= 100 && c < 200:
		return "validation"
	case c >= 200 && c < 300:
		return "cache"
	case c >= 300 && c < 400:
		return "indicator"
	case c >= 400 && c < 500:
		return "provider"
	case c >= 500 && c < 600:
		return "sync"
	case c >= 600 && c < 700:
		return "watchlist"
	default:
		return "general"
	}
}
