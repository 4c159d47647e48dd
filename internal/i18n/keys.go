package i18n

// Error message translation keys.
const (
	ErrKeyInvalidRequest            = "error.invalid_request"
	ErrKeyInvalidRequestBody        = "error.invalid_request_body"
	ErrKeyInvalidRules              = "error.invalid_rules"
	ErrKeyNoSuitableCarton          = "error.no_suitable_carton"
	ErrKeyItemExceedsAllCartons     = "error.item_exceeds_all_cartons"
	ErrKeyWeightLimitExceeded       = "error.weight_limit_exceeded"
	ErrKeyComputationTimeout        = "error.computation_timeout"
	ErrKeyInternalValidationFailure = "error.internal_validation_failure"
	ErrKeyDependencyUnavailable     = "error.dependency_unavailable"
	ErrKeyInternalError             = "error.internal_error"
	ErrKeyNotFound                  = "error.not_found"
	ErrKeyRateLimitExceeded         = "error.rate_limit_exceeded"
	ErrKeyTimeout                   = "error.timeout"
)
