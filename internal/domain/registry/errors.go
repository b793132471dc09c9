package registry

// Stable error codes attached to AppError values returned by the service.
// The HTTP layer maps these onto status codes and fixed plain-text bodies.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeNotEligible        = "not_eligible"
	CodeAlreadyRegistered  = "already_registered"
	CodeStoreError         = "store_error"
	CodeVerifyFailed       = "verify_failed"
)
