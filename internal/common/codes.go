package common

// Numeric error codes carried in every error response body. The values are
// part of the public contract and must not be renumbered.
const (
	CodeSignUp             = 10
	CodeInputRequest       = 11
	CodeValidationFailed   = 12
	CodeInvalidCredentials = 13
	CodeInternal           = 14
)
