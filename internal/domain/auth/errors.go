package auth

import "errors"

// Token and authorization errors. Token issuance lives outside this service;
// these cover verification of tokens minted elsewhere.
var (
	ErrInvalidToken       = errors.New("invalid or missing token")
	ErrHRAccessRequired   = errors.New("hr role required")
	ErrEmployeeIDRequired = errors.New("employee_id claim is missing or invalid")
)
