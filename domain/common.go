package domain

import "errors"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	IdentityTypeUser            = "user"
	IdentityTypeDeviceLinked    = "device_linked"
	IdentityTypeDeviceAnonymous = "device_anonymous"
)

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageUnauthenticated      = "sign in or provide a device id to continue"

	ErrParseUUID       = errors.New("failed to parse UUID")
	ErrTokenNotFound   = errors.New("failed to token not found")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthenticated = errors.New("no verified identity and no valid device id")
	ErrNotAllowed      = errors.New("user not allowed")
)
