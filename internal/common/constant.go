package common

// Outbound gRPC metadata keys.
const (
	AuthorizationHeaderName = "authorization"
	ClientVersionHeaderName = "x-client-version"
)
