package types

const (
	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
	HeaderAPIKey        = "x-api-key"
)
