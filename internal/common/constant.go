// Package common holds sentinel errors, typed denial/conflict errors and a
// few helpers shared by every layer of the platform.
package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
// carries the bearer credential.
const AuthorizationHeaderName = "authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"
