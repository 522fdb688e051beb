package client

import "errors"

// Provider error taxonomy. Resolvers match these with errors.Is to pick
// the next fallback; they never escape a resolver's public entry point.
var (
	// ErrProviderUnavailable marks a provider that cannot be reached or
	// spawned at all.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrAuthRequired marks a provider demanding sign-in or rejecting the
	// caller as a bot.
	ErrAuthRequired = errors.New("provider requires authentication")

	// ErrMalformed marks a provider response that could not be parsed.
	ErrMalformed = errors.New("malformed provider response")
)
