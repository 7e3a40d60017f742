package cli

// Exit codes for the kac CLI
const (
	// ExitSuccess indicates success, an empty --latest-release result, or a
	// failure reported under --quiet
	ExitSuccess = 0

	// ExitFailure indicates a fatal error
	ExitFailure = 1
)
