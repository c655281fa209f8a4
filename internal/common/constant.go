package common

// Backend names recognised by the repository factory. Any other value
// selects the file backend.
const (
	BackendFile     = "file"
	BackendSession  = "session"
	BackendPostgres = "postgres"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)
