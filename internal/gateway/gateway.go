package gateway

// Gateway defines the interface for request surfaces (HTTP, Telegram, etc.)
type Gateway interface {
	// Start begins serving requests and blocks until shutdown or failure
	Start() error
	// Stop gracefully shuts down the gateway
	Stop() error
}
