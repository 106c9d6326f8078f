package interfaces

// Service is implemented by the transports exposing the signer service,
// ie. the JSON-RPC interface served over HTTP and websocket.
type Service interface {
	Start() error
	Stop()
}
