// Package local implements [codechat.Backend] for a locally hosted
// assistant server.
//
// The server streams responses as newline-delimited records prefixed with
// "data: ". Each record carries a content delta, a completion marker, or an
// error. The parser emits semantic events through the pull-based
// [codechat.Stream] interface.
package local

const (
	defaultBaseURL = "http://localhost:8080"

	chatPath         = "/chat"
	healthPath       = "/health"
	modelsPath       = "/models/list"
	currentModelPath = "/models/current"
	switchModelPath  = "/models/switch"
)

// chatRequest is the JSON body sent to the chat endpoint.
type chatRequest struct {
	Message string `json:"message"`
}

// streamRecord is a single decoded record from the response stream.
// Exactly one of Content, Done, or Error is meaningful per record, except
// that the final record may carry both Content and Done.
type streamRecord struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   string `json:"error"`
}

// apiErrorResponse is the JSON body returned on non-200 HTTP responses.
type apiErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthStatus reports the server's readiness and active model.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Model       string `json:"model"`
	Backend     string `json:"backend"`
}

// ModelInfo describes a model the server can serve.
type ModelInfo struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
	Loaded  bool   `json:"loaded"`
}

type modelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// CurrentModelInfo identifies the model currently serving requests.
type CurrentModelInfo struct {
	Model   string `json:"model"`
	Backend string `json:"backend"`
}
