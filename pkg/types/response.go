package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// OperationResult is returned by endpoints that acknowledge a side effect.
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
