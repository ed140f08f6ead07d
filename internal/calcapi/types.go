package calcapi

import "scicalc/internal/calculator"

// StateResponse is the JSON view of a session.
type StateResponse struct {
	SessionID string           `json:"session_id"`
	Display   string           `json:"display"`
	State     calculator.State `json:"state"`
}

// KeysRequest is the JSON body for POST /calculator/sessions/{id}/keys.
// Exactly one of Tokens or Input is used; Tokens wins when both are set.
type KeysRequest struct {
	Tokens []string `json:"tokens,omitempty"` // keypad labels, one per press
	Input  string   `json:"input,omitempty"`  // whitespace separated, "12.5" expands to digits
}

// KeyResult records one applied token.
type KeyResult struct {
	Token     string `json:"token"`
	Display   string `json:"display"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// KeysResponse is the JSON response for POST /calculator/sessions/{id}/keys.
type KeysResponse struct {
	StateResponse
	Keys []KeyResult `json:"keys"`
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	Op string  `json:"op"` // "+", "-", "*", "/", "^"
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Op      string  `json:"op"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	Display string  `json:"display"`
}

// ScientificRequest is the JSON body for POST /calculator/scientific.
type ScientificRequest struct {
	Function  string  `json:"function"`
	X         float64 `json:"x"`
	AngleMode string  `json:"angle_mode,omitempty"` // "DEG" (default) or "RAD"
}

// ScientificResponse is the JSON response for POST /calculator/scientific.
type ScientificResponse struct {
	Function  string  `json:"function"`
	X         float64 `json:"x"`
	AngleMode string  `json:"angle_mode"`
	Display   string  `json:"display"`
}
