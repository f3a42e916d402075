package transport

import "encoding/json"

// Envelope is the standard API response wrapper used for both success and
// error payloads.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data any) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// NewSuccessMessage returns a success envelope with a human-readable note.
func NewSuccessMessage(data any, message string) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
		Message: message,
	}
}

// NewError returns an error envelope carrying a short tag and a message.
// Stack traces and driver-specific details never go in here.
func NewError(code, message string) Envelope {
	return Envelope{
		Success: false,
		Error:   code,
		Message: message,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
