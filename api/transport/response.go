package transport

// ErrorBody is the error half of an Envelope.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Envelope wraps every API response. Exactly one of Data or Error is
// populated.
type Envelope struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
	Error  *ErrorBody  `json:"error,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{Status: "success", Data: data, Meta: meta}
}

func NewError(code, message string, details interface{}) Envelope {
	return Envelope{
		Status: "error",
		Error:  &ErrorBody{Code: code, Message: message, Details: details},
	}
}
