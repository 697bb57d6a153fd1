package types

// MessageEnvelope is the success body for mutation endpoints: a message plus
// an optional named payload merged at the top level by the response writer.
type MessageEnvelope struct {
	Message string `json:"message"`
}

// ErrorBody matches what existing clients parse on failures.
type ErrorBody struct {
	Detail string `json:"detail"`
}
