// Package tailoring is the gateway between the pipeline and the language model:
// it renders prompts, calls the model and checks what comes back.
package tailoring

import "fmt"

// GatewayError represents a failed or empty model call
type GatewayError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("gateway error (%s): %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("gateway error (%s): %s", e.Operation, e.Message)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// SchemaViolationError represents structured output that is not valid JSON
// or does not conform to the requested schema
type SchemaViolationError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *SchemaViolationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("schema violation (%s): %s: %v", e.Schema, e.Message, e.Cause)
	}
	return fmt.Sprintf("schema violation (%s): %s", e.Schema, e.Message)
}

func (e *SchemaViolationError) Unwrap() error {
	return e.Cause
}
