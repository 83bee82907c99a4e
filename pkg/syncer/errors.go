package syncer

import (
	"github.com/agentstation/pubsync/internal/transport"
	"github.com/agentstation/pubsync/pkg/errors"
)

// Operation names one REST mapping.
type Operation string

// Operations.
const (
	OpList   Operation = "list"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// FallbackMessage is used when the server gives no detail.
const FallbackMessage = "an unexpected error occurred"

// Prefix returns the message prefix for failures of o.
func (o Operation) Prefix() string {
	switch o {
	case OpList:
		return "failed to fetch publications"
	case OpCreate:
		return "failed to add publication"
	case OpUpdate:
		return "failed to update publication"
	case OpDelete:
		return "failed to delete publication"
	default:
		return "request failed"
	}
}

// remoteError wraps a transport failure or a non-2xx response.
// A missing credential passes through unchanged.
func remoteError(op Operation, method, endpoint string, resp *transport.Response, err error) error {
	if errors.IsNotAuthenticated(err) {
		return err
	}

	apiErr := &errors.APIError{
		Operation: string(op),
		Method:    method,
		Endpoint:  endpoint,
		Message:   op.Prefix() + ": " + FallbackMessage,
		Err:       err,
	}
	if resp != nil {
		apiErr.StatusCode = resp.StatusCode
		apiErr.Payload = resp.Body
		if msg := resp.Message(); msg != "" {
			apiErr.Message = op.Prefix() + ": " + msg
		}
	}
	return apiErr
}

// decodeError reports a 2xx response whose body is not the expected shape.
func decodeError(op Operation, method, endpoint string, resp *transport.Response, err error) error {
	return &errors.APIError{
		Operation:  string(op),
		Method:     method,
		Endpoint:   endpoint,
		StatusCode: resp.StatusCode,
		Message:    op.Prefix() + ": invalid response from server",
		Payload:    resp.Body,
		Err:        err,
	}
}
