package contentful

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx response from Contentful
type APIError struct {
	StatusCode int
	ErrorID    string
	Message    string
}

func (e *APIError) Error() string {
	if e.ErrorID != "" {
		return fmt.Sprintf("contentful: %d %s: %s", e.StatusCode, e.ErrorID, e.Message)
	}
	return fmt.Sprintf("contentful: %d: %s", e.StatusCode, e.Message)
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload struct {
		Message string `json:"message"`
		Sys     struct {
			ID string `json:"id"`
		} `json:"sys"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.ErrorID = payload.Sys.ID
		apiErr.Message = payload.Message
		if apiErr.Message == "" && len(payload.Errors) > 0 {
			msgs := make([]string, 0, len(payload.Errors))
			for _, e := range payload.Errors {
				msgs = append(msgs, e.Message)
			}
			apiErr.Message = strings.Join(msgs, "; ")
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// hasErrorPayload reports whether a successful response still carries a
// non-empty GraphQL errors array
func hasErrorPayload(body []byte) bool {
	if !bytes.Contains(body, []byte(`"errors"`)) {
		return false
	}
	var payload struct {
		Errors []json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return false
	}
	return len(payload.Errors) > 0
}
