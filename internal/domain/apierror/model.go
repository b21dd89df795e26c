package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed API Gateway call.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindCapacityConflict  Kind = "capacity_conflict"
	KindDuplicateEntry    Kind = "duplicate_entry"
	KindInvalidSubmission Kind = "invalid_submission"
	KindAccessClosed      Kind = "access_closed"
	KindNotFound          Kind = "not_found"
	KindNetwork           Kind = "network"
	KindServer            Kind = "server"
)

// User-facing copy per kind.
const (
	MsgCapacity   = "Not enough spots available for your group"
	MsgDuplicate  = "This phone number is already registered for this event"
	MsgInvalid    = "Invalid submission. Please check your details and try again"
	MsgClosed     = "Registration for this event is closed"
	MsgNotFound   = "Event not found"
	MsgNetwork    = "Unable to reach the server. Please check your connection and try again"
	MsgServerFail = "Something went wrong. Please try again"
)

var capacityWords = []string{"capacity", "spot", "available"}
var duplicateWords = []string{"already", "existing", "duplicate"}

// Error is a classified API failure.
type Error struct {
	Kind    Kind
	Status  int    // 0 when the request never reached the server
	Message string // server-provided message, may be empty
	Err     error  // underlying transport error, if any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api %s: %v", e.Kind, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("api %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("api %s (%d)", e.Kind, e.Status)
}

// Unwrap returns the underlying transport error.
func (e *Error) Unwrap() error { return e.Err }

// New builds a classified error from an HTTP status and server message.
func New(status int, message string) *Error {
	return &Error{Kind: Classify(status, message), Status: status, Message: message}
}

// Network builds an error for a request that never reached the server.
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// Classify maps a status and server message to a Kind. 400 messages are
// inspected case-insensitively, capacity words before duplicate words.
// PRE: status is 0 for transport failures
// POST: Returns exactly one Kind
func Classify(status int, message string) Kind {
	switch status {
	case 0:
		return KindNetwork
	case http.StatusBadRequest:
		lower := strings.ToLower(message)
		if containsAny(lower, capacityWords) {
			return KindCapacityConflict
		}
		if containsAny(lower, duplicateWords) {
			return KindDuplicateEntry
		}
		return KindInvalidSubmission
	case http.StatusForbidden:
		return KindAccessClosed
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindDuplicateEntry
	}
	return KindServer
}

// UserMessage returns the copy shown to the user for err. Server messages are
// preferred for unclassified failures.
func UserMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return MsgServerFail
	}
	switch apiErr.Kind {
	case KindCapacityConflict:
		return orDefault(apiErr.Message, MsgCapacity)
	case KindDuplicateEntry:
		return MsgDuplicate
	case KindInvalidSubmission:
		return MsgInvalid
	case KindAccessClosed:
		return MsgClosed
	case KindNotFound:
		return MsgNotFound
	case KindNetwork:
		return MsgNetwork
	}
	return orDefault(apiErr.Message, MsgServerFail)
}

// ServerMessage returns the server's own message for any failure that reached
// the server, and the network copy for transport failures.
func ServerMessage(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return MsgServerFail
	}
	if apiErr.Kind == KindNetwork {
		return MsgNetwork
	}
	return orDefault(apiErr.Message, MsgServerFail)
}

// KindOf returns the Kind of err, or KindServer for unclassified errors.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
