package roomchat

import (
	"errors"
	"fmt"
)

// ErrorCode represents a categorized error type.
type ErrorCode int

const (
	// Server-reported errors (from error events)
	ErrorUnknown ErrorCode = iota
	ErrorInvalidData
	ErrorNotAuthenticated
	ErrorUserBanned
	ErrorUserKicked
	ErrorInvalidRoom
	ErrorMessageTooLong
	ErrorEmptyContent
	ErrorEmptyUsername
	ErrorUserNotFound
	ErrorSendFailed
	ErrorServerFault

	// Client-side errors
	ErrorConnection
	ErrorDisconnected
	ErrorTimeout
	ErrorNotConnected
	ErrorNotInitialized
	ErrorInvalidConfig
	ErrorSerialization
)

// String returns the string representation of an ErrorCode.
func (e ErrorCode) String() string {
	switch e {
	case ErrorUnknown:
		return "unknown"
	case ErrorInvalidData:
		return "invalid_data"
	case ErrorNotAuthenticated:
		return "not_authenticated"
	case ErrorUserBanned:
		return "user_banned"
	case ErrorUserKicked:
		return "user_kicked"
	case ErrorInvalidRoom:
		return "invalid_room"
	case ErrorMessageTooLong:
		return "message_too_long"
	case ErrorEmptyContent:
		return "empty_content"
	case ErrorEmptyUsername:
		return "empty_username"
	case ErrorUserNotFound:
		return "user_not_found"
	case ErrorSendFailed:
		return "send_failed"
	case ErrorServerFault:
		return "server_error"
	case ErrorConnection:
		return "connection_error"
	case ErrorDisconnected:
		return "disconnected"
	case ErrorTimeout:
		return "timeout"
	case ErrorNotConnected:
		return "not_connected"
	case ErrorNotInitialized:
		return "not_initialized"
	case ErrorInvalidConfig:
		return "invalid_config"
	case ErrorSerialization:
		return "serialization_error"
	default:
		return fmt.Sprintf("unknown_code_%d", e)
	}
}

// ParseErrorCode converts a server error code string to ErrorCode.
func ParseErrorCode(code string) ErrorCode {
	switch code {
	case "INVALID_DATA", "INVALID_FORMAT":
		return ErrorInvalidData
	case "NOT_AUTHENTICATED":
		return ErrorNotAuthenticated
	case "USER_BANNED":
		return ErrorUserBanned
	case "USER_KICKED":
		return ErrorUserKicked
	case "INVALID_ROOM":
		return ErrorInvalidRoom
	case "MESSAGE_TOO_LONG":
		return ErrorMessageTooLong
	case "EMPTY_CONTENT":
		return ErrorEmptyContent
	case "EMPTY_USERNAME":
		return ErrorEmptyUsername
	case "USER_NOT_FOUND":
		return ErrorUserNotFound
	case "SEND_FAILED":
		return ErrorSendFailed
	case "SERVER_ERROR", "SOCKET_ERROR":
		return ErrorServerFault
	default:
		return ErrorUnknown
	}
}

// UserMessage returns the text shown to the user for a given code.
func (e ErrorCode) UserMessage() string {
	switch e {
	case ErrorInvalidData:
		return "The server rejected the request format."
	case ErrorNotAuthenticated:
		return "You are not signed in. Please log in again."
	case ErrorUserBanned:
		return "Your account has been banned."
	case ErrorUserKicked:
		return "You have been temporarily kicked."
	case ErrorInvalidRoom:
		return "That chat room does not exist."
	case ErrorMessageTooLong:
		return "Message is too long (max 1000 characters)."
	case ErrorEmptyContent:
		return "Message cannot be empty."
	case ErrorEmptyUsername:
		return "A username is required."
	case ErrorUserNotFound:
		return "User not found."
	case ErrorSendFailed:
		return "Message could not be delivered."
	case ErrorConnection, ErrorNotConnected:
		return "No connection to the chat server."
	case ErrorDisconnected:
		return "Connection to the chat server was lost."
	case ErrorTimeout:
		return "The chat server took too long to respond."
	case ErrorNotInitialized:
		return "Join a room before sending messages."
	default:
		return "Something went wrong. Please try again."
	}
}

// ChatError is a structured error with code and context.
type ChatError struct {
	Code    ErrorCode
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s (wrapped: %v)", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Unwrap support.
func (e *ChatError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface for error comparison.
func (e *ChatError) Is(target error) bool {
	t, ok := target.(*ChatError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new ChatError with the given code and message.
func NewError(code ErrorCode, message string) *ChatError {
	return &ChatError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a ChatError.
func WrapError(code ErrorCode, message string, err error) *ChatError {
	return &ChatError{
		Code:    code,
		Message: message,
		Wrapped: err,
	}
}

// FromServerError converts a server error event to ChatError.
func FromServerError(e *ServerError) *ChatError {
	if e == nil {
		return nil
	}
	return &ChatError{
		Code:    ParseErrorCode(e.Code),
		Message: e.Message,
	}
}

// IsServerError checks if an error was reported by the server.
func IsServerError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ChatError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.Code >= ErrorUnknown && ce.Code <= ErrorServerFault
}

// IsConnectionError checks if an error is a connection-related error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ChatError
	if !errors.As(err, &ce) {
		return false
	}
	switch ce.Code {
	case ErrorConnection, ErrorDisconnected, ErrorTimeout, ErrorNotConnected:
		return true
	default:
		return false
	}
}
