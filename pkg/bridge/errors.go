package bridge

import (
	"context"
	"errors"
	"fmt"
)

const (
	CodeOK                int32 = 0
	CodeFail              int32 = -1
	CodeInvalidParams     int32 = -2
	CodeInvalidRange      int32 = -3
	CodeSymbolNotFound    int32 = -4
	CodeSymbolNotSelected int32 = -5
	CodeAuthFailed        int32 = -6
	CodeNotConnected      int32 = -10004
	CodeTimeout           int32 = -10005
)

var (
	ErrNotConnected      = errors.New("terminal not connected")
	ErrSymbolNotFound    = errors.New("symbol not found")
	ErrSymbolNotSelected = errors.New("symbol not selected")
	ErrInvalidRange      = errors.New("invalid time range")
	ErrInvalidParams     = errors.New("invalid params")
	ErrAuthFailed        = errors.New("authorization failed")
)

// ErrorInfo is the result envelope embedded in every response.
type ErrorInfo struct {
	Code        int32  `json:"code"`
	Message     string `json:"message,omitempty"`
	Description string `json:"description,omitempty"`
}

// A nil *ErrorInfo means success, same as Code == 0.
func (e *ErrorInfo) GetCode() int32 {
	if e == nil {
		return CodeOK
	}
	return e.Code
}

func (e *ErrorInfo) GetMessage() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func (e *ErrorInfo) GetDescription() string {
	if e == nil {
		return ""
	}
	return e.Description
}

func (e *ErrorInfo) OK() bool {
	return e.GetCode() == CodeOK
}

func (e *ErrorInfo) Error() string {
	return fmt.Sprintf("code %d: %s (%s)", e.GetCode(), e.GetMessage(), e.GetDescription())
}

// NativeError is returned by terminals that carry their own result code; the
// code and message reach the caller unchanged.
type NativeError struct {
	Code    int32
	Message string
}

func (e *NativeError) Error() string {
	return fmt.Sprintf("native error %d: %s", e.Code, e.Message)
}

func Success() *ErrorInfo {
	return &ErrorInfo{Code: CodeOK, Message: "success"}
}

// ToErrorInfo maps an error from the session or terminal layer onto the
// result envelope. A nil error yields a success envelope.
func ToErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return Success()
	}

	var native *NativeError
	switch {
	case errors.As(err, &native):
		return &ErrorInfo{Code: native.Code, Message: native.Message, Description: err.Error()}
	case errors.Is(err, ErrNotConnected):
		return &ErrorInfo{Code: CodeNotConnected, Message: "not connected", Description: err.Error()}
	case errors.Is(err, ErrSymbolNotFound):
		return &ErrorInfo{Code: CodeSymbolNotFound, Message: "symbol not found", Description: err.Error()}
	case errors.Is(err, ErrSymbolNotSelected):
		return &ErrorInfo{Code: CodeSymbolNotSelected, Message: "symbol not selected", Description: err.Error()}
	case errors.Is(err, ErrInvalidRange):
		return &ErrorInfo{Code: CodeInvalidRange, Message: "invalid time range", Description: err.Error()}
	case errors.Is(err, ErrInvalidParams):
		return &ErrorInfo{Code: CodeInvalidParams, Message: "invalid params", Description: err.Error()}
	case errors.Is(err, ErrAuthFailed):
		return &ErrorInfo{Code: CodeAuthFailed, Message: "authorization failed", Description: err.Error()}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &ErrorInfo{Code: CodeTimeout, Message: "timeout", Description: err.Error()}
	default:
		return &ErrorInfo{Code: CodeFail, Message: "terminal call failed", Description: err.Error()}
	}
}
