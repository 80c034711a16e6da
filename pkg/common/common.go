package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	. "github.com/KeynihAV/mtbridge/pkg/logging"
)

// Envelope wraps every gateway reply: the bridge message in body, or a
// transport level failure in error.
type Envelope struct {
	Body  interface{} `json:"body,omitempty"`
	Error string      `json:"error,omitempty"`
}

// GatewayError is a non-200 reply from the gateway. Bridge level failures
// travel inside the body with status 200 and never produce it.
type GatewayError struct {
	Status  int
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("status %v: %v", e.Status, e.Message)
}

func (e *GatewayError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, err error, msg string) {
	if err != nil {
		Sl(ctx).Errorw(msg, "status", status, "err", err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, _ := json.Marshal(&Envelope{Error: msg})
	w.Write(data)
}

func WriteBody(ctx context.Context, w http.ResponseWriter, body interface{}) bool {
	data, err := json.Marshal(&Envelope{Body: body})
	if err != nil {
		WriteError(ctx, w, http.StatusInternalServerError, err, fmt.Sprintf("json marshal error: %v", err))
		return false
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
	return true
}

// ReadBody decodes the envelope of resp into out and closes the body.
// A non-200 status becomes a *GatewayError.
func ReadBody(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusOK && len(data) == 0 {
		return nil
	}

	env := &Envelope{Body: out}
	if err := json.Unmarshal(data, env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return &GatewayError{Status: resp.StatusCode, Message: string(data)}
		}
		return fmt.Errorf("error parsing response: %v, txt: %v", err, string(data))
	}
	if resp.StatusCode != http.StatusOK {
		return &GatewayError{Status: resp.StatusCode, Message: env.Error}
	}
	return nil
}
