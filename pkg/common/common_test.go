package common

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

type payload struct {
	Total int64 `json:"total"`
}

func TestWriteBody(t *testing.T) {
	w := httptest.NewRecorder()
	if !WriteBody(context.Background(), w, &payload{Total: 3}) {
		t.Fatalf("WriteBody() = false")
	}
	if got := w.Body.String(); got != `{"body":{"total":3}}` {
		t.Errorf("body = %v", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %v", ct)
	}
}

func TestWriteBody_Unmarshalable(t *testing.T) {
	w := httptest.NewRecorder()
	if WriteBody(context.Background(), w, make(chan int)) {
		t.Fatalf("WriteBody() = true for a channel")
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %v", w.Code)
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), w, http.StatusBadRequest, errors.New("boom"), "bad request")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %v", w.Code)
	}
	if got := w.Body.String(); got != `{"error":"bad request"}` {
		t.Errorf("body = %v", got)
	}
}

func TestReadBody(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		want       *payload
		wantErr    bool
		wantStatus int
	}{
		{name: "Успешный ответ", status: http.StatusOK, body: `{"body":{"total":7}}`, want: &payload{Total: 7}},
		{name: "Пустой ответ", status: http.StatusOK, body: ``, want: &payload{}},
		{name: "Ошибка шлюза", status: http.StatusBadRequest, body: `{"error":"bad"}`, want: &payload{}, wantErr: true, wantStatus: http.StatusBadRequest},
		{name: "Не авторизован без json", status: http.StatusUnauthorized, body: `denied`, want: &payload{}, wantErr: true, wantStatus: http.StatusUnauthorized},
		{name: "Битый json", status: http.StatusOK, body: `{`, want: &payload{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.status, Body: io.NopCloser(strings.NewReader(tt.body))}
			got := &payload{}
			err := ReadBody(resp, got)
			if (err != nil) != tt.wantErr {
				t.Errorf("ReadBody() error = %v, wantErr %v", err, tt.wantErr)
			}
			var gwErr *GatewayError
			if errors.As(err, &gwErr) != (tt.wantStatus != 0) || (gwErr != nil && gwErr.Status != tt.wantStatus) {
				t.Errorf("ReadBody() error = %v, want gateway status %v", err, tt.wantStatus)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ReadBody() = %v, want %v", got, tt.want)
			}
		})
	}
}
