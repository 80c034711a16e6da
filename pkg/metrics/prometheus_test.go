package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
)

type codedResponse struct{ code int32 }

func (r *codedResponse) ResultCode() int32 { return r.code }

func TestUnaryServerInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/test.Service/Call"}
	before := testutil.ToFloat64(results.WithLabelValues(info.FullMethod, "-4"))

	_, err := UnaryServerInterceptor(context.Background(), nil, info,
		func(ctx context.Context, req interface{}) (interface{}, error) {
			return &codedResponse{code: -4}, nil
		})
	if err != nil {
		t.Fatalf("interceptor error = %v", err)
	}

	after := testutil.ToFloat64(results.WithLabelValues(info.FullMethod, "-4"))
	if after-before != 1 {
		t.Errorf("result counter grew by %v, want 1", after-before)
	}
}

func TestTimeTrackingMiddleware(t *testing.T) {
	called := false
	h := TimeTrackingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/symbols", nil))
	if !called {
		t.Errorf("next handler not called")
	}
}
