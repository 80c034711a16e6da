package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
)

var (
	timings = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "method_timing",
			Help:       "Per method timing",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"method"},
	)
	results = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "method_results_total",
			Help: "Bridge error codes returned per method",
		},
		[]string{"method", "code"},
	)
)

func init() {
	prometheus.MustRegister(timings, results)
}

// ResultCoder is implemented by responses that carry a bridge error code.
type ResultCoder interface {
	ResultCode() int32
}

func ObserveResult(method string, code int32) {
	results.WithLabelValues(method, strconv.Itoa(int(code))).Inc()
}

func TimeTrackingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)
		handlerName := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				handlerName = tpl
			}
		}
		timings.
			WithLabelValues(handlerName).
			Observe(float64(time.Since(start).Seconds()))
	})
}

func UnaryServerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)
	timings.
		WithLabelValues(info.FullMethod).
		Observe(float64(time.Since(start).Seconds()))
	if rc, ok := resp.(ResultCoder); ok && err == nil {
		ObserveResult(info.FullMethod, rc.ResultCode())
	}
	return resp, err
}
