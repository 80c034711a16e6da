package delivery

import (
	"context"
	"strings"
	"time"

	"github.com/KeynihAV/mtbridge/pkg/logging"
	"github.com/KeynihAV/mtbridge/pkg/metrics"
	sessionUsecasePkg "github.com/KeynihAV/mtbridge/pkg/session/usecase"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

type TokenChecker interface {
	CheckToken(raw string) (*sessionUsecasePkg.JwtClaims, error)
}

// LoggingInterceptor writes one line per call with the bridge result code.
func LoggingInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		reqLogger := logger.Zap.With(
			zap.String("logger", "grpcServer"),
			zap.String("method", info.FullMethod),
		)
		ctx = logging.WithContext(ctx, reqLogger.Sugar())

		resp, err := handler(ctx, req)

		fields := []zap.Field{zap.Duration("duration", time.Since(start))}
		if rc, ok := resp.(metrics.ResultCoder); ok && err == nil {
			fields = append(fields, zap.Int32("code", rc.ResultCode()))
		}
		if err != nil {
			fields = append(fields, zap.String("err", err.Error()))
			reqLogger.Warn("call failed", fields...)
			return resp, err
		}
		reqLogger.Info("call", fields...)
		return resp, err
	}
}

// AuthInterceptor requires a valid bridge token in the "authorization"
// metadata for every call except health checks.
func AuthInterceptor(checker TokenChecker) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
			return handler(ctx, req)
		}
		md, _ := metadata.FromIncomingContext(ctx)
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
		}
		claims, err := checker.CheckToken(values[0])
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(context.WithValue(ctx, sessionUsecasePkg.ClaimsKey, claims), req)
	}
}

// TokenCredentials attaches a bridge token to every client call.
type TokenCredentials struct {
	Token    string
	Insecure bool
}

func (tc TokenCredentials) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + tc.Token}, nil
}

func (tc TokenCredentials) RequireTransportSecurity() bool {
	return !tc.Insecure
}
