package middleware

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, caller, request ID, duration and result code.
// A nil logger uses slog.Default().
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx), // empty if unauthenticated
				"request_id", chimiddleware.GetReqID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				logger.InfoContext(ctx, "RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String(), "error", err)
			logger.Log(ctx, levelFor(code), "RPC error", attrs...)
			return resp, err
		}
	}
}

// levelFor treats client mistakes as warnings and server faults as errors.
func levelFor(code connect.Code) slog.Level {
	switch code {
	case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
		connect.CodeUnauthenticated, connect.CodePermissionDenied, connect.CodeCanceled:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
