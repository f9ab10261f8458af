package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"
)

func TestLoggingInterceptor(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantText  string
	}{
		{name: "success", err: nil, wantLevel: "level=INFO", wantText: "RPC ok"},
		{name: "client error", err: connect.NewError(connect.CodeInvalidArgument, errors.New("bad total")), wantLevel: "level=WARN", wantText: "code=invalid_argument"},
		{name: "server error", err: errors.New("disk full"), wantLevel: "level=ERROR", wantText: "code=unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, nil))

			next := func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return connect.NewResponse(&empty{}), nil
			}
			ctx := WithUserID(context.Background(), "user-1")
			_, err := LoggingInterceptor(logger)(next)(ctx, connect.NewRequest(&empty{}))
			if !errors.Is(err, tt.err) {
				t.Fatalf("interceptor changed the error: %v", err)
			}

			out := buf.String()
			for _, want := range []string{tt.wantLevel, tt.wantText, "user_id=user-1"} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in %q", want, out)
				}
			}
		})
	}
}
