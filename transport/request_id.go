package transport

import (
	"context"
	"strings"

	"github.com/txix-open/isp-kit/log"
	"github.com/txix-open/isp-kit/requestid"
)

const (
	RequestIdHeader = "x-request-id"
)

// RequestId propagates the request id of ctx to the x-request-id header, generating one if absent.
func RequestId() Middleware {
	return func(next RoundTripper) RoundTripper {
		return RoundTripperFunc(func(ctx context.Context, req *Request) (*Response, error) {
			requestId := strings.TrimSpace(requestid.FromContext(ctx))
			if requestId == "" {
				requestId = requestid.Next()
			}

			ctx = requestid.ToContext(ctx, requestId)
			ctx = log.ToContext(ctx, log.String("requestId", requestId))

			headers := make(map[string]string, len(req.Headers)+1)
			for key, value := range req.Headers {
				headers[key] = value
			}
			headers[RequestIdHeader] = requestId

			copied := *req
			copied.Headers = headers
			return next.RoundTrip(ctx, &copied)
		})
	}
}
