package transport

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/txix-open/isp-kit/http/httpcli"
	"github.com/txix-open/isp-kit/json"
	"github.com/txix-open/isp-kit/log"
	"znuny-client/helpers"
)

func Logger(
	logger log.Logger,
	enableBodyLogging bool,
	enableForceUnescapingUnicode bool,
) Middleware {
	body := func(data []byte) []byte {
		if enableForceUnescapingUnicode && helpers.HasUnicodeEscapes(data) {
			return helpers.UnescapeUnicode(data)
		}
		return data
	}

	return func(next RoundTripper) RoundTripper {
		return RoundTripperFunc(func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(ctx, req)

			fields := []log.Field{
				log.String("httpMethod", req.Method),
				log.String("path", req.Path),
				log.String("elapsed", time.Since(start).String()),
			}
			statusCode := 0
			var responseBody []byte
			var errResp httpcli.ErrorResponse
			switch {
			case resp != nil:
				statusCode = resp.StatusCode
				responseBody = resp.Body
			case errors.As(err, &errResp):
				statusCode = errResp.StatusCode
				responseBody = errResp.Body
			}
			fields = append(fields, log.Int("statusCode", statusCode))

			if enableBodyLogging {
				if req.Body != nil {
					requestBody, marshalErr := json.Marshal(req.Body)
					if marshalErr == nil {
						fields = append(fields, log.ByteString("request", body(requestBody)))
					}
				}
				if responseBody != nil {
					fields = append(fields, log.ByteString("response", body(responseBody)))
				}
			}

			if err != nil {
				logger.Error(ctx, "request failed", append(fields, log.String("error", err.Error()))...)
				return resp, err
			}
			logger.Debug(ctx, "log request", fields...)
			return resp, nil
		})
	}
}
