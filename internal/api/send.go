package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// Send implements Client.Send.
func (client *clientImpl) Send(
	ctx context.Context,
	req *Request,
) (*http.Response, error) {
	destinationURL := client.backend.baseURL.JoinPath(req.Path)

	retryableReq, err := retryablehttp.NewRequestWithContext(
		ctx,
		req.Method,
		destinationURL.String(),
		req.Body,
	)
	if err != nil {
		return nil, fmt.Errorf("api: failed to create request: %w", err)
	}

	for headerKey, headerValue := range req.Headers {
		retryableReq.Header.Set(headerKey, headerValue)
	}

	return client.Do(retryableReq)
}

// Do implements Client.Do.
func (client *clientImpl) Do(
	req *retryablehttp.Request,
) (*http.Response, error) {
	resp, err := client.retryableHTTP.Do(req)

	if err != nil {
		return nil, err
	}

	// This is a bug that happens with retryablehttp sometimes.
	if resp == nil {
		return nil, fmt.Errorf("api: nil error and nil response")
	}

	client.backend.logFinalResponseOnError(req, resp)
	return resp, nil
}
