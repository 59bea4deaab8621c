package api

import (
	"context"
	"net/http"
)

// decorate sets the default headers and, when token is non-empty, the
// bearer credential. Applying it twice yields the same headers.
func (c *Client) decorate(req *http.Request, cl *call, token string) {
	contentType := "application/json"
	if cl.payload != nil && cl.payload.contentType != "" {
		contentType = cl.payload.contentType
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", cl.requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Del("Authorization")
	}
}

// roundTrip sends cl with the stored access token. A 401 on the first
// attempt obtains a fresh token and re-issues the request exactly once;
// whatever the second attempt returns is final.
func (c *Client) roundTrip(ctx context.Context, cl *call, allowRefresh bool) (*rawResponse, error) {
	sent, _ := c.store.AccessToken()

	resp, err := c.send(ctx, cl, sent, 1)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusUnauthorized || !allowRefresh {
		return resp, nil
	}

	token, err := c.tokenForRetry(ctx, sent)
	if err != nil {
		return nil, err
	}

	c.hooks.OnRetry(ctx, RequestInfo{Method: cl.method, URL: cl.url, Attempt: 2, RequestID: cl.requestID}, 2, NormalizeResponse(resp.status, resp.body))
	return c.send(ctx, cl, token, 2)
}

// tokenForRetry returns the token a rejected request should be retried
// with. If another caller already replaced the token the request was sent
// with, that token is used; otherwise the caller joins the shared refresh.
func (c *Client) tokenForRetry(ctx context.Context, sent string) (string, error) {
	if current, ok := c.store.AccessToken(); ok && current != sent {
		return current, nil
	}
	return c.Refresh(ctx)
}
