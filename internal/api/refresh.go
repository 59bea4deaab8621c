package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

const refreshPath = "auth/token/refresh/"

// refreshKey is the single singleflight key: at most one refresh is in
// flight per client.
const refreshKey = "refresh"

// Refresh exchanges the stored refresh token for a new access token.
//
// Concurrent callers share one refresh round trip and all observe its
// result. The round trip is detached from the first caller's cancellation;
// each caller stops waiting when its own ctx is done. On failure the
// stored credentials are cleared and the auth-failure handler runs once.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", NormalizeTransport(ctx.Err())
	}
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Client) refresh(ctx context.Context) (string, error) {
	start := time.Now()

	refreshToken, ok := c.store.RefreshToken()
	if !ok {
		return "", c.refreshFailed(ctx, noRefreshToken(), start)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", c.refreshFailed(ctx, &Error{Message: "could not encode refresh request", Status: http.StatusInternalServerError, Cause: err}, start)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(refreshPath).String(), bytes.NewReader(body))
	if err != nil {
		return "", c.refreshFailed(ctx, &Error{Message: "could not build refresh request", Status: http.StatusInternalServerError, Cause: err}, start)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.refreshClient.Do(req)
	if err != nil {
		return "", c.refreshFailed(ctx, NormalizeTransport(err), start)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", c.refreshFailed(ctx, NormalizeTransport(err), start)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.refreshFailed(ctx, NormalizeResponse(resp.StatusCode, data), start)
	}

	var tokens refreshResponse
	if err := json.Unmarshal(data, &tokens); err != nil || tokens.Access == "" {
		e := &Error{Message: "refresh response carried no access token", Status: http.StatusBadGateway, Code: "invalid_response", Cause: err}
		return "", c.refreshFailed(ctx, e, start)
	}

	if err := c.store.SetAccessToken(tokens.Access); err != nil {
		c.logger.Warn("could not persist refreshed access token", "error", err)
	}
	if tokens.Refresh != "" {
		if err := c.store.SetRefreshToken(tokens.Refresh); err != nil {
			c.logger.Warn("could not persist rotated refresh token", "error", err)
		}
	}

	c.hooks.OnRefresh(ctx, nil, time.Since(start))
	c.logger.Info("access token refreshed")
	return tokens.Access, nil
}

// refreshFailed clears the credentials, runs the auth-failure handler and
// returns err for every waiter.
func (c *Client) refreshFailed(ctx context.Context, err *Error, start time.Time) error {
	if clearErr := c.store.ClearCredentials(); clearErr != nil {
		c.logger.Warn("could not clear credentials", "error", clearErr)
	}
	c.hooks.OnRefresh(ctx, err, time.Since(start))
	c.logger.Warn("token refresh failed, credentials cleared", "status", err.Status, "error", err.Message)

	if c.onAuthFailure != nil {
		c.onAuthFailure(err)
	}
	return err
}
