package wanikani

import (
	"context"
	"fmt"
	"net/http"

	"github.com/crabigator-dev/wanikani-go/resource"
)

// GetUser fetches the user owning the API token. The response is a singleton
// report, not an id-bearing resource.
func (c *Client) GetUser(ctx context.Context) (*resource.User, error) {
	env, err := c.get(ctx, "/user", nil)
	if err != nil {
		return nil, err
	}
	user, ok := env.(*resource.User)
	if !ok {
		return nil, fmt.Errorf("wanikani: /user: expected a user report, got %s", env.CommonData().Object)
	}
	return user, nil
}

// UpdateUser updates the user's preferences. Nil fields are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, body *resource.UserUpdate) (*resource.User, error) {
	wrapped := struct {
		User *resource.UserUpdate `json:"user"`
	}{User: body}

	env, err := c.do(ctx, http.MethodPut, c.config.BaseURL+"/user", wrapped)
	if err != nil {
		return nil, err
	}
	user, ok := env.(*resource.User)
	if !ok {
		return nil, fmt.Errorf("wanikani: /user: expected a user report, got %s", env.CommonData().Object)
	}
	return user, nil
}

// GetSummary fetches the summary report: the currently available lessons and
// reviews plus the review forecast for the next 24 hours in hourly buckets.
func (c *Client) GetSummary(ctx context.Context) (*resource.Summary, error) {
	env, err := c.get(ctx, "/summary", nil)
	if err != nil {
		return nil, err
	}
	summary, ok := env.(*resource.Summary)
	if !ok {
		return nil, fmt.Errorf("wanikani: /summary: expected a summary report, got %s", env.CommonData().Object)
	}
	return summary, nil
}
