package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/julianstephens/platewise/internal/models"
)

// ListLoggedMeals returns the user's entries whose log time falls in [start, end] (epoch ms)
func (c *Client) ListLoggedMeals(ctx context.Context, userID string, start, end int64) ([]models.LoggedEntry, error) {
	q := url.Values{}
	q.Set("startDate", strconv.FormatInt(start, 10))
	q.Set("endDate", strconv.FormatInt(end, 10))

	var entries []models.LoggedEntry
	r := request{
		method: http.MethodGet,
		path:   "/logged-meals/" + url.PathEscape(userID),
		query:  q,
	}
	if err := c.do(ctx, r, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// LogMealsBulk logs every item of the request against one meal slot
func (c *Client) LogMealsBulk(ctx context.Context, req models.BulkLogRequest) (models.BulkLogResult, error) {
	var result models.BulkLogResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/logged-meals/bulk", body: req}, &result); err != nil {
		return models.BulkLogResult{}, err
	}
	return result, nil
}
