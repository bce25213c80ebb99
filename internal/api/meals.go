package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/platewise/internal/models"
)

// ListFoods returns the catalog, global and user-contributed
func (c *Client) ListFoods(ctx context.Context) ([]models.FoodItem, error) {
	var foods []models.FoodItem
	if err := c.do(ctx, request{method: http.MethodGet, path: "/meals"}, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// CreateFood persists a new food and returns it as stored
func (c *Client) CreateFood(ctx context.Context, food models.FoodItem) (models.FoodItem, error) {
	var created models.FoodItem
	if err := c.do(ctx, request{method: http.MethodPost, path: "/meals", body: food}, &created); err != nil {
		return models.FoodItem{}, err
	}
	return created, nil
}

// ListMealTypes returns the meal slot names the service knows about
func (c *Client) ListMealTypes(ctx context.Context) ([]string, error) {
	var types []string
	if err := c.do(ctx, request{method: http.MethodGet, path: "/meals/types"}, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListQuantityUnits returns the serving units
func (c *Client) ListQuantityUnits(ctx context.Context) ([]models.QuantityUnit, error) {
	var units []models.QuantityUnit
	if err := c.do(ctx, request{method: http.MethodGet, path: "/quantity-units"}, &units); err != nil {
		return nil, err
	}
	return units, nil
}
