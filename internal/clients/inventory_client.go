package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"catalog_web/internal/domain"

	"github.com/sirupsen/logrus"
)

const (
	categoriesPath = "/categories"
	productsPath   = "/products"
)

type InventoryClient interface {
	ListCategories(ctx context.Context) (domain.CategoryList, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	CreateProduct(ctx context.Context, name string, categoryID domain.ID) (*domain.Product, error)
}

type inventoryHTTPClient struct {
	api APIClient
	log *logrus.Logger
}

func NewInventoryClient(api APIClient, logger *logrus.Logger) InventoryClient {
	return &inventoryHTTPClient{
		api: api,
		log: logger,
	}
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

type createProductRequest struct {
	Name     string      `json:"name"`
	Category interface{} `json:"category"`
}

// wireCategoryID sends numeric identifiers as JSON numbers, which the remote
// service expects. Non-numeric identifiers go out as strings.
func wireCategoryID(id domain.ID) interface{} {
	if n, ok := id.Int64(); ok {
		return n
	}
	if f, ok := id.Float64(); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	}
	return id.String()
}

func (c *inventoryHTTPClient) ListCategories(ctx context.Context) (domain.CategoryList, error) {
	resp, err := c.api.Get(ctx, categoriesPath)
	if err != nil {
		return domain.CategoryList{}, fmt.Errorf("could not list categories: %w", err)
	}

	list := domain.DecodeCategoryList(resp.Body)
	if list.Shape == domain.ShapeUnknown {
		c.log.WithField("payload", string(resp.Body)).Warn("InventoryClient: GET /categories returned an unexpected shape")
	} else {
		if list.Skipped > 0 {
			c.log.WithField("payload", string(resp.Body)).Warnf("InventoryClient: Skipped %d list entries that are not categories", list.Skipped)
		}
		c.log.Debugf("InventoryClient: Decoded %d categories from %s shape", len(list.Categories), list.Shape)
	}
	return list, nil
}

func (c *inventoryHTTPClient) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	resp, err := c.api.Post(ctx, categoriesPath, createCategoryRequest{Name: name})
	if err != nil {
		return nil, fmt.Errorf("could not create category '%s': %w", name, err)
	}

	var created domain.Category
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		c.log.Errorf("InventoryClient: Failed to decode created category: %v", err)
		return nil, fmt.Errorf("failed to decode created category: %w", err)
	}
	c.log.Infof("InventoryClient: Category created: ID=%s, Name='%s'", created.ID, created.Name)
	return &created, nil
}

func (c *inventoryHTTPClient) CreateProduct(ctx context.Context, name string, categoryID domain.ID) (*domain.Product, error) {
	req := createProductRequest{
		Name:     name,
		Category: wireCategoryID(categoryID),
	}
	resp, err := c.api.Post(ctx, productsPath, req)
	if err != nil {
		return nil, fmt.Errorf("could not create product '%s': %w", name, err)
	}

	var created domain.Product
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		c.log.Errorf("InventoryClient: Failed to decode created product: %v", err)
		return nil, fmt.Errorf("failed to decode created product: %w", err)
	}
	c.log.Infof("InventoryClient: Product created: ID=%s, Name='%s', Category=%s", created.ID, created.Name, created.Category)
	return &created, nil
}
