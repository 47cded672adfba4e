package delivery

import (
	"time"

	"catalog_web/internal/domain"
)

type CategoryRow struct {
	ID   string
	Name string
}

type ProductRow struct {
	ID           string
	Name         string
	CategoryName string
}

type CategoryOption struct {
	Value    string
	Label    string
	Selected bool
}

type NotificationView struct {
	ID          string
	Title       string
	Description string
	Status      string
	Closable    bool
}

// PageData is everything index.gohtml needs. It is derived from the view
// state only.
type PageData struct {
	Loading bool

	Categories      []CategoryRow
	Products        []ProductRow
	CategoryOptions []CategoryOption

	CategoryName    string
	ProductName     string
	ProductCategory string

	Notifications []NotificationView
}

// BuildPage turns a view state snapshot into the page model.
func BuildPage(state domain.ViewState, now time.Time) PageData {
	page := PageData{
		Loading:         state.Loading,
		Categories:      make([]CategoryRow, 0, len(state.Categories)),
		Products:        make([]ProductRow, 0, len(state.Products)),
		CategoryOptions: make([]CategoryOption, 0, len(state.Categories)),
		CategoryName:    state.CategoryName,
		ProductName:     state.ProductName,
		ProductCategory: state.ProductCategory,
		Notifications:   []NotificationView{},
	}

	for _, c := range state.Categories {
		page.Categories = append(page.Categories, CategoryRow{ID: c.ID.String(), Name: c.Name})
		page.CategoryOptions = append(page.CategoryOptions, CategoryOption{
			Value:    c.ID.String(),
			Label:    c.Name,
			Selected: state.ProductCategory != "" && c.ID.String() == state.ProductCategory,
		})
	}

	for _, p := range state.Products {
		page.Products = append(page.Products, ProductRow{
			ID:           p.ID.String(),
			Name:         p.Name,
			CategoryName: state.CategoryNameFor(p.Category),
		})
	}

	for _, n := range state.Notifications {
		if !n.Active(now) {
			continue
		}
		page.Notifications = append(page.Notifications, NotificationView{
			ID:          n.ID.String(),
			Title:       n.Title,
			Description: n.Description,
			Status:      string(n.Status),
			Closable:    n.Closable,
		})
	}
	return page
}
