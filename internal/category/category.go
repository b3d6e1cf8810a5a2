package category

import (
	"fmt"
	"sort"

	"github.com/frahmantamala/leave-management/internal"
	categoryDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/category"
)

// Category is a leave type such as sick or vacation leave.
type Category struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	Code                  string `json:"code"`
	Color                 string `json:"color"`
	MaxDays               int    `json:"max_days"`
	CarryForward          bool   `json:"carry_forward"`
	DocumentationRequired bool   `json:"documentation_required"`
	Description           string `json:"description,omitempty"`
}

// Catalog is the read-only set of categories loaded at startup.
type Catalog struct {
	byID  map[string]Category
	order []string
}

func NewCatalog(categories []Category) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Category, len(categories))}
	for _, cat := range categories {
		if cat.ID == "" {
			return nil, internal.NewValidationError("category id is required", internal.ErrCodeInvalidCategory)
		}
		if cat.MaxDays < 0 {
			return nil, internal.NewValidationError(fmt.Sprintf("category %s has negative max days", cat.ID), internal.ErrCodeInvalidCategory)
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, internal.NewValidationError(fmt.Sprintf("duplicate category %s", cat.ID), internal.ErrCodeInvalidCategory)
		}
		c.byID[cat.ID] = cat
		c.order = append(c.order, cat.ID)
	}
	sort.Strings(c.order)
	return c, nil
}

func (c *Catalog) Get(id string) (Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

func (c *Catalog) All() []Category {
	out := make([]Category, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Defaults are the categories seeded into a new installation.
func Defaults() []Category {
	return []Category{
		{ID: "sick", Name: "Sick Leave", Code: "SL", Color: "#ef4444", MaxDays: 12, DocumentationRequired: true, Description: "Illness or medical appointments"},
		{ID: "casual", Name: "Casual Leave", Code: "CL", Color: "#3b82f6", MaxDays: 12, CarryForward: true, Description: "Personal errands and short breaks"},
		{ID: "vacation", Name: "Vacation Leave", Code: "VL", Color: "#10b981", MaxDays: 18, CarryForward: true, Description: "Planned holidays"},
		{ID: "academic", Name: "Academic Leave", Code: "AL", Color: "#8b5cf6", MaxDays: 5, DocumentationRequired: true, Description: "Examinations and coursework"},
		{ID: "wfh", Name: "Work From Home", Code: "WFH", Color: "#f59e0b", MaxDays: 24, Description: "Remote working days"},
		{ID: "compoff", Name: "Comp Off", Code: "CO", Color: "#06b6d4", MaxDays: 12, Description: "Compensation for extra days worked"},
	}
}

func ToDataModel(c Category) *categoryDatamodel.LeaveCategory {
	return &categoryDatamodel.LeaveCategory{
		ID:                    c.ID,
		Name:                  c.Name,
		Code:                  c.Code,
		Color:                 c.Color,
		MaxDays:               c.MaxDays,
		CarryForward:          c.CarryForward,
		DocumentationRequired: c.DocumentationRequired,
		Description:           c.Description,
	}
}

func FromDataModel(c *categoryDatamodel.LeaveCategory) Category {
	return Category{
		ID:                    c.ID,
		Name:                  c.Name,
		Code:                  c.Code,
		Color:                 c.Color,
		MaxDays:               c.MaxDays,
		CarryForward:          c.CarryForward,
		DocumentationRequired: c.DocumentationRequired,
		Description:           c.Description,
	}
}
