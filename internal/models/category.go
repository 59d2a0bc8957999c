package models

type Category struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ParentID     *int   `json:"parent_id,omitempty"`
	Depth        int    `json:"depth"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}
