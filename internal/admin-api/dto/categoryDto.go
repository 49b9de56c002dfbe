package dto

import (
	"time"

	"ebookstore/internal/admin-api/models"
)

// CreateCategoryDTO used for POST /api/admin/categories
type CreateCategoryDTO struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

// UpdateCategoryTypeDTO used for PUT /api/admin/categories/:category_id/type
type UpdateCategoryTypeDTO struct {
	Type string `json:"type" binding:"required"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	BookIDs   []string  `json:"book_ids"`
	BookCount int       `json:"book_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListResponse groups categories by type for the dashboard.
type CategoryListResponse struct {
	Standard []CategoryResponse `json:"standard"`
	Featured []CategoryResponse `json:"featured"`
}

// Set-editor batch operations, replayed in order against an editing session.
type CategoryAddOp struct {
	// Names is a comma-separated batch entry, e.g. "Fiction, Drama"
	Names string `json:"names" binding:"required"`
	Type  string `json:"type"`
}

type CategoryMoveOp struct {
	ID string `json:"id" binding:"required"`
	To string `json:"to" binding:"required"`
}

type CategoryPendingRemoveOp struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}

// CategoryBatchDTO used for POST /api/admin/categories/batch
type CategoryBatchDTO struct {
	Add           []CategoryAddOp           `json:"add"`
	Move          []CategoryMoveOp          `json:"move"`
	Remove        []string                  `json:"remove"` // category ids
	RemovePending []CategoryPendingRemoveOp `json:"remove_pending"`
}

func FromCategoryToResponse(c models.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      c.Type,
		BookIDs:   c.BookIDs,
		BookCount: len(c.BookIDs),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromCategoriesToListResponse(categories []models.Category) CategoryListResponse {
	resp := CategoryListResponse{
		Standard: make([]CategoryResponse, 0),
		Featured: make([]CategoryResponse, 0),
	}
	for _, c := range categories {
		if c.Type == models.CategoryTypeFeatured {
			resp.Featured = append(resp.Featured, FromCategoryToResponse(c))
		} else {
			resp.Standard = append(resp.Standard, FromCategoryToResponse(c))
		}
	}
	return resp
}
