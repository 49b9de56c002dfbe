package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ebookstore/internal/admin-api/dto"
	"ebookstore/internal/admin-api/models"
	"ebookstore/internal/admin-api/repository"
	"ebookstore/internal/admin-api/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	svc  service.CategoryService
	repo repository.CategoryRepository
}

func NewCategoryHandler(svc service.CategoryService, repo repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{svc: svc, repo: repo}
}

func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.POST("/batch", h.Batch)
	rg.PUT("/:category_id/type", h.UpdateType)
	rg.DELETE("/:category_id", h.Delete)
}

func (h *CategoryHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromCategoriesToListResponse(list))
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var in dto.CreateCategoryDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	cat := models.Category{Name: in.Name, Type: in.Type, BookIDs: models.StringList{}}
	if err := h.svc.Create(ctx, &cat); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrCategoryExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromCategoryToResponse(cat))
}

func (h *CategoryHandler) UpdateType(c *gin.Context) {
	var in dto.UpdateCategoryTypeDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	id := c.Param("category_id")
	if err := h.svc.UpdateType(ctx, id, in.Type); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		case errors.Is(err, repository.ErrCategoryExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "type": in.Type})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("category_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Batch replays a set-editor session against the current category list and
// saves all pending changes as one atomic batch. Duplicate additions come
// back as warnings, not failures.
func (h *CategoryHandler) Batch(c *gin.Context) {
	var in dto.CategoryBatchDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	existing, err := h.repo.GetAll(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	editor := service.NewCategoryEditor(h.repo, existing)
	var warnings []string

	for _, op := range in.Add {
		_, w := editor.AddBatch(op.Names, defaultType(op.Type))
		warnings = append(warnings, w...)
	}
	for _, op := range in.Move {
		if err := editor.Move(op.ID, op.To); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	for _, id := range in.Remove {
		if err := editor.Remove(id); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	for _, op := range in.RemovePending {
		if err := editor.RemovePending(op.Name, defaultType(op.Type)); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	message, err := editor.Save(ctx)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repository.ErrCategoryExists) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	body := gin.H{"message": message}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	c.JSON(http.StatusOK, body)
}

func defaultType(t string) string {
	if t == "" {
		return models.CategoryTypeStandard
	}
	return t
}
