package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
)

// CategoryHandler serves the fixed category catalog.
type CategoryHandler struct{}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// GetCategories lists the category catalog
// @Summary     Get categories
// @Description Get the fixed category catalog, optionally filtered by kind
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       kind query string false "Filter by kind (income/expense)"
// @Success     200 {object} object "Category catalog"
// @Failure     400 {object} ErrorResponse "Invalid kind"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	switch kind := c.Query("kind"); kind {
	case "":
		c.JSON(http.StatusOK, gin.H{"categories": models.Categories()})
	case string(models.CategoryKindIncome), string(models.CategoryKindExpense):
		c.JSON(http.StatusOK, gin.H{"categories": models.CategoriesByKind(models.CategoryKind(kind))})
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be 'income' or 'expense'"))
	}
}
