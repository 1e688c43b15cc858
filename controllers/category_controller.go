package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vqlam/thesis-archive-backend/models"
)

type CategoryInput struct {
	Name   string `json:"name" binding:"required"`
	Code   string `json:"code"`
	Active *bool  `json:"active"` // optional
}

func CreateCategory(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}

	slugValue := slug.Make(name)

	// Duplicate name or slug
	var count int64
	db.Model(&models.Category{}).
		Where("LOWER(TRIM(name)) = ? OR slug = ?", strings.ToLower(name), slugValue).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name or slug already exists"})
		return
	}

	var createdBy *uuid.UUID
	if parsed, err := uuid.Parse(c.GetString("user_id")); err == nil {
		createdBy = &parsed
	}

	category := models.Category{
		Name:      name,
		Code:      strings.ToUpper(strings.TrimSpace(input.Code)),
		Slug:      slugValue,
		Active:    true,
		CreatedBy: createdBy,
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not create category"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

func GetCategories(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Category{})

	if search := c.Query("search"); search != "" {
		query = query.Where("LOWER(categories.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	switch c.Query("active") {
	case "true":
		query = query.Where("categories.active = ?", true)
	case "false":
		query = query.Where("categories.active = ?", false)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not count categories"})
		return
	}

	var categories []models.Category
	if err := query.
		Select(`categories.*,
			(SELECT COUNT(*) FROM theses WHERE theses.category_id = categories.id) AS thesis_count`).
		Order("categories.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       categories,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": (total + int64(limit) - 1) / int64(limit),
	})
}

func GetCategoryDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var category models.Category
	if err := db.
		Select(`categories.*,
			(SELECT COUNT(*) FROM theses WHERE theses.category_id = categories.id) AS thesis_count`).
		First(&category, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func UpdateCategory(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	id := c.Param("id")

	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}

	var input CategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name is required"})
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name must not be empty"})
		return
	}

	slugValue := slug.Make(name)

	// Duplicate name or slug among the other categories
	var count int64
	db.Model(&models.Category{}).
		Where("(LOWER(TRIM(name)) = ? OR slug = ?) AND id <> ?", strings.ToLower(name), slugValue, id).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category name already exists"})
		return
	}

	if parsed, err := uuid.Parse(c.GetString("user_id")); err == nil {
		category.UpdatedBy = &parsed
	}
	category.Name = name
	category.Slug = slugValue
	if input.Code != "" {
		category.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	}
	if input.Active != nil {
		category.Active = *input.Active
	}

	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category,
	})
}

func DeleteCategory(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	id := c.Param("id")

	var category models.Category
	if err := db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Theses keep their category; removal is blocked while any reference it.
	var inUse int64
	db.Model(&models.Thesis{}).Where("category_id = ?", category.ID).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Category still has theses assigned"})
		return
	}

	if err := db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not delete category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func ToggleCategoryActive(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var category models.Category
	if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
		return
	}
	category.Active = !category.Active
	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not update category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Category status toggled",
		"active":  category.Active,
	})
}

// GetActiveCategories feeds the submission form and the browse filters.
func GetActiveCategories(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var categories []models.Category
	if err := db.Where("active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}
