package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vqlam/thesis-archive-backend/models"
)

// BrowseTheses is the student/guest listing: approved records only.
func BrowseTheses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Thesis{}).Where("status = ?", models.StatusApproved)

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(author_name) LIKE ? OR LOWER(department) LIKE ? OR LOWER(abstract) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if degree := c.Query("degree_level"); degree != "" {
		query = query.Where("degree_level = ?", degree)
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
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var theses []models.Thesis
	if err := preloadThesisRelations(withThesisCounts(query)).
		Order("theses.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&theses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"thesis": theses,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func GetThesisDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	var thesis models.Thesis
	if err := preloadThesisRelations(withThesisCounts(db.Model(&models.Thesis{}))).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC")
		}).
		First(&thesis, "theses.id = ?", thesisID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Thesis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var avgRating float64
	db.Model(&models.Rating{}).
		Where("thesis_id = ?", thesisID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avgRating)

	c.JSON(http.StatusOK, gin.H{
		"thesis":         thesis,
		"average_rating": avgRating,
	})
}

// RecordDownload logs a retrieval; anonymous callers are allowed.
func RecordDownload(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	var thesis models.Thesis
	if err := db.First(&thesis, "id = ?", thesisID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Thesis not found"})
		return
	}

	download := models.Download{ThesisID: thesisID}
	if parsed, err := uuid.Parse(c.GetString("user_id")); err == nil {
		download.UserID = &parsed
	}
	if err := db.Create(&download).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not record download"})
		return
	}

	var count int64
	db.Model(&models.Download{}).Where("thesis_id = ?", thesisID).Count(&count)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Download recorded",
		"download_count": count,
	})
}

func AddFavorite(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	var thesis models.Thesis
	if err := db.First(&thesis, "id = ?", thesisID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Thesis not found"})
		return
	}

	var existing models.Favorite
	if err := db.Where("user_id = ? AND thesis_id = ?", userID, thesisID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Already favorited"})
		return
	}

	fav := models.Favorite{UserID: userID, ThesisID: thesisID}
	if err := db.Create(&fav).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not add favorite"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Added to favorites"})
}

func RemoveFavorite(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	result := db.Where("user_id = ? AND thesis_id = ?", userID, thesisID).Delete(&models.Favorite{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not remove favorite"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Favorite not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}

func GetMyFavorites(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var favorites []models.Favorite
	if err := db.
		Preload("Thesis").
		Preload("Thesis.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not list favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

type RatingInput struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// RateThesis upserts the caller's score and returns the new aggregate.
func RateThesis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}
	thesisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	var input RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Score must be between 1 and 5"})
		return
	}

	var thesis models.Thesis
	if err := db.First(&thesis, "id = ?", thesisID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Thesis not found"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var rating models.Rating
		err := tx.Where("user_id = ? AND thesis_id = ?", userID, thesisID).First(&rating).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.Rating{
				UserID:   userID,
				ThesisID: thesisID,
				Score:    input.Score,
			}).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&rating).Update("score", input.Score).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not save rating"})
		return
	}

	var count int64
	var avg float64
	db.Model(&models.Rating{}).Where("thesis_id = ?", thesisID).Count(&count)
	db.Model(&models.Rating{}).
		Where("thesis_id = ?", thesisID).
		Select("COALESCE(AVG(score), 0)").
		Scan(&avg)

	c.JSON(http.StatusOK, gin.H{
		"message":        "Rating saved",
		"average_rating": avg,
		"rating_count":   count,
	})
}
