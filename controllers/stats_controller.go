package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vqlam/thesis-archive-backend/models"
)

type MonthlyPoint struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// GetDashboardOverview backs the admin landing page cards.
func GetDashboardOverview(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var totalTheses, totalUsers, totalCategories, totalDownloads int64
	db.Model(&models.Thesis{}).Count(&totalTheses)
	db.Model(&models.User{}).Count(&totalUsers)
	db.Model(&models.Category{}).Count(&totalCategories)
	db.Model(&models.Download{}).Count(&totalDownloads)

	byStatus := map[string]int64{}
	for _, status := range []models.ThesisStatus{models.StatusDraft, models.StatusPending, models.StatusApproved} {
		var n int64
		db.Model(&models.Thesis{}).Where("status = ?", status).Count(&n)
		byStatus[string(status)] = n
	}

	var recent []models.Thesis
	db.Preload("Category").
		Order("created_at DESC").
		Limit(5).
		Find(&recent)

	c.JSON(http.StatusOK, gin.H{
		"total_theses":     totalTheses,
		"total_users":      totalUsers,
		"total_categories": totalCategories,
		"total_downloads":  totalDownloads,
		"theses_by_status": byStatus,
		"recent_theses":    recent,
	})
}

// GetMonthlySubmissions returns submissions per month for one year.
func GetMonthlySubmissions(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	year := time.Now().Year()
	if yStr := c.Query("year"); yStr != "" {
		if y, err := strconv.Atoi(yStr); err == nil {
			year = y
		}
	}

	var res []MonthlyPoint
	if err := db.Raw(`
		SELECT TO_CHAR(submission_date, 'YYYY-MM') AS month,
		       COUNT(*) AS count
		FROM theses
		WHERE EXTRACT(YEAR FROM submission_date) = ?
		GROUP BY month
		ORDER BY month
	`, year).Scan(&res).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, res)
}
