package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vqlam/thesis-archive-backend/config"
	"github.com/vqlam/thesis-archive-backend/models"
	"github.com/vqlam/thesis-archive-backend/services"
)

// Field names mirror the admin form payload.
type ThesisInput struct {
	Title            string              `json:"title"`
	Abstract         string              `json:"abstract"`
	AuthorName       services.StringList `json:"authorName"`
	AuthorEmail      string              `json:"authorEmail"`
	StudentID        string              `json:"studentId"`
	AdvisorName      string              `json:"advisorName"`
	CoAdvisorName    string              `json:"coAdvisorName"`
	CommitteeMembers services.StringList `json:"committeeMembers"`
	Department       string              `json:"department"`
	Program          string              `json:"program"`
	University       string              `json:"university"`
	DegreeLevel      string              `json:"degreeLevel"`
	CategoryID       string              `json:"categoryId"`
	Keywords         services.StringList `json:"keywords"`
	Language         string              `json:"language"`
	SubmissionDate   string              `json:"submissionDate"`
	DefenseDate      string              `json:"defenseDate"`
	Status           string              `json:"status"`
}

var degreeLevels = map[string]bool{
	string(models.DegreeBachelor):  true,
	string(models.DegreeMaster):    true,
	string(models.DegreeDoctorate): true,
	string(models.DegreeDiploma):   true,
}

var thesisStatuses = map[string]bool{
	string(models.StatusDraft):    true,
	string(models.StatusPending):  true,
	string(models.StatusApproved): true,
}

// withThesisCounts selects the row plus the per-thesis aggregate counts the
// dashboard shows.
func withThesisCounts(query *gorm.DB) *gorm.DB {
	return query.Select(`theses.*,
		(SELECT COUNT(*) FROM downloads WHERE downloads.thesis_id = theses.id) AS download_count,
		(SELECT COUNT(*) FROM favorites WHERE favorites.thesis_id = theses.id) AS favorite_count,
		(SELECT COUNT(*) FROM ratings WHERE ratings.thesis_id = theses.id) AS rating_count`)
}

// nullableString trims s and maps the empty result to a SQL NULL.
func nullableString(s string) interface{} {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return nil
}

func preloadThesisRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category").
		Preload("UploadedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, full_name, email")
		})
}

func CreateThesis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	adminID, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var input ThesisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}

	authors := services.NormalizeList(input.AuthorName)

	// Reject on the first missing required field, in form order.
	required := []struct {
		name    string
		present bool
	}{
		{"title", strings.TrimSpace(input.Title) != ""},
		{"abstract", strings.TrimSpace(input.Abstract) != ""},
		{"authorName", len(authors) > 0},
		{"advisorName", strings.TrimSpace(input.AdvisorName) != ""},
		{"department", strings.TrimSpace(input.Department) != ""},
		{"program", strings.TrimSpace(input.Program) != ""},
		{"categoryId", strings.TrimSpace(input.CategoryID) != ""},
		{"degreeLevel", strings.TrimSpace(input.DegreeLevel) != ""},
		{"submissionDate", strings.TrimSpace(input.SubmissionDate) != ""},
	}
	for _, field := range required {
		if !field.present {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required field: " + field.name})
			return
		}
	}

	categoryID, err := uuid.Parse(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid categoryId"})
		return
	}
	if !degreeLevels[input.DegreeLevel] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid degreeLevel"})
		return
	}

	submissionDate, err := services.ParseDate(input.SubmissionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid submissionDate"})
		return
	}
	var defenseDate *time.Time
	if strings.TrimSpace(input.DefenseDate) != "" {
		parsed, err := services.ParseDate(input.DefenseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid defenseDate"})
			return
		}
		defenseDate = &parsed
	}

	defaults := config.LoadThesisDefaults()

	status := input.Status
	if status == "" {
		status = defaults.Status
	}
	if !thesisStatuses[status] {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	university := strings.TrimSpace(input.University)
	if university == "" {
		university = defaults.University
	}
	language := strings.TrimSpace(input.Language)
	if language == "" {
		language = defaults.Language
	}

	citation := services.BuildCitation(authors, submissionDate.Year(), input.Title, input.Program, university)

	thesis := models.Thesis{
		ID:               uuid.New(),
		Title:            input.Title,
		Abstract:         input.Abstract,
		AuthorName:       services.JoinAuthors(authors),
		AdvisorName:      input.AdvisorName,
		CommitteeMembers: services.NormalizeList(input.CommitteeMembers),
		Department:       input.Department,
		Program:          input.Program,
		University:       university,
		DegreeLevel:      models.DegreeLevel(input.DegreeLevel),
		CategoryID:       categoryID,
		Keywords:         services.NormalizeList(input.Keywords),
		Language:         language,
		SubmissionDate:   submissionDate,
		DefenseDate:      defenseDate,
		Status:           models.ThesisStatus(status),
		Citation:         citation,
		UploadedByUserID: adminID,
	}
	if email := strings.TrimSpace(input.AuthorEmail); email != "" {
		thesis.AuthorEmail = &email
	}
	if sid := strings.TrimSpace(input.StudentID); sid != "" {
		thesis.StudentID = &sid
	}
	if co := strings.TrimSpace(input.CoAdvisorName); co != "" {
		thesis.CoAdvisorName = &co
	}
	if thesis.Status == models.StatusApproved {
		now := time.Now()
		thesis.ApprovalDate = &now
		thesis.ApprovedBy = &adminID
	}

	if err := db.Create(&thesis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}

	// Reload with relations for the response.
	var complete models.Thesis
	if err := preloadThesisRelations(db).First(&complete, "id = ?", thesis.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Thesis created successfully",
		"thesis":  complete,
	})
}

func GetTheses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := db.Model(&models.Thesis{})

	if status := c.Query("status"); status != "" && status != "ALL" {
		query = query.Where("status = ?", status)
	}

	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(author_name) LIKE ? OR LOWER(department) LIKE ? OR LOWER(abstract) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

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

// Partial update: only fields present in the body are written; the citation
// is intentionally left as computed at creation.
type ThesisUpdateInput struct {
	ID               string               `json:"id"`
	Title            *string              `json:"title"`
	Abstract         *string              `json:"abstract"`
	AuthorName       *services.StringList `json:"authorName"`
	AuthorEmail      *string              `json:"authorEmail"`
	StudentID        *string              `json:"studentId"`
	AdvisorName      *string              `json:"advisorName"`
	CoAdvisorName    *string              `json:"coAdvisorName"`
	CommitteeMembers *services.StringList `json:"committeeMembers"`
	Department       *string              `json:"department"`
	Program          *string              `json:"program"`
	University       *string              `json:"university"`
	DegreeLevel      *string              `json:"degreeLevel"`
	CategoryID       *string              `json:"categoryId"`
	Keywords         *services.StringList `json:"keywords"`
	Language         *string              `json:"language"`
	SubmissionDate   *string              `json:"submissionDate"`
	DefenseDate      *string              `json:"defenseDate"`
	Status           *string              `json:"status"`
}

func UpdateThesis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input ThesisUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body", "error": err.Error()})
		return
	}

	if strings.TrimSpace(input.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thesis ID is required"})
		return
	}
	thesisID, err := uuid.Parse(input.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	var thesis models.Thesis
	if err := db.First(&thesis, "id = ?", thesisID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Thesis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	updates := map[string]interface{}{}

	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Abstract != nil {
		updates["abstract"] = *input.Abstract
	}
	if input.AuthorName != nil {
		authors := services.NormalizeList(*input.AuthorName)
		if len(authors) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "At least one author is required"})
			return
		}
		updates["author_name"] = services.JoinAuthors(authors)
	}
	// Blank optional fields clear to NULL, matching how creation stores them.
	if input.AuthorEmail != nil {
		updates["author_email"] = nullableString(*input.AuthorEmail)
	}
	if input.StudentID != nil {
		updates["student_id"] = nullableString(*input.StudentID)
	}
	if input.AdvisorName != nil {
		updates["advisor_name"] = *input.AdvisorName
	}
	if input.CoAdvisorName != nil {
		updates["co_advisor_name"] = nullableString(*input.CoAdvisorName)
	}
	if input.CommitteeMembers != nil {
		thesis.CommitteeMembers = services.NormalizeList(*input.CommitteeMembers)
		updates["committee_members"] = thesis.CommitteeMembers
	}
	if input.Department != nil {
		updates["department"] = *input.Department
	}
	if input.Program != nil {
		updates["program"] = *input.Program
	}
	if input.University != nil {
		updates["university"] = *input.University
	}
	if input.DegreeLevel != nil {
		if !degreeLevels[*input.DegreeLevel] {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid degreeLevel"})
			return
		}
		updates["degree_level"] = *input.DegreeLevel
	}
	if input.CategoryID != nil {
		categoryID, err := uuid.Parse(*input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid categoryId"})
			return
		}
		updates["category_id"] = categoryID
	}
	if input.Keywords != nil {
		thesis.Keywords = services.NormalizeList(*input.Keywords)
		updates["keywords"] = thesis.Keywords
	}
	if input.Language != nil {
		updates["language"] = *input.Language
	}
	if input.SubmissionDate != nil {
		parsed, err := services.ParseDate(*input.SubmissionDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid submissionDate"})
			return
		}
		updates["submission_date"] = parsed
	}
	if input.DefenseDate != nil {
		parsed, err := services.ParseDate(*input.DefenseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid defenseDate"})
			return
		}
		updates["defense_date"] = parsed
	}
	if input.Status != nil {
		if !thesisStatuses[*input.Status] {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
			return
		}
		updates["status"] = *input.Status
	}

	if len(updates) > 0 {
		if err := db.Model(&thesis).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
	}

	var updated models.Thesis
	if err := preloadThesisRelations(db).First(&updated, "id = ?", thesis.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Thesis updated successfully",
		"thesis":  updated,
	})
}

func DeleteThesis(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Thesis ID is required"})
		return
	}
	thesisID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid thesis ID"})
		return
	}

	var thesis models.Thesis
	if err := db.First(&thesis, "id = ?", thesisID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Thesis not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Chapters, downloads, favorites and ratings go with it via the FK
	// cascade declared on the models.
	if err := db.Delete(&thesis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Thesis deleted successfully"})
}
