package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vqlam/thesis-archive-backend/config"
	"github.com/vqlam/thesis-archive-backend/models"
	"github.com/vqlam/thesis-archive-backend/routes"
	"github.com/vqlam/thesis-archive-backend/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")
	os.Exit(m.Run())
}

func setupTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	r := gin.New()
	return db, routes.SetupRouter(r, db)
}

func createUser(t *testing.T, db *gorm.DB, role models.UserRole) (models.User, string) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		FullName: "Test " + string(role),
		Email:    strings.ToLower(string(role)) + "-" + uuid.NewString()[:8] + "@example.com",
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID.String(), string(user.Role))
	require.NoError(t, err)
	return user, token
}

func createCategory(t *testing.T, db *gorm.DB) models.Category {
	t.Helper()
	category := models.Category{
		Name: "Computer Science " + uuid.NewString()[:8],
		Code: "CS",
		Slug: "computer-science-" + uuid.NewString()[:8],
	}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validThesisPayload(categoryID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"title":          "X",
		"abstract":       "An abstract.",
		"authorName":     []string{"A. Lee", "B. Kim", "C. Tan"},
		"advisorName":    "Dr. Smith",
		"department":     "Computer Science",
		"program":        "MSCS",
		"categoryId":     categoryID.String(),
		"degreeLevel":    "MASTER",
		"submissionDate": "2024-03-10",
	}
}

type thesisResp struct {
	Message string        `json:"message"`
	Thesis  models.Thesis `json:"thesis"`
}

type listResp struct {
	Thesis     []models.Thesis `json:"thesis"`
	Pagination struct {
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
		Total int64 `json:"total"`
		Pages int64 `json:"pages"`
	} `json:"pagination"`
}

func seedThesis(t *testing.T, db *gorm.DB, admin models.User, category models.Category, title string, status models.ThesisStatus, createdAt time.Time) models.Thesis {
	t.Helper()
	thesis := models.Thesis{
		Title:            title,
		Abstract:         "Abstract of " + title,
		AuthorName:       "A. Lee",
		AdvisorName:      "Dr. Smith",
		Department:       "Computer Science",
		Program:          "MSCS",
		University:       "State University",
		DegreeLevel:      models.DegreeMaster,
		CategoryID:       category.ID,
		Language:         "English",
		SubmissionDate:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:           status,
		Citation:         "A. Lee (2024). " + title + ". MSCS, State University.",
		UploadedByUserID: admin.ID,
		CreatedAt:        createdAt,
	}
	require.NoError(t, db.Create(&thesis).Error)
	return thesis
}

func TestCreateThesisRequiresAdmin(t *testing.T) {
	db, r := setupTest(t)
	_, studentToken := createUser(t, db, models.RoleStudent)
	category := createCategory(t, db)

	// No token at all
	w := doJSON(r, http.MethodPost, "/api/admin/thesis", "", validThesisPayload(category.ID))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())

	// Authenticated but not an admin
	w = doJSON(r, http.MethodPost, "/api/admin/thesis", studentToken, validThesisPayload(category.ID))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())

	var count int64
	db.Model(&models.Thesis{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateThesisMissingRequiredFields(t *testing.T) {
	db, r := setupTest(t)
	_, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)

	fields := []string{
		"title", "abstract", "authorName", "advisorName", "department",
		"program", "categoryId", "degreeLevel", "submissionDate",
	}
	for _, field := range fields {
		t.Run(field, func(t *testing.T) {
			payload := validThesisPayload(category.ID)
			delete(payload, field)

			w := doJSON(r, http.MethodPost, "/api/admin/thesis", adminToken, payload)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":"Missing required field: %s"}`, field), w.Body.String())
		})
	}

	// Authors that normalize to nothing count as missing.
	payload := validThesisPayload(category.ID)
	payload["authorName"] = " , ,"
	w := doJSON(r, http.MethodPost, "/api/admin/thesis", adminToken, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Missing required field: authorName"}`, w.Body.String())

	var count int64
	db.Model(&models.Thesis{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateThesisDefaultsAndCitation(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)

	payload := validThesisPayload(category.ID)
	payload["committeeMembers"] = "Dr. X, Dr. Y , "
	payload["keywords"] = []string{" graphs ", "", "sparsification"}

	w := doJSON(r, http.MethodPost, "/api/admin/thesis", adminToken, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp thesisResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Thesis created successfully", resp.Message)

	thesis := resp.Thesis
	assert.Equal(t, "A. Lee et al. (2024). X. MSCS, State University.", thesis.Citation)
	assert.Equal(t, "A. Lee, B. Kim, C. Tan", thesis.AuthorName)
	assert.Equal(t, "State University", thesis.University)
	assert.Equal(t, "English", thesis.Language)
	assert.Equal(t, models.StatusApproved, thesis.Status)
	assert.Equal(t, []string{"Dr. X", "Dr. Y"}, []string(thesis.CommitteeMembers))
	assert.Equal(t, []string{"graphs", "sparsification"}, []string(thesis.Keywords))

	// Approved at creation: approval metadata points at the caller.
	require.NotNil(t, thesis.ApprovalDate)
	require.NotNil(t, thesis.ApprovedBy)
	assert.Equal(t, admin.ID, *thesis.ApprovedBy)

	// Relations are loaded in the response.
	assert.Equal(t, category.ID, thesis.Category.ID)
	assert.Equal(t, admin.ID, thesis.UploadedBy.ID)
}

func TestCreateThesisCommaStringAuthors(t *testing.T) {
	db, r := setupTest(t)
	_, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)

	payload := validThesisPayload(category.ID)
	payload["authorName"] = "Jane Doe , John Roe"

	w := doJSON(r, http.MethodPost, "/api/admin/thesis", adminToken, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp thesisResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Jane Doe, John Roe", resp.Thesis.AuthorName)
	assert.Equal(t, "Jane Doe & John Roe (2024). X. MSCS, State University.", resp.Thesis.Citation)
}

func TestCreateThesisDraftHasNoApproval(t *testing.T) {
	db, r := setupTest(t)
	_, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)

	payload := validThesisPayload(category.ID)
	payload["status"] = "DRAFT"

	w := doJSON(r, http.MethodPost, "/api/admin/thesis", adminToken, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp thesisResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusDraft, resp.Thesis.Status)
	assert.Nil(t, resp.Thesis.ApprovalDate)
	assert.Nil(t, resp.Thesis.ApprovedBy)
}

func TestGetThesesFilterAndPagination(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedThesis(t, db, admin, category, fmt.Sprintf("Approved %d", i), models.StatusApproved, base.Add(time.Duration(i)*time.Hour))
	}
	for i := 0; i < 2; i++ {
		seedThesis(t, db, admin, category, fmt.Sprintf("Draft %d", i), models.StatusDraft, base.Add(time.Duration(10+i)*time.Hour))
	}

	// pages = ceil(5/2) = 3, newest first
	w := doJSON(r, http.MethodGet, "/api/admin/thesis?page=1&limit=2", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp listResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, int64(3), resp.Pagination.Pages)
	require.Len(t, resp.Thesis, 2)
	assert.Equal(t, "Draft 1", resp.Thesis[0].Title)
	assert.Equal(t, "Draft 0", resp.Thesis[1].Title)

	// Past the last page: empty, no error
	w = doJSON(r, http.MethodGet, "/api/admin/thesis?page=4&limit=2", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Thesis)
	assert.Equal(t, int64(5), resp.Pagination.Total)

	// Status filter
	w = doJSON(r, http.MethodGet, "/api/admin/thesis?status=DRAFT", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Pagination.Total)
	for _, thesis := range resp.Thesis {
		assert.Equal(t, models.StatusDraft, thesis.Status)
	}

	// ALL disables the filter
	w = doJSON(r, http.MethodGet, "/api/admin/thesis?status=ALL", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.Pagination.Total)
}

func TestGetThesesSearchCaseInsensitive(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)

	seedThesis(t, db, admin, category, "Spectral Sparsification", models.StatusApproved, time.Now())
	byAuthor := seedThesis(t, db, admin, category, "Author Hit", models.StatusApproved, time.Now())
	require.NoError(t, db.Model(&byAuthor).Update("author_name", "Nguyen Thi Mai").Error)
	byDepartment := seedThesis(t, db, admin, category, "Department Hit", models.StatusApproved, time.Now())
	require.NoError(t, db.Model(&byDepartment).Update("department", "Electrical Engineering").Error)
	byAbstract := seedThesis(t, db, admin, category, "Abstract Hit", models.StatusDraft, time.Now())
	require.NoError(t, db.Model(&byAbstract).Update("abstract", "A survey of quantum annealing.").Error)

	// One matching record per field, found regardless of the query's casing.
	cases := []struct {
		search string
		want   string
	}{
		{"sPeCtRaL", "Spectral Sparsification"},
		{"NGUYEN", "Author Hit"},
		{"electrical", "Department Hit"},
		{"QuAnTuM", "Abstract Hit"},
	}
	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/api/admin/thesis?search="+tc.search, adminToken, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			var resp listResp
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Len(t, resp.Thesis, 1)
			assert.Equal(t, tc.want, resp.Thesis[0].Title)
			assert.Equal(t, int64(1), resp.Pagination.Total)
		})
	}

	// No field matches
	w := doJSON(r, http.MethodGet, "/api/admin/thesis?search=holography", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp listResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Thesis)
	assert.Zero(t, resp.Pagination.Total)
}

func TestGetThesesIncludesCounts(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	student, _ := createUser(t, db, models.RoleStudent)
	category := createCategory(t, db)

	thesis := seedThesis(t, db, admin, category, "Counted", models.StatusApproved, time.Now())
	require.NoError(t, db.Create(&models.Download{ThesisID: thesis.ID}).Error)
	require.NoError(t, db.Create(&models.Download{ThesisID: thesis.ID}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: student.ID, ThesisID: thesis.ID}).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: student.ID, ThesisID: thesis.ID, Score: 4}).Error)

	w := doJSON(r, http.MethodGet, "/api/admin/thesis", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp listResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Thesis, 1)
	assert.Equal(t, int64(2), resp.Thesis[0].DownloadCount)
	assert.Equal(t, int64(1), resp.Thesis[0].FavoriteCount)
	assert.Equal(t, int64(1), resp.Thesis[0].RatingCount)
}

func TestUpdateThesisPartial(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)
	thesis := seedThesis(t, db, admin, category, "Before", models.StatusApproved, time.Now())

	// Missing id
	w := doJSON(r, http.MethodPut, "/api/admin/thesis", adminToken, map[string]interface{}{"title": "After"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Thesis ID is required"}`, w.Body.String())

	// Only the provided fields change; the citation stays as created.
	w = doJSON(r, http.MethodPut, "/api/admin/thesis", adminToken, map[string]interface{}{
		"id":             thesis.ID.String(),
		"title":          "After",
		"authorName":     "New Author One, New Author Two",
		"submissionDate": "2025-06-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp thesisResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Thesis updated successfully", resp.Message)
	assert.Equal(t, "After", resp.Thesis.Title)
	assert.Equal(t, "New Author One, New Author Two", resp.Thesis.AuthorName)
	assert.Equal(t, 2025, resp.Thesis.SubmissionDate.Year())
	assert.Equal(t, "Abstract of Before", resp.Thesis.Abstract)
	assert.Equal(t, thesis.Citation, resp.Thesis.Citation)

	// Unknown id
	w = doJSON(r, http.MethodPut, "/api/admin/thesis", adminToken, map[string]interface{}{
		"id":    uuid.NewString(),
		"title": "Nope",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateThesisClearsOptionalFields(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	category := createCategory(t, db)
	thesis := seedThesis(t, db, admin, category, "Optional", models.StatusApproved, time.Now())

	w := doJSON(r, http.MethodPut, "/api/admin/thesis", adminToken, map[string]interface{}{
		"id":            thesis.ID.String(),
		"authorEmail":   "a.lee@example.com",
		"studentId":     "S-1234",
		"coAdvisorName": "Dr. Jones",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp thesisResp
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Thesis.AuthorEmail)
	assert.Equal(t, "a.lee@example.com", *resp.Thesis.AuthorEmail)

	// Blanking an optional field stores NULL, as creation does.
	w = doJSON(r, http.MethodPut, "/api/admin/thesis", adminToken, map[string]interface{}{
		"id":            thesis.ID.String(),
		"authorEmail":   "",
		"studentId":     "  ",
		"coAdvisorName": "",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Thesis
	require.NoError(t, db.First(&stored, "id = ?", thesis.ID).Error)
	assert.Nil(t, stored.AuthorEmail)
	assert.Nil(t, stored.StudentID)
	assert.Nil(t, stored.CoAdvisorName)
}

func TestDeleteThesisCascades(t *testing.T) {
	db, r := setupTest(t)
	admin, adminToken := createUser(t, db, models.RoleAdmin)
	student, _ := createUser(t, db, models.RoleStudent)
	category := createCategory(t, db)
	thesis := seedThesis(t, db, admin, category, "Doomed", models.StatusApproved, time.Now())

	require.NoError(t, db.Create(&models.Chapter{ThesisID: thesis.ID, Number: 1, Title: "Introduction"}).Error)
	require.NoError(t, db.Create(&models.Chapter{ThesisID: thesis.ID, Number: 2, Title: "Methods"}).Error)
	require.NoError(t, db.Create(&models.Download{ThesisID: thesis.ID}).Error)
	require.NoError(t, db.Create(&models.Favorite{UserID: student.ID, ThesisID: thesis.ID}).Error)
	require.NoError(t, db.Create(&models.Rating{UserID: student.ID, ThesisID: thesis.ID, Score: 5}).Error)

	// Missing id
	w := doJSON(r, http.MethodDelete, "/api/admin/thesis", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Thesis ID is required"}`, w.Body.String())

	w = doJSON(r, http.MethodDelete, "/api/admin/thesis?id="+thesis.ID.String(), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Thesis deleted successfully"}`, w.Body.String())

	var theses, chapters, downloads, favorites, ratings int64
	db.Model(&models.Thesis{}).Count(&theses)
	db.Model(&models.Chapter{}).Where("thesis_id = ?", thesis.ID).Count(&chapters)
	db.Model(&models.Download{}).Where("thesis_id = ?", thesis.ID).Count(&downloads)
	db.Model(&models.Favorite{}).Where("thesis_id = ?", thesis.ID).Count(&favorites)
	db.Model(&models.Rating{}).Where("thesis_id = ?", thesis.ID).Count(&ratings)
	assert.Zero(t, theses)
	assert.Zero(t, chapters, "chapters must cascade with the thesis")
	assert.Zero(t, downloads)
	assert.Zero(t, favorites)
	assert.Zero(t, ratings)
}
