package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/app/store"
	"github.com/ajayk/studisdb/internal/pkg/filestorage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *services.Services) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := store.NewMemoryStore()
	svcs := services.NewServices(st, nil, zerolog.Nop(), services.Options{})

	studentCtrl := NewStudentController(svcs.Students, nil)
	subjectCtrl := NewSubjectController(svcs.Subjects)

	router := gin.New()
	router.POST("/students", studentCtrl.CreateStudent)
	router.GET("/students", studentCtrl.GetAllStudents)
	router.GET("/students-subjects", studentCtrl.GetStudentsWithSubjects)
	router.GET("/students/search", studentCtrl.SearchStudents)
	router.GET("/students/:rollNo", studentCtrl.GetStudentByRollNo)
	router.PUT("/students/:rollNo", studentCtrl.UpdateStudent)
	router.DELETE("/students/:rollNo", studentCtrl.DeleteStudent)
	router.POST("/students/:rollNo/subjects", studentCtrl.AddSubjectToStudent)
	router.POST("/subjects", subjectCtrl.CreateSubject)
	router.DELETE("/subjects/:id", subjectCtrl.DeleteSubject)
	return router, svcs
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestStudentLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/students", gin.H{
		"rollNo": 1, "name": "Ann", "branch": "CSE", "percentage": 91.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := dataOf(t, w)
	assert.NotEmpty(t, created["id"])
	assert.NotNil(t, created["studentBioDetails"], "defaults applied on create")

	// Duplicate roll number conflicts.
	w = doJSON(t, router, http.MethodPost, "/students", gin.H{"rollNo": 1, "name": "Bea"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/students/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ann", dataOf(t, w)["name"])

	w = doJSON(t, router, http.MethodPut, "/students/1", gin.H{"branch": "ECE"})
	require.Equal(t, http.StatusOK, w.Code)
	got := dataOf(t, w)
	assert.Equal(t, "ECE", got["branch"])
	assert.Equal(t, "Ann", got["name"], "partial update keeps other fields")

	w = doJSON(t, router, http.MethodGet, "/students/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/students/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodDelete, "/students/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, "second delete is a 404")
}

func TestStudentValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	// name and rollNo are required.
	w := doJSON(t, router, http.MethodPost, "/students", gin.H{"branch": "CSE"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// rollNo path param must be an integer.
	w = doJSON(t, router, http.MethodGet, "/students/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudentEnrollmentAndProjection(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/subjects", gin.H{"subID": "CS101", "name": "Databases"})
	require.Equal(t, http.StatusCreated, w.Code)
	subjectID := dataOf(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/students", gin.H{"rollNo": 1, "name": "Ann"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodPost, "/students/1/subjects", gin.H{"subjectId": subjectID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/students/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	subjects, ok := dataOf(t, w)["subjectIds"].([]interface{})
	require.True(t, ok)
	require.Len(t, subjects, 1)
	assert.Equal(t, "CS101", subjects[0].(map[string]interface{})["subID"], "read resolves the reference")
}

func TestDeleteSubjectPolicies(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/subjects", gin.H{"subID": "CS101", "name": "Databases"})
	require.Equal(t, http.StatusCreated, w.Code)
	subjectID := dataOf(t, w)["id"].(string)

	w = doJSON(t, router, http.MethodPost, "/students", gin.H{
		"rollNo": 1, "name": "Ann", "subjectIds": []string{subjectID},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Default policy restricts while the student still references it.
	w = doJSON(t, router, http.MethodDelete, "/subjects/"+subjectID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown policy spelling is rejected.
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/subjects/%s?policy=cascade", subjectID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Per-request cascade-null override deletes and strips the reference.
	w = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/subjects/%s?policy=cascade-null", subjectID), nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/students/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	subjects, ok := dataOf(t, w)["subjectIds"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, subjects)
}

func TestSearchStudentsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/students", gin.H{"rollNo": 1, "name": "Ann Smith"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, http.MethodPost, "/students", gin.H{"rollNo": 2, "name": "Bea Jones"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/students/search?searchField=name&searchTerm=smith", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ann Smith", resp.Data[0]["name"])

	w = doJSON(t, router, http.MethodGet, "/students/search?searchField=email&searchTerm=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProfileImageEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := store.NewMemoryStore()
	svcs := services.NewServices(st, nil, zerolog.Nop(), services.Options{})

	dir := t.TempDir()
	fs, err := filestorage.NewLocalStorage(dir, "")
	require.NoError(t, err)

	studentCtrl := NewStudentController(svcs.Students, fs)
	router := gin.New()
	router.POST("/students", studentCtrl.CreateStudent)
	router.GET("/students/:rollNo", studentCtrl.GetStudentByRollNo)
	router.DELETE("/students/delete-image/:rollNo", studentCtrl.DeleteProfileImage)

	w := doJSON(t, router, http.MethodPost, "/students", gin.H{"rollNo": 1, "name": "Ann"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	stored := filepath.Join(dir, "students", "pic.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(stored), 0o755))
	require.NoError(t, os.WriteFile(stored, []byte("img"), 0o644))
	_, err = svcs.Students.SetProfileImage(context.Background(), 1, "uploads/students/pic.png")
	require.NoError(t, err)

	w = doJSON(t, router, http.MethodDelete, "/students/delete-image/1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The record field is nulled and the stored file is gone.
	w = doJSON(t, router, http.MethodGet, "/students/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	val, present := dataOf(t, w)["imageUrl"]
	assert.True(t, present)
	assert.Nil(t, val)
	_, statErr := os.Stat(stored)
	assert.True(t, os.IsNotExist(statErr))

	// Deleting again with no image stored still succeeds.
	w = doJSON(t, router, http.MethodDelete, "/students/delete-image/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/students/delete-image/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
