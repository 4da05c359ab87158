package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/models/dto"
	"github.com/ajayk/studisdb/internal/app/services"
	"github.com/ajayk/studisdb/internal/middleware"
	"github.com/ajayk/studisdb/internal/pkg/filestorage"
	"github.com/ajayk/studisdb/internal/pkg/logger"
)

// StudentController handles student CRUD, enrollment, search, and profile
// image upload.
type StudentController struct {
	studentService *services.StudentService
	fileStorage    filestorage.FileStorage
}

// NewStudentController creates a new StudentController.
func NewStudentController(studentService *services.StudentService, fileStorage filestorage.FileStorage) *StudentController {
	return &StudentController{
		studentService: studentService,
		fileStorage:    fileStorage,
	}
}

// CreateStudent handles student creation
// @Summary Create a new student
// @Description Creates a student; missing bio/curriculum sub-documents get default values
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Roll number already exists"
// @Failure 422 {object} dto.ErrorResponse "Reference names a nonexistent record (strict mode)"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.studentService.Create(ctx, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(rec))
}

// GetAllStudents lists students with subjects, terms, and user (with role)
// resolved
// @Summary List students
// @Description Lists all students with references resolved to nested objects
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse "Students"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	recs, err := c.studentService.List(ctx, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetStudentsWithSubjects lists students with only subjectIds resolved
// @Summary List students with subjects only
// @Tags students
// @Produce json
// @Success 200 {object} dto.APIResponse "Students"
// @Router /students-subjects [get]
func (c *StudentController) GetStudentsWithSubjects(ctx *gin.Context) {
	recs, err := c.studentService.ListWithSpec(ctx, nil, services.SubjectsOnly())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// GetStudentByRollNo retrieves one student
// @Summary Get student by roll number
// @Tags students
// @Produce json
// @Param rollNo path int true "Roll number"
// @Success 200 {object} dto.APIResponse "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{rollNo} [get]
func (c *StudentController) GetStudentByRollNo(ctx *gin.Context) {
	rollNo, ok := rollNoParam(ctx)
	if !ok {
		return
	}

	rec, err := c.studentService.ProjectByRollNo(ctx, rollNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// SearchStudents searches by rollNo, name, or percentage
// @Summary Search students
// @Tags students
// @Produce json
// @Param searchField query string true "rollNo | name | percentage"
// @Param searchTerm query string true "Search term"
// @Success 200 {object} dto.APIResponse "Matching students"
// @Failure 400 {object} dto.ErrorResponse "Invalid search field"
// @Router /students/search [get]
func (c *StudentController) SearchStudents(ctx *gin.Context) {
	recs, err := c.studentService.Search(ctx, ctx.Query("searchField"), ctx.Query("searchTerm"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(recs))
}

// UpdateStudent partially updates a student
// @Summary Update student by roll number
// @Description Merges the provided fields; unspecified fields keep their value
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rollNo path int true "Roll number"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse "Updated student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{rollNo} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	rollNo, ok := rollNoParam(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	rec, err := c.studentService.UpdateByRollNo(ctx, rollNo, req.ToRecord())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// DeleteStudent deletes a student
// @Summary Delete student by roll number
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param rollNo path int true "Roll number"
// @Param policy query string false "restrict | cascade-null (defaults to configured policy)"
// @Success 204 "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Blocked by referencing records"
// @Router /students/{rollNo} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	rollNo, ok := rollNoParam(ctx)
	if !ok {
		return
	}
	rec, err := c.studentService.GetByRollNo(ctx, rollNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	deleteEntity(ctx, c.studentService.EntityService, recordID(rec))
}

// AddSubjectToStudent appends a subject to a student's enrollment
// @Summary Enroll student in a subject
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rollNo path int true "Roll number"
// @Param request body dto.AddStudentSubjectRequest true "Subject id"
// @Success 200 {object} dto.SuccessResponse "Subject added"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{rollNo}/subjects [post]
func (c *StudentController) AddSubjectToStudent(ctx *gin.Context) {
	rollNo, ok := rollNoParam(ctx)
	if !ok {
		return
	}

	var req dto.AddStudentSubjectRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.studentService.AddSubject(ctx, rollNo, req.SubjectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Subject added successfully"})
}

// UploadProfileImage stores a student's profile image
// @Summary Upload student profile image
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param rollNo path int true "Roll number"
// @Param image formData file true "Profile image"
// @Success 200 {object} dto.APIResponse "Updated student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{rollNo}/image [post]
func (c *StudentController) UploadProfileImage(ctx *gin.Context) {
	rollNo, ok := rollNoParam(ctx)
	if !ok {
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Image file is required").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	imageURL, err := c.fileStorage.SaveFileWithPath(fileHeader, "students")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	rec, err := c.studentService.SetProfileImage(ctx, rollNo, imageURL)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(rec))
}

// DeleteProfileImage removes a student's profile image
// @Summary Delete student profile image
// @Description Clears the image URL on the student and removes the stored file
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param rollNo path int true "Roll number"
// @Success 200 {object} dto.SuccessResponse "Image deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/delete-image/{rollNo} [delete]
func (c *StudentController) DeleteProfileImage(ctx *gin.Context) {
	rollNo, ok := rollNoParam(ctx)
	if !ok {
		return
	}

	imageURL, err := c.studentService.ClearProfileImage(ctx, rollNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// The record no longer points at the file; a failed file removal only
	// leaves an orphan on disk.
	if imageURL != "" {
		if err := c.fileStorage.DeleteFile(imageURL); err != nil {
			logger.Warn().Err(err).Str("path", imageURL).Msg("Failed to remove stored image file")
		}
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Profile image deleted successfully"})
}

func rollNoParam(ctx *gin.Context) (int, bool) {
	rollNo, err := strconv.Atoi(ctx.Param("rollNo"))
	if err != nil {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid roll number").
			WithDetails("Roll number must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return rollNo, true
}
