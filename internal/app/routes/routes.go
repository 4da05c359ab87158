package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ajayk/studisdb/internal/app/controllers"
	"github.com/ajayk/studisdb/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	roleController *controllers.RoleController,
	adminController *controllers.AdminController,
	teacherController *controllers.TeacherController,
	subjectController *controllers.SubjectController,
	yearSemController *controllers.YearSemController,
	studentController *controllers.StudentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public Auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Public read routes ---
	router.GET("/roles", roleController.GetAllRoles)
	router.GET("/roles/:roleId", roleController.GetRoleByRoleID)

	router.GET("/admins", adminController.GetAllAdmins)
	router.GET("/admins/:id", adminController.GetAdminByID)

	router.GET("/teachers", teacherController.GetAllTeachers)
	router.GET("/teachers/:id", teacherController.GetTeacherByID)

	router.GET("/subjects", subjectController.GetAllSubjects)
	router.GET("/subjects/:id", subjectController.GetSubjectByID)

	router.GET("/yearsem", yearSemController.GetAllYearSems)
	router.GET("/yearsem/:id", yearSemController.GetYearSemByID)

	router.GET("/students", studentController.GetAllStudents)
	router.GET("/students-subjects", studentController.GetStudentsWithSubjects)
	router.GET("/students/search", studentController.SearchStudents)
	router.GET("/students/:rollNo", studentController.GetStudentByRollNo)

	// --- Authenticated Routes Group ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/roles", roleController.CreateRole)
		authenticated.PUT("/roles/:roleId", roleController.UpdateRole)
		authenticated.DELETE("/roles/:roleId", roleController.DeleteRole)

		authenticated.POST("/admins", adminController.CreateAdmin)
		authenticated.PUT("/admins/:id", adminController.UpdateAdmin)
		authenticated.DELETE("/admins/:id", adminController.DeleteAdmin)

		authenticated.POST("/teachers", teacherController.CreateTeacher)
		authenticated.PUT("/teachers/:id", teacherController.UpdateTeacher)
		authenticated.DELETE("/teachers/:id", teacherController.DeleteTeacher)

		authenticated.POST("/subjects", subjectController.CreateSubject)
		authenticated.PUT("/subjects/:id", subjectController.UpdateSubject)
		authenticated.DELETE("/subjects/:id", subjectController.DeleteSubject)

		authenticated.POST("/yearsem", yearSemController.CreateYearSem)
		authenticated.PUT("/yearsem/:id", yearSemController.UpdateYearSem)
		authenticated.DELETE("/yearsem/:id", yearSemController.DeleteYearSem)

		authenticated.POST("/students", studentController.CreateStudent)
		authenticated.PUT("/students/:rollNo", studentController.UpdateStudent)
		authenticated.DELETE("/students/:rollNo", studentController.DeleteStudent)
		authenticated.POST("/students/:rollNo/subjects", studentController.AddSubjectToStudent)
		authenticated.POST("/students/:rollNo/image", studentController.UploadProfileImage)
		authenticated.DELETE("/students/delete-image/:rollNo", studentController.DeleteProfileImage)
	}
}
