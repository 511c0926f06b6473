package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"acadtrack/backend/config"
	"acadtrack/backend/internal/api/handler"
	"acadtrack/backend/internal/api/middleware"
	"acadtrack/backend/internal/model"
	"acadtrack/backend/pkg/jwt"
	"acadtrack/backend/pkg/redis"
)

const (
	admin   = model.RoleAdmin
	faculty = model.RoleFaculty
)

// Setup builds the gin engine with every route
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	jsonLimit := middleware.BodyLimit(cfg.Server.BodyLimitBytes)
	uploadLimit := middleware.BodyLimit(cfg.Ingest.MaxUploadBytes)
	staff := middleware.RoleAuth(admin, faculty)
	adminOnly := middleware.RoleAuth(admin)

	v1 := r.Group("/api/v1")
	{
		// unauthenticated
		auth := v1.Group("/auth", jsonLimit)
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger),
				h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("", middleware.JWTAuth(jwtMgr, rdb))

		// multipart uploads get the larger limit
		uploads := authorized.Group("", uploadLimit)
		{
			uploads.POST("/timetable/import", middleware.RoleAuth(faculty), h.Timetable.ImportICS)

			imports := uploads.Group("/import")
			{
				imports.POST("/students", adminOnly, h.Import.ImportStudents)
				imports.POST("/courses", adminOnly, h.Import.ImportCourses)
				imports.POST("/co-po/:subject_code", staff, h.Import.ImportCoPo)
				imports.POST("/marks/:subject_code/:exam_label", staff, h.Import.ImportMarks)
			}
		}

		api := authorized.Group("", jsonLimit)
		{
			api.POST("/auth/logout", h.Auth.Logout)
			api.GET("/auth/me", h.Auth.GetCurrentUser)
			api.PUT("/auth/password", h.Auth.ChangePassword)

			users := api.Group("/users", adminOnly)
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
				users.POST("/:id/reset-password", h.User.ResetPassword)
			}

			terms := api.Group("/terms")
			{
				terms.GET("", h.Term.ListTerms)
				terms.GET("/current", h.Term.GetCurrentTerm)
				terms.GET("/:id", h.Term.GetTerm)
				terms.POST("", adminOnly, h.Term.CreateTerm)
				terms.PUT("/:id", adminOnly, h.Term.UpdateTerm)
				terms.PUT("/:id/activate", adminOnly, h.Term.ActivateTerm)
				terms.DELETE("/:id", adminOnly, h.Term.DeleteTerm)
			}

			students := api.Group("/students", staff)
			{
				students.GET("", h.Student.ListStudents)
				students.GET("/:id", h.Student.GetStudent)
				students.POST("", adminOnly, h.Student.CreateStudent)
				students.PUT("/:id", adminOnly, h.Student.UpdateStudent)
				students.PUT("/:id/status", adminOnly, h.Student.UpdateStudentStatus)
				students.DELETE("/:id", adminOnly, h.Student.DeleteStudent)
			}

			courses := api.Group("/courses", staff)
			{
				courses.GET("", h.Course.ListCourses)
				courses.GET("/mine", h.Course.ListMyCourses)
				courses.GET("/:id", h.Course.GetCourse)
				courses.POST("", adminOnly, h.Course.CreateCourse)
				courses.PUT("/:id", adminOnly, h.Course.UpdateCourse)
				courses.PUT("/:id/instructor", adminOnly, h.Course.AssignInstructor)
				courses.DELETE("/:id", adminOnly, h.Course.DeleteCourse)
			}

			timeSlots := api.Group("/time-slots")
			{
				timeSlots.GET("", h.TimeSlot.ListTimeSlots)
				timeSlots.GET("/:id", h.TimeSlot.GetTimeSlot)
				timeSlots.POST("", adminOnly, h.TimeSlot.CreateTimeSlot)
				timeSlots.PUT("/:id", adminOnly, h.TimeSlot.UpdateTimeSlot)
				timeSlots.DELETE("/:id", adminOnly, h.TimeSlot.DeleteTimeSlot)
			}

			api.GET("/timetable/me", middleware.RoleAuth(faculty), h.Timetable.GetMyTimetable)

			papers := api.Group("/papers", staff)
			{
				papers.POST("", h.Paper.CreatePaper)
				papers.GET("/:id", h.Paper.GetPaper)
				papers.PUT("/:id", h.Paper.UpdatePaper)
				papers.DELETE("/:id", h.Paper.DeletePaper)
				papers.POST("/:id/submit", h.Paper.SubmitPaper)
				papers.POST("/:id/approve", adminOnly, h.Paper.ApprovePaper)
			}

			subjects := api.Group("/subjects/:subject_code", staff)
			{
				subjects.GET("/papers", h.Paper.ListPapers)
				subjects.GET("/papers/:exam_label", h.Paper.GetPaperByExam)
				subjects.GET("/marks", h.Mark.ListSubjectMarks)
				subjects.GET("/co-po", h.CoPo.GetCoPo)
				subjects.PUT("/co-po", h.CoPo.PutCoPo)
				subjects.DELETE("/co-po", adminOnly, h.CoPo.DeleteCoPo)
			}

			marks := api.Group("/marks")
			{
				marks.GET("/student", h.Mark.ListStudentMarks)
				marks.POST("", staff, h.Mark.UpsertMark)
				marks.POST("/bulk", staff, h.Mark.BulkUpsertMarks)
				marks.DELETE("/:record_id", staff, h.Mark.DeleteMark)
			}

			api.GET("/attainment/:subject_code", staff, h.Attainment.GetAttainment)

			attendance := api.Group("/attendance")
			{
				attendance.GET("/summary", h.Attendance.StudentSummary)
				attendance.POST("", staff, h.Attendance.MarkAttendance)
				attendance.GET("/session", staff, h.Attendance.GetSession)
				attendance.GET("/sessions", staff, h.Attendance.ListSessions)
				attendance.GET("/status", staff, h.Attendance.SubjectStatus)
				attendance.GET("/report", staff, h.Attendance.SubjectReport)
			}

			policy := api.Group("/policy")
			{
				policy.GET("", h.Policy.GetPolicy)
				policy.PUT("", adminOnly, h.Policy.UpdatePolicy)
			}

			condonations := api.Group("/condonations")
			{
				condonations.POST("", h.Condonation.CreateCondonation)
				condonations.GET("/mine", h.Condonation.ListMyCondonations)
				condonations.GET("", adminOnly, h.Condonation.ListCondonations)
				condonations.PUT("/:id/review", adminOnly, h.Condonation.ReviewCondonation)
			}

			activities := api.Group("/activities")
			{
				activities.POST("", h.Activity.CreateActivity)
				activities.GET("/summary", h.Activity.ActivitySummary)
				activities.GET("", adminOnly, h.Activity.ListActivities)
				activities.PUT("/:id/review", adminOnly, h.Activity.ReviewActivity)
			}

			export := api.Group("/export", staff)
			{
				export.GET("/attendance", h.Export.ExportAttendance)
				export.GET("/attainment/:subject_code", h.Export.ExportAttainment)
				export.GET("/marks", h.Export.ExportMarks)
			}
		}
	}

	return r
}
