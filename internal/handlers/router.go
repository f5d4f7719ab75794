package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/LMS-F-2025/classroom-service/internal/config"
	"github.com/LMS-F-2025/classroom-service/internal/repositories"
	"github.com/LMS-F-2025/classroom-service/internal/services"
	"github.com/LMS-F-2025/classroom-service/internal/utils"
)

type HandlerManager struct {
	classroomHandler  *ClassroomHandler
	lessonHandler     *LessonHandler
	assignmentHandler *AssignmentHandler
	examHandler       *ExamHandler
	attendanceHandler *AttendanceHandler
	statsHandler      *StatsHandler
	instituteHandler  *InstituteHandler
	authMiddleware    *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		classroomHandler:  NewClassroomHandler(serviceManager.Classroom(), logger),
		lessonHandler:     NewLessonHandler(serviceManager.Lesson(), logger),
		assignmentHandler: NewAssignmentHandler(serviceManager.Assignment(), logger),
		examHandler:       NewExamHandler(serviceManager.Exam(), logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), logger),
		statsHandler:      NewStatsHandler(serviceManager.Stats(), serviceManager.Export(), logger),
		instituteHandler:  NewInstituteHandler(serviceManager.Institute(), logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware()) // Apply authentication to all API routes
	{
		// Classroom routes
		classrooms := v1.Group("/classrooms")
		{
			classrooms.POST("", hm.classroomHandler.CreateClassroom)
			classrooms.GET("", hm.classroomHandler.ListClassrooms)
			classrooms.GET("/:id", hm.classroomHandler.GetClassroom)
			classrooms.PUT("/:id", hm.classroomHandler.UpdateClassroom)
			classrooms.POST("/:id/archive", hm.classroomHandler.ArchiveClassroom)
			classrooms.POST("/:id/join", hm.classroomHandler.JoinClassroom)
			classrooms.GET("/:id/members", hm.classroomHandler.ListMembers)

			// Nested content routes
			classrooms.POST("/:id/lessons", hm.lessonHandler.CreateLesson)
			classrooms.GET("/:id/lessons", hm.lessonHandler.ListLessons)
			classrooms.POST("/:id/assignments", hm.assignmentHandler.CreateAssignment)
			classrooms.GET("/:id/assignments", hm.assignmentHandler.ListAssignments)
			classrooms.POST("/:id/exams", hm.examHandler.CreateExam)
			classrooms.GET("/:id/exams", hm.examHandler.ListExams)
			classrooms.POST("/:id/attendance-sessions", hm.attendanceHandler.CreateSession)
			classrooms.GET("/:id/attendance-sessions", hm.attendanceHandler.ListSessions)

			// Aggregation routes
			classrooms.GET("/:id/overview", hm.statsHandler.Overview)
			classrooms.GET("/:id/leaderboard", hm.statsHandler.Leaderboard)
			classrooms.GET("/:id/report", hm.statsHandler.ExportReport)
		}

		// Lesson routes
		lessons := v1.Group("/lessons")
		{
			lessons.PUT("/:id", hm.lessonHandler.UpdateLesson)
			lessons.DELETE("/:id", hm.lessonHandler.DeleteLesson)
		}

		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.PUT("/:id", hm.assignmentHandler.UpdateAssignment)
			assignments.POST("/:id/submissions", hm.assignmentHandler.SubmitAssignment)
			assignments.GET("/:id/submissions", hm.assignmentHandler.ListSubmissions)
			assignments.GET("/:id/submissions/history", hm.assignmentHandler.SubmissionHistory)
		}

		// Submission grading
		submissions := v1.Group("/submissions")
		{
			submissions.POST("/:id/grade", hm.assignmentHandler.GradeSubmission)
		}

		// Exam routes
		exams := v1.Group("/exams")
		{
			exams.GET("/:id", hm.examHandler.GetExamDetail)
			exams.GET("/:id/take", hm.examHandler.GetExamForStudent)
			exams.POST("/:id/questions", hm.examHandler.AddQuestion)
			exams.POST("/:id/publish", hm.examHandler.PublishExam)
			exams.POST("/:id/attempts", hm.examHandler.SubmitAttempt)
		}

		// Attendance session routes
		attendanceSessions := v1.Group("/attendance-sessions")
		{
			attendanceSessions.POST("/:id/check-in", hm.attendanceHandler.CheckIn)
			attendanceSessions.GET("/:id/records", hm.attendanceHandler.ListRecords)
		}

		// Institute routes
		institutes := v1.Group("/institutes")
		{
			institutes.POST("", hm.instituteHandler.CreateInstitute)
			institutes.GET("/:id", hm.instituteHandler.GetInstitute)
			institutes.POST("/:id/members", hm.instituteHandler.AddMember)
			institutes.GET("/:id/members", hm.instituteHandler.ListMembers)
			institutes.PUT("/:id/members/:user_id", hm.instituteHandler.UpdateMember)
			institutes.DELETE("/:id/members/:user_id", hm.instituteHandler.RemoveMember)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "classroom-service",
		})
	})
}
