package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agenda-academica/academic-service/internal/config"
	"github.com/agenda-academica/academic-service/internal/services"
	"github.com/agenda-academica/academic-service/internal/utils"
)

// RouterConfig carries what the handlers need besides the services
type RouterConfig struct {
	APIVersion string
	Auth       config.AuthConfig
	DBCheck    HealthChecker
	CacheCheck HealthChecker
}

type HandlerManager struct {
	authHandler        *AuthHandler
	userHandler        *UserHandler
	institutionHandler *InstitutionHandler
	courseHandler      *CourseHandler
	disciplineHandler  *DisciplineHandler
	dateTypeHandler    *DateTypeHandler
	teacherHandler     *TeacherHandler
	studentHandler     *StudentHandler
	gradeHandler       *GradeHandler
	noteHandler        *NoteHandler
	calendarHandler    *CalendarHandler
	scheduleHandler    *ScheduleHandler
	healthHandler      *HealthHandler
	authMiddleware     *AuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, cfg RouterConfig, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:        NewAuthHandler(serviceManager.Auth(), cfg.Auth, logger),
		userHandler:        NewUserHandler(serviceManager.User(), logger),
		institutionHandler: NewInstitutionHandler(serviceManager.Institution(), logger),
		courseHandler:      NewCourseHandler(serviceManager.Course(), logger),
		disciplineHandler:  NewDisciplineHandler(serviceManager.Discipline(), logger),
		dateTypeHandler:    NewDateTypeHandler(serviceManager.DateType(), logger),
		teacherHandler:     NewTeacherHandler(serviceManager.Teacher(), logger),
		studentHandler:     NewStudentHandler(serviceManager.Student(), logger),
		gradeHandler:       NewGradeHandler(serviceManager.Grade(), logger),
		noteHandler:        NewNoteHandler(serviceManager.Note(), logger),
		calendarHandler:    NewCalendarHandler(serviceManager.Calendar(), logger),
		scheduleHandler:    NewScheduleHandler(serviceManager.Schedule(), logger),
		healthHandler:      NewHealthHandler(cfg.APIVersion, cfg.DBCheck, cfg.CacheCheck, logger),
		authMiddleware:     NewAuthMiddleware(serviceManager.Auth(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Public routes
	v1.GET("/health", hm.healthHandler.Health)
	public := v1.Group("/usuario")
	{
		public.POST("", hm.userHandler.Register)
		public.POST("/login", hm.authHandler.Login)
		public.POST("/refresh", hm.authHandler.Refresh)
	}

	api := v1.Group("")
	api.Use(hm.authMiddleware.RequireAuth())
	{
		users := api.Group("/usuario")
		{
			users.GET("", hm.userHandler.List)
			users.GET("/me", hm.userHandler.Me)
			users.GET("/ra/:ra", hm.userHandler.GetByRA)
			users.GET("/instituicao/:id", hm.userHandler.ListByInstitution)
			users.GET("/curso/:id", hm.userHandler.ListByCourse)
			users.GET("/:id", hm.userHandler.Get)
			users.PUT("", hm.userHandler.Update)
			users.PATCH("", hm.userHandler.Update)
			users.DELETE("", hm.userHandler.Delete)
		}

		institutions := api.Group("/instituicoes")
		{
			institutions.GET("", hm.institutionHandler.List)
			institutions.POST("", hm.institutionHandler.Create)
			institutions.GET("/:id", hm.institutionHandler.Get)
			institutions.PUT("/:id", hm.institutionHandler.Update)
			institutions.DELETE("/:id", hm.institutionHandler.Delete)
		}

		courses := api.Group("/cursos")
		{
			courses.GET("", hm.courseHandler.List)
			courses.POST("", hm.courseHandler.Create)
			courses.GET("/:id", hm.courseHandler.Get)
			courses.PUT("/:id", hm.courseHandler.Update)
			courses.DELETE("/:id", hm.courseHandler.Delete)

			// Curriculum
			courses.GET("/:id/disciplinas", hm.courseHandler.ListDisciplines)
			courses.POST("/:id/disciplinas", hm.courseHandler.AddDiscipline)
			courses.PUT("/:id/disciplinas/:id_disciplina", hm.courseHandler.UpdateDiscipline)
			courses.DELETE("/:id/disciplinas/:id_disciplina", hm.courseHandler.RemoveDiscipline)
		}

		disciplines := api.Group("/disciplinas")
		{
			disciplines.GET("", hm.disciplineHandler.List)
			disciplines.POST("", hm.disciplineHandler.Create)
			disciplines.GET("/:id", hm.disciplineHandler.Get)
			disciplines.PUT("/:id", hm.disciplineHandler.Update)
			disciplines.PATCH("/:id", hm.disciplineHandler.Update)
			disciplines.DELETE("/:id", hm.disciplineHandler.Delete)

			disciplines.GET("/:id/docentes", hm.disciplineHandler.ListTeachers)
			disciplines.POST("/:id/docentes/:id_docente", hm.disciplineHandler.AddTeacher)
			disciplines.DELETE("/:id/docentes/:id_docente", hm.disciplineHandler.RemoveTeacher)
		}

		dateTypes := api.Group("/tipo-data")
		{
			dateTypes.GET("", hm.dateTypeHandler.List)
			dateTypes.POST("", hm.dateTypeHandler.Create)
			dateTypes.GET("/:id", hm.dateTypeHandler.Get)
			dateTypes.PUT("/:id", hm.dateTypeHandler.Update)
			dateTypes.DELETE("/:id", hm.dateTypeHandler.Delete)
		}

		// Records owned by the caller's RA
		teachers := api.Group("/docentes")
		{
			teachers.GET("", hm.teacherHandler.List)
			teachers.POST("", hm.teacherHandler.Create)
			teachers.GET("/email/:email", hm.teacherHandler.GetByEmail)
			teachers.GET("/:id", hm.teacherHandler.Get)
			teachers.GET("/:id/disciplinas", hm.teacherHandler.ListDisciplines)
			teachers.PUT("/:id", hm.teacherHandler.Replace)
			teachers.PATCH("/:id", hm.teacherHandler.Update)
			teachers.DELETE("/:id", hm.teacherHandler.Delete)
		}

		students := api.Group("/discentes")
		{
			students.GET("", hm.studentHandler.List)
			students.POST("", hm.studentHandler.Create)
			students.GET("/email/:email", hm.studentHandler.GetByEmail)
			students.GET("/:id", hm.studentHandler.Get)
			students.PUT("/:id", hm.studentHandler.Replace)
			students.PATCH("/:id", hm.studentHandler.Update)
			students.DELETE("/:id", hm.studentHandler.Delete)
		}

		grades := api.Group("/notas")
		{
			grades.GET("", hm.gradeHandler.List)
			grades.POST("", hm.gradeHandler.Create)
			grades.GET("/boletim.xlsx", hm.gradeHandler.ExportReportCard)
			grades.GET("/:id", hm.gradeHandler.Get)
			grades.PUT("/:id", hm.gradeHandler.Replace)
			grades.PATCH("/:id", hm.gradeHandler.Update)
			grades.DELETE("/:id", hm.gradeHandler.Delete)
		}

		notes := api.Group("/anotacao")
		{
			notes.GET("", hm.noteHandler.List)
			notes.POST("", hm.noteHandler.Create)
			notes.GET("/:id", hm.noteHandler.Get)
			notes.PUT("/:id", hm.noteHandler.Replace)
			notes.PATCH("/:id", hm.noteHandler.Update)
			notes.DELETE("/:id", hm.noteHandler.Delete)
		}

		calendar := api.Group("/calendario")
		{
			calendar.GET("", hm.calendarHandler.List)
			calendar.POST("", hm.calendarHandler.Create)
			calendar.GET("/data/:data", hm.calendarHandler.ListByDate)
			calendar.GET("/tipo/:id_tipo_data", hm.calendarHandler.ListByDateType)
			calendar.GET("/:id", hm.calendarHandler.Get)
			calendar.PUT("/:id", hm.calendarHandler.Replace)
			calendar.PATCH("/:id", hm.calendarHandler.Update)
			calendar.DELETE("/:id", hm.calendarHandler.Delete)
		}

		schedule := api.Group("/horario")
		{
			schedule.GET("", hm.scheduleHandler.List)
			schedule.POST("", hm.scheduleHandler.Create)
			schedule.GET("/dia/:dia_semana", hm.scheduleHandler.ListByWeekday)
			schedule.GET("/:id", hm.scheduleHandler.Get)
			schedule.PUT("/:id", hm.scheduleHandler.Replace)
			schedule.PATCH("/:id", hm.scheduleHandler.Update)
			schedule.DELETE("/:id", hm.scheduleHandler.Delete)
		}
	}
}
