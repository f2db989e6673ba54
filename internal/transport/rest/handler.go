package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawcare/config"
	"pawcare/internal/service"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())
	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/refresh", h.refreshTokens)
			auth.POST("/logout", h.logout)
		}

		users := api.Group("/users")
		users.Use(h.authMiddleware())
		{
			users.GET("/me", h.getCurrentUser)
			users.GET("/:id", h.getUserByID)
			users.PUT("/:id", h.updateUser)
			users.PUT("/:id/password", h.updatePassword)

			admin := users.Group("/")
			admin.Use(h.adminMiddleware())
			{
				admin.GET("/", h.getUsers)
				admin.DELETE("/:id", h.deleteUser)
			}
		}

		vets := api.Group("/vets")
		{
			vets.GET("/", h.getVets)
			vets.GET("/me", h.authMiddleware(), h.getMyVetProfile)
			vets.GET("/:id", h.getVetByID)
			vets.GET("/:id/working-hours", h.getWorkingHours)
			vets.GET("/:id/slots", h.getVetSlots)

			auth := vets.Group("/", h.authMiddleware())
			{
				auth.POST("/", h.vetMiddleware(), h.createVetProfile)
				auth.PUT("/:id", h.updateVetProfile)
				auth.DELETE("/:id", h.adminMiddleware(), h.deleteVetProfile)

				auth.PUT("/:id/working-hours", h.updateWorkingHours)
				auth.GET("/:id/stats", h.getVetStats)

				auth.POST("/:id/photo", h.uploadVetPhoto)
				auth.DELETE("/:id/photo", h.deleteVetPhoto)
			}
		}

		pets := api.Group("/pets")
		pets.Use(h.authMiddleware())
		{
			pets.POST("/", h.createPet)
			pets.GET("/", h.getMyPets)
			pets.GET("/:id", h.getPetByID)
			pets.PUT("/:id", h.updatePet)
			pets.DELETE("/:id", h.deletePet)

			pets.POST("/:id/photo", h.uploadPetPhoto)
			pets.DELETE("/:id/photo", h.deletePetPhoto)

			pets.GET("/:id/gallery", h.getPetGallery)
			pets.POST("/:id/gallery", h.addGalleryImage)
			pets.DELETE("/gallery/:imageId", h.deleteGalleryImage)
		}

		appointments := api.Group("/appointments")
		appointments.Use(h.authMiddleware())
		{
			appointments.POST("/", h.createAppointment)
			appointments.GET("/", h.getAppointments)
			appointments.GET("/check", h.checkAvailability)
			appointments.GET("/:id", h.getAppointmentByID)
			appointments.DELETE("/:id", h.cancelAppointment)

			appointments.POST("/:id/confirm", h.confirmAppointment)
			appointments.POST("/:id/reject", h.rejectAppointment)
			appointments.POST("/:id/reschedule", h.rescheduleAppointment)
			appointments.POST("/:id/complete", h.completeAppointment)
			appointments.PUT("/:id/notes", h.setAppointmentNotes)
		}

		records := api.Group("/medical-records")
		records.Use(h.authMiddleware())
		{
			records.GET("/", h.getMedicalRecords)
			records.GET("/:id", h.getMedicalRecordByID)

			vetOnly := records.Group("/", h.vetMiddleware())
			{
				vetOnly.POST("/", h.createMedicalRecord)
				vetOnly.PUT("/:id", h.updateMedicalRecord)
				vetOnly.DELETE("/:id", h.deleteMedicalRecord)
			}
		}
	}
}
