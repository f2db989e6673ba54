package rest

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawcare/internal/domain"
)

// @Summary Список ветеринаров
// @Description Возвращает активных ветеринаров, опционально по специализации
// @Tags Ветеринары
// @Produce json
// @Param specialty query string false "Специализация"
// @Param limit query int false "Лимит (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} successResponseBody "Список ветеринаров"
// @Failure 500 {object} errorResponseBody "Внутренняя ошибка сервера"
// @Router /vets [get]
func (h *Handler) getVets(c *gin.Context) {
	limit, offset := paginationParams(c)

	var specialty *string
	if s := c.Query("specialty"); s != "" {
		specialty = &s
	}

	vets, err := h.services.Vet.List(c.Request.Context(), specialty, limit, offset)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, vets)
}

// @Summary Получить ветеринара по ID
// @Tags Ветеринары
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Success 200 {object} domain.VetProfile "Профиль ветеринара"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /vets/{id} [get]
func (h *Handler) getVetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	vet, err := h.services.Vet.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, vet)
}

// @Summary Мой профиль ветеринара
// @Tags Ветеринары
// @Produce json
// @Success 200 {object} domain.VetProfile "Профиль ветеринара"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Security ApiKeyAuth
// @Router /vets/me [get]
func (h *Handler) getMyVetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	vet, err := h.services.Vet.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, vet)
}

// @Summary Создать профиль ветеринара
// @Description Создает профиль клиники для авторизованного ветеринара
// @Tags Ветеринары
// @Accept json
// @Produce json
// @Param input body domain.CreateVetProfileDTO true "Данные профиля"
// @Success 201 {object} map[string]interface{} "ID созданного профиля"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 409 {object} errorResponseBody "Профиль уже существует"
// @Security ApiKeyAuth
// @Router /vets [post]
func (h *Handler) createVetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateVetProfileDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Vet.Create(c.Request.Context(), userID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// ownsVetProfile проверяет, что профиль принадлежит пользователю или запрос от админа.
func (h *Handler) ownsVetProfile(c *gin.Context, vetID int64) (*domain.VetProfile, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}

	vet, err := h.services.Vet.GetByID(c.Request.Context(), vetID)
	if err != nil {
		domainErrorResponse(c, err)
		return nil, false
	}

	userRole, _ := getUserRole(c)
	if vet.UserID != userID && userRole != domain.UserRoleAdmin {
		forbiddenResponse(c)
		return nil, false
	}

	return vet, true
}

// @Summary Обновить профиль ветеринара
// @Tags Ветеринары
// @Accept json
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Param input body domain.UpdateVetProfileDTO true "Данные для обновления"
// @Success 200 {object} messageResponseType "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Security ApiKeyAuth
// @Router /vets/{id} [put]
func (h *Handler) updateVetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.ownsVetProfile(c, id); !ok {
		return
	}

	var input domain.UpdateVetProfileDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Vet.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "профиль успешно обновлен")
}

// @Summary Удалить профиль ветеринара
// @Description Удаляет профиль ветеринара. Доступно только админу.
// @Tags Ветеринары
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Success 204 {object} nil "Профиль удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /vets/{id} [delete]
func (h *Handler) deleteVetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Vet.Delete(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Часы приема ветеринара
// @Description Возвращает расписание клиники ветеринара
// @Tags Ветеринары
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Success 200 {object} domain.WorkingHours "Часы приема"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /vets/{id}/working-hours [get]
func (h *Handler) getWorkingHours(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	hours, err := h.services.Vet.GetWorkingHours(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, hours)
}

// @Summary Обновить часы приема
// @Tags Ветеринары
// @Accept json
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Param input body domain.UpdateWorkingHoursDTO true "Новое расписание"
// @Success 200 {object} messageResponseType "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Security ApiKeyAuth
// @Router /vets/{id}/working-hours [put]
func (h *Handler) updateWorkingHours(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.ownsVetProfile(c, id); !ok {
		return
	}

	var input domain.UpdateWorkingHoursDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Vet.UpdateWorkingHours(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "часы приема обновлены")
}

// @Summary Слоты приема на дату
// @Description Возвращает сетку слотов ветеринара с занятостью. В нерабочий день сетка пуста, причина — в поле message.
// @Tags Ветеринары
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Param date query string true "Дата (YYYY-MM-DD)"
// @Success 200 {object} domain.DaySchedule "Слоты приема"
// @Failure 400 {object} errorResponseBody "Неверная дата"
// @Failure 404 {object} errorResponseBody "Профиль не найден"
// @Router /vets/{id}/slots [get]
func (h *Handler) getVetSlots(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	schedule, err := h.services.Vet.AvailableSlots(c.Request.Context(), id, date)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, schedule)
}

// @Summary Статистика записей ветеринара
// @Tags Ветеринары
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Success 200 {object} domain.AppointmentStats "Статистика по статусам"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /vets/{id}/stats [get]
func (h *Handler) getVetStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.ownsVetProfile(c, id); !ok {
		return
	}

	stats, err := h.services.Appointment.Stats(c.Request.Context(), id)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, stats)
}

// @Summary Загрузить фото профиля
// @Tags Ветеринары
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Param photo formData file true "Файл изображения"
// @Success 200 {object} messageResponseType "Фото загружено"
// @Failure 400 {object} errorResponseBody "Некорректный файл"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /vets/{id}/photo [post]
func (h *Handler) uploadVetPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.ownsVetProfile(c, id); !ok {
		return
	}

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	if err := h.services.Vet.UploadProfilePhoto(c.Request.Context(), id, data, filename); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "фото успешно загружено")
}

// @Summary Удалить фото профиля
// @Tags Ветеринары
// @Produce json
// @Param id path int true "ID профиля ветеринара"
// @Success 204 {object} nil "Фото удалено"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /vets/{id}/photo [delete]
func (h *Handler) deleteVetPhoto(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.ownsVetProfile(c, id); !ok {
		return
	}

	if err := h.services.Vet.DeleteProfilePhoto(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

func readUploadedFile(c *gin.Context) ([]byte, string, bool) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		badRequestResponse(c, "файл не найден в запросе")
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		badRequestResponse(c, "не удалось открыть файл")
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		internalServerErrorResponse(c)
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}
