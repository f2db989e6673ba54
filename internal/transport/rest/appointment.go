package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawcare/internal/domain"
)

// @Summary Записаться на прием
// @Description Создает запись на прием к ветеринару. Время проверяется на конфликты с учетом буфера.
// @Tags Записи
// @Accept json
// @Produce json
// @Param input body domain.CreateAppointmentDTO true "Данные записи"
// @Success 201 {object} map[string]interface{} "ID созданной записи"
// @Failure 400 {object} errorResponseBody "Ошибка валидации или время вне расписания"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Питомец не принадлежит владельцу"
// @Failure 409 {object} errorResponseBody "Выбранное время уже занято"
// @Security ApiKeyAuth
// @Router /appointments [post]
func (h *Handler) createAppointment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreateAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Appointment.Create(c.Request.Context(), userID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// appointmentAccess загружает запись и проверяет, что она принадлежит
// пользователю как владельцу или как ветеринару, либо запрос от админа.
func (h *Handler) appointmentAccess(c *gin.Context, id int64) (*domain.Appointment, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return nil, false
	}

	userRole, _ := getUserRole(c)
	if userRole == domain.UserRoleAdmin || appointment.OwnerID == userID {
		return appointment, true
	}

	vet, err := h.services.Vet.GetByUserID(c.Request.Context(), userID)
	if err == nil && vet.ID == appointment.VetID {
		return appointment, true
	}

	h.logger.Warn("попытка несанкционированного доступа к записи", zap.Int64("userID", userID), zap.Int64("appointmentID", id))
	forbiddenResponse(c)
	return nil, false
}

// vetOwnsAppointment дополнительно требует, чтобы действие выполнял ветеринар записи.
func (h *Handler) vetOwnsAppointment(c *gin.Context, id int64) (*domain.Appointment, bool) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return nil, false
	}

	appointment, err := h.services.Appointment.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return nil, false
	}

	vet, err := h.services.Vet.GetByUserID(c.Request.Context(), userID)
	if err != nil || vet.ID != appointment.VetID {
		forbiddenResponse(c, "действие доступно только ветеринару записи")
		return nil, false
	}

	return appointment, true
}

// @Summary Получить запись по ID
// @Tags Записи
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} domain.Appointment "Данные записи"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /appointments/{id} [get]
func (h *Handler) getAppointmentByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	appointment, ok := h.appointmentAccess(c, id)
	if !ok {
		return
	}

	successResponse(c, http.StatusOK, appointment)
}

// @Summary Список записей
// @Description Возвращает записи с фильтрацией. Владелец видит свои записи, ветеринар — свои приемы.
// @Tags Записи
// @Produce json
// @Param limit query int false "Лимит (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Param status query string false "Статус записи"
// @Param pet_id query int false "ID питомца"
// @Param start_date query string false "Начальная дата (YYYY-MM-DD)"
// @Param end_date query string false "Конечная дата (YYYY-MM-DD)"
// @Success 200 {object} paginatedResponse "Список записей с пагинацией"
// @Failure 400 {object} errorResponseBody "Неизвестный статус"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /appointments [get]
func (h *Handler) getAppointments(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit, offset := paginationParams(c)

	filter := domain.AppointmentFilter{
		Limit:  limit,
		Offset: offset,
	}

	userRole, _ := getUserRole(c)
	switch userRole {
	case domain.UserRoleVet:
		vet, err := h.services.Vet.GetByUserID(c.Request.Context(), userID)
		if err != nil {
			domainErrorResponse(c, err)
			return
		}
		filter.VetID = &vet.ID
	case domain.UserRoleAdmin:
		if vetIDStr := c.Query("vet_id"); vetIDStr != "" {
			if vetID, err := strconv.ParseInt(vetIDStr, 10, 64); err == nil {
				filter.VetID = &vetID
			}
		}
		if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
			if ownerID, err := strconv.ParseInt(ownerIDStr, 10, 64); err == nil {
				filter.OwnerID = &ownerID
			}
		}
	default:
		filter.OwnerID = &userID
	}

	if petIDStr := c.Query("pet_id"); petIDStr != "" {
		if petID, err := strconv.ParseInt(petIDStr, 10, 64); err == nil {
			filter.PetID = &petID
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := domain.ParseAppointmentStatus(statusStr)
		if err != nil {
			domainErrorResponse(c, err)
			return
		}
		filter.Status = &status
	}

	if startDateStr := c.Query("start_date"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			filter.StartDate = &startDate
		}
	}

	if endDateStr := c.Query("end_date"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			endDate = endDate.Add(24*time.Hour - time.Second)
			filter.EndDate = &endDate
		}
	}

	appointments, total, err := h.services.Appointment.List(c.Request.Context(), filter)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	page := offset/limit + 1
	paginatedSuccessResponse(c, appointments, total, page, limit)
}

// @Summary Проверить доступность времени
// @Description Сообщает, свободно ли время у ветеринара с учетом буфера вокруг существующих записей
// @Tags Записи
// @Produce json
// @Param vet_id query int true "ID профиля ветеринара"
// @Param datetime query string true "Время (RFC3339)"
// @Success 200 {object} map[string]interface{} "Признак занятости"
// @Failure 400 {object} errorResponseBody "Неверные параметры"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /appointments/check [get]
func (h *Handler) checkAvailability(c *gin.Context) {
	vetID, err := strconv.ParseInt(c.Query("vet_id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат vet_id")
		return
	}

	at := c.Query("datetime")
	if at == "" {
		badRequestResponse(c, "параметр datetime обязателен")
		return
	}

	busy, err := h.services.Appointment.HasConflict(c.Request.Context(), vetID, at)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, gin.H{"available": !busy})
}

// @Summary Отменить запись
// @Description Отменяет запись. Доступно владельцу и ветеринару записи, завершенные записи отменить нельзя.
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.CancelAppointmentDTO false "Причина отмены"
// @Success 200 {object} messageResponseType "Сообщение об успешной отмене"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Запись уже в конечном статусе"
// @Security ApiKeyAuth
// @Router /appointments/{id} [delete]
func (h *Handler) cancelAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.appointmentAccess(c, id); !ok {
		return
	}

	var input domain.CancelAppointmentDTO
	_ = c.ShouldBindJSON(&input)

	if err := h.services.Appointment.Cancel(c.Request.Context(), id, input.Reason); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "запись успешно отменена")
}

// @Summary Подтвердить запись
// @Description Переводит запись в confirmed. Доступно только ветеринару записи.
// @Tags Записи
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Запись подтверждена"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Недопустимый переход статуса"
// @Security ApiKeyAuth
// @Router /appointments/{id}/confirm [post]
func (h *Handler) confirmAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.vetOwnsAppointment(c, id); !ok {
		return
	}

	if err := h.services.Appointment.Confirm(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "запись подтверждена")
}

// @Summary Отклонить запись
// @Description Переводит запись в rejected. Доступно только ветеринару записи.
// @Tags Записи
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} messageResponseType "Запись отклонена"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Недопустимый переход статуса"
// @Security ApiKeyAuth
// @Router /appointments/{id}/reject [post]
func (h *Handler) rejectAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.vetOwnsAppointment(c, id); !ok {
		return
	}

	if err := h.services.Appointment.Reject(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "запись отклонена")
}

// @Summary Перенести запись
// @Description Переносит запись на новое время. При конфликте прежнее время сохраняется.
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.RescheduleAppointmentDTO true "Новое время"
// @Success 200 {object} messageResponseType "Запись перенесена"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 409 {object} errorResponseBody "Новое время уже занято"
// @Failure 422 {object} errorResponseBody "Недопустимый переход статуса"
// @Security ApiKeyAuth
// @Router /appointments/{id}/reschedule [post]
func (h *Handler) rescheduleAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.appointmentAccess(c, id); !ok {
		return
	}

	var input domain.RescheduleAppointmentDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.Reschedule(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "запись перенесена")
}

// @Summary Завершить прием
// @Description Переводит подтвержденную прошедшую запись в completed. Доступно только ветеринару записи.
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.CompleteAppointmentDTO false "Итог приема"
// @Success 200 {object} messageResponseType "Прием завершен"
// @Failure 400 {object} errorResponseBody "Прием еще не начался"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Failure 422 {object} errorResponseBody "Недопустимый переход статуса"
// @Security ApiKeyAuth
// @Router /appointments/{id}/complete [post]
func (h *Handler) completeAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.vetOwnsAppointment(c, id); !ok {
		return
	}

	var input domain.CompleteAppointmentDTO
	_ = c.ShouldBindJSON(&input)

	if err := h.services.Appointment.Complete(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "прием завершен")
}

// @Summary Заметки ветеринара
// @Description Сохраняет внутренние заметки ветеринара по записи
// @Tags Записи
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.VetNotesDTO true "Текст заметок"
// @Success 200 {object} messageResponseType "Заметки сохранены"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /appointments/{id}/notes [put]
func (h *Handler) setAppointmentNotes(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if _, ok := h.vetOwnsAppointment(c, id); !ok {
		return
	}

	var input domain.VetNotesDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Appointment.SetVetNotes(c.Request.Context(), id, input.VetNotes); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "заметки сохранены")
}
