package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawcare/internal/domain"
)

// @Summary Создать медицинскую запись
// @Description Добавляет запись в медицинскую карту питомца. Доступно только ветеринарам.
// @Tags Медкарта
// @Accept json
// @Produce json
// @Param input body domain.CreateMedicalRecordDTO true "Данные записи"
// @Success 201 {object} map[string]interface{} "ID созданной записи"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /medical-records [post]
func (h *Handler) createMedicalRecord(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	vet, err := h.services.Vet.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		forbiddenResponse(c, "профиль ветеринара не найден")
		return
	}

	var input domain.CreateMedicalRecordDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.MedicalRecord.Create(c.Request.Context(), vet.ID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// @Summary Получить медицинскую запись
// @Tags Медкарта
// @Produce json
// @Param id path int true "ID записи"
// @Success 200 {object} domain.MedicalRecord "Медицинская запись"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /medical-records/{id} [get]
func (h *Handler) getMedicalRecordByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	record, err := h.services.MedicalRecord.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	// владелец питомца видит записи своей карты, ветеринары и админ — любые
	userRole, _ := getUserRole(c)
	if userRole == domain.UserRoleOwner {
		pet, err := h.services.Pet.GetByID(c.Request.Context(), record.PetID)
		if err != nil || pet.OwnerID != userID {
			forbiddenResponse(c)
			return
		}
	}

	successResponse(c, http.StatusOK, record)
}

// @Summary Список медицинских записей
// @Description Возвращает записи медкарты с фильтрацией по питомцу и ветеринару
// @Tags Медкарта
// @Produce json
// @Param pet_id query int false "ID питомца"
// @Param vet_id query int false "ID профиля ветеринара"
// @Param limit query int false "Лимит (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} paginatedResponse "Список записей с пагинацией"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Security ApiKeyAuth
// @Router /medical-records [get]
func (h *Handler) getMedicalRecords(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit, offset := paginationParams(c)

	filter := domain.MedicalRecordFilter{
		Limit:  limit,
		Offset: offset,
	}

	if petIDStr := c.Query("pet_id"); petIDStr != "" {
		if petID, err := strconv.ParseInt(petIDStr, 10, 64); err == nil {
			filter.PetID = &petID
		}
	}

	if vetIDStr := c.Query("vet_id"); vetIDStr != "" {
		if vetID, err := strconv.ParseInt(vetIDStr, 10, 64); err == nil {
			filter.VetID = &vetID
		}
	}

	// владелец может смотреть только карту собственного питомца
	userRole, _ := getUserRole(c)
	if userRole == domain.UserRoleOwner {
		if filter.PetID == nil {
			badRequestResponse(c, "параметр pet_id обязателен")
			return
		}
		pet, err := h.services.Pet.GetByID(c.Request.Context(), *filter.PetID)
		if err != nil || pet.OwnerID != userID {
			forbiddenResponse(c)
			return
		}
	}

	records, total, err := h.services.MedicalRecord.List(c.Request.Context(), filter)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	page := offset/limit + 1
	paginatedSuccessResponse(c, records, total, page, limit)
}

// @Summary Обновить медицинскую запись
// @Description Обновляет запись медкарты. Доступно только ее автору.
// @Tags Медкарта
// @Accept json
// @Produce json
// @Param id path int true "ID записи"
// @Param input body domain.UpdateMedicalRecordDTO true "Данные для обновления"
// @Success 200 {object} messageResponseType "Запись обновлена"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /medical-records/{id} [put]
func (h *Handler) updateMedicalRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.ownsMedicalRecord(c, id) {
		return
	}

	var input domain.UpdateMedicalRecordDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.MedicalRecord.Update(c.Request.Context(), id, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "запись обновлена")
}

// @Summary Удалить медицинскую запись
// @Description Удаляет запись медкарты. Доступно только ее автору.
// @Tags Медкарта
// @Produce json
// @Param id path int true "ID записи"
// @Success 204 {object} nil "Запись удалена"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Запись не найдена"
// @Security ApiKeyAuth
// @Router /medical-records/{id} [delete]
func (h *Handler) deleteMedicalRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if !h.ownsMedicalRecord(c, id) {
		return
	}

	if err := h.services.MedicalRecord.Delete(c.Request.Context(), id); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

func (h *Handler) ownsMedicalRecord(c *gin.Context, id int64) bool {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return false
	}

	record, err := h.services.MedicalRecord.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return false
	}

	vet, err := h.services.Vet.GetByUserID(c.Request.Context(), userID)
	if err != nil || vet.ID != record.VetID {
		forbiddenResponse(c, "запись может изменять только ее автор")
		return false
	}

	return true
}
