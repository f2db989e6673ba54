package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pawcare/internal/domain"
)

// @Summary Добавить питомца
// @Tags Питомцы
// @Accept json
// @Produce json
// @Param input body domain.CreatePetDTO true "Данные питомца"
// @Success 201 {object} map[string]interface{} "ID созданного питомца"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /pets [post]
func (h *Handler) createPet(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	var input domain.CreatePetDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	id, err := h.services.Pet.Create(c.Request.Context(), userID, input)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": id})
}

// @Summary Мои питомцы
// @Tags Питомцы
// @Produce json
// @Param limit query int false "Лимит (по умолчанию 20)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} successResponseBody "Список питомцев"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Security ApiKeyAuth
// @Router /pets [get]
func (h *Handler) getMyPets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	limit, offset := paginationParams(c)

	pets, err := h.services.Pet.ListByOwner(c.Request.Context(), userID, limit, offset)
	if err != nil {
		internalServerErrorResponse(c)
		return
	}

	successResponse(c, http.StatusOK, pets)
}

// @Summary Получить питомца по ID
// @Description Карточка питомца доступна владельцу, ветеринарам и админу
// @Tags Питомцы
// @Produce json
// @Param id path int true "ID питомца"
// @Success 200 {object} domain.Pet "Карточка питомца"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 403 {object} errorResponseBody "Доступ запрещен"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id} [get]
func (h *Handler) getPetByID(c *gin.Context) {
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

	pet, err := h.services.Pet.GetByID(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	userRole, _ := getUserRole(c)
	if pet.OwnerID != userID && userRole == domain.UserRoleOwner {
		forbiddenResponse(c)
		return
	}

	successResponse(c, http.StatusOK, pet)
}

// @Summary Обновить питомца
// @Tags Питомцы
// @Accept json
// @Produce json
// @Param id path int true "ID питомца"
// @Param input body domain.UpdatePetDTO true "Данные для обновления"
// @Success 200 {object} messageResponseType "Сообщение об успешном обновлении"
// @Failure 400 {object} errorResponseBody "Ошибка валидации"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id} [put]
func (h *Handler) updatePet(c *gin.Context) {
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

	var input domain.UpdatePetDTO
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("неверный формат данных", zap.Error(err))
		badRequestResponse(c, "неверный формат данных")
		return
	}

	if err := h.services.Pet.Update(c.Request.Context(), id, userID, input); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "данные питомца обновлены")
}

// @Summary Удалить питомца
// @Tags Питомцы
// @Produce json
// @Param id path int true "ID питомца"
// @Success 204 {object} nil "Питомец удален"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id} [delete]
func (h *Handler) deletePet(c *gin.Context) {
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

	if err := h.services.Pet.Delete(c.Request.Context(), id, userID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Загрузить фото питомца
// @Tags Питомцы
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID питомца"
// @Param photo formData file true "Файл изображения"
// @Success 200 {object} messageResponseType "Фото загружено"
// @Failure 400 {object} errorResponseBody "Некорректный файл"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id}/photo [post]
func (h *Handler) uploadPetPhoto(c *gin.Context) {
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

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	if err := h.services.Pet.UploadPhoto(c.Request.Context(), id, userID, data, filename); err != nil {
		domainErrorResponse(c, err)
		return
	}

	messageResponse(c, http.StatusOK, "фото успешно загружено")
}

// @Summary Удалить фото питомца
// @Tags Питомцы
// @Produce json
// @Param id path int true "ID питомца"
// @Success 204 {object} nil "Фото удалено"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id}/photo [delete]
func (h *Handler) deletePetPhoto(c *gin.Context) {
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

	if err := h.services.Pet.DeletePhoto(c.Request.Context(), id, userID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}

// @Summary Галерея питомца
// @Tags Питомцы
// @Produce json
// @Param id path int true "ID питомца"
// @Success 200 {object} successResponseBody "Фотографии питомца"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id}/gallery [get]
func (h *Handler) getPetGallery(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	images, err := h.services.Pet.GetGallery(c.Request.Context(), id)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	successResponse(c, http.StatusOK, images)
}

// @Summary Добавить фото в галерею
// @Tags Питомцы
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "ID питомца"
// @Param photo formData file true "Файл изображения"
// @Param caption formData string false "Подпись"
// @Success 201 {object} map[string]interface{} "ID добавленного фото"
// @Failure 400 {object} errorResponseBody "Некорректный файл"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Питомец не найден"
// @Security ApiKeyAuth
// @Router /pets/{id}/gallery [post]
func (h *Handler) addGalleryImage(c *gin.Context) {
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

	data, filename, ok := readUploadedFile(c)
	if !ok {
		return
	}

	caption := c.PostForm("caption")

	imageID, err := h.services.Pet.AddGalleryImage(c.Request.Context(), id, userID, data, filename, caption)
	if err != nil {
		domainErrorResponse(c, err)
		return
	}

	createdResponse(c, gin.H{"id": imageID})
}

// @Summary Удалить фото из галереи
// @Tags Питомцы
// @Produce json
// @Param imageId path int true "ID фото"
// @Success 204 {object} nil "Фото удалено"
// @Failure 400 {object} errorResponseBody "Неверный формат ID"
// @Failure 401 {object} errorResponseBody "Не авторизован"
// @Failure 404 {object} errorResponseBody "Фото не найдено"
// @Security ApiKeyAuth
// @Router /pets/gallery/{imageId} [delete]
func (h *Handler) deleteGalleryImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		unauthorizedResponse(c)
		return
	}

	imageID, err := strconv.ParseInt(c.Param("imageId"), 10, 64)
	if err != nil {
		badRequestResponse(c, "неверный формат ID")
		return
	}

	if err := h.services.Pet.DeleteGalleryImage(c.Request.Context(), imageID, userID); err != nil {
		domainErrorResponse(c, err)
		return
	}

	noContentResponse(c)
}
