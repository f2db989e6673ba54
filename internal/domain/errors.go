package domain

import "errors"

// Ошибки доменного уровня. Сервисы оборачивают их через %w,
// транспортный слой сопоставляет с HTTP-статусами.
var (
	ErrNotFound          = errors.New("объект не найден")
	ErrConflict          = errors.New("конфликт времени записи")
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
	ErrValidation        = errors.New("ошибка валидации")
	ErrForbidden         = errors.New("доступ запрещен")
)
