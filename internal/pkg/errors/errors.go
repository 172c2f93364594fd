package errors

import "errors"

// Общие ошибки приложения
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется для ошибок авторизации (неверный токен, нет прав).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда у пользователя недостаточно прав для действия.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrConflict используется для конфликтов состояния (например, повторная оценка постера тем же судьей).
	ErrConflict = errors.New("resource state conflict")

	// ErrInvalidConfiguration используется, когда критерии мероприятия некорректны
	// (сумма весов равна нулю, отрицательные веса, неизвестный формат).
	ErrInvalidConfiguration = errors.New("invalid event configuration")
)
