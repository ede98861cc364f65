package validator

import (
	"log"

	"cargolink_backend/internal/matching"
	"cargolink_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила валидации.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила — ошибка времени запуска
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль пользователя из statuses.go
	mustRegister("is-user-role", validateUserRole)

	// 'flexdate': дата в одном из принимаемых форматов
	mustRegister("flexdate", validateFlexibleDate)

	// 'is-notification-type': известный вид уведомления
	mustRegister("is-notification-type", validateNotificationType)
}

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	switch models.UserRole(value) {
	case models.UserRoleShipper, models.UserRoleCarrier, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateFlexibleDate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := matching.ParseFlexibleDate(value)
	return err == nil
}

func validateNotificationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.NotificationType(value).Valid()
}
