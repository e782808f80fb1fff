// Package validate проверяет DTO запросов по тегам `validate`
package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-ScheduleService/internal/domain"
)

var validate = validator.New()

func init() {
	_ = validate.RegisterValidation("capacity_action", func(fl validator.FieldLevel) bool {
		return domain.CapacityAction(fl.Field().String()).Valid()
	})
	_ = validate.RegisterValidation("batch_id", func(fl validator.FieldLevel) bool {
		_, _, err := domain.ParseBatchID(fl.Field().String())
		return err == nil
	})
}

// Struct проверяет структуру и возвращает ошибку с перечнем нарушений в человекочитаемом виде
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, describe(fe))
	}
	return errors.New(strings.Join(messages, "; "))
}

// Var проверяет одиночное значение по тегу
func Var(value interface{}, tag string) error {
	return validate.Var(value, tag)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "gt", "gte", "min":
		return fmt.Sprintf("%s must be %s %s", fe.Field(), comparison(fe.Tag()), fe.Param())
	case "capacity_action":
		return fmt.Sprintf("%s must be one of set, increase, decrease", fe.Field())
	case "batch_id":
		return fmt.Sprintf("%s must look like <day>:<slot>", fe.Field())
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}

func comparison(tag string) string {
	if tag == "gt" {
		return "greater than"
	}
	return "at least"
}
