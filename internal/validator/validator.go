// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"drebuilder/internal/dre"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("item_type", validateItemType)
		_ = v.RegisterValidation("month_key", validateMonthKey)
	}
}

func validateItemType(fl validator.FieldLevel) bool {
	return dre.ItemType(fl.Field().String()).Valid()
}

func validateMonthKey(fl validator.FieldLevel) bool {
	_, ok := dre.ParseMonth(fl.Field().String())
	return ok
}
