// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/models"
)

// maxCategoryLength bounds category labels shared by transactions, budgets and goals.
const maxCategoryLength = 64

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("goal_status", validateGoalStatus)
		_ = v.RegisterValidation("category_name", validateCategoryName)
	}
}

func validateGoalStatus(fl validator.FieldLevel) bool {
	return models.GoalStatus(fl.Field().String()).Valid()
}

// validateCategoryName accepts labels that are non-blank after trimming and
// no longer than maxCategoryLength runes.
func validateCategoryName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if strings.TrimSpace(s) == "" {
		return false
	}
	return utf8.RuneCountInString(s) <= maxCategoryLength
}
