// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"paisabook/internal/models"
)

// msisdnRegex accepts E.164-style numbers with an optional leading plus.
// SMS gateways are inconsistent about the plus, so both forms are valid.
var msisdnRegex = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("budget_period", validateBudgetPeriod)
		_ = v.RegisterValidation("category_id", validateCategoryID)
		_ = v.RegisterValidation("msisdn", validateMSISDN)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateBudgetPeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "monthly", "yearly":
		return true
	}
	return false
}

func validateCategoryID(fl validator.FieldLevel) bool {
	return models.ValidCategoryID(int(fl.Field().Int()))
}

func validateMSISDN(fl validator.FieldLevel) bool {
	return msisdnRegex.MatchString(fl.Field().String())
}
