// Package validator holds the input schemas for users and expenses and the
// custom rules registered with go-playground/validator and Gin's binding engine.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apperrors "expensetracker/internal/errors"
	"expensetracker/internal/models"
)

// now is swapped in tests that need a fixed clock.
var now = time.Now

var (
	validate *validator.Validate
	initOnce sync.Once
)

// Register registers the custom validators with the Gin binding engine so
// query and form structs can use them in `binding` tags.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerCustom(v)
	}
}

func engine() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		registerCustom(validate)
	})
	return validate
}

func registerCustom(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("expense_category", validateExpenseCategory)
	_ = v.RegisterValidation("notfuture", validateNotFuture)
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.ExpenseCategory(fl.Field().String()).IsValid()
}

func validateNotFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return !t.After(now())
}

// check runs struct validation and folds every failing field into one
// VALIDATION_ERROR.
func check(input any) error {
	err := engine().Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidationErrors(verrs)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func fromValidationErrors(verrs validator.ValidationErrors) *apperrors.AppError {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperrors.Validation(msgs...)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "email":
		return field + " must be a valid email address"
	case "uuid":
		return field + " must be a valid id"
	case "expense_category":
		return field + " must be one of: " + categoryList()
	case "notfuture":
		return field + " cannot be in the future"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int32, reflect.Int64:
		return "number"
	default:
		return k.String()
	}
}

func categoryList() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// BindingError converts a Gin bind failure into a client-facing AppError.
func BindingError(err error) *apperrors.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fromValidationErrors(verrs)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation(typeMessage(typeErr))
	}

	var timeErr *time.ParseError
	if errors.As(err, &timeErr) {
		return apperrors.WithMessage(apperrors.ErrValidation, "date must be an RFC 3339 timestamp")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "malformed JSON body")
	}

	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// BodyError is BindingError for JSON request bodies. encoding/json keeps
// decoding past a type mismatch, so the other fields of partial are
// validated too and every problem is reported together.
func BodyError(err error, partial any) *apperrors.AppError {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return BindingError(err)
	}

	msgs := []string{typeMessage(typeErr)}
	var verrs validator.ValidationErrors
	if errors.As(validatePartial(partial), &verrs) {
		for _, fe := range verrs {
			// The mistyped field was left zero; its "required" is noise.
			if fe.Field() != typeErr.Field {
				msgs = append(msgs, fieldMessage(fe))
			}
		}
	}
	return apperrors.Validation(msgs...)
}

func typeMessage(typeErr *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%s must be a %s", typeErr.Field, kindName(typeErr.Type.Kind()))
}

// validatePartial runs the raw struct rules after the same normalization the
// services apply, returning the validator's own error.
func validatePartial(partial any) error {
	switch in := partial.(type) {
	case *CreateUserInput:
		n := *in
		n.Name = strings.TrimSpace(n.Name)
		n.Email = NormalizeEmail(n.Email)
		return engine().Struct(n)
	case *CreateExpenseInput:
		n := *in
		n.UserID = strings.ToLower(strings.TrimSpace(n.UserID))
		n.Title = strings.TrimSpace(n.Title)
		return engine().Struct(n)
	case *UpdateUserInput:
		n := *in
		n.Name = trimPtr(n.Name)
		return engine().Struct(n)
	case *UpdateExpenseInput:
		n := *in
		n.Title = trimPtr(n.Title)
		return engine().Struct(n)
	default:
		return engine().Struct(partial)
	}
}
