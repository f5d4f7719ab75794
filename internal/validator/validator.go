package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LMS-F-2025/classroom-service/internal/models"
)

// Validator wraps go-playground/validator with domain-specific rules.
type Validator struct {
	validate *validator.Validate
}

// ValidationError describes a single failed field validation.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of field validation failures.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterValidation("enrollment_type", validateEnrollmentType)
	v.RegisterValidation("institute_role", validateInstituteRole)
	v.RegisterValidation("question_type", validateQuestionType)
	v.RegisterValidation("option_key", validateOptionKey)

	v.RegisterStructValidation(validateCreateClassroomRequest, CreateClassroomRequest{})
	v.RegisterStructValidation(validateAddQuestionRequest, AddQuestionRequest{})

	return &Validator{validate: v}
}

// Validate checks a struct against its validation tags and returns
// ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: messageFor(fe),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	case "enrollment_type":
		return fmt.Sprintf("%s must be one of public, password, request, paid, institute_only", fe.Field())
	case "institute_role":
		return fmt.Sprintf("%s must be one of owner, admin, teacher, student", fe.Field())
	case "question_type":
		return fmt.Sprintf("%s must be multiple_choice", fe.Field())
	case "option_key":
		return fmt.Sprintf("%s must be a single letter option key", fe.Field())
	case "access_code_required":
		return "access_code is required for password enrollment"
	case "correct_option_match":
		return "correct_option must match one of the option keys"
	default:
		return fmt.Sprintf("%s failed validation on %s", fe.Field(), fe.Tag())
	}
}

func validateEnrollmentType(fl validator.FieldLevel) bool {
	switch models.EnrollmentType(fl.Field().String()) {
	case models.EnrollmentPublic, models.EnrollmentPassword, models.EnrollmentRequest,
		models.EnrollmentPaid, models.EnrollmentInstituteOnly:
		return true
	}
	return false
}

func validateInstituteRole(fl validator.FieldLevel) bool {
	switch models.InstituteRole(fl.Field().String()) {
	case models.InstituteRoleOwner, models.InstituteRoleAdmin,
		models.InstituteRoleTeacher, models.InstituteRoleStudent:
		return true
	}
	return false
}

func validateQuestionType(fl validator.FieldLevel) bool {
	return fl.Field().String() == string(models.QuestionMultipleChoice)
}

func validateOptionKey(fl validator.FieldLevel) bool {
	key := fl.Field().String()
	if len(key) != 1 {
		return false
	}
	c := key[0]
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Password-protected classrooms must be created with an access code.
func validateCreateClassroomRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateClassroomRequest)
	if models.EnrollmentType(req.EnrollmentType) == models.EnrollmentPassword && req.AccessCode == "" {
		sl.ReportError(req.AccessCode, "AccessCode", "access_code", "access_code_required", "")
	}
}

// The correct option of a question must name one of its options.
func validateAddQuestionRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(AddQuestionRequest)
	for _, opt := range req.Options {
		if opt.Key == req.CorrectOption {
			return
		}
	}
	sl.ReportError(req.CorrectOption, "CorrectOption", "correct_option", "correct_option_match", "")
}
