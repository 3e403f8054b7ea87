package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/foodgram-backend/internal/platform/apierr"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return usernamePattern.MatchString(s) && !strings.EqualFold(s, "me")
	})
	_ = v.RegisterValidation("color6", func(fl validator.FieldLevel) bool {
		return hexColorPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// checkStruct runs the struct's validate tags and folds failures into one 400.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apierr.BadRequest("validation_error", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + ": this field is required"
	case "email":
		return field + ": enter a valid email address"
	case "username":
		return field + ": enter a valid username"
	case "color6":
		return field + ": enter a valid hex color such as #49B64E"
	case "slug":
		return field + ": enter a valid slug"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: ensure this field has no more than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: ensure this value is less than or equal to %s", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: ensure this field has at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s: ensure this value is greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Username  string `json:"username" validate:"required,max=150,username"`
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
	Password  string `json:"password" validate:"required,max=128"`
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (in *RegisterInput) normalize() {
	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

const minPasswordLength = 8

func validatePassword(field, pw string) error {
	if len([]rune(pw)) < minPasswordLength {
		return apierr.BadRequest("validation_error",
			fmt.Sprintf("%s: this password is too short, it must contain at least %d characters", field, minPasswordLength))
	}
	numeric := true
	for _, r := range pw {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return apierr.BadRequest("validation_error", field+": this password is entirely numeric")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
