package helper

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"

	"madrasa_backend/internals/helpers/apperr"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag = "notblank"
	hhmmTag     = "hhmm"

	hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(Validate, Translator)

	// pakai nama field JSON di pesan error
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return true
	})
	_ = Validate.RegisterValidation(hhmmTag, func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{notBlankTag, hhmmTag} {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case hhmmTag:
		return fe.Field() + " must be a time in HH:MM format"
	}
	return fe.Error()
}

// ValidateStruct: nil kalau valid; selain itu *apperr.Error (400) berisi
// pesan aturan pertama yang dilanggar.
func ValidateStruct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return apperr.Validation(ve[0].Translate(Translator))
	}
	return apperr.Validation("invalid input")
}

// BindAndValidate: parse body JSON lalu validasi.
func BindAndValidate(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.Validation("invalid request body")
	}
	return ValidateStruct(dst)
}
