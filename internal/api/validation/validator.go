// Package validation checks decoded request payloads against their
// `validate` struct tags and reports one translated message per field.
package validation

import (
	"customer-service/internal/pkg/apperrors"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	phoneNumberPattern = regexp.MustCompile(`^[0-9]{10,11}$`)
	postCodePattern    = regexp.MustCompile(`^[0-9]{7}$`)
)

type customRule struct {
	tag     string
	fn      validator.Func
	message string
}

var customRules = []customRule{
	{tag: "notblank", fn: validators.NotBlank, message: "{0} must not be blank"},
	{tag: "phone", fn: matches(phoneNumberPattern), message: "{0} must be 10 or 11 digits"},
	{tag: "postcode", fn: matches(postCodePattern), message: "{0} must be exactly 7 digits"},
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() (*Validator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, errors.New("missing en translations")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	for _, rule := range customRules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return nil, fmt.Errorf("failed to register %q validation: %w", rule.tag, err)
		}
		if err := validate.RegisterTranslation(rule.tag, trans, addTranslation(rule.tag, rule.message), translate(rule.tag)); err != nil {
			return nil, fmt.Errorf("failed to register %q translation: %w", rule.tag, err)
		}
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// Struct validates s and returns apperrors.ValidationErrors listing the
// first failed rule of every invalid field, in declaration order.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidArgument, err)
	}

	violations := make(apperrors.ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		violations = append(violations, &apperrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Translate(v.translator),
			Cause:   fe,
		})
	}
	return violations
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	}
}

func addTranslation(tag, message string) validator.RegisterTranslationsFunc {
	return func(trans ut.Translator) error {
		return trans.Add(tag, message, true)
	}
}

func translate(tag string) validator.TranslationFunc {
	return func(trans ut.Translator, fe validator.FieldError) string {
		msg, err := trans.T(tag, fe.Field())
		if err != nil {
			return fe.Error()
		}
		return msg
	}
}
