// Package validation wraps go-playground/validator with English messages,
// JSON field names and the custom tags used by request payloads.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/AnshRaj112/studio-backend/internal/models"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags
	notBlankTag     = "notblank"
	tierTag         = "tier"
	priorityTag     = "priority"
	feedbackTypeTag = "feedback_type"
	statusTag       = "request_status"
	slugTag         = "slug"

	slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(tierTag, oneOf(models.Tiers))
	_ = Validate.RegisterValidation(priorityTag, oneOf(models.Priorities))
	_ = Validate.RegisterValidation(feedbackTypeTag, oneOf(models.FeedbackTypes))
	_ = Validate.RegisterValidation(statusTag, oneOf(models.Statuses))
	_ = Validate.RegisterValidation(slugTag, func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	registerCustomTranslations(notBlankTag, tierTag, priorityTag, feedbackTypeTag, statusTag, slugTag)
}

// registerCustomTranslations registers messages for the custom tags. The
// registration func is a noop because the default translations are already
// registered on Translator.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = Validate.RegisterTranslation(tag, Translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return fe.Field() + " cannot be blank"
	case tierTag:
		return fe.Field() + " must be one of " + strings.Join(models.Tiers, ", ")
	case priorityTag:
		return fe.Field() + " must be one of " + strings.Join(models.Priorities, ", ")
	case feedbackTypeTag:
		return fe.Field() + " must be one of " + strings.Join(models.FeedbackTypes, ", ")
	case statusTag:
		return fe.Field() + " must be one of " + strings.Join(models.Statuses, ", ")
	case slugTag:
		return fe.Field() + " may only contain lowercase letters, digits and hyphens"
	}
	return fe.Field() + " is invalid"
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		for _, a := range allowed {
			if a == str {
				return true
			}
		}
		return false
	}
}

// Struct validates s and returns a field -> message map, or nil when valid.
// Errors other than validation failures are reported under the "_" key.
func Struct(s interface{}) map[string]string {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(Translator)
	}
	return fields
}

// First returns one message from a Struct result, preferring a stable order
// so responses are deterministic.
func First(fields map[string]string, order ...string) string {
	for _, k := range order {
		if msg, ok := fields[k]; ok {
			return msg
		}
	}
	best := ""
	for k := range fields {
		if best == "" || k < best {
			best = k
		}
	}
	return fields[best]
}
