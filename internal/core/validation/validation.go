package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskapp/internal/core/domain"
)

// Issue is one failed rule on one field. Path is the dotted json path without the struct name.
type Issue struct {
	Path    string
	Message string
}

// Error is a shape validation failure. It matches domain.ErrValidation with errors.Is.
type Error struct {
	Summary string
	Issues  []Issue
}

func (e *Error) Error() string {
	return e.Summary
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrValidation
}

// ByPath groups messages by field path for form level display.
func (e *Error) ByPath() map[string][]string {
	grouped := make(map[string][]string, len(e.Issues))

	for _, issue := range e.Issues {
		grouped[issue.Path] = append(grouped[issue.Path], issue.Message)
	}

	return grouped
}

type Service struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewService() (*Service, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		if name == "" {
			return field.Name
		}

		return name
	})

	if err := validate.RegisterValidation("iso8601", isISO8601); err != nil {
		return nil, err
	}

	english := en.New()
	uni := ut.New(english, english)

	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	s := &Service{validate: validate, translator: translator}

	if err := s.addCustomTranslations(); err != nil {
		return nil, err
	}

	return s, nil
}

// MustNewService panics if the validator cannot be built. Used at wiring time.
func MustNewService() *Service {
	s, err := NewService()
	if err != nil {
		panic(err)
	}

	return s
}

// Validate checks the shape of a request struct. Rule failures come back as *Error; any other
// validator error, such as a non-struct argument, is returned as is.
func (s *Service) Validate(value any) error {
	err := s.validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	issues := make([]Issue, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		issues = append(issues, Issue{
			Path:    fieldPath(fe.Namespace()),
			Message: fe.Translate(s.translator),
		})
	}

	return &Error{Summary: summarize(issues), Issues: issues}
}

func (s *Service) addCustomTranslations() error {
	register := func(tag, text string) error {
		return s.validate.RegisterTranslation(tag, s.translator, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field(), fe.Param())
			return t
		})
	}

	return register("iso8601", "{0} must be an ISO-8601 date")
}

func isISO8601(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.RFC3339Nano, fl.Field().String())

	return err == nil
}

// fieldPath drops the leading struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}

	return namespace
}

func summarize(issues []Issue) string {
	if len(issues) == 1 {
		return fmt.Sprintf("validation failed: %s", issues[0].Message)
	}

	return fmt.Sprintf("validation failed with %d issues", len(issues))
}
