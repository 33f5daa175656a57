// Package validation wraps go-playground/validator with JSON field names and
// English error messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fe[k])
	}
	return "invalid " + strings.Join(parts, "; ")
}

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	global *Validator
	once   sync.Once
)

// Global returns a lazily built shared validator.
func Global() *Validator {
	once.Do(func() {
		v, err := New()
		if err != nil {
			panic(fmt.Sprintf("validation: %v", err))
		}
		global = v
	})
	return global
}

// New builds a validator with English translations registered.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register translations: %w", err)
	}
	if err := registerMaxBytes(validate, trans); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, trans: trans}, nil
}

// Struct validates s. It returns FieldErrors for rule violations and the raw
// error for anything else, such as a non-struct argument.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Translate(v.trans)
	}
	return out
}

// registerMaxBytes adds a maxbytes=N rule that limits the encoded length of a
// string, unlike max which counts runes. bcrypt rejects passwords over 72 bytes.
func registerMaxBytes(validate *validator.Validate, trans ut.Translator) error {
	err := validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	if err != nil {
		return fmt.Errorf("failed to register maxbytes: %w", err)
	}

	err = validate.RegisterTranslation("maxbytes", trans,
		func(ut ut.Translator) error {
			return ut.Add("maxbytes", "{0} must be at most {1} bytes long", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T("maxbytes", fe.Field(), fe.Param())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
	if err != nil {
		return fmt.Errorf("failed to register maxbytes translation: %w", err)
	}
	return nil
}
