// Package validate описывает схемы тел запросов и проверяет их
// через go-playground/validator.
//
// Каждая схема — обычная структура с тегами validate. Ошибка проверки
// всегда оборачивает serr.ErrValidation и содержит текст первой
// нарушенной проверки, например:
//
//	validation failed: "name" length must be at least 3 characters long
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
)

// Register — схема POST /register.
type Register struct {
	Name           string `json:"name" validate:"required,min=3,max=30"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,alphanum,min=3,max=30"`
	RepeatPassword string `json:"repeat_password" validate:"required,eqfield=Password"`
}

// Login — схема POST /login.
type Login struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,alphanum,min=3,max=30"`
}

// Refresh — схема POST /refresh и POST /logout.
type Refresh struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Product — схема текстовых полей multipart-формы товара.
// Price приходит строкой из формы: десятичное число, в том числе ".5" и "1e3",
// после округления до копеек помещается в NUMERIC(12,2).
type Product struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required,decimal,price_range"`
	Size  string `json:"size" validate:"required"`
}

// MaxPrice — верхняя граница (не включительно) модуля цены для колонки NUMERIC(12,2).
const MaxPrice = 1e10

var errNotNumber = errors.New("not a number")

// ParsePrice разбирает цену из формы и округляет до двух знаков, как это сделает NUMERIC(12,2).
// Шестнадцатеричная запись, Inf и NaN числами не считаются.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xX_") {
		return 0, errNotNumber
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, errNotNumber
	}
	return math.Round(f*100) / 100, nil
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := ParsePrice(fl.Field().String())
	return err == nil
}

func inPriceRange(fl validator.FieldLevel) bool {
	f, err := ParsePrice(fl.Field().String())
	return err == nil && math.Abs(f) < MaxPrice
}

var (
	once sync.Once
	v    *validator.Validate
)

// instance лениво создаёт validator: он кэширует метаданные структур
// и безопасен для конкурентного использования.
func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("decimal", isDecimal)
		_ = v.RegisterValidation("price_range", inPriceRange)
		// в сообщениях используем имена из json-тегов
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return v
}

// Struct проверяет схему s.
//
// Возвращает nil, если все проверки пройдены, иначе ошибку,
// для которой errors.Is(err, serr.ErrValidation) == true.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return serr.Validation(message(verrs[0]))
	}
	// InvalidValidationError — ошибка программиста (передали не структуру)
	return fmt.Errorf("%w: %v", serr.ErrInternal, err)
}

// message переводит нарушение в человекочитаемый текст.
func message(fe validator.FieldError) string {
	field := fmt.Sprintf("%q", fe.Field())

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, fe.Param())
	case "email":
		return field + " must be a valid email"
	case "alphanum":
		return field + " must only contain alpha-numeric characters"
	case "decimal":
		return field + " must be a number"
	case "price_range":
		return field + " must be less than or equal to 9999999999.99"
	case "eqfield":
		return fmt.Sprintf("%s must match %q", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed on %q", field, fe.Tag())
	}
}
