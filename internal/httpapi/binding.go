package httpapi

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const minPasswordLen = 5

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators installs the custom rules on gin's validator engine and
// makes field errors report JSON names. It is safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("httpapi: unexpected validator engine")
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		registerErr = v.RegisterValidation("password", validPassword)
	})
	return registerErr
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// validPassword requires at least five characters with one lowercase and
// one uppercase letter.
func validPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) < minPasswordLen {
		return false
	}
	var lower, upper bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	return lower && upper
}

type fieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// bindJSON decodes and validates the body into dst. On failure it writes the
// response and reports false: 422 with per-field errors for rule
// violations, 400 for a body that is not valid JSON.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if errors.Is(err, io.EOF) {
		// An empty body is an empty object: report the missing fields.
		err = binding.Validator.ValidateStruct(dst)
	}
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, fieldError{Field: fe.Field(), Msg: fieldMessage(fe)})
		}
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"errors": out})
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"msg": "invalid request body"})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "invalid email"
	case "min":
		return fe.Field() + " is too short"
	case "max":
		return fe.Field() + " is too long"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "password":
		return "password should contain at least 5 characters, 1 uppercase and 1 lowercase"
	default:
		return fe.Field() + " is invalid"
	}
}
