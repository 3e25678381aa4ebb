package handler

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const pipeCodeTag = "pipecode"

// коды проектов, спецификаций и записей справочников: CL150, SCH-40, 1/2, 150#
var pipeCodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_./#-]*$`)

func validatePipeCode(fl validator.FieldLevel) bool {
	return pipeCodeRe.MatchString(fl.Field().String())
}

// RegisterValidators подключает собственные правила к валидатору gin.
// В ошибках поля называются по json-тегу.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	return v.RegisterValidation(pipeCodeTag, validatePipeCode)
}
