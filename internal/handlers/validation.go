package handlers

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validationsOnce sync.Once
	validationsErr  error
)

// registerValidations adds the custom tags used by request DTOs to gin's
// validator. A DTO carrying an unregistered tag makes the validator panic on
// every request, so the error is reported rather than dropped.
func registerValidations() error {
	validationsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validationsErr = fmt.Errorf("binding validator engine is %T, not *validator.Validate", binding.Validator.Engine())
			return
		}
		if err := v.RegisterValidation("pathsafe", pathSafe); err != nil {
			validationsErr = fmt.Errorf("register pathsafe validation: %w", err)
		}
	})
	return validationsErr
}

// pathSafe accepts strings usable as a single directory name.
func pathSafe(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}
