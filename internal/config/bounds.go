package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// CheckBounds reports values outside the documented input ranges. The engine
// accepts them; callers decide whether to warn or reject.
func CheckBounds(fc *FileConfig) []string {
	validate := validator.New()
	err := validate.Struct(fc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	violations := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fmt.Sprintf("%s = %v violates %s=%s", fe.Namespace(), fe.Value(), fe.Tag(), fe.Param()))
	}
	return violations
}
