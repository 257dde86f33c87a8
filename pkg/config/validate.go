package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the struct tags of every section except radius.
//
// The radius section is deliberately lenient: problems there are reported by
// RadiusConfig.Diagnose and logged, not rejected. Use ValidateStrict to treat
// them as errors.
func Validate(cfg *Config) error {
	if err := getValidator().Struct(cfg); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed '%s' (value: %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// ValidateStrict runs Validate and RadiusConfig.Diagnose and combines their errors.
func ValidateStrict(cfg *Config) error {
	return multierr.Combine(Validate(cfg), cfg.Radius.Diagnose())
}
