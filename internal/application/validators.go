package application

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// versionPattern matches the dotted version stamps carried by catalog
// documents: 2 to 4 numeric components, e.g. "1.0.0" or "2024.10.1".
var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){1,3}$`)

// RegisterCatalogValidators registers the custom validation functions
// used by catalog document struct tags.
func RegisterCatalogValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("semver", validateVersionStamp); err != nil {
		return fmt.Errorf("failed to register semver validator: %w", err)
	}
	return nil
}

// validateVersionStamp checks the dotted-version format of catalog
// version stamps.
func validateVersionStamp(fl validator.FieldLevel) bool {
	return versionPattern.MatchString(fl.Field().String())
}
