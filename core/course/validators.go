package course

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edumentor/edumentor/core"
)

var (
	levelTag  = "courselevel"
	levelText = "level must be one of: " + strings.Join(AllLevels, ", ")
)

// InitValidators registers the course validations & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(levelTag, core.OneOfValidation(AllLevels...))
	core.RegisterCustomTranslation(validate, translator, levelTag, levelText)
}
