package render

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Coarse shape check only, the service parses payload itself
var verifyPayloadRe = regexp.MustCompile(`^verify-[1-9][0-9]*-[A-Za-z0-9]+$`)

func configureValidator(validate *validator.Validate) {
	_ = validate.RegisterValidation("verify_payload", validateVerifyPayload)
	validate.RegisterTagNameFunc(useJSONTagNames)
}

// Return on 'TagName' json tag instead of struct name
// Look at documentation of 'RegisterTagNameFunc' for more details
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}

func validateVerifyPayload(fl validator.FieldLevel) bool {
	return verifyPayloadRe.MatchString(fl.Field().String())
}
