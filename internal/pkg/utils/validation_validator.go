package utils

import (
	"healthfirst-service/internal/pkg/constvars"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	regexDate = regexp.MustCompile(constvars.RegexDateYYYYMMDD)
	regexHHMM = regexp.MustCompile(constvars.RegexTimeHHMM)
)

func init() {
	validate = validator.New()
	// report violations under the json field name clients actually sent
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	validate.RegisterValidation("time_hhmm", validateClockHHMM)
	validate.RegisterValidation("iso_date", validateISODate)
	validate.RegisterValidation("iana_tz", validateIANATimezone)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateClockHHMM(fl validator.FieldLevel) bool {
	return regexHHMM.MatchString(fl.Field().String())
}

// validateISODate requires the YYYY-MM-DD shape and a real calendar date,
// so 2024-02-30 fails even though it matches the pattern.
func validateISODate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if !regexDate.MatchString(value) {
		return false
	}
	_, err := time.Parse(constvars.DateLayoutYYYYMMDD, value)
	return err == nil
}

func validateIANATimezone(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || name == "Local" {
		return false
	}
	_, err := time.LoadLocation(name)
	return err == nil
}
