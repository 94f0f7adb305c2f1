package exceptions

import (
	"healthfirst-service/internal/pkg/constvars"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CollectValidationErrors maps every violation to its field name so that all
// failures are reported together rather than short-circuiting on the first.
func CollectValidationErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		fields["request"] = constvars.ErrClientCannotProcessRequest
		return fields
	}

	for _, fieldErr := range validationErrors {
		fieldName := normalizeFieldName(fieldErr.Namespace())
		tag := fieldErr.Tag()
		message, known := constvars.CustomValidationErrorMessages[tag]
		if !known {
			message = "is invalid"
		}
		if constvars.TagsWithParams[tag] {
			if tag == "oneof" {
				message = strings.Replace(message, "%s", strings.Join(strings.Fields(fieldErr.Param()), ", "), 1)
			} else {
				message = strings.Replace(message, "%s", fieldErr.Param(), 1)
			}
		}
		if _, exists := fields[fieldName]; !exists {
			fields[fieldName] = message
		}
	}
	return fields
}

// normalizeFieldName strips the root struct name from the validator namespace
// and lowers the remaining path, e.g. "CreateAvailability.Location.Address"
// becomes "location.address".
func normalizeFieldName(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = toSnakeCase(p)
	}
	return strings.Join(parts, ".")
}

func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// Uppercase runs such as "ID" collapse into a single word.
			if i > 0 && (runes[i-1] < 'A' || runes[i-1] > 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
