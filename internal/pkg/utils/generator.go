package utils

import (
	"fmt"
	"healthfirst-service/internal/pkg/constvars"
	"strings"

	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

// GenerateBookingReference produces a short, human-quotable reference such as
// "BK-9F3A2C1D" for a confirmed booking.
func GenerateBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("BK-%s", strings.ToUpper(raw[:8]))
}
