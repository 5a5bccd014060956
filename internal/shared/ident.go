package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier such as "TRX4F2A9C1D0". The suffix is
// nine characters drawn from a fresh UUID, uppercased, which keeps ids short
// enough for receipts while staying unique in practice.
func NewID(prefix string) string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + raw[:9]
}
