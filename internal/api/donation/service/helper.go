package donationService

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultPaymentMethod = "QRIS"

// generateOrderID builds DON-{YYYYMMDDHHMMSS}-{firstNameLower}. Resolution is
// one second; donors sharing a first name token can collide within the same
// second, which is an accepted property of the format (it is embedded in the
// front-end callback URL).
func generateOrderID(donorName string, now time.Time) string {
	return fmt.Sprintf("DON-%s-%s", now.Format("20060102150405"), firstNameToken(donorName))
}

func generateTransactionID() string {
	return "TXN-" + uuid.NewString()
}

func firstNameToken(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "donor"
	}
	return strings.ToLower(fields[0])
}
