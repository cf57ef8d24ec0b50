package types

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_USER    = "user"
	UUID_PREFIX_CLIENT  = "cust"
	UUID_PREFIX_PRODUCT = "prod"
	UUID_PREFIX_INVOICE = "inv"
)

// GenerateUUID returns a lowercase ULID. ULIDs are time-sortable which keeps
// list queries in rough creation order without a separate sort field.
func GenerateUUID() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String())
}

// GenerateUUIDWithPrefix returns a ULID prefixed with the entity short code,
// ex: inv_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
