package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/teris-io/shortid"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return ulid.Make().String()
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a prefix ex inv_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

var (
	sidGenerator *shortid.Shortid
	once         sync.Once
)

func initializeSID() {
	var err error
	sidGenerator, err = shortid.New(1, shortid.DefaultABC, 2342)
	if err != nil {
		panic("failed to initialize shortid generator: " + err.Error())
	}
}

// GenerateShortIDWithPrefix returns a short human-facing ID with a prefix,
// capped at 12 characters, e.g. `FT-XYZ12A8Q` for invoice numbers.
func GenerateShortIDWithPrefix(prefix string) string {
	once.Do(initializeSID)

	id, err := sidGenerator.Generate()
	if err != nil {
		return ""
	}
	id = strings.ReplaceAll(id, "-", "")

	availableLen := 12 - len(prefix)
	if availableLen <= 0 {
		return ""
	}

	if len(id) > availableLen {
		id = id[:availableLen]
	}

	return strings.ToUpper(fmt.Sprintf("%s%s", prefix, id))
}

const (
	// Prefixes for all domains and entities

	UUID_PREFIX_ACCOUNT              = "acc"
	UUID_PREFIX_GROUP                = "grp"
	UUID_PREFIX_RECURRENCE           = "rec"
	UUID_PREFIX_SPLIT_RULE           = "sr"
	UUID_PREFIX_PAYMENT_RULE         = "pr"
	UUID_PREFIX_END_USER             = "eu"
	UUID_PREFIX_CHARGE               = "chg"
	UUID_PREFIX_INVOICE              = "inv"
	UUID_PREFIX_PAYMENT_INFO         = "pi"
	UUID_PREFIX_HOLIDAY              = "hol"
	UUID_PREFIX_NOTIFICATION_SETTING = "ns"
	UUID_PREFIX_SCHEDULED_JOB        = "job"
)

const (
	SHORT_ID_PREFIX_INVOICE = "FT-"
)
