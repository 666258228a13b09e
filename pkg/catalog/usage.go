package catalog

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/pcc/pkg/types"
)

// UsageFormat customizes FormatUsage.
type UsageFormat struct {
	// Unused is returned for a dependency nobody declares.
	Unused string
	// Abbreviate renders three or more consumers from the first two and
	// the number of remaining ones.
	Abbreviate func(firstTwo string, others int) string
}

// DefaultUsageFormat is used when FormatUsage gets a zero UsageFormat.
var DefaultUsageFormat = UsageFormat{
	Unused: "unused",
	Abbreviate: func(firstTwo string, others int) string {
		noun := "packages"
		if others == 1 {
			noun = "package"
		}
		return fmt.Sprintf("%s and %d other %s", firstTwo, others, noun)
	},
}

// FormatUsage describes who consumes dep: the Unused text, the one or two
// consumer names, or the first two plus a count.
func FormatUsage(index types.UsageIndex, dep string, format UsageFormat) string {
	if format.Unused == "" {
		format.Unused = DefaultUsageFormat.Unused
	}
	if format.Abbreviate == nil {
		format.Abbreviate = DefaultUsageFormat.Abbreviate
	}

	users := index.Consumers(dep)
	switch {
	case len(users) == 0:
		return format.Unused
	case len(users) < 3:
		return strings.Join(users, ", ")
	default:
		return format.Abbreviate(strings.Join(users[:2], ", "), len(users)-2)
	}
}
