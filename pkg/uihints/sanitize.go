package uihints

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// helpTextPolicy allows the small amount of inline markup help text may
// carry and strips everything else. Schema text comes from a generator
// whose output is untrusted.
func helpTextPolicy() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowURLSchemes("http", "https", "mailto")
		policy.RequireNoFollowOnLinks(true)
		helpPolicy = policy
	})
	return helpPolicy
}

// SanitizeHelpText cleans generator-supplied descriptions and help text
// for direct HTML insertion.
func SanitizeHelpText(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(helpTextPolicy().Sanitize(raw))
}
