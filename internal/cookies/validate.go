// internal/cookies/validate.go
package cookies

import "strings"

// TargetDomainSuffix scopes the "is this session still useful" checks.
const TargetDomainSuffix = "openai.com"

// sessionCookieNames are the cookies the chat site actually hangs an
// authenticated session on.
var sessionCookieNames = map[string]bool{
	"__Secure-next-auth.session-token": true,
	"puid":                             true,
}

// Defect describes a single cookie that failed validation.
type Defect struct {
	Index         int
	Name          string
	MissingFields []string
}

// Report summarizes a validation pass over a cookie list.
type Report struct {
	Total          int
	Valid          int
	Defects        []Defect
	DomainCookies  int
	SessionCookies int
}

// HasDomainCookies reports whether any cookie is scoped to the target site.
func (r Report) HasDomainCookies() bool { return r.DomainCookies > 0 }

// HasSessionCookies reports whether a known session cookie is present.
func (r Report) HasSessionCookies() bool { return r.SessionCookies > 0 }

// Validate classifies every cookie as usable or defective. It never
// mutates the input and a bad entry never stops the scan of the rest.
func Validate(list []Cookie) Report {
	report := Report{Total: len(list)}

	for i, c := range list {
		if missing := c.MissingFields(); len(missing) > 0 {
			report.Defects = append(report.Defects, Defect{
				Index:         i,
				Name:          c.Name,
				MissingFields: missing,
			})
			continue
		}
		report.Valid++

		if strings.HasSuffix(c.Domain, TargetDomainSuffix) {
			report.DomainCookies++
			if sessionCookieNames[c.Name] {
				report.SessionCookies++
			}
		}
	}
	return report
}
