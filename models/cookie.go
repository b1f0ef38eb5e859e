package models

import "strings"

// CookieColumns is the exact column order of every persisted cookie table.
var CookieColumns = []string{"Domain", "cookie_domain", "name", "value"}

// CookieRecord is the normalized four-field representation of one browser
// cookie. Build it with NewCookieRecord so the domain invariants hold.
type CookieRecord struct {
	// Domain is the cookie domain without any leading dot.
	Domain string

	// CookieDomain is Domain with exactly one leading dot, or "" when Domain is "".
	CookieDomain string

	Name  string
	Value string
}

// NewCookieRecord normalizes a raw cookie domain and builds a record.
func NewCookieRecord(rawDomain, name, value string) CookieRecord {
	domain := strings.TrimLeft(rawDomain, ".")
	cookieDomain := ""
	if domain != "" {
		cookieDomain = "." + domain
	}
	return CookieRecord{
		Domain:       domain,
		CookieDomain: cookieDomain,
		Name:         name,
		Value:        value,
	}
}

// Row returns the record's fields in CookieColumns order.
func (r CookieRecord) Row() []string {
	return []string{r.Domain, r.CookieDomain, r.Name, r.Value}
}

// CookieBatch is the ordered sequence of records accumulated over one run.
type CookieBatch []CookieRecord

// Append adds records in order and returns the extended batch.
func (b CookieBatch) Append(records ...CookieRecord) CookieBatch {
	return append(b, records...)
}
