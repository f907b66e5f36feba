package model

import "strings"

// Institution tags the bank an account is held at.
type Institution string

const (
	InstitutionASN  Institution = "asn"
	InstitutionBunq Institution = "bunq"
)

// ParseInstitution normalizes a configured institution tag.
func ParseInstitution(s string) Institution {
	return Institution(strings.ToLower(strings.TrimSpace(s)))
}

// ParseCurrency normalizes an ISO 4217 code, e.g. " eur" -> "EUR".
func ParseCurrency(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Account is a ledger account known ahead of time, keyed by its external id.
type Account struct {
	Ledger      string // beancount account name, e.g. "Assets:ASN:Checking"
	ExternalID  string // IBAN or other bank-side identifier
	Currency    string
	Institution Institution
	Aliases     []string // extra lookup keys, e.g. "bunq:1234"
	FileMatch   string   // regexp with (?P<id>) and (?P<end_date>) groups
}

// ScopedKey returns the institution-scoped lookup key for id.
func ScopedKey(inst Institution, id string) string {
	return string(inst) + ":" + id
}
