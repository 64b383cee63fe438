package market

// Country is an ISO 3166-1 alpha-2 country code
type Country string

// Supported countries, XX is used for venues without a jurisdiction
const (
	KR Country = "KR"
	US Country = "US"
	JP Country = "JP"
	XX Country = "XX"
)

// String implements the stringer interface
func (c Country) String() string {
	return string(c)
}
