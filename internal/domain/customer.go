package domain

// Customer is a renting customer. TaxID is the immutable primary key and
// must be exactly nine digits.
type Customer struct {
	TaxID    string
	FullName string
	Phone    string
	Email    string
}

// CustomerSearch holds optional search criteria; blank fields impose no
// filter, non-blank fields are case-insensitive substring matches.
type CustomerSearch struct {
	TaxID    string
	FullName string
	Phone    string
}
