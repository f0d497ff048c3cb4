package domain

// StaffAccount is a back-office account that can sign in and operate the
// system. Username is the key; username and email are unique
// case-insensitively. The password is compared in plain text, matching the
// storage format.
type StaffAccount struct {
	FullName string
	Username string
	Email    string
	Password string
}
