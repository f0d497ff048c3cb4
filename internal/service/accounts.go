package service

import (
	"strings"

	"github.com/yourorg/fleetrental/internal/domain"
)

// AddAccount validates and inserts a new staff account. Username and email
// must be unique case-insensitively across the collection.
func (s *RentalService) AddAccount(a domain.StaffAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("add account", err)
	}
	if isBlank(a.FullName) {
		return s.rejected("add account", domain.Validationf("full name is required"))
	}
	if isBlank(a.Username) {
		return s.rejected("add account", domain.Validationf("username is required"))
	}
	if isBlank(a.Email) {
		return s.rejected("add account", domain.Validationf("email is required"))
	}
	if isBlank(a.Password) {
		return s.rejected("add account", domain.Validationf("password is required"))
	}
	if !strings.Contains(a.Email, "@") {
		return s.rejected("add account", domain.Validationf("invalid email"))
	}
	for _, existing := range s.accounts {
		if strings.EqualFold(existing.Username, a.Username) {
			return s.rejected("add account", domain.Validationf("username already in use"))
		}
		if strings.EqualFold(existing.Email, a.Email) {
			return s.rejected("add account", domain.Validationf("email already in use"))
		}
	}

	s.accounts = append(s.accounts, a)
	if err := s.store.SaveAccounts(s.accounts); err != nil {
		return err
	}
	s.auditor.LogAction(actor.Username, "add", "account", a.Username, "ok", a.FullName)
	return nil
}

// DeleteAccount removes a staff account. The signed-in account cannot
// delete itself.
func (s *RentalService) DeleteAccount(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("delete account", err)
	}
	if isBlank(username) {
		return s.rejected("delete account", domain.Validationf("username is required"))
	}
	if strings.EqualFold(actor.Username, username) {
		return s.rejected("delete account", domain.Validationf("cannot delete the account that is currently signed in"))
	}

	removed := false
	kept := s.accounts[:0]
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			removed = true
			continue
		}
		kept = append(kept, a)
	}
	if !removed {
		return s.rejected("delete account", domain.Validationf("account not found"))
	}
	s.accounts = kept

	if err := s.store.SaveAccounts(s.accounts); err != nil {
		return err
	}
	s.auditor.LogAction(actor.Username, "delete", "account", username, "ok", "")
	return nil
}

// FindAccountByUsername looks an account up case-insensitively.
func (s *RentalService) FindAccountByUsername(username string) (domain.StaffAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := strings.TrimSpace(username)
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, target) {
			return a, true
		}
	}
	return domain.StaffAccount{}, false
}
