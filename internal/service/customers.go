package service

import (
	"regexp"
	"slices"
	"strings"

	"github.com/yourorg/fleetrental/internal/domain"
)

var taxIDPattern = regexp.MustCompile(`^\d{9}$`)

// AddCustomer validates and inserts a new customer.
func (s *RentalService) AddCustomer(c domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("add customer", err)
	}
	if err := s.validateCustomer(c); err != nil {
		return s.rejected("add customer", err)
	}
	for _, existing := range s.customers {
		if existing.TaxID == c.TaxID {
			return s.rejected("add customer", domain.Validationf("a customer with this tax id already exists"))
		}
	}

	s.customers = append(s.customers, c)
	if err := s.store.SaveCustomers(s.customers); err != nil {
		return err
	}
	s.invalidateSearches()
	s.auditor.LogAction(actor.Username, "add", "customer", c.TaxID, "ok", c.FullName)
	return nil
}

// UpdateCustomer replaces the mutable fields of an existing customer. The
// tax id is the key and cannot change, so uniqueness is not re-checked.
func (s *RentalService) UpdateCustomer(c domain.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, err := s.requireSession()
	if err != nil {
		return s.rejected("update customer", err)
	}
	if err := s.validateCustomer(c); err != nil {
		return s.rejected("update customer", err)
	}
	i := s.customerIndex(c.TaxID)
	if i < 0 {
		return s.rejected("update customer", domain.Validationf("customer not found"))
	}

	s.customers[i] = c
	if err := s.store.SaveCustomers(s.customers); err != nil {
		return err
	}
	s.invalidateSearches()
	s.auditor.LogAction(actor.Username, "update", "customer", c.TaxID, "ok", c.FullName)
	return nil
}

// validateCustomer applies the customer field rules in order.
func (s *RentalService) validateCustomer(c domain.Customer) error {
	if isBlank(c.TaxID) {
		return domain.Validationf("tax id is required")
	}
	if !taxIDPattern.MatchString(c.TaxID) {
		return domain.Validationf("tax id must be exactly 9 digits")
	}
	if isBlank(c.FullName) {
		return domain.Validationf("full name is required")
	}
	if isBlank(c.Phone) {
		return domain.Validationf("phone is required")
	}
	if isBlank(c.Email) {
		return domain.Validationf("email is required")
	}
	if !strings.Contains(c.Email, "@") {
		return domain.Validationf("invalid email")
	}
	return nil
}

// SearchCustomers filters customers by optional case-insensitive substring
// criteria, ANDed together. Results preserve collection order.
func (s *RentalService) SearchCustomers(q domain.CustomerSearch) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := customerSearchKey(q)
	if hit, ok := s.customerSearches.Get(key); ok {
		return slices.Clone(hit)
	}

	var out []domain.Customer
	for _, c := range s.customers {
		if !isBlank(q.TaxID) && !containsFold(c.TaxID, q.TaxID) {
			continue
		}
		if !isBlank(q.FullName) && !containsFold(c.FullName, q.FullName) {
			continue
		}
		if !isBlank(q.Phone) && !containsFold(c.Phone, q.Phone) {
			continue
		}
		out = append(out, c)
	}

	s.customerSearches.Set(key, slices.Clone(out), s.searchTTL)
	return out
}

func customerSearchKey(q domain.CustomerSearch) string {
	parts := []string{q.TaxID, q.FullName, q.Phone}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(parts, "\x1f")
}

// FindCustomerByTaxID looks a customer up by the exact (trimmed) tax id.
func (s *RentalService) FindCustomerByTaxID(taxID string) (domain.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.customerIndex(strings.TrimSpace(taxID)); i >= 0 {
		return s.customers[i], true
	}
	return domain.Customer{}, false
}

// customerIndex returns the position of the customer with the given tax id,
// or -1. Callers hold the lock.
func (s *RentalService) customerIndex(taxID string) int {
	for i := range s.customers {
		if s.customers[i].TaxID == taxID {
			return i
		}
	}
	return -1
}
