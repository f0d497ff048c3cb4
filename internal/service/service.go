package service

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/yourorg/fleetrental/internal/domain"
	"github.com/yourorg/fleetrental/internal/observability/metrics"
	"github.com/yourorg/fleetrental/internal/security/audit"
	"github.com/yourorg/fleetrental/internal/storage"
	"github.com/yourorg/fleetrental/pkg/cache"
)

const defaultSearchCacheTTL = 30 * time.Second

// RentalService owns the in-memory authoritative copies of the four record
// collections and every business rule on top of them. All reads are served
// from memory; every mutation validates, mutates memory, then persists the
// affected artifacts synchronously before returning.
//
// Persistence is best-effort sequential: when an operation touches two
// artifacts (rent, return) and the second save fails, the first is not
// rolled back. Memory then runs ahead of disk until the next successful
// save or ReloadAll. This is a known, accepted gap; there is no
// transaction engine underneath.
//
// A single mutex guards the collections, the session and the durable
// counter, so concurrent rent/return calls cannot double-book a vehicle or
// draw the same rental identifier.
type RentalService struct {
	mu      sync.Mutex
	store   *storage.Store
	seq     *storage.Sequence
	auditor *audit.Logger
	logger  *slog.Logger

	accounts  []domain.StaffAccount
	vehicles  []domain.Vehicle
	customers []domain.Customer
	rentals   []domain.Rental

	session *domain.StaffAccount

	vehicleSearches  *cache.Cache[[]domain.Vehicle]
	customerSearches *cache.Cache[[]domain.Customer]
	searchTTL        time.Duration

	now func() time.Time
}

// NewRentalService loads all collections from the store, reconciling vehicle
// availability against active rentals. A nil auditor disables the audit
// trail.
func NewRentalService(store *storage.Store, auditor *audit.Logger, logger *slog.Logger) (*RentalService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &RentalService{
		store:            store,
		seq:              storage.NewSequence(store),
		auditor:          auditor,
		logger:           logger,
		vehicleSearches:  cache.New[[]domain.Vehicle](),
		customerSearches: cache.New[[]domain.Customer](),
		searchTTL:        defaultSearchCacheTTL,
		now:              time.Now,
	}
	if err := s.ReloadAll(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetSearchCacheTTL overrides how long memoized search results stay valid.
func (s *RentalService) SetSearchCacheTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTTL = ttl
}

// ReloadAll re-reads every collection from disk and re-derives each
// vehicle's availability from the set of active rentals. Membership in that
// set is the sole source of truth: whatever status the vehicle artifact
// carried is overwritten, and the corrected collection is persisted.
func (s *RentalService) ReloadAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked()
}

func (s *RentalService) reloadLocked() error {
	if err := s.store.EnsureInitialized(); err != nil {
		return err
	}

	accounts, err := s.store.LoadAccounts()
	if err != nil {
		return err
	}
	vehicles, err := s.store.LoadVehicles()
	if err != nil {
		return err
	}
	customers, err := s.store.LoadCustomers()
	if err != nil {
		return err
	}
	rentals, err := s.store.LoadRentals()
	if err != nil {
		return err
	}

	rentedVehicleIDs := map[int]bool{}
	active := 0
	for _, r := range rentals {
		if r.Active() {
			rentedVehicleIDs[r.VehicleID] = true
			active++
		}
	}
	for i := range vehicles {
		if rentedVehicleIDs[vehicles[i].ID] {
			vehicles[i].Status = domain.StatusRented
		} else {
			vehicles[i].Status = domain.StatusAvailable
		}
	}

	s.accounts = accounts
	s.vehicles = vehicles
	s.customers = customers
	s.rentals = rentals
	s.invalidateSearches()
	metrics.SetActiveRentals(active)

	s.logger.Debug("collections reloaded",
		slog.Int("accounts", len(accounts)),
		slog.Int("vehicles", len(vehicles)),
		slog.Int("customers", len(customers)),
		slog.Int("rentals", len(rentals)),
	)

	return s.store.SaveVehicles(s.vehicles)
}

// Login starts a session for the matching account. Username and password
// are compared exactly, matching the plain-text storage format.
func (s *RentalService) Login(username, password string) (domain.StaffAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if isBlank(username) {
		return domain.StaffAccount{}, s.rejected("login", domain.Validationf("username is required"))
	}
	if isBlank(password) {
		return domain.StaffAccount{}, s.rejected("login", domain.Validationf("password is required"))
	}
	for _, a := range s.accounts {
		if a.Username == username && a.Password == password {
			account := a
			s.session = &account
			s.logger.Info("staff signed in", slog.String("username", a.Username))
			return a, nil
		}
	}

	s.auditor.LogLoginDenied(username, "invalid username or password")
	return domain.StaffAccount{}, s.rejected("login", domain.Validationf("invalid username or password"))
}

// Logout clears the session unconditionally.
func (s *RentalService) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		s.logger.Info("staff signed out", slog.String("username", s.session.Username))
	}
	s.session = nil
}

// ActiveSession returns the signed-in account, if any.
func (s *RentalService) ActiveSession() (domain.StaffAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return domain.StaffAccount{}, false
	}
	return *s.session, true
}

// requireSession gates every mutating operation. Callers hold the lock.
func (s *RentalService) requireSession() (domain.StaffAccount, error) {
	if s.session == nil {
		return domain.StaffAccount{}, domain.Validationf("not signed in")
	}
	return *s.session, nil
}

// rejected counts a validation failure before handing the error back.
func (s *RentalService) rejected(operation string, err error) error {
	if err != nil && domain.IsValidation(err) {
		metrics.ObserveValidationRejected(operation)
	}
	return err
}

func (s *RentalService) invalidateSearches() {
	s.vehicleSearches.Clear()
	s.customerSearches.Clear()
}

// Accounts returns a defensive copy of the staff account collection.
func (s *RentalService) Accounts() []domain.StaffAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.accounts)
}

// Vehicles returns a defensive copy of the vehicle collection.
func (s *RentalService) Vehicles() []domain.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.vehicles)
}

// Customers returns a defensive copy of the customer collection.
func (s *RentalService) Customers() []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.customers)
}

// Rentals returns a defensive copy of the rental collection.
func (s *RentalService) Rentals() []domain.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.rentals)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(strings.TrimSpace(needle)))
}
