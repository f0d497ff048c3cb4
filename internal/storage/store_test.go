package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/yourorg/fleetrental/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), testLogger())
}

func readArtifacts(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	out := map[string][]byte{}
	for _, name := range []string{accountsFile, vehiclesFile, customersFile, rentalsFile, metaFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		out[name] = data
	}
	return out
}

func TestEnsureInitializedIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	first := readArtifacts(t, s.dir)

	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	second := readArtifacts(t, s.dir)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second init changed artifact contents")
	}
}

func TestSeedContent(t *testing.T) {
	s := newTestStore(t)

	accounts, err := s.LoadAccounts()
	if err != nil {
		t.Fatalf("load accounts: %v", err)
	}
	if len(accounts) != 5 {
		t.Fatalf("expected 5 seed accounts, got %d", len(accounts))
	}
	if accounts[0].Username != "jsmith" || accounts[0].FullName != "John Smith" {
		t.Fatalf("unexpected first seed account: %+v", accounts[0])
	}

	vehicles, err := s.LoadVehicles()
	if err != nil {
		t.Fatalf("load vehicles: %v", err)
	}
	if len(vehicles) != 5 {
		t.Fatalf("expected 5 seed vehicles, got %d", len(vehicles))
	}
	for _, v := range vehicles {
		if v.Status != domain.StatusAvailable {
			t.Fatalf("expected seed vehicle %d to be available, got %s", v.ID, v.Status)
		}
	}

	customers, err := s.LoadCustomers()
	if err != nil {
		t.Fatalf("load customers: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 seed customers, got %d", len(customers))
	}

	rentals, err := s.LoadRentals()
	if err != nil {
		t.Fatalf("load rentals: %v", err)
	}
	if len(rentals) != 0 {
		t.Fatalf("expected no seed rentals, got %d", len(rentals))
	}

	next, err := s.LoadNextRentalID()
	if err != nil {
		t.Fatalf("load counter: %v", err)
	}
	if next != 1 {
		t.Fatalf("expected counter seeded at 1, got %d", next)
	}
}

func TestVehiclesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := []domain.Vehicle{
		{ID: 1, Plate: "AAA111", Brand: "Mercedes, Benz", Type: "Sedan", Model: `the "S"`, Year: 2020, Color: "two\ntone", Status: domain.StatusRented},
		{ID: 2, Plate: "BBB222", Brand: "Toyota", Type: "SUV", Model: "RAV4", Year: 2023, Color: "Κόκκινο", Status: domain.StatusAvailable},
	}

	if err := s.SaveVehicles(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.LoadVehicles()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n want %+v\n got  %+v", in, out)
	}
}

func TestAccountsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	in := []domain.StaffAccount{
		{FullName: "Jane van der Berg", Username: "jvdb", Email: "jvdb@test.com", Password: "pw,1"},
		{FullName: "Cher", Username: "cher", Email: "cher@test.com", Password: "pw2"},
	}

	if err := s.SaveAccounts(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.LoadAccounts()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n want %+v\n got  %+v", in, out)
	}
}

func TestRentalsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	returned := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Rental{
		{
			ID: 1, VehicleID: 3, CustomerTaxID: "123456789", StaffUsername: "jsmith",
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, VehicleID: 4, CustomerTaxID: "987654321", StaffUsername: "mjones",
			StartDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
			Returned:  true, ActualReturnDate: &returned,
		},
	}

	if err := s.SaveRentals(in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := s.LoadRentals()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\n want %+v\n got  %+v", in, out)
	}
}

func TestLoadSkipsShortAndMalformedRows(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}

	data := rentalsHeader + "\n" +
		"1,3\n" + // too few columns
		"bad,3,123456789,jsmith,2024-01-01,2024-01-05,false,\n" + // unparseable id
		"2,3,123456789,jsmith,2024-01-01,2024-01-05,false,\n"
	if err := os.WriteFile(filepath.Join(s.dir, rentalsFile), []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	rentals, err := s.LoadRentals()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rentals) != 1 || rentals[0].ID != 2 {
		t.Fatalf("expected only the well-formed row, got %+v", rentals)
	}
}

func TestSequenceIsDurable(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, testLogger())
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}

	seq := NewSequence(s)
	var issued []int64
	for i := 0; i < 3; i++ {
		id, err := seq.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		issued = append(issued, id)
	}
	if issued[0] != 1 || issued[1] != 2 || issued[2] != 3 {
		t.Fatalf("expected 1,2,3 got %v", issued)
	}

	// Simulated restart: a fresh store over the same directory.
	again := NewSequence(NewStore(dir, testLogger()))
	id, err := again.Next()
	if err != nil {
		t.Fatalf("next after restart: %v", err)
	}
	if id != 4 {
		t.Fatalf("expected counter to survive restart at 4, got %d", id)
	}
}

func TestSaveCounterDoesNotReinitialize(t *testing.T) {
	s := newTestStore(t)
	if err := s.EnsureInitialized(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := os.Remove(filepath.Join(s.dir, vehiclesFile)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := s.SaveNextRentalID(5); err != nil {
		t.Fatalf("save counter: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.dir, vehiclesFile)); !os.IsNotExist(err) {
		t.Fatalf("saving the counter must not re-seed other artifacts")
	}

	next, err := s.LoadNextRentalID()
	if err != nil {
		t.Fatalf("load counter: %v", err)
	}
	if next != 5 {
		t.Fatalf("expected 5, got %d", next)
	}
}
