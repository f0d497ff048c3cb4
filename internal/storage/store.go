package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yourorg/fleetrental/internal/domain"
	"github.com/yourorg/fleetrental/internal/observability/metrics"
)

// Artifact names inside the data directory.
const (
	accountsFile  = "users.csv"
	vehiclesFile  = "vehicles_with_plates.csv"
	customersFile = "customers.csv"
	rentalsFile   = "rentals.csv"
	metaFile      = "meta.properties"
)

// Fixed header lines; the column order is part of the on-disk contract.
const (
	accountsHeader  = "name,surname,username,email,password"
	vehiclesHeader  = "id,plate,brand,type,model,year,color,status"
	customersHeader = "afm,fullName,phone,email"
	rentalsHeader   = "rentalId,carId,customerAfm,employeeUsername,startDate,endDate,returned,actualReturnDate"
)

const metaNextRentalKey = "nextRentalId"

// Store owns the on-disk representation of the four record collections plus
// the metadata counter. It knows only about text layout; all business rules
// live in the service. Every save rewrites the whole artifact.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// EnsureInitialized creates the data directory and seeds each missing
// artifact independently. Existing artifacts are never touched, so the call
// is idempotent.
func (s *Store) EnsureInitialized() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return domain.Storagef("create data directory", err)
	}

	seeds := []struct {
		name  string
		lines []string
	}{
		{accountsFile, seedAccounts},
		{vehiclesFile, seedVehicles},
		{customersFile, seedCustomers},
		{rentalsFile, seedRentals},
	}
	for _, sd := range seeds {
		missing, err := s.missing(sd.name)
		if err != nil {
			return err
		}
		if missing {
			s.logger.Info("seeding artifact", slog.String("artifact", sd.name))
			if err := s.writeLines(sd.name, sd.lines); err != nil {
				return err
			}
		}
	}

	missing, err := s.missing(metaFile)
	if err != nil {
		return err
	}
	if missing {
		s.logger.Info("seeding artifact", slog.String("artifact", metaFile))
		if err := s.SaveNextRentalID(1); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) missing(name string) (bool, error) {
	_, err := os.Stat(s.path(name))
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, domain.Storagef("stat "+name, err)
}

func (s *Store) writeLines(name string, lines []string) error {
	data := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(s.path(name), []byte(data), 0o644); err != nil {
		return domain.Storagef("write "+name, err)
	}
	return nil
}

// readRows loads an artifact and returns its logical records minus the
// header line. A newline inside an open quoted span belongs to the field,
// not the record boundary, so quoted multi-line values survive a reload.
func (s *Store) readRows(name string) ([]string, error) {
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return nil, domain.Storagef("read "+name, err)
	}
	rows := splitRecords(string(data))
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func splitRecords(data string) []string {
	var rows []string
	var sb strings.Builder
	inQuotes := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			sb.WriteByte(c)
		case c == '\n' && !inQuotes:
			rows = append(rows, strings.TrimSuffix(sb.String(), "\r"))
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	if sb.Len() > 0 {
		rows = append(rows, strings.TrimSuffix(sb.String(), "\r"))
	}
	return rows
}

func (s *Store) saveRows(name, header string, rows []string) error {
	if err := s.EnsureInitialized(); err != nil {
		return err
	}
	start := time.Now()
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, header)
	lines = append(lines, rows...)
	if err := s.writeLines(name, lines); err != nil {
		metrics.ObserveStoreSave(name, "error", time.Since(start))
		return err
	}
	metrics.ObserveStoreSave(name, "success", time.Since(start))
	return nil
}

// LoadAccounts reads the staff accounts artifact. Rows with fewer columns
// than the layout requires are skipped, not failed: a corrupted row should
// never take the whole collection down with it.
func (s *Store) LoadAccounts() ([]domain.StaffAccount, error) {
	rows, err := s.readRows(accountsFile)
	if err != nil {
		return nil, err
	}
	var out []domain.StaffAccount
	for _, row := range rows {
		cols := ParseLine(row)
		if len(cols) < 5 {
			continue
		}
		out = append(out, domain.StaffAccount{
			FullName: strings.TrimSpace(cols[0] + " " + cols[1]),
			Username: cols[2],
			Email:    cols[3],
			Password: cols[4],
		})
	}
	return out, nil
}

// SaveAccounts rewrites the staff accounts artifact. The full name persists
// as separate name and surname columns, split on the first whitespace run.
func (s *Store) SaveAccounts(accounts []domain.StaffAccount) error {
	rows := make([]string, 0, len(accounts))
	for _, a := range accounts {
		first, last := splitName(a.FullName)
		rows = append(rows, strings.Join([]string{
			Escape(first),
			Escape(last),
			Escape(a.Username),
			Escape(a.Email),
			Escape(a.Password),
		}, ","))
	}
	return s.saveRows(accountsFile, accountsHeader, rows)
}

func splitName(fullName string) (first, last string) {
	parts := strings.Fields(fullName)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// LoadVehicles reads the vehicle artifact. Besides short rows, rows with
// unparseable id or year are skipped with a warning.
func (s *Store) LoadVehicles() ([]domain.Vehicle, error) {
	rows, err := s.readRows(vehiclesFile)
	if err != nil {
		return nil, err
	}
	var out []domain.Vehicle
	for _, row := range rows {
		cols := ParseLine(row)
		if len(cols) < 8 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(cols[0]))
		if err != nil {
			s.logger.Warn("skipping vehicle row with bad id", slog.String("value", cols[0]))
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(cols[5]))
		if err != nil {
			s.logger.Warn("skipping vehicle row with bad year", slog.Int("id", id), slog.String("value", cols[5]))
			continue
		}
		out = append(out, domain.Vehicle{
			ID:     id,
			Plate:  cols[1],
			Brand:  cols[2],
			Type:   cols[3],
			Model:  cols[4],
			Year:   year,
			Color:  cols[6],
			Status: domain.StatusFromToken(cols[7]),
		})
	}
	return out, nil
}

// SaveVehicles rewrites the vehicle artifact.
func (s *Store) SaveVehicles(vehicles []domain.Vehicle) error {
	rows := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, strings.Join([]string{
			strconv.Itoa(v.ID),
			Escape(v.Plate),
			Escape(v.Brand),
			Escape(v.Type),
			Escape(v.Model),
			strconv.Itoa(v.Year),
			Escape(v.Color),
			Escape(v.Status.Token()),
		}, ","))
	}
	return s.saveRows(vehiclesFile, vehiclesHeader, rows)
}

// LoadCustomers reads the customer artifact.
func (s *Store) LoadCustomers() ([]domain.Customer, error) {
	rows, err := s.readRows(customersFile)
	if err != nil {
		return nil, err
	}
	var out []domain.Customer
	for _, row := range rows {
		cols := ParseLine(row)
		if len(cols) < 4 {
			continue
		}
		out = append(out, domain.Customer{
			TaxID:    cols[0],
			FullName: cols[1],
			Phone:    cols[2],
			Email:    cols[3],
		})
	}
	return out, nil
}

// SaveCustomers rewrites the customer artifact.
func (s *Store) SaveCustomers(customers []domain.Customer) error {
	rows := make([]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, strings.Join([]string{
			Escape(c.TaxID),
			Escape(c.FullName),
			Escape(c.Phone),
			Escape(c.Email),
		}, ","))
	}
	return s.saveRows(customersFile, customersHeader, rows)
}

// LoadRentals reads the rental artifact. Rows with unparseable numbers or
// dates are skipped with a warning.
func (s *Store) LoadRentals() ([]domain.Rental, error) {
	rows, err := s.readRows(rentalsFile)
	if err != nil {
		return nil, err
	}
	var out []domain.Rental
	for _, row := range rows {
		cols := ParseLine(row)
		if len(cols) < 8 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(cols[0]), 10, 64)
		if err != nil {
			s.logger.Warn("skipping rental row with bad id", slog.String("value", cols[0]))
			continue
		}
		vehicleID, err := strconv.Atoi(strings.TrimSpace(cols[1]))
		if err != nil {
			s.logger.Warn("skipping rental row with bad vehicle id", slog.Int64("rental_id", id))
			continue
		}
		start, err := time.Parse(domain.DateFormat, strings.TrimSpace(cols[4]))
		if err != nil {
			s.logger.Warn("skipping rental row with bad start date", slog.Int64("rental_id", id))
			continue
		}
		end, err := time.Parse(domain.DateFormat, strings.TrimSpace(cols[5]))
		if err != nil {
			s.logger.Warn("skipping rental row with bad end date", slog.Int64("rental_id", id))
			continue
		}
		r := domain.Rental{
			ID:            id,
			VehicleID:     vehicleID,
			CustomerTaxID: cols[2],
			StaffUsername: cols[3],
			StartDate:     start,
			EndDate:       end,
			Returned:      strings.EqualFold(strings.TrimSpace(cols[6]), "true"),
		}
		if actual := strings.TrimSpace(cols[7]); actual != "" {
			t, err := time.Parse(domain.DateFormat, actual)
			if err != nil {
				s.logger.Warn("skipping rental row with bad return date", slog.Int64("rental_id", id))
				continue
			}
			r.ActualReturnDate = &t
		}
		out = append(out, r)
	}
	return out, nil
}

// SaveRentals rewrites the rental artifact. An open rental persists an
// empty actual-return-date column.
func (s *Store) SaveRentals(rentals []domain.Rental) error {
	rows := make([]string, 0, len(rentals))
	for _, r := range rentals {
		actual := ""
		if r.ActualReturnDate != nil {
			actual = r.ActualReturnDate.Format(domain.DateFormat)
		}
		rows = append(rows, strings.Join([]string{
			strconv.FormatInt(r.ID, 10),
			strconv.Itoa(r.VehicleID),
			Escape(r.CustomerTaxID),
			Escape(r.StaffUsername),
			Escape(r.StartDate.Format(domain.DateFormat)),
			Escape(r.EndDate.Format(domain.DateFormat)),
			strconv.FormatBool(r.Returned),
			Escape(actual),
		}, ","))
	}
	return s.saveRows(rentalsFile, rentalsHeader, rows)
}

// LoadNextRentalID reads the durable counter. A missing key falls back to 1
// so a hand-edited metadata file cannot brick startup.
func (s *Store) LoadNextRentalID() (int64, error) {
	data, err := os.ReadFile(s.path(metaFile))
	if err != nil {
		return 0, domain.Storagef("read "+metaFile, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) != metaNextRentalKey {
			continue
		}
		next, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, domain.Storagef("parse "+metaFile, fmt.Errorf("bad %s value %q", metaNextRentalKey, value))
		}
		return next, nil
	}
	return 1, nil
}

// SaveNextRentalID rewrites the metadata artifact. It deliberately does not
// call EnsureInitialized: initialization itself writes the counter.
func (s *Store) SaveNextRentalID(next int64) error {
	lines := []string{
		"# fleetrental metadata",
		metaNextRentalKey + "=" + strconv.FormatInt(next, 10),
	}
	return s.writeLines(metaFile, lines)
}
