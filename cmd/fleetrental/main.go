package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/yourorg/fleetrental/internal/domain"
	"github.com/yourorg/fleetrental/internal/featureflags"
	"github.com/yourorg/fleetrental/internal/infrastructure/logger"
	"github.com/yourorg/fleetrental/internal/security/audit"
	"github.com/yourorg/fleetrental/internal/service"
	"github.com/yourorg/fleetrental/internal/storage"
	"github.com/yourorg/fleetrental/internal/worker"
	"github.com/yourorg/fleetrental/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.LogLevel)
	store := storage.NewStore(cfg.DataDir, log)

	var auditor *audit.Logger
	if featureflags.Enabled(featureflags.AuditTrail) {
		auditor = audit.NewLogger(log)
	}

	svc, err := service.NewRentalService(store, auditor, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	svc.SetSearchCacheTTL(time.Duration(cfg.SearchCacheTTLSeconds) * time.Second)

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "vehicle":
		handleVehicle(svc, args)
	case "customer":
		handleCustomer(svc, args)
	case "account":
		handleAccount(svc, args)
	case "rental":
		handleRental(svc, args)
	case "reload":
		exitOn(svc.ReloadAll())
		fmt.Println("collections reloaded")
	case "watch":
		runWatch(svc, cfg)
	case "stats":
		printStats()
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: fleetrental <command> [subcommand] [flags]

Commands:
  vehicle   list | search | add | update
  customer  list | search | add | update
  account   list | add | delete
  rental    list | active | rent | return
  reload    re-read all collections from disk
  watch     run the overdue-rental watcher (requires FLAG_OVERDUE_WORKER)
  stats     print collected metrics
  help      show this help

Mutating subcommands take -user and -pass to sign in.`)
}

// signIn logs the operator in for one mutating invocation.
func signIn(svc *service.RentalService, user, pass string) {
	if _, err := svc.Login(user, pass); err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}
}

func exitOn(err error) {
	if err == nil {
		return
	}
	if domain.IsValidation(err) {
		fmt.Fprintf(os.Stderr, "rejected: %v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(1)
}

func parseDate(name, value string) time.Time {
	if strings.TrimSpace(value) == "" {
		return time.Time{}
	}
	t, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid %s date %q (want YYYY-MM-DD)\n", name, value)
		os.Exit(1)
	}
	return t
}

func handleVehicle(svc *service.RentalService, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: fleetrental vehicle <list|search|add|update>")
		return
	}

	switch args[0] {
	case "list":
		printVehicles(svc.Vehicles())
	case "search":
		fs := flag.NewFlagSet("vehicle search", flag.ExitOnError)
		brand := fs.String("brand", "", "brand substring")
		plate := fs.String("plate", "", "plate substring")
		model := fs.String("model", "", "model substring")
		color := fs.String("color", "", "color substring")
		vtype := fs.String("type", "", "body type substring")
		status := fs.String("status", "", "AVAILABLE or RENTED")
		fs.Parse(args[1:])

		q := domain.VehicleSearch{Brand: *brand, Plate: *plate, Model: *model, Color: *color, Type: *vtype}
		if *status != "" {
			st := domain.VehicleStatus(strings.ToUpper(*status))
			q.Status = &st
		}
		printVehicles(svc.SearchVehicles(q))
	case "add", "update":
		fs := flag.NewFlagSet("vehicle "+args[0], flag.ExitOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("pass", "", "staff password")
		id := fs.Int("id", 0, "vehicle id")
		plate := fs.String("plate", "", "plate")
		brand := fs.String("brand", "", "brand")
		vtype := fs.String("type", "", "body type")
		model := fs.String("model", "", "model")
		year := fs.Int("year", 0, "model year")
		color := fs.String("color", "", "color")
		fs.Parse(args[1:])

		signIn(svc, *user, *pass)
		v := domain.Vehicle{
			ID: *id, Plate: *plate, Brand: *brand, Type: *vtype,
			Model: *model, Year: *year, Color: *color,
			Status: domain.StatusAvailable,
		}
		if args[0] == "add" {
			exitOn(svc.AddVehicle(v))
		} else {
			if existing, ok := svc.FindVehicleByID(*id); ok {
				v.Status = existing.Status
			}
			exitOn(svc.UpdateVehicle(v))
		}
		fmt.Printf("vehicle %d saved\n", *id)
	default:
		fmt.Printf("unknown vehicle command: %s\n", args[0])
	}
}

func handleCustomer(svc *service.RentalService, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: fleetrental customer <list|search|add|update>")
		return
	}

	switch args[0] {
	case "list":
		printCustomers(svc.Customers())
	case "search":
		fs := flag.NewFlagSet("customer search", flag.ExitOnError)
		taxID := fs.String("taxid", "", "tax id substring")
		name := fs.String("name", "", "name substring")
		phone := fs.String("phone", "", "phone substring")
		fs.Parse(args[1:])
		printCustomers(svc.SearchCustomers(domain.CustomerSearch{TaxID: *taxID, FullName: *name, Phone: *phone}))
	case "add", "update":
		fs := flag.NewFlagSet("customer "+args[0], flag.ExitOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("pass", "", "staff password")
		taxID := fs.String("taxid", "", "tax id (9 digits)")
		name := fs.String("name", "", "full name")
		phone := fs.String("phone", "", "phone")
		email := fs.String("email", "", "email")
		fs.Parse(args[1:])

		signIn(svc, *user, *pass)
		c := domain.Customer{TaxID: *taxID, FullName: *name, Phone: *phone, Email: *email}
		if args[0] == "add" {
			exitOn(svc.AddCustomer(c))
		} else {
			exitOn(svc.UpdateCustomer(c))
		}
		fmt.Printf("customer %s saved\n", *taxID)
	default:
		fmt.Printf("unknown customer command: %s\n", args[0])
	}
}

func handleAccount(svc *service.RentalService, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: fleetrental account <list|add|delete>")
		return
	}

	switch args[0] {
	case "list":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL")
		for _, a := range svc.Accounts() {
			fmt.Fprintf(w, "%s\t%s\t%s\n", a.Username, a.FullName, a.Email)
		}
		w.Flush()
	case "add":
		fs := flag.NewFlagSet("account add", flag.ExitOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("pass", "", "staff password")
		name := fs.String("name", "", "full name")
		username := fs.String("username", "", "new username")
		email := fs.String("email", "", "email")
		password := fs.String("password", "", "new password")
		fs.Parse(args[1:])

		signIn(svc, *user, *pass)
		exitOn(svc.AddAccount(domain.StaffAccount{
			FullName: *name, Username: *username, Email: *email, Password: *password,
		}))
		fmt.Printf("account %s created\n", *username)
	case "delete":
		fs := flag.NewFlagSet("account delete", flag.ExitOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("pass", "", "staff password")
		username := fs.String("username", "", "username to delete")
		fs.Parse(args[1:])

		signIn(svc, *user, *pass)
		exitOn(svc.DeleteAccount(*username))
		fmt.Printf("account %s deleted\n", *username)
	default:
		fmt.Printf("unknown account command: %s\n", args[0])
	}
}

func handleRental(svc *service.RentalService, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: fleetrental rental <list|active|rent|return>")
		return
	}

	switch args[0] {
	case "list":
		printRentals(svc.Rentals())
	case "active":
		printRentals(svc.ActiveRentals())
	case "rent":
		fs := flag.NewFlagSet("rental rent", flag.ExitOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("pass", "", "staff password")
		vehicleID := fs.Int("vehicle", 0, "vehicle id")
		customer := fs.String("customer", "", "customer tax id")
		start := fs.String("start", "", "start date YYYY-MM-DD")
		end := fs.String("end", "", "end date YYYY-MM-DD")
		fs.Parse(args[1:])

		signIn(svc, *user, *pass)
		r, err := svc.RentVehicle(*vehicleID, *customer, parseDate("start", *start), parseDate("end", *end))
		exitOn(err)
		fmt.Printf("rental %d created\n", r.ID)
	case "return":
		fs := flag.NewFlagSet("rental return", flag.ExitOnError)
		user := fs.String("user", "", "staff username")
		pass := fs.String("pass", "", "staff password")
		id := fs.Int64("id", 0, "rental id")
		fs.Parse(args[1:])

		signIn(svc, *user, *pass)
		exitOn(svc.ReturnRental(*id))
		fmt.Printf("rental %d returned\n", *id)
	default:
		fmt.Printf("unknown rental command: %s\n", args[0])
	}
}

func runWatch(svc *service.RentalService, cfg *config.Config) {
	if !featureflags.Enabled(featureflags.OverdueWorker) {
		fmt.Fprintln(os.Stderr, "overdue watcher disabled; set FLAG_OVERDUE_WORKER=1 to enable")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.NewLogger(cfg.LogLevel)
	w := worker.NewOverdueWorker(svc, log, time.Duration(cfg.OverdueCheckIntervalMinutes)*time.Minute)
	w.CheckOnce()
	w.Start(ctx)
}

// printStats dumps every collected metric family. There is no /metrics
// endpoint; the process has no network surface.
func printStats() {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to gather metrics: %v\n", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tLABELS\tVALUE")
	for _, fam := range families {
		if !strings.HasPrefix(fam.GetName(), "fleetrental_") {
			continue
		}
		for _, m := range fam.GetMetric() {
			fmt.Fprintf(w, "%s\t%s\t%g\n", fam.GetName(), formatLabels(m), metricValue(fam.GetType(), m))
		}
	}
	w.Flush()
}

func formatLabels(m *dto.Metric) string {
	var parts []string
	for _, lp := range m.GetLabel() {
		parts = append(parts, lp.GetName()+"="+lp.GetValue())
	}
	return strings.Join(parts, ",")
}

func metricValue(t dto.MetricType, m *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}

func printVehicles(vehicles []domain.Vehicle) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLATE\tBRAND\tTYPE\tMODEL\tYEAR\tCOLOR\tSTATUS")
	for _, v := range vehicles {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			v.ID, v.Plate, v.Brand, v.Type, v.Model, v.Year, v.Color, v.Status)
	}
	w.Flush()
}

func printCustomers(customers []domain.Customer) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAX ID\tNAME\tPHONE\tEMAIL")
	for _, c := range customers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.TaxID, c.FullName, c.Phone, c.Email)
	}
	w.Flush()
}

func printRentals(rentals []domain.Rental) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVEHICLE\tCUSTOMER\tSTAFF\tSTART\tEND\tRETURNED\tRETURN DATE")
	for _, r := range rentals {
		actual := ""
		if r.ActualReturnDate != nil {
			actual = r.ActualReturnDate.Format(domain.DateFormat)
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%t\t%s\n",
			r.ID, r.VehicleID, r.CustomerTaxID, r.StaffUsername,
			r.StartDate.Format(domain.DateFormat), r.EndDate.Format(domain.DateFormat),
			r.Returned, actual)
	}
	w.Flush()
}
