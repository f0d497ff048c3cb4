package storage

// Seed content written by EnsureInitialized when an artifact is missing.
// The demo fleet and customers match the dataset the business started with.

var seedAccounts = []string{
	accountsHeader,
	"John,Smith,jsmith,john.smith@test.com,password1",
	"Mary,Jones,mjones,mary.jones@test.com,password2",
	"Tom,Brown,tbrown,tom.brown@test.com,password3",
	"Anna,White,awhite,anna.white@test.com,password4",
	"Luke,Hall,lhall,luke.hall@test.com,password5",
}

var seedVehicles = []string{
	vehiclesHeader,
	"1,ΙΚΥ1234,Toyota,Sedan,Corolla,2019,Ασημί,Διαθέσιμο",
	"2,ΝΒΡ5678,Honda,Hatchback,Civic,2020,Μπλε,Διαθέσιμο",
	"3,ΡΤΛ9012,Ford,SUV,Focus,2021,Μαύρο,Διαθέσιμο",
	"4,ΧΖΑ3456,Volkswagen,Sedan,Passat,2018,Λευκό,Διαθέσιμο",
	"5,ΕΜΚ7890,Nissan,Crossover,Qashqai,2022,Κόκκινο,Διαθέσιμο",
}

var seedCustomers = []string{
	customersHeader,
	"123456789,Γιώργος Παπαδόπουλος,6900000000,gpap@test.com",
	"987654321,Μαρία Ιωάννου,6911111111,mi@test.com",
}

var seedRentals = []string{
	rentalsHeader,
}
