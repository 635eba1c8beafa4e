package main

import (
	"fmt"
	"log"
	"time"

	"tourbooking/internal/database"
	"tourbooking/internal/domain"
	"tourbooking/internal/repository"

	"gorm.io/datatypes"
)

// Seeds a local SQLite database with a few offerings and bookings for
// storefront development. Catalog product/variant ids are fakes; the
// pricing endpoints will quote 0 until a real catalog is wired up.
func main() {
	db, err := database.Connect("tourbooking.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM offering_variants")
	db.Exec("DELETE FROM offerings")
	db.Exec("DELETE FROM entity_links")

	log.Println("Creating offerings...")

	type seedOffering struct {
		kind        domain.Kind
		destination string
		description string
		days        int
		capacity    int
	}

	seeds := []seedOffering{
		{domain.KindTour, "Machu Picchu", "Five day trek through the Sacred Valley", 5, 12},
		{domain.KindTour, "Colca Canyon", "Two day condor watching trip from Arequipa", 2, 16},
		{domain.KindPackage, "Cusco Highlights", "Week long package with hotel and day trips", 7, 20},
	}

	dates := upcomingSaturdays(8)

	offerings := make([]domain.Offering, 0, len(seeds))
	for i, s := range seeds {
		desc := s.description
		o := domain.Offering{
			ID:             repository.NewOfferingID(s.kind),
			Kind:           s.kind,
			ProductID:      fmt.Sprintf("prod_seed_%d", i+1),
			Destination:    s.destination,
			Description:    &desc,
			DurationDays:   s.days,
			MaxCapacity:    s.capacity,
			AvailableDates: datatypes.JSONSlice[string](dates),
		}
		db.Create(&o)

		for j, pt := range domain.PassengerTypes {
			db.Create(&domain.OfferingVariant{
				ID:            repository.NewVariantID(),
				OfferingID:    o.ID,
				VariantID:     fmt.Sprintf("variant_seed_%d_%d", i+1, j+1),
				PassengerType: pt,
			})
		}

		offerings = append(offerings, o)
	}

	log.Println("Creating bookings...")
	statuses := []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCancelled,
	}
	for i := 0; i < 9; i++ {
		o := offerings[i%len(offerings)]
		date, _ := domain.ParseDateKey(dates[i%len(dates)])
		db.Create(&domain.Booking{
			ID:           repository.NewBookingID(),
			OrderID:      fmt.Sprintf("order_seed_%d", i+1),
			OfferingID:   o.ID,
			OfferingDate: date,
			Status:       statuses[i%len(statuses)],
			LineItems: []domain.BookingLineItem{{
				PassengerType: domain.PassengerAdult,
				Quantity:      1 + i%3,
				PassengerName: fmt.Sprintf("Passenger %d", i+1),
			}},
		})
	}

	log.Println("Seed completed!")
	log.Printf("Offerings: %d, first departure: %s", len(offerings), dates[0])
}

func upcomingSaturdays(n int) []string {
	out := make([]string, 0, n)
	d := time.Now().UTC()
	for len(out) < n {
		d = d.AddDate(0, 0, 1)
		if d.Weekday() == time.Saturday {
			out = append(out, domain.DateKey(d))
		}
	}
	return out
}
