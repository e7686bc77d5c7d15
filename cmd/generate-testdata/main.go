package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"tendertrail/database"
	"tendertrail/normalization"
)

var titleTemplates = []string{
	"Construction of Water Treatment Plant in %s",
	"Supply of Medical Equipment for %s Hospitals",
	"IT Infrastructure Upgrade for %s",
	"Consulting Services for %s Railway Project",
	"Road Rehabilitation in %s Metropolitan Area",
	"Supply and Installation of Solar Panels for %s",
	"Environmental Impact Assessment for %s Airport",
	"Technical Assistance for %s Education Reform",
	"Procurement of Vehicles for %s",
	"Design and Construction of Bridge in %s",
}

var organizations = []string{
	"Ministry of Finance", "Department of Transportation",
	"Ministry of Education", "Ministry of Health",
	"National Water Authority", "Environmental Protection Agency",
	"Department of Agriculture", "Ministry of Infrastructure",
}

func main() {
	dbPath := flag.String("db", "tendertrail.db", "Path to the service database")
	perSource := flag.Int("count", 5, "Records to generate per source")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	sources := flag.String("sources", "adb,wb,ungm", "Comma-separated source names")
	flag.Parse()

	if *seed != 0 {
		gofakeit.Seed(*seed)
	}

	db, err := database.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	for _, source := range strings.Split(*sources, ",") {
		source = strings.TrimSpace(source)
		if source == "" {
			continue
		}

		records := make([]normalization.RawRecord, 0, *perSource)
		for i := 0; i < *perSource; i++ {
			records = append(records, generateTender(source))
		}

		inserted, err := db.InsertRawRecords(source, records)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", source, err)
		}
		fmt.Printf("Seeded %d raw tenders for source %s\n", inserted, source)
	}
}

// generateTender builds one raw record shaped the way the source's real
// feed shapes it, so the generated data exercises each source schema's
// actual field names and date formats.
func generateTender(source string) normalization.RawRecord {
	city := gofakeit.City()
	country := gofakeit.Country()
	organization := organizations[gofakeit.Number(0, len(organizations)-1)]
	title := fmt.Sprintf(titleTemplates[gofakeit.Number(0, len(titleTemplates)-1)], city)

	published := gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now())
	closing := gofakeit.DateRange(time.Now(), time.Now().AddDate(0, 3, 0))
	amount := gofakeit.Price(100_000, 10_000_000)
	currency := gofakeit.RandomString([]string{"USD", "EUR", "GBP", "JPY", "AUD"})

	description := fmt.Sprintf(
		"The %s is seeking proposals for %s. This project aims to improve infrastructure in %s, %s. "+
			"Eligible bidders should have relevant experience in similar projects and must comply with all regulatory requirements.",
		organization, strings.ToLower(title[:1])+title[1:], city, country)

	id := fmt.Sprintf("%s-%d-%d", strings.ToUpper(source), gofakeit.Number(1000, 9999), gofakeit.Number(10, 99))

	switch source {
	case "wb":
		return normalization.RawRecord{
			"tender_id":        id,
			"title":            title,
			"description":      description,
			"publication_date": published.Format("02-Jan-2006"),
			"closing_date":     closing.Format("02-Jan-2006"),
			"value":            fmt.Sprintf("%.2f %s", amount, currency),
			"country":          country,
			"borrower":         "Government of " + country,
			"wb_reference":     fmt.Sprintf("WB-%d", gofakeit.Number(10000, 99999)),
		}
	case "ungm":
		return normalization.RawRecord{
			"tender_id":   id,
			"title":       title,
			"description": description,
			"published":   published.Format("02-01-2006"),
			"deadline":    closing.Format("02-01-2006"),
			"value":       fmt.Sprintf("%.2f %s", amount, currency),
			"country":     country,
			"agency":      organization,
		}
	default: // adb-shaped
		return normalization.RawRecord{
			"tender_id":      id,
			"title":          title,
			"description":    description,
			"published_date": published.Format("2006-01-02"),
			"deadline":       closing.Format("2006-01-02"),
			"budget":         fmt.Sprintf("%.2f %s", amount, currency),
			"location":       fmt.Sprintf("%s, %s", city, country),
			"authority":      organization,
			"sector":         gofakeit.RandomString([]string{"Energy", "Transport", "Water", "Urban", "Finance", "Health"}),
		}
	}
}
