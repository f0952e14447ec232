// cmd/dbtools/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/Glamslot/internal/config"
	"github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/models"
)

var seedServices = []models.Service{
	{Name: "Haircut", DurationMinutes: 45, PriceCents: 4500},
	{Name: "Colour", DurationMinutes: 120, PriceCents: 12000},
	{Name: "Blow-dry", DurationMinutes: 30, PriceCents: 3000},
	{Name: "Manicure", DurationMinutes: 40, PriceCents: 3500},
}

var seedProfessionals = []struct {
	name     string
	services []int
}{
	{"Ana", []int{0, 1, 2}},
	{"Bea", []int{0, 2}},
	{"Carla", []int{1}},
	{"Dora", []int{3}},
}

var slotTimes = []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

var clientNames = []string{"Maria", "Joana", "Rita", "Sofia", "Ines", "Marta", "Clara", "Lucia"}

func main() {
	var (
		configPath  = flag.String("config", "config/app.yaml", "Path to YAML configuration")
		historyDays = flag.Int("history-days", 400, "Days of past appointments to generate")
		seed        = flag.Uint64("seed", 1, "Random seed for reproducible data")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("Failed to load configuration")
	}

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	now := time.Now().UTC()

	err = database.RunInTx(context.Background(), func(tx *db.DB) error {
		return seedAll(context.Background(), tx.Queries, rng, now, *historyDays, cfg.Booking.HorizonDays)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Str("db", cfg.Database.Filename).Msg("Seed data written")
}

func seedAll(ctx context.Context, q *db.Queries, rng *rand.Rand, now time.Time, historyDays, horizonDays int) error {
	serviceIDs := make([]int64, len(seedServices))
	for i, service := range seedServices {
		id, err := q.CreateService(ctx, service)
		if err != nil {
			return err
		}
		serviceIDs[i] = id
	}

	type staff struct {
		id       int64
		services []int
	}
	var team []staff
	for order, p := range seedProfessionals {
		id, err := q.CreateProfessional(ctx, p.name, order+1)
		if err != nil {
			return err
		}
		for _, idx := range p.services {
			if err := q.AddCapability(ctx, id, serviceIDs[idx]); err != nil {
				return fmt.Errorf("capability for %s: %w", p.name, err)
			}
		}
		team = append(team, staff{id: id, services: p.services})
	}

	today := now.Truncate(24 * time.Hour)
	for _, member := range team {
		for d := 0; d < horizonDays; d++ {
			day := today.AddDate(0, 0, d)
			if day.Weekday() == time.Sunday {
				continue
			}
			for _, slot := range slotTimes {
				// Roughly a third of the grid is already booked.
				if rng.IntN(3) == 0 {
					continue
				}
				if err := q.AddAvailabilitySlot(ctx, member.id, day.Format(time.DateOnly), slot); err != nil {
					return err
				}
			}
		}
	}

	var created int
	for d := historyDays; d >= 1; d-- {
		day := today.AddDate(0, 0, -d)
		if day.Weekday() == time.Sunday {
			continue
		}
		for _, member := range team {
			visits := rng.IntN(4)
			for v := 0; v < visits; v++ {
				idx := member.services[rng.IntN(len(member.services))]
				startsAt := day.Add(time.Duration(9+rng.IntN(9)) * time.Hour)
				_, err := q.CreateAppointment(ctx, models.Appointment{
					ProfessionalID: member.id,
					ServiceID:      serviceIDs[idx],
					ClientName:     clientNames[rng.IntN(len(clientNames))],
					StartsAt:       startsAt,
					PriceCents:     seedServices[idx].PriceCents,
					Status:         randomStatus(rng),
				})
				if err != nil {
					return err
				}
				created++
			}
		}
	}

	log.Info().
		Int("services", len(serviceIDs)).
		Int("professionals", len(team)).
		Int("appointments", created).
		Msg("Seeded salon data")
	return nil
}

func randomStatus(rng *rand.Rand) string {
	switch n := rng.IntN(20); {
	case n < 16:
		return models.AppointmentCompleted
	case n < 18:
		return models.AppointmentCancelled
	default:
		return models.AppointmentNoShow
	}
}
