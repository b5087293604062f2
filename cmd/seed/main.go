package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"artisthub/config"
	"artisthub/database"
	providerRepo "artisthub/database/repository/provider"
	"artisthub/models"
	"artisthub/services/provider"
	"artisthub/utils"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var categories = []string{"painter", "musician", "photographer", "dancer"}

// dailySlots are offered on every seeded day.
var dailySlots = [][2]string{
	{"10:00", "12:00"},
	{"14:00", "17:00"},
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "artisthub-seed",
		Short: "Populate the artisthub database with demo data",
	}
	root.AddCommand(newArtistsCmd())
	return root
}

func newArtistsCmd() *cobra.Command {
	var count, days int
	var password string

	c := &cobra.Command{
		Use:   "artists",
		Short: "Create demo artists with availability for the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || days < 1 {
				return errors.New("--count and --days must be positive")
			}
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return err
			}
			if cfg.UsesMemoryStore() {
				return errors.New("seeding needs a MongoDB DATABASE_URL")
			}
			logger := utils.InitializeLogger(cfg.Env, cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			client, err := database.Connect(ctx, cfg.DatabaseURL, logger)
			if err != nil {
				return err
			}
			defer database.Disconnect(client, logger)

			repo, err := providerRepo.NewMongoProviderRepo(ctx, client.Database(cfg.DatabaseName))
			if err != nil {
				return err
			}
			svc, err := provider.NewDefaultProviderService(repo, nil, utils.NewTokenService(cfg.JWTSecret, cfg.JWTTTL), logger)
			if err != nil {
				return err
			}

			created, err := seedArtists(ctx, svc, count, days, password, time.Now())
			logger.Info("Seeded artists", zap.Int("created", created))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d artists\n", created)
			return nil
		},
	}

	c.Flags().IntVar(&count, "count", 8, "number of artists to create")
	c.Flags().IntVar(&days, "days", 7, "number of days of availability per artist")
	c.Flags().StringVar(&password, "password", "Password1234", "login password for every seeded artist")
	return c
}

// seedArtists creates count artists through the provider service. Artists whose
// email already exists are skipped, so the command can be re-run.
func seedArtists(ctx context.Context, svc provider.ProviderService, count, days int, password string, from time.Time) (int, error) {
	created := 0
	for i := 1; i <= count; i++ {
		category := categories[(i-1)%len(categories)]
		req := models.CreateProviderRequest{
			Name:         fmt.Sprintf("Demo %s %d", category, i),
			Email:        fmt.Sprintf("%s_%d@artisthub.example", category, i),
			Password:     password,
			Category:     category,
			PricePerHour: float64(40 + 10*((i-1)%5)),
			Bio:          fmt.Sprintf("Demo %s available for events.", category),
			Availability: demoAvailability(from, days),
		}
		_, err := svc.CreateProvider(ctx, req)
		if errors.Is(err, utils.ErrConflict) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to seed artist %s: %w", req.Email, err)
		}
		created++
	}
	return created, nil
}

func demoAvailability(from time.Time, days int) []models.Slot {
	slots := make([]models.Slot, 0, days*len(dailySlots))
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d).Format("2006-01-02")
		for _, s := range dailySlots {
			slots = append(slots, models.Slot{Date: date, StartTime: s[0], EndTime: s[1]})
		}
	}
	return slots
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
