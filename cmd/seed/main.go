// Package main seeds demo users, preferences, newsletters and campaigns from
// a YAML fixture.
//
// Seeding is idempotent for users and subscriptions; newsletters and
// campaigns are created on every run.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"storecast.io/notifier/internal/api/handlers"
	"storecast.io/notifier/internal/app/modules"
	"storecast.io/notifier/internal/config"
	"storecast.io/notifier/internal/domain"
	apperrors "storecast.io/notifier/internal/pkg/errors"
	"storecast.io/notifier/internal/pkg/logger"
	"storecast.io/notifier/internal/service"
)

//go:embed fixture.yaml
var defaultFixture []byte

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		fixturePath string
		dryRun      bool
	)
	flag.StringVar(&fixturePath, "fixture", "", "fixture file (default: built-in demo data)")
	flag.BoolVar(&dryRun, "dry-run", false, "seed an in-memory store instead of the database")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	raw := defaultFixture
	if fixturePath != "" {
		if raw, err = os.ReadFile(fixturePath); err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
	}
	fx, err := parseFixture(raw)
	if err != nil {
		return err
	}

	ctx := context.Background()
	newInfra := modules.NewInfrastructure
	if dryRun {
		newInfra = modules.NewMemoryInfrastructure
	}
	infra, err := newInfra(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init infrastructure: %w", err)
	}
	defer infra.Close()

	deps := modules.NewServerDeps(infra, []modules.Module{
		modules.NewNotificationModule(infra),
		modules.NewAdminModule(infra),
	})

	logger.Info("Starting data seeding...", zap.Bool("dry_run", dryRun))
	sum, err := seed(ctx, deps, fx, time.Now())
	if err != nil {
		return err
	}
	logger.Info("Data seeding completed successfully",
		zap.Int("users", sum.Users),
		zap.Int("users_skipped", sum.UsersSkipped),
		zap.Int("newsletters", sum.Newsletters),
		zap.Int("subscriptions", sum.Subscriptions),
		zap.Int("campaigns", sum.Campaigns),
	)
	return nil
}

type fixture struct {
	Users       []fixtureUser       `yaml:"users"`
	Newsletters []fixtureNewsletter `yaml:"newsletters"`
	Campaigns   []fixtureCampaign   `yaml:"campaigns"`
}

type fixtureUser struct {
	ID          string              `yaml:"id"`
	Email       string              `yaml:"email"`
	Name        string              `yaml:"name"`
	Phone       string              `yaml:"phone"`
	City        string              `yaml:"city"`
	Role        string              `yaml:"role"`
	Preferences *fixturePreferences `yaml:"preferences"`
}

type fixturePreferences struct {
	EmailOffers      *bool `yaml:"email_offers"`
	SmsOffers        *bool `yaml:"sms_offers"`
	PushOffers       *bool `yaml:"push_offers"`
	EmailNewsletters *bool `yaml:"email_newsletters"`
	SmsNewsletters   *bool `yaml:"sms_newsletters"`
	PushNewsletters  *bool `yaml:"push_newsletters"`
	EmailOrders      *bool `yaml:"email_orders"`
	SmsOrders        *bool `yaml:"sms_orders"`
	PushOrders       *bool `yaml:"push_orders"`
}

func (p fixturePreferences) update() domain.PreferenceUpdate {
	return domain.PreferenceUpdate(p)
}

type fixtureNewsletter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Owner       string   `yaml:"owner"`
	Subscribers []string `yaml:"subscribers"`
}

type fixtureCampaign struct {
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Content      string   `yaml:"content"`
	Channels     []string `yaml:"channels"`
	TargetCities []string `yaml:"target_cities"`
	// ScheduleIn defers the campaign relative to seeding time. Empty sends now.
	ScheduleIn time.Duration `yaml:"schedule_in"`
}

// parseFixture decodes raw, rejecting unknown keys.
func parseFixture(raw []byte) (fixture, error) {
	var fx fixture
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	return fx, nil
}

type summary struct {
	Users         int
	UsersSkipped  int
	Newsletters   int
	Subscriptions int
	Campaigns     int
}

func seed(ctx context.Context, deps handlers.ServerDeps, fx fixture, now time.Time) (summary, error) {
	var sum summary

	for _, u := range fx.Users {
		_, err := deps.Users.Create(ctx, service.CreateUserInput{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Phone: u.Phone,
			City:  u.City,
			Role:  domain.Role(u.Role),
		})
		switch {
		case apperrors.HasCode(err, apperrors.CodeUserExists):
			sum.UsersSkipped++
			continue
		case err != nil:
			return sum, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		sum.Users++
		if u.Preferences != nil {
			if _, err := deps.Preferences.Update(ctx, u.ID, u.Preferences.update()); err != nil {
				return sum, fmt.Errorf("seed preferences of %s: %w", u.ID, err)
			}
		}
	}

	for _, n := range fx.Newsletters {
		created, err := deps.Newsletters.Create(ctx, n.Owner, n.Title, n.Description)
		if err != nil {
			return sum, fmt.Errorf("seed newsletter %q: %w", n.Title, err)
		}
		sum.Newsletters++
		for _, userID := range n.Subscribers {
			_, err := deps.Newsletters.Subscribe(ctx, userID, created.ID, service.SubscriptionFlags{
				ReceiveEmail: true,
				ReceiveSms:   true,
				ReceivePush:  true,
			})
			if err != nil && !apperrors.HasCode(err, apperrors.CodeAlreadySubscribed) {
				return sum, fmt.Errorf("subscribe %s to %q: %w", userID, n.Title, err)
			}
			if err == nil {
				sum.Subscriptions++
			}
		}
	}

	for _, c := range fx.Campaigns {
		category, ok := domain.ParseCategory(c.Category)
		if !ok {
			return sum, fmt.Errorf("seed campaign %q: unknown category %q", c.Name, c.Category)
		}
		channels, err := domain.ParseChannels(c.Channels)
		if err != nil {
			return sum, fmt.Errorf("seed campaign %q: %w", c.Name, err)
		}
		in := service.CreateCampaignInput{
			Name:         c.Name,
			Category:     category,
			Content:      c.Content,
			TargetCities: c.TargetCities,
			Channels:     channels,
		}
		if c.ScheduleIn > 0 {
			at := now.Add(c.ScheduleIn)
			in.ScheduledAt = &at
		}
		if _, _, err := deps.Campaigns.Create(ctx, in); err != nil {
			return sum, fmt.Errorf("seed campaign %q: %w", c.Name, err)
		}
		sum.Campaigns++
	}

	return sum, nil
}
