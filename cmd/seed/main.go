package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"election-service/internal/config"
	"election-service/internal/database"
	"election-service/internal/models"
	"election-service/internal/repositories/sqlstore"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminEmail      = "admin@election.local"
	sampleElection  = "Sample Municipal Election"
	defaultPassword = "123456"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting database seeding...")

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	slog.Info("Database connection established")

	password := defaultPassword
	if p, ok := os.LookupEnv("SEED_ADMIN_PASSWORD"); ok && p != "" {
		password = p
	}

	if err := seed(context.Background(), db, password, time.Now()); err != nil {
		log.Fatal("Seeding failed:", err)
	}

	slog.Info("Database seeding completed successfully!")
}

// seed creates the admin account, a few voters, two parties and an election
// open for a week from now. Rows that already exist are left alone.
func seed(ctx context.Context, db *gorm.DB, adminPassword string, now time.Time) error {
	userRepo := sqlstore.NewUserRepository(db)
	partyRepo := sqlstore.NewPartyRepository(db)
	electionRepo := sqlstore.NewElectionRepository(db)
	candidateRepo := sqlstore.NewCandidateRepository(db)

	// Admins cannot register through the API
	slog.Info("Creating admin user...")
	if err := createUser(ctx, userRepo, "Administrator", adminEmail, adminPassword, models.RoleAdmin); err != nil {
		return err
	}

	testUsers := []struct {
		name  string
		email string
		role  models.Role
	}{
		{"Alice", "alice@election.local", models.RoleVoter},
		{"Bob", "bob@election.local", models.RoleVoter},
		{"Charlie", "charlie@election.local", models.RoleCandidate},
	}
	for _, u := range testUsers {
		if err := createUser(ctx, userRepo, u.name, u.email, defaultPassword, u.role); err != nil {
			return err
		}
	}

	slog.Info("Creating parties...")
	parties := make([]*models.Party, 0, 2)
	for _, p := range []models.Party{
		{Name: "People's Alliance", Level: models.PartyLevelNational},
		{Name: "Riverside Civic", Level: models.PartyLevelLocal},
	} {
		party := p
		if err := db.WithContext(ctx).Where("name = ?", party.Name).First(&party).Error; err == nil {
			parties = append(parties, &party)
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := partyRepo.Create(ctx, &party); err != nil {
			return err
		}
		slog.Info("Created party", "name", party.Name, "id", party.ID)
		parties = append(parties, &party)
	}

	var existing models.Election
	err := db.WithContext(ctx).Where("title = ?", sampleElection).First(&existing).Error
	if err == nil {
		slog.Info("Sample election already exists", "id", existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	election := &models.Election{
		Title:         sampleElection,
		Description:   "Seeded election for local development",
		ElectionLevel: "Municipal",
		ElectionType:  "General",
		City:          "Riverside",
		StartDate:     now,
		EndDate:       now.Add(7 * 24 * time.Hour),
	}
	if err := electionRepo.Create(ctx, election); err != nil {
		return err
	}
	slog.Info("Created election", "id", election.ID)

	for i, name := range []string{"Priya Sharma", "Daniel Okafor"} {
		candidate := &models.Candidate{Name: name, PartyID: parties[i].ID, ElectionID: election.ID}
		if err := candidateRepo.Create(ctx, candidate); err != nil {
			return err
		}
		slog.Info("Created candidate", "name", name, "id", candidate.ID)
	}
	return nil
}

func createUser(ctx context.Context, repo *sqlstore.UserRepository, name, email, password string, role models.Role) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := &models.User{
		Name:     name,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, sqlstore.ErrDuplicate) {
			slog.Warn("User already exists", "email", email)
			return nil
		}
		return err
	}
	slog.Info("Created user", "email", email, "role", role, "id", user.ID)
	return nil
}
