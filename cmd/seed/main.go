package main

import (
	"context"
	"log"
	"time"

	"github.com/maro14/fauxdoorz/internal/auth"
	propertiesrepository "github.com/maro14/fauxdoorz/internal/properties/repository"
	usersrepository "github.com/maro14/fauxdoorz/internal/users/repository"
	"github.com/maro14/fauxdoorz/pkg/config"
	"github.com/maro14/fauxdoorz/pkg/model"
)

const JobName = "seed"

type seedUser struct {
	user     model.User
	password string
}

var seedUsers = []seedUser{
	{
		user: model.User{
			Email: "admin@fauxdoorz.com",
			Name:  "Admin",
			Role:  config.RoleAdmin,
		},
		password: "admin-password-change-me",
	},
	{
		user: model.User{
			Email: "host@fauxdoorz.com",
			Name:  "Harriet Host",
			Role:  config.RoleUser,
		},
		password: "host-password-change-me",
	},
	{
		user: model.User{
			Email: "guest@fauxdoorz.com",
			Name:  "Gary Guest",
			Role:  config.RoleUser,
		},
		password: "guest-password-change-me",
	},
}

var seedProperties = []model.Property{
	{
		Title:         "Cozy Beachfront Cottage",
		Description:   "A lovely two bedroom cottage right on the sand.",
		Location:      "Santa Cruz, California",
		PricePerNight: 175,
		Images:        []string{"https://images.fauxdoorz.com/properties/beach-cottage.jpg"},
		Amenities:     []string{"wifi", "kitchen", "parking"},
		Bedrooms:      2,
		Bathrooms:     1,
		MaxGuests:     4,
		Status:        config.PropertyAvailable,
	},
	{
		Title:         "Downtown Loft",
		Description:   "Industrial loft in the heart of the city, walk to everything.",
		Location:      "Portland, Oregon",
		PricePerNight: 120,
		Images:        []string{"https://images.fauxdoorz.com/properties/downtown-loft.jpg"},
		Amenities:     []string{"wifi", "gym", "ac"},
		Bedrooms:      1,
		Bathrooms:     1,
		MaxGuests:     2,
		Status:        config.PropertyAvailable,
	},
	{
		Title:         "Mountain Cabin Retreat",
		Description:   "Quiet cabin with a wood stove and a view of the ridge.",
		Location:      "Asheville, North Carolina",
		PricePerNight: 210,
		Images:        []string{"https://images.fauxdoorz.com/properties/mountain-cabin.jpg"},
		Amenities:     []string{"wifi", "kitchen", "washer", "tv"},
		Bedrooms:      3,
		Bathrooms:     2,
		MaxGuests:     6,
		Status:        config.PropertyAvailable,
	},
}

func main() {
	log.Println("Starting seed script...")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := config.Load(JobName)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown()
	log.Println("Connected to database")

	userRepo := usersrepository.NewMongoUserRepository(cfg)
	propertyRepo := propertiesrepository.NewMongoPropertyRepository(cfg)

	users := seedAllUsers(ctx, cfg, userRepo)
	host := users["host@fauxdoorz.com"]
	if host == nil {
		log.Fatal("Host user missing after seeding")
	}

	created := 0
	for i := range seedProperties {
		property := seedProperties[i]
		property.OwnerID = host.ID

		if err := propertyRepo.Create(ctx, &property); err != nil {
			log.Printf("Skipping property %q: %v", property.Title, err)
			continue
		}
		if err := userRepo.AddProperty(ctx, host.ID, property.ID); err != nil {
			log.Printf("Failed to link property %s to host: %v", property.ID, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", len(users))
	log.Printf("  - Properties created: %d", created)
}

func seedAllUsers(ctx context.Context, cfg *config.Config, repo usersrepository.UserRepository) map[string]*model.User {
	users := make(map[string]*model.User, len(seedUsers))

	for _, seed := range seedUsers {
		if existing, err := repo.FindByEmail(ctx, seed.user.Email); err == nil {
			log.Printf("User %s already exists, skipping", seed.user.Email)
			users[seed.user.Email] = existing
			continue
		}

		hash, err := auth.HashPassword(seed.password, cfg.BcryptCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", seed.user.Email, err)
		}

		user := seed.user
		user.PasswordHash = hash
		user.Properties = []string{}

		if err := repo.Create(ctx, &user); err != nil {
			log.Fatalf("Failed to create user %s: %v", user.Email, err)
		}
		log.Printf("Created user %s (%s)", user.Email, user.Role)
		users[user.Email] = &user
	}

	return users
}
