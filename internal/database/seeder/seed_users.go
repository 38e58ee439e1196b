package seeder

import (
	"context"
	"fmt"

	"skill-swap/internal/database"
	"skill-swap/internal/domain/user"

	"golang.org/x/crypto/bcrypt"
)

type UsersSeeder struct{}

func (UsersSeeder) Name() string { return "users" }

type seedUser struct {
	Name         string
	Email        string
	Password     string
	Location     *string
	Availability []string
	Role         string
}

func seedUsers() []seedUser {
	newYork := "New York"
	losAngeles := "Los Angeles"
	return []seedUser{
		{Name: "Admin User", Email: "admin@skillswap.com", Password: "admin123", Availability: []string{}, Role: user.RoleAdmin},
		{
			Name:         "John Doe",
			Email:        "john@example.com",
			Password:     "password123",
			Location:     &newYork,
			Availability: []string{user.AvailabilityWeekends, user.AvailabilityEvenings},
			Role:         user.RoleUser,
		},
		{
			Name:         "Jane Smith",
			Email:        "jane@example.com",
			Password:     "password123",
			Location:     &losAngeles,
			Availability: []string{user.AvailabilityWeekdays, user.AvailabilityMornings},
			Role:         user.RoleUser,
		},
	}
}

func (UsersSeeder) Run(ctx context.Context, db database.DB) (int64, error) {
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "location", "availability", "is_public", "role"); err != nil {
		return 0, err
	}

	items := seedUsers()
	hashes := make([]string, len(items))
	for i, it := range items {
		h, err := bcrypt.GenerateFromPassword([]byte(it.Password), bcrypt.DefaultCost)
		if err != nil {
			return 0, fmt.Errorf("hash password for %s: %w", it.Email, err)
		}
		hashes[i] = string(h)
	}

	var inserted int64
	err := database.WithTx(ctx, db, func(tx database.Tx) error {
		inserted = 0
		for i, it := range items {
			n, err := tx.Exec(
				ctx,
				`INSERT INTO users (id, name, email, password_hash, location, availability, is_public, role)
				 VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, TRUE, $6)
				 ON CONFLICT ((lower(email))) DO NOTHING`,
				it.Name,
				it.Email,
				hashes[i],
				it.Location,
				it.Availability,
				it.Role,
			)
			if err != nil {
				return err
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
