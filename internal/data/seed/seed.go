// Package seed fills an empty store with the starter menu and the admin account.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"pizza-ordering/internal/data/entity"
	"pizza-ordering/internal/data/repository"
	"pizza-ordering/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const AdminEmail = "admin@admin.com"

var pizzaNames = []string{
	"Margherita", "Pepperoni", "Hawaiian", "Veggie Delight", "BBQ Chicken",
	"Spicy Paneer", "Cheese Burst", "Mushroom Magic", "Tandoori Chicken", "Farmhouse",
	"Mexican Green Wave", "Double Cheese", "Chicken Sausage", "Peppy Paneer", "Deluxe Veggie",
	"Peri Peri Chicken", "Corn & Cheese", "Italian Supreme", "Classic Tomato", "Smoky BBQ Veg",
}

var nonVeg = map[string]bool{
	"Pepperoni": true, "Hawaiian": true, "BBQ Chicken": true, "Tandoori Chicken": true,
	"Chicken Sausage": true, "Peri Peri Chicken": true, "Italian Supreme": true,
}

var pizzaImages = []string{"pizza1.jpeg", "pizza2.jpeg", "pizza3.jpeg", "pizza4.jpeg"}

type Result struct {
	PizzasCreated int
	PizzasSkipped int
	AdminCreated  bool
}

// Run is idempotent: pizzas are matched by name and the admin by email.
func Run(ctx context.Context, repo *repository.Repository, adminPassword string, log *zap.Logger) (*Result, error) {
	log = log.With(zap.String("component", "seed"))
	res := &Result{}

	for _, name := range pizzaNames {
		existing, err := repo.Pizza.FindByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find pizza %q: %w", name, err)
		}
		if existing != nil {
			res.PizzasSkipped++
			continue
		}

		now := time.Now()
		image := pizzaImages[rand.Intn(len(pizzaImages))]
		pizza := &entity.Pizza{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Name:         name,
			Ingredients:  []string{"Cheese", "Tomato", "Crust"},
			Price:        float64(rand.Intn(400) + 100),
			Veg:          !nonVeg[name],
			Available:    true,
			Image:        &image,
		}
		if err := repo.Pizza.Create(ctx, pizza); err != nil {
			return nil, fmt.Errorf("create pizza %q: %w", name, err)
		}
		res.PizzasCreated++
	}

	admin, err := repo.User.FindByEmail(ctx, AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	switch {
	case admin == nil:
		hash, err := utils.HashPassword(adminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		now := time.Now()
		admin = &entity.User{
			BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Name:         "Admin",
			Email:        AdminEmail,
			Address:      "123 Main St",
			PasswordHash: hash,
			Role:         entity.RoleAdmin,
		}
		if err := repo.User.Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("create admin: %w", err)
		}
		res.AdminCreated = true
	case admin.Role != entity.RoleAdmin:
		admin.Role = entity.RoleAdmin
		admin.UpdatedAt = time.Now()
		if err := repo.User.Update(ctx, admin); err != nil {
			return nil, fmt.Errorf("promote admin: %w", err)
		}
	}

	log.Info("Seed complete",
		zap.Int("pizzas_created", res.PizzasCreated),
		zap.Int("pizzas_skipped", res.PizzasSkipped),
		zap.Bool("admin_created", res.AdminCreated))

	return res, nil
}
