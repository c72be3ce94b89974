package devapi

import (
	"fmt"
	"time"

	"github.com/FACorreiaa/estate-templui/internal/app/models"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "password"

// Seeded account emails.
const (
	AdminEmail = "admin@estate.dev"
	AgentEmail = "agent@estate.dev"
	UserEmail  = "user@estate.dev"
)

type seedListing struct {
	title, address, city string
	price, area          float64
	beds, baths          int
	status               string
}

var seedListings = []seedListing{
	{"Riverside loft", "12 Quay Street", "Porto", 385000, 96, 2, 1, "for_sale"},
	{"Family house with garden", "4 Rua das Flores", "Lisbon", 1250000, 240, 5, 3, "for_sale"},
	{"Studio near campus", "88 Avenida Central", "Braga", 900, 32, 1, 1, "for_rent"},
	{"Seaside villa", "2 Praia Norte", "Cascais", 2100000, 410, 6, 5, "for_sale"},
	{"City centre apartment", "31 Baixa Square", "Lisbon", 540000, 110, 3, 2, "sold"},
	{"Renovated townhouse", "7 Old Town Lane", "Porto", 720000, 160, 4, 3, "for_sale"},
}

func (a *API) seed() error {
	hash, err := hashPassword(SeedPassword, a.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	if _, err := a.store.addAccount(AdminEmail, hash, "Ada", "Admin", models.RoleAdmin); err != nil {
		return err
	}
	agent, err := a.store.addAccount(AgentEmail, hash, "Alex", "Agent", models.RoleAgent)
	if err != nil {
		return err
	}
	user, err := a.store.addAccount(UserEmail, hash, "Uma", "User", models.RoleUser, models.RoleBuyer)
	if err != nil {
		return err
	}

	now := a.tokens.now()
	for i, l := range seedListings {
		a.store.addProperty(models.Property{
			Title:     l.title,
			Address:   l.address,
			City:      l.city,
			Price:     l.price,
			AreaSqm:   l.area,
			Bedrooms:  l.beds,
			Bathrooms: l.baths,
			Status:    l.status,
			AgentID:   agent.ID,
			CreatedAt: now.Add(-time.Duration(i) * 24 * time.Hour),
		})
	}

	a.store.notify(agent.ID, "New enquiry", "A buyer asked about Riverside loft.", now.Add(-time.Hour))
	a.store.notify(agent.ID, "Viewing booked", "Saturday 10:00 at Renovated townhouse.", now.Add(-3*time.Hour))
	a.store.notify(user.ID, "Price drop", "Seaside villa dropped by 5%.", now.Add(-2*time.Hour))
	return nil
}
