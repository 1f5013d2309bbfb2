package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jask/camaron/internal/database/repository"
)

type seedProvider struct {
	name        string
	title       string
	rating      float64
	description string
	jobs        int
	rateCents   int64
	elite       bool
}

var seedCategories = []repository.Category{
	{ID: "maintenance", Name: "Mantenimiento", AvailableCount: 300, Color: "#4285F4"},
	{ID: "cleaning", Name: "Limpieza", AvailableCount: 402, Color: "#34A853"},
	{ID: "electrician", Name: "Electricista", AvailableCount: 242, Color: "#FBBC04"},
	{ID: "gardener", Name: "Jardinero", AvailableCount: 242, Color: "#EA4335"},
}

var seedProviders = map[string][]seedProvider{
	"maintenance": {
		{"Sadico Timido", "Elite tasker", 5.0, "Técnico especializado en mantenimiento general: electricidad, plomería, pintura, carpintería y más.", 5, 1500, true},
		{"Elizabeth Bailey", "Elite tasker", 5.0, "Soluciones completas para el mantenimiento de tu hogar, oficina o negocio.", 3, 800, true},
		{"Ashley Robinson", "Regular tasker", 4.5, "Especialista en reparaciones: arreglos eléctricos, plomería, pintura y montaje de muebles.", 2, 650, false},
	},
	"cleaning": {
		{"Lucía Fernández", "Elite tasker", 4.9, "Limpieza profunda de casas y oficinas con productos ecológicos.", 41, 1200, true},
		{"Jorge Méndez", "Regular tasker", 4.3, "Limpieza después de mudanzas y obras.", 12, 900, false},
	},
	"electrician": {
		{"Ramón Ortega", "Elite tasker", 4.8, "Instalaciones eléctricas residenciales, tableros y luminarias.", 63, 1800, true},
		{"Diana Cruz", "Regular tasker", 4.4, "Reparación de contactos, apagadores y cortocircuitos.", 9, 1100, false},
	},
	"gardener": {
		{"Tomás Herrera", "Regular tasker", 4.6, "Poda, pasto y diseño de jardines pequeños.", 17, 700, false},
		{"Valeria Ríos", "Elite tasker", 4.9, "Paisajismo y mantenimiento de áreas verdes.", 28, 1300, true},
	},
}

// SeedID derives a stable id so seeding stays idempotent across runs.
func SeedID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(kind+":"+key)).String()
}

// SeedDefaults ensures baseline categories and providers exist for new databases.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	existing, err := catRepo.List(ctx)
	if err == nil && len(existing) > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for idx, c := range seedCategories {
			c.SortOrder = idx
			if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories(id, name, available_count, color, sort_order) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`, c.ID, c.Name, c.AvailableCount, c.Color, c.SortOrder); err != nil {
				return err
			}
			for _, p := range seedProviders[c.ID] {
				if _, err := tx.ExecContext(ctx, `
				INSERT INTO providers(id, category_id, name, title, rating, description, jobs_completed, hourly_rate_cents, elite)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING`,
					SeedID("provider", c.ID+"/"+p.name), c.ID, p.name, p.title, p.rating, p.description, p.jobs, p.rateCents, p.elite); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
