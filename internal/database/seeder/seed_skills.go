package seeder

import (
	"context"
	"fmt"

	"jobmatch/internal/database"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "skills", "id", "name", "category", "created_at"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, it := range catalog {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO skills (id, name, category) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT DO NOTHING`,
			it.Name,
			it.Category,
		)
		if err != nil {
			return fmt.Errorf("insert skill %s: %w", it.Name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type catalogEntry struct {
	Name     string
	Category string
}

var catalog = []catalogEntry{
	{Name: "Go", Category: "language"},
	{Name: "JavaScript", Category: "language"},
	{Name: "TypeScript", Category: "language"},
	{Name: "Python", Category: "language"},
	{Name: "Java", Category: "language"},
	{Name: "Rust", Category: "language"},
	{Name: "SQL", Category: "language"},
	{Name: "React", Category: "frontend"},
	{Name: "Vue", Category: "frontend"},
	{Name: "Node.js", Category: "backend"},
	{Name: "GraphQL", Category: "backend"},
	{Name: "PostgreSQL", Category: "database"},
	{Name: "MySQL", Category: "database"},
	{Name: "Redis", Category: "database"},
	{Name: "MongoDB", Category: "database"},
	{Name: "Docker", Category: "devops"},
	{Name: "Kubernetes", Category: "devops"},
	{Name: "Terraform", Category: "devops"},
	{Name: "AWS", Category: "cloud"},
	{Name: "GCP", Category: "cloud"},
	{Name: "Azure", Category: "cloud"},
	{Name: "Figma", Category: "design"},
	{Name: "Product Management", Category: "business"},
	{Name: "Data Analysis", Category: "data"},
	{Name: "Machine Learning", Category: "data"},
}
