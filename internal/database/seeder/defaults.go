package seeder

// Defaults are the seeders every environment needs.
func Defaults() []Seeder {
	return []Seeder{
		SkillsSeeder{},
	}
}

// WithDemo appends sample accounts and listings for local development.
func WithDemo() []Seeder {
	return append(Defaults(), DemoSeeder{})
}
