package seeder

func Defaults() []Seeder {
	return []Seeder{
		UsersSeeder{},
		SkillPostsSeeder{},
	}
}
