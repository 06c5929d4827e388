package services

import "gameseerr/internal/models"

// seedCatalog is the built-in work list used when the catalog is empty:
// Steam app IDs with fallback metadata for the fields Steam may not
// return (notably console platforms and ratings).
func seedCatalog() []ImportItem {
	seeds := []models.Game{
		{Title: "Elden Ring", Genre: "Action RPG", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2022, AverageRating: 96, Description: "An expansive dark fantasy world with open exploration and punishing combat."},
		{Title: "Cyberpunk 2077", Genre: "RPG", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2020, AverageRating: 81, Description: "Open-world RPG set in Night City with branching story and futuristic combat."},
		{Title: "Hades", Genre: "Roguelike", Platform: "PC, PS5, Xbox Series X, Switch", ReleaseYear: 2020, AverageRating: 93, Description: "Fast, stylish roguelike dungeon crawler from Supergiant Games."},
		{Title: "Ghostrunner 2", Genre: "Action", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2023, AverageRating: 82, Description: "Lightning-fast parkour and katana combat in a cyberpunk world."},
		{Title: "Star Wars Jedi: Survivor", Genre: "Action Adventure", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2023, AverageRating: 86, Description: "Cinematic lightsaber combat and exploration across new planets."},
		{Title: "DOOM Eternal", Genre: "Shooter", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2020, AverageRating: 89, Description: "High-velocity demon slaying with heavy metal energy."},
		{Title: "Halo Infinite", Genre: "Shooter", Platform: "PC, Xbox Series X", ReleaseYear: 2021, AverageRating: 83, Description: "Classic arena shooting and an open-world campaign on Zeta Halo."},
		{Title: "A Plague Tale: Requiem", Genre: "Adventure", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2022, AverageRating: 85, Description: "Story-driven stealth adventure with stunning visuals and drama."},
		{Title: "Resident Evil 4", Genre: "Survival Horror", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2023, AverageRating: 93, Description: "Remake of the classic - tense horror and refined combat."},
		{Title: "Alan Wake 2", Genre: "Survival Horror", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2023, AverageRating: 89, Description: "Psychological horror thriller with dual protagonists."},
		{Title: "Hogwarts Legacy", Genre: "Action RPG", Platform: "PC, PS5, Xbox Series X, Switch", ReleaseYear: 2023, AverageRating: 84, Description: "Open-world wizarding adventure in the 1800s Hogwarts era."},
		{Title: "Baldur's Gate 3", Genre: "CRPG", Platform: "PC, PS5", ReleaseYear: 2023, AverageRating: 96, Description: "Deep D&D role-playing with reactive story and party combat."},
		{Title: "Stardew Valley", Genre: "Simulation", Platform: "PC, PS5, Xbox Series X, Switch", ReleaseYear: 2016, AverageRating: 90, Description: "Farming/life sim with cozy vibes and endless progression."},
		{Title: "Cities: Skylines II", Genre: "City Builder", Platform: "PC, PS5, Xbox Series X", ReleaseYear: 2023, AverageRating: 75, Description: "Next-gen city-building with detailed simulation."},
		{Title: "The Witcher 3: Wild Hunt", Genre: "RPG", Platform: "PC, PS5, Xbox Series X, Switch", ReleaseYear: 2015, AverageRating: 98, Description: "Epic open-world fantasy with rich quests and storytelling."},
		{Title: "No Man's Sky", Genre: "Exploration", Platform: "PC, PS5, Xbox Series X, Switch", ReleaseYear: 2016, AverageRating: 88, Description: "Procedurally generated universe with base building and co-op."},
	}
	appIDs := []int64{
		1245620, 1091500, 1145360, 2081470, 1774580, 782330, 1240440, 1182900,
		2050650, 920210, 990080, 1086940, 413150, 949230, 292030, 275850,
	}

	items := make([]ImportItem, len(seeds))
	for i := range seeds {
		items[i] = ImportItem{AppID: appIDs[i], Fallback: seeds[i]}
	}
	return items
}
