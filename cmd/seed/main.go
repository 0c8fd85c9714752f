package main

import (
	"context"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/domain"
	"foodgram/internal/modules/ingredient"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
)

const seedIngredients = `name,measurement_unit
Мука пшеничная,г
Молоко,мл
Яйца куриные,шт.
Сахар,г
Соль,г
Масло сливочное,г
`

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: ", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg.DatabaseURL, zap.NewNop())
	if err != nil {
		log.Fatal("DB connection failed: ", err)
	}

	log.Println("Running migrations...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("Migrate failed: ", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	for _, table := range []string{
		"purchases", "favorites", "follows",
		"ingredient_in_recipes", "recipe_tags", "recipes",
		"tags", "users",
	} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s failed: %v", table, err)
		}
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	tags := repository.NewTagRepository(db)
	ingredients := repository.NewIngredientRepository(db)
	links := repository.NewLinkRepository(db)
	recipes := repository.NewRecipeRepository(db, links)
	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	// ================== USERS ==================
	log.Println("Creating users...")
	hash, err := bcrypt.GenerateFromPassword([]byte("foodgram123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}
	accounts := []*domain.User{
		{Email: "admin@foodgram.local", Username: "admin", FirstName: "Админ", Role: domain.RoleAdmin},
		{Email: "chef@foodgram.local", Username: "chef", FirstName: "Шеф", LastName: "Поваров", Role: domain.RoleUser},
		{Email: "reader@foodgram.local", Username: "reader", FirstName: "Читатель", Role: domain.RoleUser},
	}
	for _, u := range accounts {
		u.PasswordHash = string(hash)
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create user %s: %v", u.Username, err)
		}
	}
	chef, reader := accounts[1], accounts[2]

	// ================== TAGS ==================
	log.Println("Creating tags...")
	seedTags := []*domain.Tag{
		{Name: "Завтрак", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Обед", Color: "#49B64E", Slug: "lunch"},
		{Name: "Ужин", Color: "#8775D2", Slug: "dinner"},
	}
	for _, t := range seedTags {
		if err := tags.Create(ctx, t); err != nil {
			log.Fatalf("create tag %s: %v", t.Slug, err)
		}
	}

	// ================== INGREDIENTS ==================
	res, err := ingredient.Import(ctx, strings.NewReader(seedIngredients), ingredients, nil)
	if err != nil {
		log.Fatal("import ingredients: ", err)
	}
	log.Printf("Ingredients: created=%d skipped=%d", res.Created, res.Skipped)

	byName := map[string]int64{}
	all, err := ingredients.List(ctx, "")
	if err != nil {
		log.Fatal(err)
	}
	for _, ing := range all {
		byName[ing.Name] = ing.ID
	}

	// ================== RECIPES ==================
	log.Println("Creating recipes...")
	pancakes := &domain.Recipe{AuthorID: chef.ID, Name: "Блины", Text: "Смешать всё и жарить на сковороде.", CookingTime: 30}
	err = recipes.Create(ctx, pancakes, []int64{seedTags[0].ID}, []domain.IngredientAmount{
		{IngredientID: byName["Мука пшеничная"], Amount: 200},
		{IngredientID: byName["Молоко"], Amount: 500},
		{IngredientID: byName["Яйца куриные"], Amount: 2},
		{IngredientID: byName["Соль"], Amount: 5},
	})
	if err != nil {
		log.Fatal("create recipe: ", err)
	}

	omelette := &domain.Recipe{AuthorID: chef.ID, Name: "Омлет", Text: "Взбить яйца с молоком, посолить, жарить.", CookingTime: 10}
	err = recipes.Create(ctx, omelette, []int64{seedTags[0].ID, seedTags[2].ID}, []domain.IngredientAmount{
		{IngredientID: byName["Яйца куриные"], Amount: 3},
		{IngredientID: byName["Молоко"], Amount: 100},
		{IngredientID: byName["Соль"], Amount: 2},
	})
	if err != nil {
		log.Fatal("create recipe: ", err)
	}

	// reader follows chef and has both recipes in the cart
	for _, l := range []struct {
		kind   repository.LinkKind
		target int64
	}{
		{repository.LinkFollow, chef.ID},
		{repository.LinkFavorite, pancakes.ID},
		{repository.LinkPurchase, pancakes.ID},
		{repository.LinkPurchase, omelette.ID},
	} {
		if _, err := links.Link(ctx, l.kind, reader.ID, l.target, 0); err != nil {
			log.Fatalf("link %s: %v", l.kind, err)
		}
	}

	// ================== TOKENS ==================
	log.Println("Seed completed. Development tokens (password for every account: foodgram123):")
	for _, u := range accounts {
		token, err := j.GenerateToken(u.ID, u.Role)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("  %-7s id=%d  Bearer %s", u.Username, u.ID, token)
	}
}
