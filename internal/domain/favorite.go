package domain

import (
	"time"
)

// Favorite представляет рецепт в избранном у пользователя.
// Пара (user_id, recipe_id) уникальна на уровне БД.
type Favorite struct {
	ID       int64     `json:"id" gorm:"primaryKey"`
	UserID   int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe,priority:1"`
	RecipeID int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe,priority:2;index"`
	AddedAt  time.Time `json:"added_at" gorm:"autoCreateTime"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// TableName возвращает имя таблицы в БД
func (Favorite) TableName() string {
	return "favorites"
}

// Purchase: рецепт в списке покупок (корзине) пользователя.
type Purchase struct {
	ID       int64     `json:"id" gorm:"primaryKey"`
	UserID   int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_purchase_user_recipe,priority:1"`
	RecipeID int64     `json:"recipe_id" gorm:"not null;uniqueIndex:idx_purchase_user_recipe,priority:2;index"`
	AddedAt  time.Time `json:"added_at" gorm:"autoCreateTime;index"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// Follow: подписка пользователя на автора.
type Follow struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_follow_user_author,priority:1"`
	AuthorID     int64     `json:"author_id" gorm:"not null;uniqueIndex:idx_follow_user_author,priority:2;index"`
	SubscribedAt time.Time `json:"subscribed_at" gorm:"autoCreateTime"`

	User   *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Follow) TableName() string {
	return "follows"
}
