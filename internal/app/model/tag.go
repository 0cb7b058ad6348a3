package model

// Tag is admin-managed reference data attached to recipes.
type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"type:varchar(200);uniqueIndex;not null" json:"name"`
	Color string `gorm:"type:varchar(7);uniqueIndex;not null" json:"color"` // #RRGGBB
	Slug  string `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
}

func (Tag) TableName() string {
	return "tags"
}

// RecipeTag is the join row between recipes and tags.
type RecipeTag struct {
	RecipeID uint `gorm:"primaryKey" json:"recipe_id"`
	TagID    uint `gorm:"primaryKey;index" json:"tag_id"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
