package model

// Ingredient is immutable reference data, loaded by bulk import.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit;index" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
