package recipes

type Ingredient struct {
	ID              uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string `gorm:"not null;size:200;uniqueIndex:idx_ingredient_name_unit;column:name" json:"name"`
	MeasurementUnit string `gorm:"not null;size:200;uniqueIndex:idx_ingredient_name_unit;column:measurement_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string { return "ingredient" }
