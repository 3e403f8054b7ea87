package recipes

type Tag struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"uniqueIndex;not null;size:200;column:name" json:"name"`
	Color string `gorm:"uniqueIndex;not null;size:7;column:color" json:"color"`
	Slug  string `gorm:"uniqueIndex;not null;size:200;column:slug" json:"slug"`
}

func (Tag) TableName() string { return "tag" }
