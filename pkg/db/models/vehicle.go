package models

// Vehicle rows form the seeded catalog; (year, make, model) is unique.
type Vehicle struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Make  string `gorm:"column:make;not null;uniqueIndex:vehicles_year_make_model_key,priority:2"`
	Model string `gorm:"column:model;not null;uniqueIndex:vehicles_year_make_model_key,priority:3"`
	Year  int    `gorm:"column:year;not null;uniqueIndex:vehicles_year_make_model_key,priority:1"`
}
