package models

// Brand is a flat reference table seeded at startup.
type Brand struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex:brands_name_key"`
}
