package models

// PartType is a flat reference table seeded at startup.
type PartType struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;uniqueIndex:part_types_name_key"`
}
