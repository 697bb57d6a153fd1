package models

// BuildPart links a part into a build; membership is a set.
type BuildPart struct {
	BuildID int64 `gorm:"column:build_id;primaryKey"`
	PartID  int64 `gorm:"column:part_id;primaryKey"`
}

func (BuildPart) TableName() string { return "build_parts" }
