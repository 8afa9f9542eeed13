package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Program is a training program composed of ordered modules. ExpiryDuration
// is in months; zero means certificates issued for this program never expire.
type Program struct {
	gorm.Model
	Title               string                      `gorm:"not null" json:"title"`
	Description         string                      `json:"description"`
	LearningObjectives  datatypes.JSONSlice[string] `json:"learning_objectives"`
	ExpiryDuration      int                         `gorm:"default:0" json:"expiry_duration"`
	RenewalRequirements string                      `json:"renewal_requirements"`
	Modules             []ProgramModule             `json:"modules,omitempty"`
}

type ProgramModule struct {
	gorm.Model
	ProgramID   uint   `gorm:"index;not null" json:"program_id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Position    int    `gorm:"default:0" json:"position"`
	Units       []Unit `gorm:"foreignKey:ModuleID" json:"units,omitempty"`
}

type Unit struct {
	gorm.Model
	ModuleID           uint                        `gorm:"index;not null" json:"module_id"`
	Title              string                      `gorm:"not null" json:"title"`
	LearningObjectives datatypes.JSONSlice[string] `json:"learning_objectives"`
	Position           int                         `gorm:"default:0" json:"position"`
}

// ContentItem is uploaded learning material attached to a unit. The file
// itself lives on disk under the configured upload directory.
type ContentItem struct {
	gorm.Model
	UnitID      uint   `gorm:"index;not null" json:"unit_id"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"` // document, pdf, video, audio, image
	FilePath    string `json:"file_path"`
	FileSize    int64  `json:"file_size"`
	MimeType    string `json:"mime_type"`
}
