package store

import (
	"time"

	"gorm.io/datatypes"
)

type ChatEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UID       string    `gorm:"column:uid;size:100;index;not null" json:"uid"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Engine    string    `gorm:"size:50" json:"engine"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

func (ChatEntry) TableName() string { return "chat_history" }

type RoadmapProgress struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UID                  string         `gorm:"column:uid;size:100;index;not null" json:"uid"`
	RoadmapStep          datatypes.JSON `gorm:"column:roadmap_step" json:"roadmap_step"` // JSON array of step strings
	CompletionPercentage float64        `gorm:"default:0" json:"completion_percentage"`
	PlanningDays         int            `json:"planning_days"`
	DateUpdated          time.Time      `gorm:"autoUpdateTime" json:"date_updated"`
}

func (RoadmapProgress) TableName() string { return "roadmap_progress" }

type Event struct {
	ID                     uint    `gorm:"primaryKey" json:"id" yaml:"-"`
	EventName              string  `gorm:"size:200;not null" json:"event_name" yaml:"event_name"`
	Domain                 string  `gorm:"size:100;index" json:"domain" yaml:"domain"`
	Date                   string  `gorm:"size:50" json:"date" yaml:"date"`
	Link                   string  `gorm:"size:500" json:"link" yaml:"link"`
	SuggestedForPercentage float64 `json:"suggested_for_percentage" yaml:"suggested_for_percentage"`
}

func (Event) TableName() string { return "events" }

type Project struct {
	ID                     uint    `gorm:"primaryKey" json:"id" yaml:"-"`
	ProjectName            string  `gorm:"size:200;not null" json:"project_name" yaml:"project_name"`
	Domain                 string  `gorm:"size:100;index" json:"domain" yaml:"domain"`
	Description            string  `gorm:"type:text" json:"description" yaml:"description"`
	SuggestedForPercentage float64 `json:"suggested_for_percentage" yaml:"suggested_for_percentage"`
}

func (Project) TableName() string { return "projects" }

// ReferenceData is the layout of the seed file.
type ReferenceData struct {
	Events   []Event   `yaml:"events"`
	Projects []Project `yaml:"projects"`
}
