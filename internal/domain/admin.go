package domain

import "time"

type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectCompleted ProjectStatus = "completed"
	ProjectExported  ProjectStatus = "exported"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type Project struct {
	Id          string        `yaml:"id"`
	CompanyName string        `yaml:"company_name"`
	Sector      string        `yaml:"sector"`
	CreatedAt   time.Time     `yaml:"created_at"`
	Status      ProjectStatus `yaml:"status"`
	Concepts    int           `yaml:"concepts"`
}

type User struct {
	Id            string    `yaml:"id"`
	Email         string    `yaml:"email"`
	Name          string    `yaml:"name"`
	Role          Role      `yaml:"role"`
	CreatedAt     time.Time `yaml:"created_at"`
	LastLogin     time.Time `yaml:"last_login"`
	ProjectsCount int       `yaml:"projects_count"`
}

type NamedCount struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

type Stats struct {
	TotalLogosCreated int          `yaml:"total_logos_created"`
	TotalUsers        int          `yaml:"total_users"`
	PopularSectors    []NamedCount `yaml:"popular_sectors"`
	PopularStyles     []NamedCount `yaml:"popular_styles"`
	RecentActivity    []Project    `yaml:"-"`
}

type Settings struct {
	StabilityApiKey          string `yaml:"stability_api_key"`
	MaxLogosPerUser          int    `yaml:"max_logos_per_user"`
	EnableEmailNotifications bool   `yaml:"enable_email_notifications"`
	EnablePublicGallery      bool   `yaml:"enable_public_gallery"`
	DefaultLogoStyle         string `yaml:"default_logo_style"`
	SystemMaintenance        bool   `yaml:"system_maintenance"`
	AutoBackup               bool   `yaml:"auto_backup"`
	SessionTimeout           int    `yaml:"session_timeout"`
}
