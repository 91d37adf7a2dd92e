package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project status constants
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusActive    = "active"
	ProjectStatusInReview  = "in_review"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"
)

// Document status constants
const (
	DocumentStatusQueued     = "queued"
	DocumentStatusInProgress = "in_progress"
	DocumentStatusInReview   = "in_review"
	DocumentStatusCompleted  = "completed"
)

// Segment status constants
const (
	SegmentStatusUntranslated      = "untranslated"
	SegmentStatusMachineTranslated = "machine_translated"
	SegmentStatusHumanEdited       = "human_edited"
	SegmentStatusReviewed          = "reviewed"
)

// SystemSetting corresponds to the system_settings table.
type SystemSetting struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SettingKey   string    `gorm:"type:varchar(255);not null;unique" json:"setting_key"`
	SettingValue string    `gorm:"type:text;not null" json:"setting_value"`
	Description  string    `gorm:"type:varchar(512)" json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Project corresponds to the projects table. Progress and Status are derived
// from the owned documents and recomputed on every segment mutation.
type Project struct {
	ID              string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name            string         `gorm:"type:varchar(255);not null" json:"name"`
	Description     string         `gorm:"type:varchar(512)" json:"description"`
	SourceLanguage  string         `gorm:"type:varchar(64);not null" json:"source_language"`
	TargetLanguages datatypes.JSON `gorm:"type:json;not null" json:"target_languages"`
	Status          string         `gorm:"type:varchar(50);not null;default:'draft';index" json:"status"`
	Progress        int            `gorm:"not null;default:0" json:"progress"`
	OwnerID         string         `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	DueDate         *time.Time     `json:"due_date"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Documents []Document `gorm:"foreignKey:ProjectID" json:"documents,omitempty"`
}

// Document corresponds to the documents table. A document targets exactly one
// language pair; a project with N target languages produces N parallel
// documents per source file.
type Document struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID      string    `gorm:"type:varchar(36);not null;index" json:"project_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	SourceLanguage string    `gorm:"type:varchar(64);not null" json:"source_language"`
	TargetLanguage string    `gorm:"type:varchar(64);not null" json:"target_language"`
	Status         string    `gorm:"type:varchar(50);not null;default:'queued';index" json:"status"`
	Progress       int       `gorm:"not null;default:0" json:"progress"`
	TranslatorID   *string   `gorm:"type:varchar(36)" json:"translator_id"`
	SegmentCount   int64     `gorm:"not null;default:0" json:"segment_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Segment corresponds to the segments table, the unit of translation work.
// SourceText is immutable once created. Version implements the optimistic
// concurrency guard: every mutation carries the expected version and bumps it.
type Segment struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DocumentID   string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_segments_doc_ordinal;index:idx_segments_doc_status" json:"document_id"`
	Ordinal      int       `gorm:"not null;uniqueIndex:idx_segments_doc_ordinal" json:"ordinal"`
	SourceText   string    `gorm:"type:text;not null" json:"source_text"`
	TargetText   string    `gorm:"type:text" json:"target_text"`
	Status       string    `gorm:"type:varchar(50);not null;default:'untranslated';index:idx_segments_doc_status" json:"status"`
	Confidence   int       `gorm:"not null;default:0" json:"confidence"`
	TranslatorID *string   `gorm:"type:varchar(36)" json:"translator_id"`
	ReviewerID   *string   `gorm:"type:varchar(36)" json:"reviewer_id"`
	Version      int64     `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewComment corresponds to the review_comments table. A rejected review
// always carries one.
type ReviewComment struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	SegmentID  string    `gorm:"type:varchar(36);not null;index" json:"segment_id"`
	ReviewerID string    `gorm:"type:varchar(36);not null" json:"reviewer_id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// TranslationMemoryEntry corresponds to the translation_memory table, keyed by
// the normalized source text per language pair. Reuse increments Frequency
// instead of creating duplicates.
type TranslationMemoryEntry struct {
	ID             string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	SourceKey      string     `gorm:"type:varchar(512);not null;uniqueIndex:idx_tm_key" json:"-"`
	SourceLanguage string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_tm_key;index:idx_tm_pair" json:"source_language"`
	TargetLanguage string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_tm_key;index:idx_tm_pair" json:"target_language"`
	SourceText     string     `gorm:"type:text;not null" json:"source_text"`
	TargetText     string     `gorm:"type:text;not null" json:"target_text"`
	Frequency      int64      `gorm:"not null;default:1" json:"frequency"`
	Quality        int        `gorm:"not null;default:0" json:"quality"`
	Reviewed       bool       `gorm:"not null;default:false" json:"reviewed"`
	LastUsedAt     *time.Time `json:"last_used_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// GlossaryTerm corresponds to the glossary_terms table, unique per
// (term, domain) pair.
type GlossaryTerm struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Term        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_glossary_term_domain" json:"term"`
	Domain      string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_glossary_term_domain" json:"domain"`
	Translation string    `gorm:"type:varchar(512);not null" json:"translation"`
	Definition  string    `gorm:"type:text" json:"definition"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Team corresponds to the teams table.
type Team struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;unique" json:"name"`
	Description string    `gorm:"type:varchar(512)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember is the association between a team and a user, with the role the
// user holds through that team.
type TeamMember struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_team_member" json:"team_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_team_member;index" json:"user_id"`
	Role      string    `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectGrant is a direct (project, user, role) grant.
type ProjectGrant struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_grant" json:"project_id"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_grant;index" json:"user_id"`
	Role      string    `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectTeam links a team to a project; team members inherit project access
// with their team role.
type ProjectTeam struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_team" json:"project_id"`
	TeamID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_project_team;index" json:"team_id"`
	Role      string    `gorm:"type:varchar(50);not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityLog corresponds to the activity_logs table, the persisted feed of
// workflow events.
type ActivityLog struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProjectID  string    `gorm:"type:varchar(36);index:idx_activity_project_time" json:"project_id"`
	ActorID    string    `gorm:"type:varchar(36);not null" json:"actor_id"`
	Action     string    `gorm:"type:varchar(64);not null" json:"action"`
	EntityType string    `gorm:"type:varchar(64);not null" json:"entity_type"`
	EntityID   string    `gorm:"type:varchar(36);not null" json:"entity_id"`
	Detail     string    `gorm:"type:text" json:"detail"`
	CreatedAt  time.Time `gorm:"index:idx_activity_project_time" json:"created_at"`
}

// BeforeCreate assigns a UUID when the caller did not provide one.
func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (s *Segment) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (c *ReviewComment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (e *TranslationMemoryEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func (g *GlossaryTerm) BeforeCreate(*gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (t *Team) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (a *ActivityLog) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
