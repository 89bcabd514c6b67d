// Package sites holds the admin-managed registry of tracked sites. Each site
// maps a URL to the channel its events are appended to.
package sites

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SiteNotFoundError represents an error when a site is not found
type SiteNotFoundError struct {
	Key string
}

func (e *SiteNotFoundError) Error() string {
	return fmt.Sprintf("site not found: %s", e.Key)
}

// NewSiteNotFoundError creates a new SiteNotFoundError
func NewSiteNotFoundError(key string) *SiteNotFoundError {
	return &SiteNotFoundError{Key: key}
}

// Site represents a tracked website and its event channel
type Site struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	URL         string    `gorm:"unique;not null" json:"url"` // Origin URL, e.g. "https://example.com"
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	ChannelID   string    `gorm:"uniqueIndex;not null" json:"channel_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository is the registry interface handlers consume. Lookups resolve by
// origin URL (event ingestion) or by channel id (dashboard reads).
type Repository interface {
	All() ([]Site, error)
	ByURL(url string) (*Site, error)
	ByChannelID(channelID string) (*Site, error)
	Create(site *Site) error
	Update(site *Site) error
	Delete(channelID string) error
}

// GormRepository is the SQLite-backed registry.
type GormRepository struct {
	db *gorm.DB
}

// NewRepository creates a registry backed by the given connection.
func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// All returns every registered site.
func (r *GormRepository) All() ([]Site, error) {
	var all []Site
	if err := r.db.Order("id").Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return all, nil
}

// ByURL resolves a site by its origin URL, ignoring a trailing slash.
func (r *GormRepository) ByURL(url string) (*Site, error) {
	normalized := strings.TrimSuffix(url, "/")
	var site Site
	if err := r.db.Where("url = ? OR url = ?", normalized, normalized+"/").First(&site).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewSiteNotFoundError(url)
		}
		return nil, fmt.Errorf("unexpected error querying site: %w", err)
	}
	return &site, nil
}

// ByChannelID resolves a site by its channel id.
func (r *GormRepository) ByChannelID(channelID string) (*Site, error) {
	var site Site
	if err := r.db.Where("channel_id = ?", channelID).First(&site).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NewSiteNotFoundError(channelID)
		}
		return nil, fmt.Errorf("unexpected error querying site: %w", err)
	}
	return &site, nil
}

// Create registers a new site, assigning a channel id when none is set.
func (r *GormRepository) Create(site *Site) error {
	site.URL = strings.TrimSuffix(site.URL, "/")
	site.CreatedAt = time.Now().UTC()
	if site.ChannelID == "" {
		site.ChannelID = uuid.NewString()
	}
	return r.db.Create(site).Error
}

// Update saves changes to an existing site.
func (r *GormRepository) Update(site *Site) error {
	site.URL = strings.TrimSuffix(site.URL, "/")
	return r.db.Save(site).Error
}

// Delete removes a site by channel id.
func (r *GormRepository) Delete(channelID string) error {
	result := r.db.Where("channel_id = ?", channelID).Delete(&Site{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewSiteNotFoundError(channelID)
	}
	return nil
}
