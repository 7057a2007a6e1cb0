package services

import (
	"gorm.io/gorm"

	"drebuilder/internal/dre"
	apperrors "drebuilder/internal/errors"
	"drebuilder/internal/logger"
	"drebuilder/internal/models"
	"drebuilder/internal/pagination"
)

// activityService records and lists the notices raised in each session.
type activityService struct {
	db *gorm.DB
}

// NewActivityService creates a new ActivityServicer.
func NewActivityService(db *gorm.DB) ActivityServicer {
	return &activityService{db: db}
}

// Record stores a notice. Errors are logged but never propagate: notices
// are advisory and must not disrupt the edit that raised them.
func (s *activityService) Record(sessionID string, notice dre.Notice) {
	entry := &models.ActivityLog{
		SessionID:   sessionID,
		Kind:        string(notice.Kind),
		Title:       notice.Title,
		Description: notice.Description,
		Destructive: notice.Destructive,
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("failed to create activity log entry",
			"error", err,
			"session_id", sessionID,
			"kind", notice.Kind,
		)
	}
}

// GetSessionActivity returns a session's notices, newest first.
func (s *activityService) GetSessionActivity(
	sessionID string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.ActivityLog], error) {
	page.Defaults()

	base := s.db.Model(&models.ActivityLog{}).Where("session_id = ?", sessionID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var entries []models.ActivityLog
	if err := base.Order("created_at DESC, id DESC").Scopes(pagination.Paginate(page)).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(entries, page.Page, page.PageSize, totalItems)
	return &result, nil
}
