// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"darkbin/internal/cache"
	"darkbin/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PasteFilter narrows List results at the SQL level. Empty fields are ignored.
// Expired pastes are always excluded from List results.
type PasteFilter struct {
	Search   string
	Category string
	Tag      string
	OwnerID  string
}

// PasteRepository defines the interface for paste data operations
type PasteRepository interface {
	Create(ctx context.Context, paste *models.Paste) error
	// GetByID fetches a paste and atomically increments its view counter.
	GetByID(ctx context.Context, id string) (*models.Paste, error)
	// Peek fetches a paste without touching the view counter.
	Peek(ctx context.Context, id string) (*models.Paste, error)
	List(ctx context.Context, filter PasteFilter, now string) ([]*models.Paste, error)
	Delete(ctx context.Context, id string) error
	SetPinned(ctx context.Context, id string, pinned bool, requesterRole models.Role) (*models.Paste, error)
	// ToggleLike adds or removes userID's like and returns the new state.
	ToggleLike(ctx context.Context, pasteID, userID string) (liked bool, likes int64, err error)
	// SweepExpired deletes pastes whose expiry passed before cutoff, cascading
	// comments and likes. Returns the number of pastes removed.
	SweepExpired(ctx context.Context, cutoff string) (int64, error)
	// All returns every paste, expired or not, for backup snapshots.
	All(ctx context.Context) ([]*models.Paste, error)
}

// pasteRepository implements PasteRepository
type pasteRepository struct {
	db *gorm.DB
}

// NewPasteRepository creates a new paste repository
func NewPasteRepository(db *gorm.DB) PasteRepository {
	return &pasteRepository{db: db}
}

func (r *pasteRepository) Create(ctx context.Context, paste *models.Paste) error {
	err := r.db.WithContext(ctx).Create(paste).Error
	if err != nil {
		if isUniqueViolation(err) {
			return models.NewDuplicateIDError(paste.ID)
		}
		return err
	}
	cache.InvalidatePasteList(ctx)
	return nil
}

func (r *pasteRepository) GetByID(ctx context.Context, id string) (*models.Paste, error) {
	// Increment first so concurrent readers each count exactly once.
	res := r.db.WithContext(ctx).
		Model(&models.Paste{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("paste", id)
	}

	var paste models.Paste
	if err := r.db.WithContext(ctx).First(&paste, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("paste", id)
		}
		return nil, err
	}
	return &paste, nil
}

func (r *pasteRepository) Peek(ctx context.Context, id string) (*models.Paste, error) {
	var paste models.Paste
	if err := r.db.WithContext(ctx).First(&paste, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("paste", id)
		}
		return nil, err
	}
	return &paste, nil
}

// List applies coarse SQL filtering; ordering and fine-grained matching are
// the ranking engine's job. `now` is an RFC3339 UTC timestamp used to exclude
// expired pastes. Only a strictly-past expiry excludes, matching
// models.Paste.Expired, so the SQL and in-memory boundaries agree.
func (r *pasteRepository) List(ctx context.Context, filter PasteFilter, now string) ([]*models.Paste, error) {
	q := r.db.WithContext(ctx).Model(&models.Paste{}).
		Where("expires_at = '' OR expires_at >= ?", now)

	if filter.Category != "" && !strings.EqualFold(filter.Category, "all") {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.OwnerID != "" {
		q = q.Where("user_id = ?", filter.OwnerID)
	}
	if filter.Tag != "" {
		q = q.Where("LOWER(tags) LIKE ?", "%"+strings.ToLower(filter.Tag)+"%")
	}
	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ?", like, like, like)
	}

	var pastes []*models.Paste
	if err := q.Find(&pastes).Error; err != nil {
		return nil, err
	}
	return pastes, nil
}

func (r *pasteRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Paste{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("paste", id)
		}
		if err := tx.Where("paste_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("paste_id = ?", id).Delete(&models.Like{}).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePasteList(ctx)
	return nil
}

func (r *pasteRepository) SetPinned(ctx context.Context, id string, pinned bool, requesterRole models.Role) (*models.Paste, error) {
	if !requesterRole.CanPin() {
		return nil, models.NewForbiddenError("insufficient role to pin pastes")
	}

	res := r.db.WithContext(ctx).
		Model(&models.Paste{}).
		Where("id = ?", id).
		UpdateColumn("pinned", pinned)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("paste", id)
	}

	cache.InvalidatePasteList(ctx)
	return r.Peek(ctx, id)
}

func (r *pasteRepository) ToggleLike(ctx context.Context, pasteID, userID string) (bool, int64, error) {
	var liked bool
	var likes int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.Paste{}).Where("id = ?", pasteID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return models.NewNotFoundError("paste", pasteID)
		}

		// ON CONFLICT DO NOTHING makes the insert race-safe; RowsAffected
		// tells us whether this toggle is a like or an unlike.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.Like{PasteID: pasteID, UserID: userID})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = true
			if err := tx.Model(&models.Paste{}).Where("id = ?", pasteID).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
		} else {
			del := tx.Where("paste_id = ? AND user_id = ?", pasteID, userID).
				Delete(&models.Like{})
			if del.Error != nil {
				return del.Error
			}
			switch {
			case del.RowsAffected > 0:
				liked = false
				// Floor at zero so a counter drifted low can never go negative.
				if err := tx.Model(&models.Paste{}).Where("id = ?", pasteID).
					UpdateColumn("likes", gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")).Error; err != nil {
					return err
				}
			default:
				// The row vanished between our conflicting insert and the
				// delete: a concurrent toggle removed it and took the
				// decrement with it. Decrementing here too would push the
				// counter below the true row count, so retry the insert
				// instead. Losing that race as well means another
				// transaction holds the like and already incremented.
				retry := tx.Clauses(clause.OnConflict{DoNothing: true}).
					Create(&models.Like{PasteID: pasteID, UserID: userID})
				if retry.Error != nil {
					return retry.Error
				}
				liked = true
				if retry.RowsAffected > 0 {
					if err := tx.Model(&models.Paste{}).Where("id = ?", pasteID).
						UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
						return err
					}
				}
			}
		}

		return tx.Model(&models.Paste{}).Where("id = ?", pasteID).
			Pluck("likes", &likes).Error
	})
	if err != nil {
		return false, 0, err
	}

	cache.InvalidatePasteList(ctx)
	return liked, likes, nil
}

func (r *pasteRepository) SweepExpired(ctx context.Context, cutoff string) (int64, error) {
	var swept int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Paste{}).
			Where("expires_at <> '' AND expires_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		res := tx.Delete(&models.Paste{}, "id IN ?", ids)
		if res.Error != nil {
			return res.Error
		}
		swept = res.RowsAffected

		if err := tx.Where("paste_id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("paste_id IN ?", ids).Delete(&models.Like{}).Error
	})
	if err != nil {
		return 0, err
	}

	if swept > 0 {
		cache.InvalidatePasteList(ctx)
	}
	return swept, nil
}

func (r *pasteRepository) All(ctx context.Context) ([]*models.Paste, error) {
	var pastes []*models.Paste
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&pastes).Error; err != nil {
		return nil, err
	}
	return pastes, nil
}

// isUniqueViolation detects duplicate-key errors across the postgres and
// sqlite drivers without importing either driver's error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}
