package food

import (
	"caltrack/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	FoodRepository interface {
		AddEntry(ctx context.Context, entry *entities.FoodEntry) error
		GetEntryByID(ctx context.Context, id string) (*entities.FoodEntry, error)
		GetEntriesByDate(ctx context.Context, userID string, date time.Time) ([]*entities.FoodEntry, error)
		GetAllEntries(ctx context.Context, userID string) ([]*entities.FoodEntry, error)
		DeleteEntry(ctx context.Context, id string) error

		ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
		CountArchive(ctx context.Context) (int64, error)
		PruneArchiveOldest(ctx context.Context, rows int64) (int64, error)
	}

	foodRepository struct {
		db *gorm.DB
	}
)

func NewFoodRepository(db *gorm.DB) FoodRepository {
	return &foodRepository{db: db}
}

func (r *foodRepository) AddEntry(ctx context.Context, entry *entities.FoodEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *foodRepository) GetEntryByID(ctx context.Context, id string) (*entities.FoodEntry, error) {
	var entry entities.FoodEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *foodRepository) GetEntriesByDate(ctx context.Context, userID string, date time.Time) ([]*entities.FoodEntry, error) {
	var entries []*entities.FoodEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date = ?", userID, date).
		Order("taken_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *foodRepository) GetAllEntries(ctx context.Context, userID string) ([]*entities.FoodEntry, error) {
	var entries []*entities.FoodEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_date ASC, taken_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *foodRepository) DeleteEntry(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.FoodEntry{}).Error
}

// ArchiveOlderThan moves entries older than the cutoff into the archive
// table, then removes them from the hot table.
func (r *foodRepository) ArchiveOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var moved int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`
			INSERT INTO food_entry_archives
				(id, user_id, entry_date, taken_at, description, calories,
				 protein_g, carbs_g, fat_g, extraction_source,
				 extraction_confidence, estimated, extraction_notes,
				 archived_at, created_at, updated_at)
			SELECT id, user_id, entry_date, taken_at, description, calories,
				 protein_g, carbs_g, fat_g, extraction_source,
				 extraction_confidence, estimated, extraction_notes,
				 NOW(), created_at, updated_at
			FROM food_entries
			WHERE entry_date < ?
			ON CONFLICT (id) DO NOTHING
		`, cutoff)
		if res.Error != nil {
			return res.Error
		}
		moved = res.RowsAffected
		return tx.Where("entry_date < ?", cutoff).Delete(&entities.FoodEntry{}).Error
	})
	return moved, err
}

func (r *foodRepository) CountArchive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FoodEntryArchive{}).Count(&count).Error
	return count, err
}

// PruneArchiveOldest deletes the given number of archive rows, oldest entry
// dates first.
func (r *foodRepository) PruneArchiveOldest(ctx context.Context, rows int64) (int64, error) {
	if rows <= 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Exec(`
		DELETE FROM food_entry_archives
		WHERE id IN (
			SELECT id FROM food_entry_archives
			ORDER BY entry_date ASC, taken_at ASC
			LIMIT ?
		)
	`, rows)
	return res.RowsAffected, res.Error
}
