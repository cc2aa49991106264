package repository

import (
	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// listRepository implements the ListRepository interface
type listRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new list repository instance
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

// Create creates a new list in the database
func (r *listRepository) Create(list *models.List) error {
	return r.db.Create(list).Error
}

// GetByID retrieves a list by its ID
func (r *listRepository) GetByID(id uint) (*models.List, error) {
	var list models.List
	err := r.db.First(&list, id).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetByUserID retrieves all lists owned by a user
func (r *listRepository) GetByUserID(userID uint) ([]models.List, error) {
	var lists []models.List
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&lists).Error
	return lists, err
}

// GetByNameAndUser retrieves a list by name for a specific user
func (r *listRepository) GetByNameAndUser(name string, userID uint) (*models.List, error) {
	var list models.List
	err := r.db.Where("name = ? AND user_id = ?", name, userID).First(&list).Error
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// Update saves changes to an existing list
func (r *listRepository) Update(list *models.List) error {
	return r.db.Save(list).Error
}

// Delete soft-deletes a list
func (r *listRepository) Delete(id uint) error {
	return r.db.Delete(&models.List{}, id).Error
}

// CountByUserID returns how many lists a user owns
func (r *listRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.List{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
