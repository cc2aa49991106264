package repository

import (
	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// commentRepository implements the CommentRepository interface
type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// Create creates a new comment in the database
func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetByID retrieves a comment by its ID
func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.First(&comment, id).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetByCardID retrieves all comments on a card, oldest first
func (r *commentRepository) GetByCardID(cardID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("card_id = ?", cardID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// Delete soft-deletes a comment
func (r *commentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
