package repository

import (
	"github.com/cardboardhq/cardboard/app/models"
	"gorm.io/gorm"
)

// cardRepository implements the CardRepository interface
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new card repository instance
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

// Create creates a new card in the database
func (r *cardRepository) Create(card *models.Card) error {
	return r.db.Create(card).Error
}

// GetByID retrieves a card by its internal ID
func (r *cardRepository) GetByID(id uint) (*models.Card, error) {
	var card models.Card
	err := r.db.First(&card, id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByUUID retrieves a card by its public UUID
func (r *cardRepository) GetByUUID(uuid string) (*models.Card, error) {
	var card models.Card
	err := r.db.Where("uuid = ?", uuid).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByListID retrieves all cards in a list
func (r *cardRepository) GetByListID(listID uint) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.Where("list_id = ?", listID).Order("created_at ASC").Find(&cards).Error
	return cards, err
}

// Update saves changes to an existing card
func (r *cardRepository) Update(card *models.Card) error {
	return r.db.Save(card).Error
}

// Delete soft-deletes a card
func (r *cardRepository) Delete(id uint) error {
	return r.db.Delete(&models.Card{}, id).Error
}

// CountByListID returns how many cards a list holds
func (r *cardRepository) CountByListID(listID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Card{}).Where("list_id = ?", listID).Count(&count).Error
	return count, err
}
