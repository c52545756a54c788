package repository

import (
	"github.com/maoucrm/crm/internal/database"
	"github.com/maoucrm/crm/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormContactRepository is a GORM implementation of ContactRepository
type GormContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &GormContactRepository{db: db}
}

// Create creates a new contact
func (r *GormContactRepository) Create(contact *models.Contact) error {
	return r.db.Omit(clause.Associations).Create(contact).Error
}

// FindByID finds a contact owned by ownerID
func (r *GormContactRepository) FindByID(ownerID, id uint64) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.Scopes(database.OwnedBy("owner_id", ownerID)).First(&contact, id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// List retrieves the owner's contacts in insertion order
func (r *GormContactRepository) List(filter ContactFilter) ([]models.Contact, int64, error) {
	var contacts []models.Contact

	query := r.db.Model(&models.Contact{}).Scopes(database.OwnedBy("owner_id", filter.OwnerID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("id ASC")
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	if err := listQuery.Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// Update saves a contact. The owner and creation time are never rewritten.
func (r *GormContactRepository) Update(contact *models.Contact) error {
	return r.db.Omit("owner_id", "created_at", clause.Associations).Save(contact).Error
}

// Delete removes an owned contact and detaches the owner's tasks that
// reference it. Nothing is touched when the contact belongs to someone else.
func (r *GormContactRepository) Delete(ownerID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(database.OwnedBy("owner_id", ownerID)).Delete(&models.Contact{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Task{}).
			Scopes(database.OwnedBy("assigned_to_id", ownerID)).
			Where("contact_id = ?", id).
			Update("contact_id", nil).Error
	})
}

func (r *GormContactRepository) CountByOwner(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Contact{}).
		Scopes(database.OwnedBy("owner_id", ownerID)).
		Count(&count).Error
	return count, err
}
