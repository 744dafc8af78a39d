package group

import (
	"converse/bizerror"
	"converse/domain"
	"converse/idgen"
	"converse/persistence"
	"converse/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	permissionIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	QueryPermissionsFunc = QueryPermissions
)

// BootstrapPermissions provisions the permission catalog, missing actions are
// created and existing ones are left untouched.
func BootstrapPermissions(tx *gorm.DB) error {
	for _, action := range domain.AllPermissions() {
		record := domain.Permission{}
		err := tx.Model(&domain.Permission{}).Where(&domain.Permission{Action: action}).First(&record).Error
		if err == nil {
			continue
		}
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}
		if err := tx.Create(&domain.Permission{ID: idgen.NextID(permissionIdWorker), Action: action}).Error; err != nil {
			return err
		}
	}
	return nil
}

func QueryPermissions(s *session.Session) ([]domain.Permission, error) {
	records := []domain.Permission{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if err := db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func permissionIdByAction(tx *gorm.DB, action string) (types.ID, error) {
	record := domain.Permission{}
	if err := tx.Model(&domain.Permission{}).Where(&domain.Permission{Action: action}).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return 0, bizerror.ErrUnknownPermission
		}
		return 0, err
	}
	return record.ID, nil
}

// permissionIdsByActions resolves every action or fails, a single unknown
// action invalidates the whole request.
func permissionIdsByActions(tx *gorm.DB, actions []string) ([]types.ID, error) {
	ids := make([]types.ID, 0, len(actions))
	for _, action := range actions {
		id, err := permissionIdByAction(tx, action)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
