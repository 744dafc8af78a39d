package group

import (
	"converse/bizerror"
	"converse/domain"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

// CheckPermission decides whether the user holds the permission within the
// group: membership -> role -> permission set. Read only, no side effects.
// Every caller-facing mutation runs it first; bootstrap paths use the
// unchecked store functions deliberately.
func CheckPermission(tx *gorm.DB, userId, groupId types.ID, action string) error {
	member, err := findMember(tx, userId, groupId)
	if err != nil {
		if err == bizerror.ErrMemberNotFound {
			// not a member
			return bizerror.ErrForbidden
		}
		return err
	}

	permissionId, err := permissionIdByAction(tx, action)
	if err != nil {
		return err
	}

	grantedIds, err := rolePermissionIds(tx, member.RoleID)
	if err != nil {
		return err
	}
	for _, id := range grantedIds {
		if id == permissionId {
			return nil
		}
	}
	return bizerror.ErrForbidden
}

func findMember(tx *gorm.DB, userId, groupId types.ID) (*domain.GroupMember, error) {
	record := domain.GroupMember{}
	err := tx.Model(&domain.GroupMember{}).
		Where(&domain.GroupMember{UserID: userId, GroupID: groupId}).First(&record).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrMemberNotFound
		}
		return nil, err
	}
	return &record, nil
}

func rolePermissionIds(tx *gorm.DB, roleId types.ID) ([]types.ID, error) {
	relations := []domain.GroupRolePermission{}
	if err := tx.Model(&domain.GroupRolePermission{}).
		Where(&domain.GroupRolePermission{RoleID: roleId}).Find(&relations).Error; err != nil {
		return nil, err
	}
	ids := make([]types.ID, 0, len(relations))
	for _, r := range relations {
		ids = append(ids, r.PermissionID)
	}
	return ids, nil
}
