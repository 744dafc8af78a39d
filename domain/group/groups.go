package group

import (
	"converse/account"
	"converse/bizerror"
	"converse/domain"
	"converse/event"
	"converse/idgen"
	"converse/persistence"
	"converse/session"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
	"github.com/sony/sonyflake"
)

var (
	groupIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateGroupFunc = CreateGroup
	EditGroupFunc   = EditGroup
	DeleteGroupFunc = DeleteGroup
	DetailGroupFunc = DetailGroup
)

// CreateGroup creates the group, bootstraps the Administrator and Member
// system roles, adds the creator as first member and assigns the
// Administrator role, all in one transaction. A group without an
// administrator must never be committed.
func CreateGroup(c domain.GroupCreation, s *session.Session) (*domain.Group, error) {
	var g domain.Group
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := account.FindUser(s.Identity.ID, tx); err != nil {
			return err
		}

		g = domain.Group{ID: idgen.NextID(groupIdWorker), Name: c.Name, Description: c.Description,
			Avatar: c.Avatar, Private: c.Private, CreateTime: types.CurrentTimestamp(), Creator: s.Identity.ID}
		if err := tx.Create(&g).Error; err != nil {
			return err
		}

		// bootstrap system roles on the unchecked path, there is no member yet
		adminRole, err := createRole(tx, g.ID, domain.RoleAdministrator, domain.AllPermissions(), true)
		if err != nil {
			return err
		}
		memberRole, err := createRole(tx, g.ID, domain.RoleMember, domain.MemberPermissions(), true)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.Group{}).Where(&domain.Group{ID: g.ID}).
			Update("default_role_id", memberRole.ID).Error; err != nil {
			return err
		}
		g.DefaultRoleID = memberRole.ID

		member, err := addMember(tx, &g, s.Identity.ID)
		if err != nil {
			return err
		}
		if err := setMemberRole(tx, member, adminRole.ID); err != nil {
			return err
		}
		g.QtyUsers = 1

		ev, err = CreateGroupCreatedEvent(&g, &s.Identity, tx)
		return err
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return &g, nil
}

// EditGroup updates the group profile, the caller must hold the edit
// permission.
func EditGroup(u domain.GroupUpdating, s *session.Session) (*domain.Group, error) {
	var g *domain.Group
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		record, err := findGroup(tx, u.GroupID)
		if err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, u.GroupID, domain.PermEdit); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name": u.Name, "description": u.Description, "avatar": u.Avatar, "private": u.Private,
		}
		if err := tx.Model(&domain.Group{}).Where(&domain.Group{ID: u.GroupID}).Update(updates).Error; err != nil {
			return err
		}

		ev, err = CreateGroupPropertyUpdatedEvent(record, []event.UpdatedProperty{
			{PropertyName: "name", PropertyDesc: "name", OldValue: record.Name, NewValue: u.Name},
		}, &s.Identity, tx)
		if err != nil {
			return err
		}

		record.Name, record.Description, record.Avatar, record.Private = u.Name, u.Description, u.Avatar, u.Private
		g = record
		return nil
	})
	if err1 != nil {
		return nil, err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return g, nil
}

// DeleteGroup removes the group with its memberships, notification trackers,
// roles and role permissions, the caller must hold the delete permission.
func DeleteGroup(groupId types.ID, s *session.Session) error {
	var ev *event.EventRecord
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g, err := findGroup(tx, groupId)
		if err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, groupId, domain.PermDelete); err != nil {
			return err
		}

		roles := []domain.GroupRole{}
		if err := tx.Where(&domain.GroupRole{GroupID: groupId}).Find(&roles).Error; err != nil {
			return err
		}
		for _, r := range roles {
			if err := RolePermissionsPersistDeleteFunc(tx, r.ID); err != nil {
				return err
			}
		}
		if err := tx.Delete(&domain.GroupRole{}, &domain.GroupRole{GroupID: groupId}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.GroupNotification{}, &domain.GroupNotification{GroupID: groupId}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.GroupMember{}, &domain.GroupMember{GroupID: groupId}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Group{}, &domain.Group{ID: groupId}).Error; err != nil {
			return err
		}

		ev, err = CreateGroupDeletedEvent(g, &s.Identity, tx)
		return err
	})
	if err1 != nil {
		return err1
	}

	if event.InvokeHandlersFunc != nil {
		event.InvokeHandlersFunc(ev)
	}
	return nil
}

// DetailGroup loads a group with members and roles, the caller must be a
// member.
func DetailGroup(groupId types.ID, s *session.Session) (*domain.GroupDetail, error) {
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	g, err := findGroup(db, groupId)
	if err != nil {
		return nil, err
	}
	if _, err := findMember(db, s.Identity.ID, groupId); err != nil {
		if err == bizerror.ErrMemberNotFound {
			return nil, bizerror.ErrForbidden
		}
		return nil, err
	}

	detail := domain.GroupDetail{Group: *g, Members: []domain.GroupMember{}, Roles: []domain.GroupRole{}}
	if err := db.Where(&domain.GroupMember{GroupID: groupId}).Order("id ASC").Find(&detail.Members).Error; err != nil {
		return nil, err
	}
	if err := db.Where(&domain.GroupRole{GroupID: groupId}).Order("id ASC").Find(&detail.Roles).Error; err != nil {
		return nil, err
	}
	return &detail, nil
}

func findGroup(tx *gorm.DB, id types.ID) (*domain.Group, error) {
	record := domain.Group{}
	if err := tx.Model(&domain.Group{}).Where(&domain.Group{ID: id}).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrGroupNotFound
		}
		return nil, err
	}
	return &record, nil
}
