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
	roleIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	CreateGroupRoleFunc = CreateGroupRole
	EditGroupRoleFunc   = EditGroupRole
	DeleteGroupRoleFunc = DeleteGroupRole
	AssignGroupRoleFunc = AssignGroupRole
	RevokeGroupRoleFunc = RevokeGroupRole
	QueryGroupRolesFunc = QueryGroupRoles

	RolePermissionsPersistDeleteFunc = rolePermissionsPersistDelete
)

func rolePermissionsPersistDelete(tx *gorm.DB, roleId types.ID) error {
	return tx.Delete(&domain.GroupRolePermission{}, &domain.GroupRolePermission{RoleID: roleId}).Error
}

// CreateGroupRole creates a custom role, the caller must hold the changeRole
// permission in the group.
func CreateGroupRole(c domain.RoleCreation, s *session.Session) (*domain.GroupRole, error) {
	var role *domain.GroupRole
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, c.GroupID); err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, c.GroupID, domain.PermChangeRole); err != nil {
			return err
		}
		r, err := createRole(tx, c.GroupID, c.Name, c.PermissionNames, false)
		if err != nil {
			return err
		}
		role = r
		return nil
	})
	if err1 != nil {
		return nil, err1
	}
	return role, nil
}

// EditGroupRole renames a role and replaces its whole permission set. The old
// associations are deleted and recreated inside one transaction, a partial
// replacement is never observable.
func EditGroupRole(e domain.RoleEditing, s *session.Session) (*domain.GroupRole, error) {
	var role *domain.GroupRole
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, e.GroupID); err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, e.GroupID, domain.PermChangeRole); err != nil {
			return err
		}

		r, err := findRole(tx, e.GroupID, e.RoleName)
		if err != nil {
			return err
		}
		if r.IsSystemRole {
			return bizerror.ErrSystemRoleImmutable
		}
		permissionIds, err := permissionIdsByActions(tx, e.NewPermissions)
		if err != nil {
			return err
		}
		if e.NewRoleName != r.Name {
			if _, err := findRole(tx, e.GroupID, e.NewRoleName); err == nil {
				return bizerror.ErrRoleNameExisted
			} else if err != bizerror.ErrRoleNotFound {
				return err
			}
		}

		if err := RolePermissionsPersistDeleteFunc(tx, r.ID); err != nil {
			return err
		}
		if err := tx.Model(&domain.GroupRole{}).Where(&domain.GroupRole{ID: r.ID}).
			Update("name", e.NewRoleName).Error; err != nil {
			return err
		}
		for _, permissionId := range permissionIds {
			if err := tx.Create(&domain.GroupRolePermission{RoleID: r.ID, PermissionID: permissionId}).Error; err != nil {
				return err
			}
		}
		r.Name = e.NewRoleName
		role = r
		return nil
	})
	if err1 != nil {
		return nil, err1
	}
	return role, nil
}

// DeleteGroupRole removes a custom role. Members still holding the role are
// reassigned to the group default role first, then the permission
// associations and the role row are removed. A reassignment failure aborts
// the whole transaction.
func DeleteGroupRole(d domain.RoleDeletion, s *session.Session) error {
	return persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g, err := findGroup(tx, d.GroupID)
		if err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, d.GroupID, domain.PermChangeRole); err != nil {
			return err
		}

		r, err := findRole(tx, d.GroupID, d.RoleName)
		if err != nil {
			return err
		}
		if r.IsSystemRole {
			return bizerror.ErrSystemRoleImmutable
		}

		if err := tx.Model(&domain.GroupMember{}).Where(&domain.GroupMember{GroupID: g.ID, RoleID: r.ID}).
			Update("role_id", g.DefaultRoleID).Error; err != nil {
			return err
		}
		if err := RolePermissionsPersistDeleteFunc(tx, r.ID); err != nil {
			return err
		}
		return tx.Delete(&domain.GroupRole{}, &domain.GroupRole{ID: r.ID}).Error
	})
}

// AssignGroupRole binds a member of the group to a role of the same group.
func AssignGroupRole(a domain.RoleAssignment, s *session.Session) (*domain.GroupMember, error) {
	var member *domain.GroupMember
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		if _, err := findGroup(tx, a.GroupID); err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, a.GroupID, domain.PermChangeRole); err != nil {
			return err
		}
		m, err := findMember(tx, a.UserID, a.GroupID)
		if err != nil {
			return err
		}
		// role lookup is scoped by group, a role of another group can never match
		r, err := findRole(tx, a.GroupID, a.RoleName)
		if err != nil {
			return err
		}
		if err := setMemberRole(tx, m, r.ID); err != nil {
			return err
		}
		member = m
		return nil
	})
	if err1 != nil {
		return nil, err1
	}
	return member, nil
}

// RevokeGroupRole puts a member back on the group default role.
func RevokeGroupRole(r domain.RoleRevocation, s *session.Session) (*domain.GroupMember, error) {
	var member *domain.GroupMember
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g, err := findGroup(tx, r.GroupID)
		if err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, r.GroupID, domain.PermChangeRole); err != nil {
			return err
		}
		m, err := findMember(tx, r.UserID, r.GroupID)
		if err != nil {
			return err
		}
		if err := setMemberRole(tx, m, g.DefaultRoleID); err != nil {
			return err
		}
		member = m
		return nil
	})
	if err1 != nil {
		return nil, err1
	}
	return member, nil
}

// QueryGroupRoles lists the roles of a group, the caller must be a member.
func QueryGroupRoles(groupId types.ID, s *session.Session) ([]domain.GroupRole, error) {
	roles := []domain.GroupRole{}
	db := persistence.ActiveDataSourceManager.GormDB(s.Context)
	if _, err := findGroup(db, groupId); err != nil {
		return nil, err
	}
	if _, err := findMember(db, s.Identity.ID, groupId); err != nil {
		if err == bizerror.ErrMemberNotFound {
			return nil, bizerror.ErrForbidden
		}
		return nil, err
	}
	if err := db.Where(&domain.GroupRole{GroupID: groupId}).Order("id ASC").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// createRole is the unchecked path, used by the group bootstrap for the two
// system roles and by CreateGroupRole after its permission check.
func createRole(tx *gorm.DB, groupId types.ID, name string, permissionNames []string, isSystemRole bool) (*domain.GroupRole, error) {
	if _, err := findRole(tx, groupId, name); err == nil {
		return nil, bizerror.ErrRoleNameExisted
	} else if err != bizerror.ErrRoleNotFound {
		return nil, err
	}

	permissionIds, err := permissionIdsByActions(tx, permissionNames)
	if err != nil {
		return nil, err
	}

	role := domain.GroupRole{ID: idgen.NextID(roleIdWorker), GroupID: groupId, Name: name, IsSystemRole: isSystemRole}
	if err := tx.Create(&role).Error; err != nil {
		return nil, err
	}
	for _, permissionId := range permissionIds {
		if err := tx.Create(&domain.GroupRolePermission{RoleID: role.ID, PermissionID: permissionId}).Error; err != nil {
			return nil, err
		}
	}
	return &role, nil
}

func findRole(tx *gorm.DB, groupId types.ID, name string) (*domain.GroupRole, error) {
	record := domain.GroupRole{}
	err := tx.Model(&domain.GroupRole{}).Where(&domain.GroupRole{GroupID: groupId, Name: name}).First(&record).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrRoleNotFound
		}
		return nil, err
	}
	return &record, nil
}
