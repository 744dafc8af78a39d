package group

import (
	"converse/account"
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
	memberIdWorker       = sonyflake.NewSonyflake(sonyflake.Settings{})
	notificationIdWorker = sonyflake.NewSonyflake(sonyflake.Settings{})

	AddGroupMemberFunc         = AddGroupMember
	RemoveGroupMemberFunc      = RemoveGroupMember
	QueryGroupMembersFunc      = QueryGroupMembers
	ChangeUserNotificationFunc = ChangeUserNotification
)

// MembershipChange is handed to the realtime layer after a membership
// mutation has been committed.
type MembershipChange struct {
	Event   string
	UserID  types.ID
	GroupID types.ID
}

const (
	MembershipEventAdd    = "add"
	MembershipEventDelete = "delete"
)

// MembershipNotifyFunc is wired to the realtime fanout at bootstrap, the
// group package itself never owns a connection.
var MembershipNotifyFunc = func(change MembershipChange) {}

// AddGroupMember adds the user to the group with the default role, the caller
// must hold the addMember permission. Not idempotent: adding an existing
// member fails with a conflict.
func AddGroupMember(d domain.MemberAddition, s *session.Session) (*domain.GroupMember, error) {
	var member *domain.GroupMember
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g, err := findGroup(tx, d.GroupID)
		if err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, d.GroupID, domain.PermAddMember); err != nil {
			return err
		}
		m, err := addMember(tx, g, d.UserID)
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	if err1 != nil {
		return nil, err1
	}

	MembershipNotifyFunc(MembershipChange{Event: MembershipEventAdd, UserID: d.UserID, GroupID: d.GroupID})
	return member, nil
}

// RemoveGroupMember removes the user from the group, the caller must hold the
// removeMember permission.
func RemoveGroupMember(d domain.MemberDeletion, s *session.Session) (*domain.GroupMember, error) {
	var member *domain.GroupMember
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		g, err := findGroup(tx, d.GroupID)
		if err != nil {
			return err
		}
		if err := CheckPermission(tx, s.Identity.ID, d.GroupID, domain.PermRemoveMember); err != nil {
			return err
		}
		m, err := removeMember(tx, g, d.UserID)
		if err != nil {
			return err
		}
		member = m
		return nil
	})
	if err1 != nil {
		return nil, err1
	}

	MembershipNotifyFunc(MembershipChange{Event: MembershipEventDelete, UserID: d.UserID, GroupID: d.GroupID})
	return member, nil
}

// QueryGroupMembers lists the members of a group, the caller must be a member.
func QueryGroupMembers(groupId types.ID, s *session.Session) ([]domain.GroupMember, error) {
	members := []domain.GroupMember{}
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
	if err := db.Where(&domain.GroupMember{GroupID: groupId}).Order("id ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// ChangeUserNotification toggles the mute flag of the caller's own
// membership, no role check applies.
func ChangeUserNotification(t domain.NotificationToggle, s *session.Session) (*domain.GroupMember, error) {
	var member *domain.GroupMember
	err1 := persistence.ActiveDataSourceManager.GormDB(s.Context).Transaction(func(tx *gorm.DB) error {
		m, err := findMember(tx, s.Identity.ID, t.GroupID)
		if err != nil {
			return err
		}
		if err := tx.Model(&domain.GroupMember{}).Where(&domain.GroupMember{ID: m.ID}).
			Update("is_muted", t.IsMuted).Error; err != nil {
			return err
		}
		m.IsMuted = t.IsMuted
		member = m
		return nil
	})
	if err1 != nil {
		return nil, err1
	}
	return member, nil
}

// addMember is the unchecked path. Membership row, notification tracker and
// the qty_users counter always change in the same transaction.
func addMember(tx *gorm.DB, g *domain.Group, userId types.ID) (*domain.GroupMember, error) {
	if _, err := account.FindUser(userId, tx); err != nil {
		return nil, err
	}
	if _, err := findMember(tx, userId, g.ID); err == nil {
		return nil, bizerror.ErrMemberExisted
	} else if err != bizerror.ErrMemberNotFound {
		return nil, err
	}

	member := domain.GroupMember{ID: idgen.NextID(memberIdWorker), UserID: userId, GroupID: g.ID,
		RoleID: g.DefaultRoleID, CreateTime: types.CurrentTimestamp()}
	if err := tx.Create(&member).Error; err != nil {
		return nil, err
	}
	notification := domain.GroupNotification{ID: idgen.NextID(notificationIdWorker), MemberID: member.ID, GroupID: g.ID}
	if err := tx.Create(&notification).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.Group{}).Where(&domain.Group{ID: g.ID}).
		Update("qty_users", gorm.Expr("qty_users + 1")).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

func removeMember(tx *gorm.DB, g *domain.Group, userId types.ID) (*domain.GroupMember, error) {
	member, err := findMember(tx, userId, g.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Delete(&domain.GroupMember{}, &domain.GroupMember{ID: member.ID}).Error; err != nil {
		return nil, err
	}
	if err := tx.Delete(&domain.GroupNotification{}, &domain.GroupNotification{MemberID: member.ID}).Error; err != nil {
		return nil, err
	}
	if err := tx.Model(&domain.Group{}).Where(&domain.Group{ID: g.ID}).
		Update("qty_users", gorm.Expr("qty_users - 1")).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func setMemberRole(tx *gorm.DB, m *domain.GroupMember, roleId types.ID) error {
	if err := tx.Model(&domain.GroupMember{}).Where(&domain.GroupMember{ID: m.ID}).
		Update("role_id", roleId).Error; err != nil {
		return err
	}
	m.RoleID = roleId
	return nil
}
