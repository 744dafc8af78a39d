package domain

import (
	"github.com/fundwit/go-commons/types"
)

// actions of the permission catalog, provisioned once at startup
const (
	PermDelete       = "delete"
	PermEdit         = "edit"
	PermAddMember    = "addMember"
	PermRemoveMember = "removeMember"
	PermSendMessage  = "sendMessage"
	PermAddMedia     = "addMedia"
	PermChangeRole   = "changeRole"
	PermSeeUsers     = "seeUsers"
)

func AllPermissions() []string {
	return []string{PermDelete, PermEdit, PermAddMember, PermRemoveMember,
		PermSendMessage, PermAddMedia, PermChangeRole, PermSeeUsers}
}

// permission set of the default member role
func MemberPermissions() []string {
	return []string{PermAddMember, PermSendMessage, PermAddMedia, PermSeeUsers}
}

const (
	RoleAdministrator = "Administrator"
	RoleMember        = "Member"
)

type Group struct {
	ID          types.ID `json:"id" gorm:"primary_key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Avatar      string   `json:"avatar"`
	Private     bool     `json:"private"`

	// denormalized member counter, mutated only together with group_members rows
	QtyUsers int `json:"qtyUsers"`
	// role assigned to newly added members and to members whose role is revoked
	DefaultRoleID types.ID `json:"defaultRoleId"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
	Creator    types.ID        `json:"creator"`
}

type GroupMember struct {
	ID      types.ID `json:"id" gorm:"primary_key"`
	UserID  types.ID `json:"userId" gorm:"unique_index:uni_member_group" sql:"type:BIGINT UNSIGNED NOT NULL"`
	GroupID types.ID `json:"groupId" gorm:"unique_index:uni_member_group" sql:"type:BIGINT UNSIGNED NOT NULL"`
	RoleID  types.ID `json:"roleId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	IsMuted bool     `json:"isMuted"`

	CreateTime types.Timestamp `json:"createTime" sql:"type:DATETIME(6)"`
}

type GroupRole struct {
	ID           types.ID `json:"id" gorm:"primary_key"`
	GroupID      types.ID `json:"groupId" gorm:"unique_index:uni_role_name_group" sql:"type:BIGINT UNSIGNED NOT NULL"`
	Name         string   `json:"name" gorm:"unique_index:uni_role_name_group"`
	IsSystemRole bool     `json:"isSystemRole"`
}

type Permission struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	Action string   `json:"action" gorm:"unique_index:uni_permission_action"`
}

type GroupRolePermission struct {
	RoleID       types.ID `json:"roleId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
	PermissionID types.ID `json:"permissionId" gorm:"primary_key" sql:"type:BIGINT UNSIGNED NOT NULL"`
}

// per member notification tracker, created when the member is added
type GroupNotification struct {
	ID       types.ID `json:"id" gorm:"primary_key"`
	MemberID types.ID `json:"memberId" sql:"type:BIGINT UNSIGNED NOT NULL"`
	GroupID  types.ID `json:"groupId" sql:"type:BIGINT UNSIGNED NOT NULL"`
}

type GroupCreation struct {
	Name        string `json:"name" binding:"required,lte=255"`
	Description string `json:"description" binding:"lte=1024"`
	Avatar      string `json:"avatar" binding:"lte=512"`
	Private     bool   `json:"private"`
}

// GroupID of the updating and creation payloads below is taken from the
// request path, not from the body.
type GroupUpdating struct {
	GroupID     types.ID `json:"-"`
	Name        string   `json:"name" binding:"required,lte=255"`
	Description string   `json:"description" binding:"lte=1024"`
	Avatar      string   `json:"avatar" binding:"lte=512"`
	Private     bool     `json:"private"`
}

type MemberAddition struct {
	UserID  types.ID `json:"userId" binding:"required"`
	GroupID types.ID `json:"-"`
}

type MemberDeletion struct {
	UserID  types.ID `json:"userId" binding:"required"`
	GroupID types.ID `json:"groupId" binding:"required"`
}

type RoleCreation struct {
	GroupID         types.ID `json:"-"`
	Name            string   `json:"name" binding:"required,lte=255"`
	PermissionNames []string `json:"permissionNames" binding:"required"`
}

type RoleEditing struct {
	GroupID        types.ID `json:"-"`
	RoleName       string   `json:"roleName" binding:"required,lte=255"`
	NewRoleName    string   `json:"newRoleName" binding:"required,lte=255"`
	NewPermissions []string `json:"newPermissions" binding:"required"`
}

type RoleDeletion struct {
	GroupID  types.ID `json:"groupId" binding:"required"`
	RoleName string   `json:"roleName" binding:"required,lte=255"`
}

type RoleAssignment struct {
	GroupID  types.ID `json:"-"`
	UserID   types.ID `json:"userId" binding:"required"`
	RoleName string   `json:"roleName" binding:"required,lte=255"`
}

type RoleRevocation struct {
	GroupID types.ID `json:"groupId" binding:"required"`
	UserID  types.ID `json:"userId" binding:"required"`
}

type NotificationToggle struct {
	GroupID types.ID `json:"-"`
	IsMuted bool     `json:"isMuted"`
}

type GroupDetail struct {
	Group
	Members []GroupMember `json:"members"`
	Roles   []GroupRole   `json:"roles"`
}
