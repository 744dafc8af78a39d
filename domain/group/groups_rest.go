package group

import (
	"converse/bizerror"
	"converse/domain"
	"converse/session"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathGroups = "/v1/groups"
)

func RegisterGroupsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathGroups, middleWares...)
	g.POST("", handleCreateGroup)
	g.GET(":groupId", handleDetailGroup)
	g.PUT(":groupId", handleEditGroup)
	g.DELETE(":groupId", handleDeleteGroup)

	g.GET(":groupId/members", handleQueryGroupMembers)
	g.POST(":groupId/members", handleAddGroupMember)
	g.DELETE(":groupId/members/:userId", handleRemoveGroupMember)
	g.PUT(":groupId/notification", handleChangeUserNotification)

	g.GET(":groupId/roles", handleQueryGroupRoles)
	g.POST(":groupId/roles", handleCreateGroupRole)
	g.PUT(":groupId/roles", handleEditGroupRole)
	g.DELETE(":groupId/roles/:roleName", handleDeleteGroupRole)
	g.POST(":groupId/role-assignments", handleAssignGroupRole)
	g.DELETE(":groupId/role-assignments/:userId", handleRevokeGroupRole)
}

func parsePathID(c *gin.Context, name string) types.ID {
	id, err := types.ParseID(c.Param(name))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	return id
}

func handleCreateGroup(c *gin.Context) {
	creation := domain.GroupCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateGroupFunc(creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDetailGroup(c *gin.Context) {
	record, err := DetailGroupFunc(parsePathID(c, "groupId"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleEditGroup(c *gin.Context) {
	updating := domain.GroupUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	updating.GroupID = parsePathID(c, "groupId")
	record, err := EditGroupFunc(updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteGroup(c *gin.Context) {
	if err := DeleteGroupFunc(parsePathID(c, "groupId"), session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleQueryGroupMembers(c *gin.Context) {
	record, err := QueryGroupMembersFunc(parsePathID(c, "groupId"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleAddGroupMember(c *gin.Context) {
	addition := domain.MemberAddition{}
	if err := c.ShouldBindBodyWith(&addition, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	addition.GroupID = parsePathID(c, "groupId")
	record, err := AddGroupMemberFunc(addition, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleRemoveGroupMember(c *gin.Context) {
	deletion := domain.MemberDeletion{
		GroupID: parsePathID(c, "groupId"),
		UserID:  parsePathID(c, "userId"),
	}
	record, err := RemoveGroupMemberFunc(deletion, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleChangeUserNotification(c *gin.Context) {
	toggle := domain.NotificationToggle{}
	if err := c.ShouldBindBodyWith(&toggle, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	toggle.GroupID = parsePathID(c, "groupId")
	record, err := ChangeUserNotificationFunc(toggle, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleQueryGroupRoles(c *gin.Context) {
	record, err := QueryGroupRolesFunc(parsePathID(c, "groupId"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleCreateGroupRole(c *gin.Context) {
	creation := domain.RoleCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	creation.GroupID = parsePathID(c, "groupId")
	record, err := CreateGroupRoleFunc(creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleEditGroupRole(c *gin.Context) {
	editing := domain.RoleEditing{}
	if err := c.ShouldBindBodyWith(&editing, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	editing.GroupID = parsePathID(c, "groupId")
	record, err := EditGroupRoleFunc(editing, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleDeleteGroupRole(c *gin.Context) {
	deletion := domain.RoleDeletion{
		GroupID:  parsePathID(c, "groupId"),
		RoleName: c.Param("roleName"),
	}
	if err := DeleteGroupRoleFunc(deletion, session.ExtractSessionFromGinContext(c)); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}

func handleAssignGroupRole(c *gin.Context) {
	assignment := domain.RoleAssignment{}
	if err := c.ShouldBindBodyWith(&assignment, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	assignment.GroupID = parsePathID(c, "groupId")
	record, err := AssignGroupRoleFunc(assignment, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}

func handleRevokeGroupRole(c *gin.Context) {
	revocation := domain.RoleRevocation{
		GroupID: parsePathID(c, "groupId"),
		UserID:  parsePathID(c, "userId"),
	}
	record, err := RevokeGroupRoleFunc(revocation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
