package group_test

import (
	"converse/bizerror"
	"converse/domain"
	"converse/domain/group"
	"converse/session"
	"converse/testinfra"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestCreateGroupAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	group.RegisterGroupsRestAPI(router)

	t.Run("should be able to validate parameters", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, group.PathGroups, strings.NewReader(`{}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param",
			"message":"Key: 'GroupCreation.Name' Error:Field validation for 'Name' failed on the 'required' tag",
			"data":null}`))
	})

	t.Run("should be able to handle error", func(t *testing.T) {
		group.CreateGroupFunc = func(c domain.GroupCreation, s *session.Session) (*domain.Group, error) {
			return nil, errors.New("some error")
		}
		req := httptest.NewRequest(http.MethodPost, group.PathGroups, strings.NewReader(`{"name":"demo"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error", "message":"some error", "data":null}`))
	})

	t.Run("should be able to create group successfully", func(t *testing.T) {
		demoTime := types.TimestampOfDate(2021, 1, 1, 1, 0, 0, 0, time.Now().Location())
		timeBytes, err := demoTime.Time().MarshalJSON()
		Expect(err).To(BeNil())
		timeString := strings.Trim(string(timeBytes), `"`)

		group.CreateGroupFunc = func(c domain.GroupCreation, s *session.Session) (*domain.Group, error) {
			return &domain.Group{ID: 123, Name: c.Name, QtyUsers: 1, DefaultRoleID: 456,
				CreateTime: demoTime, Creator: 10}, nil
		}
		req := httptest.NewRequest(http.MethodPost, group.PathGroups, strings.NewReader(`{"name":"demo"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"id":"123", "name":"demo", "description":"", "avatar":"",
			"private":false, "qtyUsers":1, "defaultRoleId":"456",
			"createTime":"` + timeString + `", "creator":"10"}`))
	})
}

func TestGroupMembersAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	group.RegisterGroupsRestAPI(router)

	t.Run("should reject an invalid group id in path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, group.PathGroups+"/abc/members", strings.NewReader(`{"userId":"20"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(strings.Contains(body, "common.bad_param")).To(BeTrue())
	})

	t.Run("should map a membership conflict to 409", func(t *testing.T) {
		group.AddGroupMemberFunc = func(d domain.MemberAddition, s *session.Session) (*domain.GroupMember, error) {
			return nil, bizerror.ErrMemberExisted
		}
		req := httptest.NewRequest(http.MethodPost, group.PathGroups+"/100/members", strings.NewReader(`{"userId":"20"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusConflict))
		Expect(body).To(MatchJSON(`{"code":"common.conflict", "message":"member already existed", "data":null}`))
	})

	t.Run("should pass the path group id to the service", func(t *testing.T) {
		var received domain.MemberAddition
		group.AddGroupMemberFunc = func(d domain.MemberAddition, s *session.Session) (*domain.GroupMember, error) {
			received = d
			return &domain.GroupMember{ID: 1, UserID: d.UserID, GroupID: d.GroupID, RoleID: 456}, nil
		}
		req := httptest.NewRequest(http.MethodPost, group.PathGroups+"/100/members", strings.NewReader(`{"userId":"20"}`))
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(received.GroupID).To(Equal(types.ID(100)))
		Expect(received.UserID).To(Equal(types.ID(20)))
	})
}

func TestGroupRolesAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	group.RegisterGroupsRestAPI(router)

	t.Run("should map a system role mutation to 403", func(t *testing.T) {
		group.DeleteGroupRoleFunc = func(d domain.RoleDeletion, s *session.Session) error {
			return bizerror.ErrSystemRoleImmutable
		}
		req := httptest.NewRequest(http.MethodDelete, group.PathGroups+"/100/roles/Member", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden", "message":"system role can not be changed", "data":null}`))
	})

	t.Run("should respond 204 on a successful role deletion", func(t *testing.T) {
		var received domain.RoleDeletion
		group.DeleteGroupRoleFunc = func(d domain.RoleDeletion, s *session.Session) error {
			received = d
			return nil
		}
		req := httptest.NewRequest(http.MethodDelete, group.PathGroups+"/100/roles/Moderator", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
		Expect(received.GroupID).To(Equal(types.ID(100)))
		Expect(received.RoleName).To(Equal("Moderator"))
	})

	t.Run("should map an unknown permission to 400", func(t *testing.T) {
		group.CreateGroupRoleFunc = func(c domain.RoleCreation, s *session.Session) (*domain.GroupRole, error) {
			return nil, bizerror.ErrUnknownPermission
		}
		req := httptest.NewRequest(http.MethodPost, group.PathGroups+"/100/roles",
			strings.NewReader(`{"name":"Moderator","permissionNames":["fly"]}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param", "message":"unknown permission", "data":null}`))
	})
}
