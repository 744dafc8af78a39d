package sessions_test

import (
	"converse/account"
	"converse/bizerror"
	"converse/persistence"
	"converse/session"
	"converse/sessions"
	"converse/testinfra"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func setup(t *testing.T, testDatabase **testinfra.TestDatabase) {
	db := testinfra.StartMysqlTestDatabase("converse")
	*testDatabase = db
	assert.Nil(t, db.DS.GormDB(nil).AutoMigrate(&account.User{}).Error)
	persistence.ActiveDataSourceManager = db.DS
}

func teardown(t *testing.T, testDatabase *testinfra.TestDatabase) {
	if testDatabase != nil {
		testinfra.StopMysqlTestDatabase(testDatabase)
	}
}

func TestSimpleLoginHandler(t *testing.T) {
	RegisterTestingT(t)
	var testDatabase *testinfra.TestDatabase

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	sessions.RegisterSessionsHandler(router)

	t.Run("should issue a session for valid credentials", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		db := persistence.ActiveDataSourceManager.GormDB(nil)
		Expect(db.Create(&account.User{ID: 10, Name: "ann", Secret: account.HashSha256("123456"), Nickname: "Ann"}).Error).To(BeNil())

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
			strings.NewReader(`{"name":"ann","password":"123456"}`))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusOK))

		cookie := w.Header().Get("Set-Cookie")
		Expect(strings.Contains(cookie, session.KeySecToken+"=")).To(BeTrue())
		Expect(strings.Contains(w.Body.String(), `"identity":{"id":"10","name":"ann","nickname":"Ann"}`)).To(BeTrue())
	})

	t.Run("should reject unknown credentials", func(t *testing.T) {
		defer teardown(t, testDatabase)
		setup(t, &testDatabase)

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions",
			strings.NewReader(`{"name":"ann","password":"wrong"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"code":"common.unauthenticated", "message":"unauthenticated", "data":null}`))
	})

	t.Run("logout should drop the cached token", func(t *testing.T) {
		s := &session.Session{Token: "token-1", Identity: session.Identity{ID: 10, Name: "ann"}}
		session.TokenCache.SetDefault("token-1", s)

		req := httptest.NewRequest(http.MethodDelete, "/v1/sessions", nil)
		req.AddCookie(&http.Cookie{Name: session.KeySecToken, Value: "token-1"})
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))

		_, found := session.TokenCache.Get("token-1")
		Expect(found).To(BeFalse())
	})
}
