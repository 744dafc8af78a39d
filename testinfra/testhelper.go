package testinfra

import (
	"context"
	"converse/session"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// ExecuteRequest runs the request through the router and returns status and
// body.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, error) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	bodyBytes, err := ioutil.ReadAll(w.Body)
	if err != nil {
		return w.Code, "", err
	}
	return w.Code, string(bodyBytes), nil
}

// BuildSecCtx builds a session for the given user.
func BuildSecCtx(uid types.ID, name string) *session.Session {
	return &session.Session{
		Token:    "test_token_" + uid.String(),
		Identity: session.Identity{ID: uid, Name: name, Nickname: name},
		Context:  context.Background(),
	}
}

// SignIn injects the session into the request chain of the router, the way
// the auth filter does for a logged in user.
func SignIn(s *session.Session) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session.InjectSessionIntoGinContext(ctx, s)
		ctx.Next()
	}
}
