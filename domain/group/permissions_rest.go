package group

import (
	"converse/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	PathPermissions = "/v1/permissions"
)

func RegisterPermissionsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathPermissions, middleWares...)
	g.GET("", handleQueryPermissions)
}

func handleQueryPermissions(c *gin.Context) {
	record, err := QueryPermissionsFunc(session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
