package search

import (
	"converse/bizerror"
	"converse/session"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

var (
	PathGroupSearch = "/v1/group-search"
)

func RegisterGroupSearchRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group(PathGroupSearch, middleWares...)
	g.GET("", handleSearchGroups)
}

func handleSearchGroups(c *gin.Context) {
	query := GroupQuery{}
	if err := c.MustBindWith(&query, binding.Query); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := SearchGroupsFunc(query, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, record)
}
