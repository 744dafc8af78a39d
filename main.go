package main

import (
	"converse/account"
	"converse/bizerror"
	"converse/client/es"
	"converse/common"
	"converse/domain"
	"converse/domain/group"
	"converse/event"
	"converse/infra/ratelimit"
	"converse/infra/tracing"
	"converse/notify"
	"converse/persistence"
	"converse/search"
	"converse/servehttp"
	"converse/session"
	"converse/sessions"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	logrus.Info("service start")

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		logrus.Fatalf("parse database config failed %v", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			logrus.Fatalf("failed to prepare database %v", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		logrus.Fatalf("database connection failed %v", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(nil).AutoMigrate(
		&account.User{},
		&domain.Group{}, &domain.GroupMember{}, &domain.GroupRole{},
		&domain.Permission{}, &domain.GroupRolePermission{}, &domain.GroupNotification{},
		&event.EventRecord{},
	).Error
	if err != nil {
		logrus.Fatalf("database migration failed %v", err)
	}
	if err := group.BootstrapPermissions(ds.GormDB(nil)); err != nil {
		logrus.Fatalf("permission catalog bootstrap failed %v", err)
	}

	if closer := tracing.Bootstrap(common.GetServiceName()); closer != nil {
		defer closer.Close()
	}
	es.CreateClientFromEnv()

	gateway := notify.NewPresenceGateway()
	wireRealtime(gateway)
	event.EventHandlers = append(event.EventHandlers, search.IndexGroupEventHandle)

	engine := gin.New()
	engine.Use(gin.Recovery(), bizerror.ErrorHandling(), tracing.TracingIngress(), ratelimit.RateLimitMiddleware(100))
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})

	sessions.RegisterSessionsHandler(engine)
	account.RegisterUsersSignupRestAPI(engine)
	account.RegisterUsersRestAPI(engine, session.SimpleAuthFilter())
	group.RegisterGroupsRestAPI(engine, session.SimpleAuthFilter())
	group.RegisterPermissionsRestAPI(engine, session.SimpleAuthFilter())
	search.RegisterGroupSearchRestAPI(engine, session.SimpleAuthFilter())
	notify.RegisterGatewayAPI(engine, gateway, session.SimpleAuthFilter())

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	servehttp.StartHTTPServer(addr, engine)
}

// wireRealtime hands committed membership changes to the fan-out: the member
// gains or loses the conversation in their chat list.
func wireRealtime(gateway *notify.PresenceGateway) {
	group.MembershipNotifyFunc = func(change group.MembershipChange) {
		gateway.NotifyUserChats(change.UserID, notify.UserChats{
			Event:  change.Event,
			Type:   notify.RoomTypeGroup,
			SmthID: change.GroupID,
		})
		gateway.NotifyChatUpdated(notify.RoomTypeGroup, change.GroupID, notify.ChatUpdated{
			Event:  change.Event,
			UserID: change.UserID,
			SmthID: change.GroupID,
			Type:   notify.RoomTypeGroup,
		})
	}
}
