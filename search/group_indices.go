package search

import (
	"context"
	"converse/client/es"
	"converse/domain"
	"converse/event"
	"converse/persistence"
	"converse/session"
	"fmt"
	"math"
)

var (
	GroupIndexName             = "groups"
	GroupIndexEventHandlerName = "groupIndexer"

	// reserved system identity for index maintenance, outside the id range
	// ever assigned to accounts
	indexRobot = &session.Session{
		Identity: session.Identity{ID: math.MaxInt64, Name: "index-robot"},
		Context:  context.Background(),
	}

	IndexGroupFunc = IndexGroup
)

type GroupDocument struct {
	domain.Group
}

func IndexGroup(g *domain.Group) error {
	return es.IndexFunc(GroupIndexName, g.ID, GroupDocument{Group: *g}, indexRobot)
}

// IndexGroupEventHandle keeps the group index in line with committed group
// mutations. Registered on the event handler chain at bootstrap.
func IndexGroupEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != "GROUP" {
		return nil
	}

	if e.EventCategory == event.EventCategoryDeleted {
		if err := es.DeleteDocumentByIdFunc(GroupIndexName, e.SourceId, indexRobot); err != nil {
			return &event.EventHandleResult{
				Message:           fmt.Sprintf("delete group index %d, %v", e.SourceId, err),
				HandlerIdentifier: GroupIndexEventHandlerName,
			}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: GroupIndexEventHandlerName}
	}

	g := domain.Group{}
	db := persistence.ActiveDataSourceManager.GormDB(indexRobot.Context)
	if err := db.Model(&domain.Group{}).Where(&domain.Group{ID: e.SourceId}).First(&g).Error; err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("load group when indexing group %d, %v", e.SourceId, err),
			HandlerIdentifier: GroupIndexEventHandlerName,
		}
	}
	if err := IndexGroupFunc(&g); err != nil {
		return &event.EventHandleResult{
			Message:           fmt.Sprintf("index group %d, %v", e.SourceId, err),
			HandlerIdentifier: GroupIndexEventHandlerName,
		}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: GroupIndexEventHandlerName}
}
