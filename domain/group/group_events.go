package group

import (
	"converse/domain"
	"converse/event"
	"converse/session"

	"github.com/jinzhu/gorm"
)

func CreateGroupCreatedEvent(g *domain.Group, identity *session.Identity, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("GROUP", g.ID, g.Name, event.EventCategoryCreated, nil, identity, db)
}
func CreateGroupDeletedEvent(g *domain.Group, identity *session.Identity, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("GROUP", g.ID, g.Name, event.EventCategoryDeleted, nil, identity, db)
}
func CreateGroupPropertyUpdatedEvent(g *domain.Group, updates []event.UpdatedProperty, identity *session.Identity, db *gorm.DB) (*event.EventRecord, error) {
	return event.CreateEvent("GROUP", g.ID, g.Name, event.EventCategoryPropertyUpdated, updates, identity, db)
}
