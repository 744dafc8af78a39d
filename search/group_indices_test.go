package search_test

import (
	"converse/client/es"
	"converse/event"
	"converse/search"
	"converse/session"
	"errors"
	"testing"

	"github.com/fundwit/go-commons/types"
	. "github.com/onsi/gomega"
)

func TestIndexGroupEventHandle(t *testing.T) {
	RegisterTestingT(t)

	t.Run("should ignore events of other sources", func(t *testing.T) {
		Expect(search.IndexGroupEventHandle(&event.EventRecord{
			Event: event.Event{SourceType: "USER", SourceId: 123, EventCategory: event.EventCategoryCreated},
		})).To(BeNil())
	})

	t.Run("a deleted group leaves the index", func(t *testing.T) {
		origin := es.DeleteDocumentByIdFunc
		defer func() { es.DeleteDocumentByIdFunc = origin }()

		var deleted types.ID
		es.DeleteDocumentByIdFunc = func(index string, id types.ID, s *session.Session) error {
			Expect(index).To(Equal(search.GroupIndexName))
			deleted = id
			return nil
		}

		result := search.IndexGroupEventHandle(&event.EventRecord{
			Event: event.Event{SourceType: "GROUP", SourceId: 123, EventCategory: event.EventCategoryDeleted},
		})
		Expect(result.Success).To(BeTrue())
		Expect(result.HandlerIdentifier).To(Equal(search.GroupIndexEventHandlerName))
		Expect(deleted).To(Equal(types.ID(123)))
	})

	t.Run("index failures are reported, not swallowed", func(t *testing.T) {
		origin := es.DeleteDocumentByIdFunc
		defer func() { es.DeleteDocumentByIdFunc = origin }()

		es.DeleteDocumentByIdFunc = func(index string, id types.ID, s *session.Session) error {
			return errors.New("index unavailable")
		}
		result := search.IndexGroupEventHandle(&event.EventRecord{
			Event: event.Event{SourceType: "GROUP", SourceId: 123, EventCategory: event.EventCategoryDeleted},
		})
		Expect(result.Success).To(BeFalse())
		Expect(result.Message).ToNot(BeEmpty())
	})
}
