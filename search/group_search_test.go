package search_test

import (
	"converse/client/es"
	"converse/search"
	"converse/session"
	"converse/testinfra"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
)

func TestSearchGroups(t *testing.T) {
	RegisterTestingT(t)
	origin := es.SearchFunc
	defer func() { es.SearchFunc = origin }()

	t.Run("should filter private groups and prefix match the name", func(t *testing.T) {
		var indexUsed string
		var queryUsed interface{}
		es.SearchFunc = func(index string, query interface{}, s *session.Session) (*es.ESSearchResult, error) {
			indexUsed = index
			queryUsed = query
			return &es.ESSearchResult{Hits: es.ESSearchHits{Hits: []es.ESSearchHit{
				{Id: "123", Source: es.Source(`{"id":"123","name":"golang devs","private":false,"qtyUsers":3}`)},
			}}}, nil
		}

		groups, err := search.SearchGroups(search.GroupQuery{Name: "gol"}, testinfra.BuildSecCtx(10, "ann"))
		Expect(err).To(BeNil())
		Expect(len(groups)).To(Equal(1))
		Expect(groups[0].Name).To(Equal("golang devs"))
		Expect(groups[0].QtyUsers).To(Equal(3))

		Expect(indexUsed).To(Equal(search.GroupIndexName))
		Expect(queryUsed).To(Equal(es.H{"size": 40, "query": es.H{"bool": es.H{"filter": []es.H{
			{"term": es.H{"private": false}},
			{"match_phrase_prefix": es.H{"name": "gol"}},
		}}}}))
	})

	t.Run("an empty keyword only filters on privacy", func(t *testing.T) {
		var queryUsed interface{}
		es.SearchFunc = func(index string, query interface{}, s *session.Session) (*es.ESSearchResult, error) {
			queryUsed = query
			return &es.ESSearchResult{}, nil
		}

		groups, err := search.SearchGroups(search.GroupQuery{}, testinfra.BuildSecCtx(10, "ann"))
		Expect(err).To(BeNil())
		Expect(groups).To(BeEmpty())
		Expect(queryUsed).To(Equal(es.H{"size": 40, "query": es.H{"bool": es.H{"filter": []es.H{
			{"term": es.H{"private": false}},
		}}}}))
	})

	t.Run("should surface search errors", func(t *testing.T) {
		es.SearchFunc = func(index string, query interface{}, s *session.Session) (*es.ESSearchResult, error) {
			return nil, errors.New("es is down")
		}
		_, err := search.SearchGroups(search.GroupQuery{Name: "gol"}, testinfra.BuildSecCtx(10, "ann"))
		Expect(err).ToNot(BeNil())
	})
}
