package search

import (
	"converse/client/es"
	"converse/domain"
	"converse/session"
	"encoding/json"
	"fmt"
	"strings"
)

var (
	SearchGroupsFunc = SearchGroups
)

type GroupQuery struct {
	Name string `form:"name"`
}

// SearchGroups finds non-private groups whose name starts with the query,
// case-insensitive, at most 40 results.
func SearchGroups(q GroupQuery, s *session.Session) ([]domain.Group, error) {
	filters := make([]es.H, 0, 2)
	filters = append(filters, es.H{"term": es.H{"private": false}})
	if q.Name != "" {
		filters = append(filters, es.H{"match_phrase_prefix": es.H{"name": q.Name}})
	}

	root := es.H{"bool": es.H{"filter": filters}}
	r, err := es.SearchFunc(GroupIndexName, es.H{"size": 40, "query": root}, s)
	if err != nil {
		return nil, err
	}

	groups := make([]domain.Group, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		doc := GroupDocument{}
		if err := json.NewDecoder(strings.NewReader(string(hit.Source))).Decode(&doc); err != nil {
			return nil, fmt.Errorf(string(hit.Source))
		}
		groups = append(groups, doc.Group)
	}
	return groups, nil
}
