package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terra-clan/learnpath/internal/models"
)

func sampleQuestions() []*models.Question {
	return []*models.Question{
		{ID: "js-1", Question: "What would be the result of 3+2+\"7\"?", Category: "JavaScript", Difficulty: models.Easy, Tags: []string{"operators", "type-coercion"}, Source: "GeeksforGeeks"},
		{ID: "react-1", Question: "What is the virtual DOM?", Category: "React", Difficulty: models.Medium, Tags: []string{"rendering"}, Source: "FreeCodeCamp"},
		{ID: "js-2", Question: "Explain closures", Category: "JavaScript", Difficulty: models.Hard, Tags: []string{"scope"}, Source: "InterviewBit"},
		{ID: "node-1", Question: "What is the event loop?", Category: "Node.js", Difficulty: models.Medium, Tags: []string{"async", "runtime"}, Source: "GeeksforGeeks"},
		{ID: "arr-1", Question: "Reverse an array in place", Category: "Arrays", Difficulty: models.Easy, Tags: []string{"two-pointers"}, Source: "LeetCode"},
	}
}

func ids(qs []*models.Question) []string {
	out := make([]string, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestApply_EmptySearchReturnsAllInOrder(t *testing.T) {
	items := sampleQuestions()

	got := Apply(items, Selection{Category: "All", Difficulty: "All", Source: "All"})

	assert.Equal(t, ids(items), ids(got))
}

func TestApply_NoMatchReturnsEmptySlice(t *testing.T) {
	got := Apply(sampleQuestions(), Selection{Search: "kubernetes operators in rust"})

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestApply_SearchIsCaseInsensitiveAcrossFieldsAndTags(t *testing.T) {
	items := sampleQuestions()

	assert.Equal(t, []string{"react-1"}, ids(Apply(items, Selection{Search: "VIRTUAL dom"})))
	assert.Equal(t, []string{"js-1", "js-2"}, ids(Apply(items, Selection{Search: "javascript"})))
	// tag substring
	assert.Equal(t, []string{"arr-1"}, ids(Apply(items, Selection{Search: "pointer"})))
}

func TestApply_ComposesFacetsWithAnd(t *testing.T) {
	items := sampleQuestions()

	got := Apply(items, Selection{Category: "JavaScript", Difficulty: "Easy"})
	assert.Equal(t, []string{"js-1"}, ids(got))

	got = Apply(items, Selection{Source: "GeeksforGeeks", Search: "loop"})
	assert.Equal(t, []string{"node-1"}, ids(got))
}

func TestApply_SubsequenceProperty(t *testing.T) {
	items := sampleQuestions()
	searches := []string{"", "what", "js", "SCOPE", "nothing-here"}
	categories := []string{"All", "all", "JavaScript", "React", "Node.js", "Arrays"}
	difficulties := []string{"All", "Easy", "Medium", "Hard"}
	sources := []string{"All", "GeeksforGeeks", "LeetCode", "FreeCodeCamp", "InterviewBit"}

	position := make(map[string]int, len(items))
	for i, q := range items {
		position[q.ID] = i
	}

	for _, s := range searches {
		for _, c := range categories {
			for _, d := range difficulties {
				for _, src := range sources {
					sel := Selection{Search: s, Category: c, Difficulty: d, Source: src}
					got := Apply(items, sel)

					last := -1
					for _, q := range got {
						assert.Greater(t, position[q.ID], last, "order not preserved for %+v", sel)
						last = position[q.ID]

						if !IsAll(c) {
							assert.Equal(t, c, q.Category)
						}
						if !IsAll(d) {
							assert.Equal(t, d, string(q.Difficulty))
						}
						if !IsAll(src) {
							assert.Equal(t, src, q.Source)
						}
						assert.True(t, Search[*models.Question](s)(q))
					}

					// every record that satisfies all predicates is present
					want := 0
					for _, q := range items {
						if matchesAll(q, Predicates[*models.Question](sel)) {
							want++
						}
					}
					assert.Len(t, got, want)
				}
			}
		}
	}
}

func TestApply_ResourceFacets(t *testing.T) {
	resources := []*models.Resource{
		{ID: "r1", Title: "React in 100 Seconds", Platform: "YouTube", Type: models.ResourceVideo, Free: true, TopicID: "react-basics", Author: "Fireship"},
		{ID: "r2", Title: "React Docs", Platform: "React.dev", Type: models.ResourceDocumentation, Free: true, TopicID: "react-basics"},
		{ID: "r3", Title: "Complete React Course", Platform: "Udemy", Type: models.ResourceCourse, Free: false, TopicID: "react-basics"},
		{ID: "r4", Title: "Node Streams", Platform: "YouTube", Type: models.ResourceVideo, Free: true, TopicID: "node"},
	}

	got := Apply(resources, Selection{FreeOnly: true, Topic: "react-basics"})
	assert.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)

	got = Apply(resources, Selection{Platform: "YouTube", Type: "video"})
	assert.Len(t, got, 2)

	got = Apply(resources, Selection{Search: "fireship"})
	require.Len(t, got, 1)
	assert.Equal(t, "r1", got[0].ID)
}

func TestApply_RoadmapStatus(t *testing.T) {
	roadmaps := []*models.Roadmap{
		{ID: "frontend", Title: "Frontend", Published: true},
		{ID: "devops", Title: "DevOps", Published: false},
	}

	assert.Len(t, Apply(roadmaps, Selection{Status: "all"}), 2)
	got := Apply(roadmaps, Selection{Status: "draft"})
	require.Len(t, got, 1)
	assert.Equal(t, "devops", got[0].ID)
}

func TestFromValues(t *testing.T) {
	v := url.Values{}
	v.Set("search", "react")
	v.Set("category", "Web Development")
	v.Set("free", "true")

	sel := FromValues(v)

	assert.Equal(t, "react", sel.Search)
	assert.Equal(t, "Web Development", sel.Category)
	assert.True(t, sel.FreeOnly)
	assert.True(t, IsAll(sel.Difficulty))
}

func TestApply_IgnoresFacetsTheRecordTypeLacks(t *testing.T) {
	resources := []*models.Resource{
		{ID: "r1", Title: "React Docs", Platform: "React.dev", Type: models.ResourceDocumentation},
	}
	topics := []*models.Topic{
		{ID: "react-basics", Title: "React Fundamentals", Category: "frontend"},
	}

	// resources have no category, topics have no source
	assert.Len(t, Apply(resources, Selection{Category: "Frontend"}), 1)
	assert.Len(t, Apply(topics, Selection{Source: "MDN"}), 1)

	// defined facets still filter
	assert.Empty(t, Apply(resources, Selection{Platform: "YouTube"}))
	assert.Empty(t, Apply(topics, Selection{Category: "backend"}))
}
