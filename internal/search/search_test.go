package search

import (
	"testing"

	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/route"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultCourses(), false)
	if err != nil {
		t.Fatal(err)
	}
	return NewService(cat, nil)
}

func TestFilter_EmptyQuery(t *testing.T) {
	s := newTestService(t)
	if got := s.Filter("   ", 0); got != nil {
		t.Errorf("expected nil, got %d results", len(got))
	}
}

func TestFilter_BestMatchFirst(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		query string
		want  route.Route
	}{
		{"замыкания", route.Lecture("js-advanced", "09-closures")},
		{"reduce", route.Lecture("js-advanced", "05-reduce")},
		{"каррирование", route.Lecture("js-advanced", "14-currying")},
		{"продвинутый", route.Course("js-advanced")},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := s.Filter(tt.query, 5)
			if len(results) == 0 {
				t.Fatal("no results")
			}
			if got := results[0].Route(); got != tt.want {
				t.Errorf("top result = %v (%q), want %v", got, results[0].Title, tt.want)
			}
		})
	}
}

func TestFilter_HighlightsTitleRunes(t *testing.T) {
	s := newTestService(t)
	results := s.Filter("замык", 1)
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	want := []int{0, 1, 2, 3, 4}
	got := results[0].MatchedIndexes
	if len(got) != len(want) {
		t.Fatalf("MatchedIndexes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MatchedIndexes = %v, want %v", got, want)
			break
		}
	}
}

func TestFilter_TypoFallback(t *testing.T) {
	s := newTestService(t)
	results := s.Filter("curyring", 0)
	if len(results) == 0 {
		t.Fatal("expected typo-tolerant match")
	}
	if results[0].LectureID != "14-currying" {
		t.Errorf("top result = %q", results[0].LectureID)
	}
}

func TestFilter_Limit(t *testing.T) {
	s := newTestService(t)
	if got := s.Filter("метод", 3); len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestUpdateTitles(t *testing.T) {
	s := newTestService(t)
	s.UpdateTitles("js-advanced", []domain.LectureMetadata{
		{ID: "09-closures", Title: "Замыкания и лексическое окружение", Order: 9},
	})

	results := s.Filter("лексическое", 0)
	if len(results) == 0 || results[0].LectureID != "09-closures" {
		t.Fatalf("results = %+v", results)
	}
}

func TestNewService_SingleCourseHasNoCourseItems(t *testing.T) {
	cat, err := catalog.New(catalog.DefaultCourses()[1:], true)
	if err != nil {
		t.Fatal(err)
	}
	s := NewService(cat, nil)
	if s.Len() != 15 {
		t.Errorf("Len = %d, want 15", s.Len())
	}
	results := s.Filter("bind", 0)
	if len(results) == 0 || results[0].Route().String() != "/lecture/13-bind" {
		t.Errorf("results = %+v", results)
	}
}
