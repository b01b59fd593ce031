package tui

import (
	"context"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/lectern/internal/catalog"
	"github.com/mmcdole/lectern/internal/domain"
	"github.com/mmcdole/lectern/internal/library"
	"github.com/mmcdole/lectern/internal/route"
	"github.com/mmcdole/lectern/internal/search"
	"github.com/mmcdole/lectern/internal/store"
	"github.com/mmcdole/lectern/internal/tui/components"
)

type mapSource struct {
	mu      sync.Mutex
	files   map[string]string
	fetches map[string]int
}

func (s *mapSource) Fetch(ctx context.Context, courseID, lectureID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := courseID + "/" + lectureID
	s.fetches[key]++
	body, ok := s.files[key]
	if !ok {
		return "", fmt.Errorf("status 404: %w", domain.ErrLectureNotFound)
	}
	return body, nil
}

func (s *mapSource) Exists(ctx context.Context, courseID, lectureID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[courseID+"/"+lectureID]
	return ok, nil
}

type fixture struct {
	source *mapSource
	store  *store.LectureStore
	opts   Options
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	cat, err := catalog.New(catalog.DefaultCourses(), false)
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.NewLectureStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	src := &mapSource{files: files, fetches: make(map[string]int)}
	svc := library.NewService(cat, src, st, nil)
	return &fixture{
		source: src,
		store:  st,
		opts: Options{
			Library: svc,
			Queries: library.NewQueries(st),
			Search:  search.NewService(cat, nil),
		},
	}
}

func (f *fixture) model(start route.Route) Model {
	opts := f.opts
	opts.StartRoute = start
	m := NewModel(opts)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// drain runs a command tree and collects the messages it produces.
// Only use on navigation commands; tick-based commands would block.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func find[T tea.Msg](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_HomeListsCourses(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(route.Home)

	if m.Sidebar.Mode() != components.SidebarCourses || m.Sidebar.Len() != 3 {
		t.Errorf("sidebar mode=%v len=%d", m.Sidebar.Mode(), m.Sidebar.Len())
	}
	if m.Viewer.State() != components.LoadIdle {
		t.Errorf("viewer state = %v, want idle", m.Viewer.State())
	}
}

func TestNavigate_CacheHitIsSynchronous(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.store.SaveLecture("js-advanced", "09-closures", "# Замыкания\n\ntext"); err != nil {
		t.Fatal(err)
	}

	m := f.model(route.Lecture("js-advanced", "09-closures"))

	if m.Viewer.State() != components.LoadSuccess {
		t.Fatalf("viewer state = %v, want success without waiting", m.Viewer.State())
	}
	if !m.Viewer.FromCache() || m.Viewer.Lecture().Title != "Замыкания" {
		t.Errorf("lecture = %+v fromCache=%v", m.Viewer.Lecture(), m.Viewer.FromCache())
	}

	msgs := drain(m.initCmd)
	if _, ok := find[LectureLoadedMsg](msgs); ok {
		t.Error("cache hit must not issue a load command")
	}
	if n := f.source.fetches["js-advanced/09-closures"]; n != 0 {
		t.Errorf("source fetched %d times", n)
	}
}

func TestNavigate_LoadThenSuccess(t *testing.T) {
	f := newFixture(t, map[string]string{
		"js-advanced/02-map": "# Метод map\n\nbody",
	})
	m := f.model(route.Lecture("js-advanced", "02-map"))

	if m.Viewer.State() != components.LoadLoading {
		t.Fatalf("viewer state = %v, want loading", m.Viewer.State())
	}

	msgs := drain(m.initCmd)
	if _, ok := find[LecturesListedMsg](msgs); ok {
		t.Error("course listing must wait for the selected lecture")
	}
	loaded, ok := find[LectureLoadedMsg](msgs)
	if !ok {
		t.Fatal("expected LectureLoadedMsg")
	}
	m, cmd := update(t, m, loaded)

	if m.Viewer.State() != components.LoadSuccess || m.Viewer.FromCache() {
		t.Errorf("state=%v fromCache=%v", m.Viewer.State(), m.Viewer.FromCache())
	}

	listed, ok := find[LecturesListedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected the course listing after the load")
	}
	m, _ = update(t, m, listed)
	if n := f.source.fetches["js-advanced/02-map"]; n != 1 {
		t.Errorf("selected lecture fetched %d times, want 1", n)
	}
	if m.Viewer.Lecture().Title != "Метод map" {
		t.Errorf("title = %q", m.Viewer.Lecture().Title)
	}
}

func TestNavigate_CacheHitListsCourseAtOnce(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.store.SaveLecture("js-advanced", "09-closures", "# Замыкания"); err != nil {
		t.Fatal(err)
	}
	m := f.model(route.Lecture("js-advanced", "09-closures"))

	if _, ok := find[LecturesListedMsg](drain(m.initCmd)); !ok {
		t.Error("expected the course listing alongside a cache hit")
	}
}

func TestStaleResultIsDropped(t *testing.T) {
	f := newFixture(t, map[string]string{
		"js-advanced/01-forEach": "# forEach",
		"js-advanced/02-map":     "# map",
	})
	m := f.model(route.Lecture("js-advanced", "01-forEach"))
	firstCmd := m.initCmd

	// Navigate away before the first load answers
	m.navigate(route.Lecture("js-advanced", "02-map"))

	loaded, ok := find[LectureLoadedMsg](drain(firstCmd))
	if !ok {
		t.Fatal("expected LectureLoadedMsg for the first lecture")
	}
	m, _ = update(t, m, loaded)

	if m.Viewer.State() != components.LoadLoading {
		t.Errorf("stale result changed viewer state to %v", m.Viewer.State())
	}
	if m.Current != route.Lecture("js-advanced", "02-map") {
		t.Errorf("Current = %v", m.Current)
	}

	failed := LectureFailedMsg{Seq: loaded.Seq, Route: loaded.Route, Err: domain.ErrUnknown}
	m, _ = update(t, m, failed)
	if m.Viewer.State() != components.LoadLoading {
		t.Errorf("stale failure changed viewer state to %v", m.Viewer.State())
	}
}

func TestCourseRootRedirect(t *testing.T) {
	f := newFixture(t, map[string]string{
		"js-advanced/0-introduction": "# Введение",
	})
	m := f.model(route.Course("js-advanced"))

	if m.Sidebar.Mode() != components.SidebarLectures || m.Sidebar.CourseID() != "js-advanced" {
		t.Errorf("sidebar should list the course lectures")
	}

	resolved, ok := find[CourseRootResolvedMsg](drain(m.initCmd))
	if !ok {
		t.Fatal("expected CourseRootResolvedMsg")
	}
	m, cmd := update(t, m, resolved)

	if got := m.Current.String(); got != "/course/js-advanced/lecture/0-introduction" {
		t.Fatalf("redirected to %q", got)
	}

	msgs := drain(cmd)
	if _, ok := find[LecturesListedMsg](msgs); ok {
		t.Error("course listing must wait for the redirected lecture")
	}
	loaded, ok := find[LectureLoadedMsg](msgs)
	if !ok {
		t.Fatal("expected the redirect to load the lecture")
	}
	m, cmd = update(t, m, loaded)
	if m.Viewer.Lecture().Title != "Введение" || m.Viewer.FromCache() {
		t.Errorf("title = %q fromCache=%v", m.Viewer.Lecture().Title, m.Viewer.FromCache())
	}

	if _, ok := find[LecturesListedMsg](drain(cmd)); !ok {
		t.Fatal("expected the course listing after the redirect settled")
	}
	if n := f.source.fetches["js-advanced/0-introduction"]; n != 1 {
		t.Errorf("first lecture fetched %d times, want 1", n)
	}
}

func TestCourseRootUnreachable(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(route.Course("js-advanced"))

	failed, ok := find[CourseRootFailedMsg](drain(m.initCmd))
	if !ok {
		t.Fatal("expected CourseRootFailedMsg")
	}
	m, _ = update(t, m, failed)

	if m.Current != route.Course("js-advanced") {
		t.Errorf("should not redirect, Current = %v", m.Current)
	}
	if m.Viewer.State() != components.LoadError || m.Viewer.ErrorMessage() != "Lecture file not found" {
		t.Errorf("state=%v msg=%q", m.Viewer.State(), m.Viewer.ErrorMessage())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		route   route.Route
		message string
	}{
		{"empty file", map[string]string{"js-basics/0-introduction": ""}, route.Lecture("js-basics", "0-introduction"), "Lecture file is empty"},
		{"missing file", nil, route.Lecture("js-basics", "0-introduction"), "Lecture file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.files)
			m := f.model(tt.route)

			failed, ok := find[LectureFailedMsg](drain(m.initCmd))
			if !ok {
				t.Fatal("expected LectureFailedMsg")
			}
			m, _ = update(t, m, failed)
			if m.Viewer.ErrorMessage() != tt.message {
				t.Errorf("message = %q, want %q", m.Viewer.ErrorMessage(), tt.message)
			}
		})
	}
}

func TestUnknownLectureNeverReachesSource(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(route.Lecture("js-advanced", "99-secret"))

	if m.Viewer.State() != components.LoadError || m.Viewer.ErrorMessage() != "Lecture file not found" {
		t.Errorf("state=%v msg=%q", m.Viewer.State(), m.Viewer.ErrorMessage())
	}
	drain(m.initCmd)
	if n := f.source.fetches["js-advanced/99-secret"]; n != 0 {
		t.Errorf("source fetched %d times", n)
	}
}

func TestEnterOpensCourseAndBackReturns(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(route.Home)

	m, _ = update(t, m, runes("j")) // js-advanced
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Current != route.Course("js-advanced") {
		t.Fatalf("Current = %v", m.Current)
	}

	m, _ = update(t, m, runes("h"))
	if m.Current != route.Home || m.Sidebar.Mode() != components.SidebarCourses {
		t.Errorf("Current = %v mode = %v", m.Current, m.Sidebar.Mode())
	}
	item, ok := m.Sidebar.SelectedItem().(components.CourseItem)
	if !ok || item.Course.ID != "js-advanced" {
		t.Errorf("back should keep the course selected, got %+v", m.Sidebar.SelectedItem())
	}
}

func TestRefreshBypassesCache(t *testing.T) {
	f := newFixture(t, map[string]string{"js-advanced/03-filter": "# v1"})
	f.store.SaveLecture("js-advanced", "03-filter", "# v1")
	f.source.files["js-advanced/03-filter"] = "# v2"

	m := f.model(route.Lecture("js-advanced", "03-filter"))
	m, cmd := update(t, m, runes("r"))
	if m.Viewer.State() != components.LoadLoading {
		t.Fatalf("state = %v", m.Viewer.State())
	}

	loaded, ok := find[LectureLoadedMsg](drain(cmd))
	if !ok {
		t.Fatal("expected LectureLoadedMsg")
	}
	m, _ = update(t, m, loaded)
	if m.Viewer.Lecture().Title != "v2" {
		t.Errorf("title = %q, want v2", m.Viewer.Lecture().Title)
	}
}

func TestClearCacheKey(t *testing.T) {
	f := newFixture(t, nil)
	f.store.SaveLecture("js-advanced", "01-forEach", "# x")
	m := f.model(route.Home)

	m, cmd := update(t, m, runes("R"))
	msgs := drain(cmd)
	if _, ok := find[CacheClearedMsg](msgs); !ok {
		t.Fatal("expected CacheClearedMsg")
	}
	m, _ = update(t, m, CacheClearedMsg{})

	if _, ok := f.store.GetLecture("js-advanced", "01-forEach"); ok {
		t.Error("cache entry survived R")
	}
	if m.StatusMsg != "Cache cleared" {
		t.Errorf("StatusMsg = %q", m.StatusMsg)
	}
}

func TestSearchNavigates(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(route.Home)

	m, _ = update(t, m, runes("/"))
	if m.State != StateSearching {
		t.Fatalf("State = %v", m.State)
	}
	for _, r := range "bind" {
		m, _ = update(t, m, runes(string(r)))
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.State != StateBrowsing {
		t.Errorf("State = %v", m.State)
	}
	if m.Current != route.Lecture("js-advanced", "13-bind") {
		t.Errorf("Current = %v", m.Current)
	}
}

func TestRouteIsRemembered(t *testing.T) {
	f := newFixture(t, nil)
	m := f.model(route.Lecture("react-basics", "0-introduction"))
	drain(m.initCmd)

	got, ok := f.opts.Queries.GetLastRoute()
	if !ok || got != "/course/react-basics/lecture/0-introduction" {
		t.Errorf("GetLastRoute = %q, %v", got, ok)
	}
}

func TestViewRenders(t *testing.T) {
	f := newFixture(t, nil)
	f.store.SaveLecture("js-advanced", "09-closures", "# Замыкания")
	m := f.model(route.Lecture("js-advanced", "09-closures"))

	if out := m.View(); out == "" {
		t.Error("empty view")
	}
	m, _ = update(t, m, runes("?"))
	if m.State != StateHelp || m.View() == "" {
		t.Error("help view not shown")
	}
}

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) Launch(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

func TestOpenInBrowser(t *testing.T) {
	f := newFixture(t, nil)
	if err := f.store.SaveLecture("js-advanced", "09-closures", "# Замыкания"); err != nil {
		t.Fatal(err)
	}

	m := f.model(route.Lecture("js-advanced", "09-closures"))
	m, _ = update(t, m, runes("o"))
	if !m.StatusIsErr || m.StatusMsg != "No site URL configured" {
		t.Errorf("status = %q err=%v", m.StatusMsg, m.StatusIsErr)
	}

	opener := &recordingOpener{}
	f.opts.Browser = opener
	f.opts.SiteURL = "https://user.github.io"
	f.opts.BasePath = "/js-course-mvp"
	m = f.model(route.Lecture("js-advanced", "09-closures"))

	m, cmd := update(t, m, runes("o"))
	msgs := drain(cmd)
	status, ok := find[StatusMsg](msgs)
	if !ok || status.IsError {
		t.Fatalf("msgs = %+v", msgs)
	}
	want := "https://user.github.io/js-course-mvp/course/js-advanced/lecture/09-closures"
	if len(opener.urls) != 1 || opener.urls[0] != want {
		t.Errorf("opened %v, want %s", opener.urls, want)
	}
}
