package browser

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmcdole/lectern/internal/route"
)

type call struct {
	name string
	args []string
}

func newTestLauncher(command string, args []string, goos string, available map[string]bool) (*Launcher, *[]call) {
	var calls []call
	l := NewLauncher(command, args, nil)
	l.goos = goos
	l.start = func(name string, args ...string) error {
		calls = append(calls, call{name, args})
		return nil
	}
	l.look = func(name string) error {
		if available[name] {
			return nil
		}
		return errors.New("not found")
	}
	return l, &calls
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		site, base string
		r          route.Route
		want       string
	}{
		{"https://u.github.io/", "/js-course-mvp", route.Lecture("js-advanced", "09-closures"),
			"https://u.github.io/js-course-mvp/course/js-advanced/lecture/09-closures"},
		{"https://example.com", "", route.Home, "https://example.com/"},
		{"https://example.com", "", route.Lecture("", "03-filter"), "https://example.com/lecture/03-filter"},
	}
	for _, tt := range tests {
		if got := PageURL(tt.site, tt.base, tt.r); got != tt.want {
			t.Errorf("PageURL = %q, want %q", got, tt.want)
		}
	}
}

func TestLaunch_Configured(t *testing.T) {
	l, calls := newTestLauncher("firefox", []string{"--new-tab"}, "linux", nil)
	if err := l.Launch("https://x"); err != nil {
		t.Fatal(err)
	}
	want := []call{{"firefox", []string{"--new-tab", "https://x"}}}
	if !reflect.DeepEqual(*calls, want) {
		t.Errorf("calls = %+v, want %+v", *calls, want)
	}
}

func TestLaunch_PlatformDefaults(t *testing.T) {
	tests := []struct {
		goos string
		want call
	}{
		{"darwin", call{"open", []string{"https://x"}}},
		{"windows", call{"rundll32", []string{"url.dll,FileProtocolHandler", "https://x"}}},
	}
	for _, tt := range tests {
		l, calls := newTestLauncher("", nil, tt.goos, nil)
		if err := l.Launch("https://x"); err != nil {
			t.Fatal(err)
		}
		if len(*calls) != 1 || !reflect.DeepEqual((*calls)[0], tt.want) {
			t.Errorf("%s: calls = %+v", tt.goos, *calls)
		}
	}
}

func TestLaunch_CandidateChain(t *testing.T) {
	l, calls := newTestLauncher("", nil, "linux", map[string]bool{"firefox": true})
	if err := l.Launch("https://x"); err != nil {
		t.Fatal(err)
	}
	if len(*calls) != 1 || (*calls)[0].name != "firefox" {
		t.Errorf("calls = %+v", *calls)
	}

	l, _ = newTestLauncher("", nil, "linux", nil)
	if err := l.Launch("https://x"); err == nil {
		t.Error("expected error when no browser is available")
	}
}
