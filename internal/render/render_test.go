package render

import (
	"strings"
	"testing"
)

const sample = "# Замыкания\n\nФункция вместе с *лексическим окружением*.\n\n" +
	"```js\nfunction counter() {\n  let n = 0;\n  return () => ++n;\n}\n```\n\n" +
	"| a | b |\n|---|---|\n| 1 | 2 |\n"

func TestRender_NoTTY(t *testing.T) {
	r := New(StyleNoTTY, nil)
	out := r.Render(sample, 80)

	for _, want := range []string{"Замыкания", "function counter()", "return () => ++n;"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRender_ReusesRendererPerWidth(t *testing.T) {
	r := New(StyleNoTTY, nil)
	r.Render("a", 60)
	r.Render("b", 60)
	r.Render("c", 5) // clamped to minWidth
	r.Render("d", 10)

	if len(r.byWidth) != 2 {
		t.Errorf("cached renderers = %d, want 2", len(r.byWidth))
	}
}

func TestRender_PlainTextPassesThrough(t *testing.T) {
	r := New(StyleNoTTY, nil)
	out := r.Render("просто текст без разметки", 80)
	if !strings.Contains(out, "просто текст без разметки") {
		t.Errorf("output = %q", out)
	}
}

func TestNew_UnknownStyle(t *testing.T) {
	if got := New("solarized", nil).Style(); got != StyleAuto {
		t.Errorf("Style() = %q, want %q", got, StyleAuto)
	}
}
