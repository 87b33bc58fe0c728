package commands

import (
	"sort"
	"strings"
	"testing"
)

func TestNewRegistersVerbs(t *testing.T) {
	root := New()
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	want := "add day info report ui version"
	if got := strings.Join(names, " "); got != want {
		t.Fatalf("expected verbs %q, got %q", want, got)
	}
}

func TestAddFlags(t *testing.T) {
	root := New()
	cmd, _, err := root.Find([]string{"add"})
	if err != nil {
		t.Fatalf("find add: %v", err)
	}
	for _, flag := range []string{"calories", "json"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Fatalf("expected --%s on add", flag)
		}
	}
	if cmd.Flags().ShorthandLookup("k") == nil {
		t.Fatalf("expected -k shorthand for calories")
	}
}

func TestDayFlags(t *testing.T) {
	root := New()
	cmd, _, err := root.Find([]string{"day"})
	if err != nil {
		t.Fatalf("find day: %v", err)
	}
	for _, flag := range []string{"on", "page", "json", "id"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Fatalf("expected --%s on day", flag)
		}
	}
}
