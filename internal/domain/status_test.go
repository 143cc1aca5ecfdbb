package domain

import (
	"reflect"
	"testing"
)

func TestStatusFromToken(t *testing.T) {
	cases := map[string]Status{
		"new":     StatusNew,
		"open":    StatusOpen,
		"pending": StatusPending,
		"closed":  StatusClosed,
		"":        StatusNew,
		"bogus":   StatusNew,
		" Open ":  StatusOpen,
	}
	for token, want := range cases {
		if got := StatusFromToken(token); got != want {
			t.Fatalf("StatusFromToken(%q) = %d, want %d", token, got, want)
		}
	}
}

func TestFilterByStatus(t *testing.T) {
	tickets := []Ticket{
		{UID: 1, Status: StatusNew},
		{UID: 2, Status: StatusOpen},
		{UID: 3, Status: StatusOpen},
		{UID: 4, Status: StatusClosed},
	}
	open := FilterByStatus(tickets, StatusOpen)
	if len(open) != 2 || open[0].UID != 2 || open[1].UID != 3 {
		t.Fatalf("unexpected open tickets %#v", open)
	}
	if got := FilterByStatus(tickets, StatusPending); len(got) != 0 {
		t.Fatalf("expected empty result, got %#v", got)
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags("bug, urgent, ,login")
	want := []string{"bug", "urgent", "login"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseTags = %#v, want %#v", got, want)
	}
	if got := ParseTags("  , ,"); len(got) != 0 {
		t.Fatalf("expected no tags, got %#v", got)
	}
}

func TestPriorityName(t *testing.T) {
	cases := map[Priority]string{
		PriorityNormal:   "Normal",
		PriorityUrgent:   "Urgent",
		PriorityCritical: "Critical",
		Priority(9):      "",
	}
	for priority, want := range cases {
		if got := priority.Name(); got != want {
			t.Fatalf("Priority(%d).Name() = %q, want %q", priority, got, want)
		}
	}
}

func TestGroupHasMember(t *testing.T) {
	group := &Group{ID: "g1", Members: []string{"u1", "u2"}}
	if !group.HasMember("u1") {
		t.Fatal("expected u1 to be a member")
	}
	if group.HasMember("u3") {
		t.Fatal("did not expect u3 to be a member")
	}
	var nilGroup *Group
	if nilGroup.HasMember("u1") {
		t.Fatal("nil group must have no members")
	}
}
