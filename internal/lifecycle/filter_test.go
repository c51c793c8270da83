package lifecycle

import (
	"testing"

	"github.com/mindwell/sessionctl/internal/model"
)

func TestApply(t *testing.T) {
	sessions := []model.Session{
		{ID: "a", Status: model.StatusPending, Type: model.TypeOneOnOne},
		{ID: "b", Status: model.StatusScheduled, Type: model.TypeGroup},
		{ID: "c", Status: model.StatusLive, Type: model.TypeOneOnOne},
		{ID: "d", Status: model.StatusScheduled, Type: model.TypeOneOnOne},
		{ID: "e", Status: model.StatusCompleted, Type: model.TypeGroup},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all is identity", Filter{}, []string{"a", "b", "c", "d", "e"}},
		{"by status", Filter{Status: model.StatusScheduled}, []string{"b", "d"}},
		{"by type", Filter{Type: model.TypeGroup}, []string{"b", "e"}},
		{"both dimensions AND", Filter{Status: model.StatusScheduled, Type: model.TypeGroup}, []string{"b"}},
		{"no match", Filter{Status: model.StatusCancelled}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sessions, tt.filter)

			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("Apply() = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("Apply() = %v, want %v (order must be preserved)", ids, tt.want)
				}
			}
		})
	}
}

func TestApply_AllReturnsOriginalSlice(t *testing.T) {
	sessions := []model.Session{{ID: "a"}, {ID: "b"}}

	got := Apply(sessions, Filter{})
	if &got[0] != &sessions[0] {
		t.Error("ALL/ALL filter must return the original list unchanged")
	}
}

func TestApply_Idempotent(t *testing.T) {
	sessions := []model.Session{
		{ID: "a", Status: model.StatusLive, Type: model.TypeOneOnOne},
		{ID: "b", Status: model.StatusLive, Type: model.TypeGroup},
		{ID: "c", Status: model.StatusPending, Type: model.TypeGroup},
	}
	filter := Filter{Status: model.StatusLive}

	once := Apply(sessions, filter)
	twice := Apply(once, filter)

	if len(once) != len(twice) {
		t.Fatalf("filtering twice changed the result: %d vs %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].ID != twice[i].ID {
			t.Fatalf("filtering twice changed the result at %d", i)
		}
	}
}
