package gate_test

import (
	"testing"

	"github.com/LailaElmallass/projectElite-sub000/gate"
)

func TestPermission_Split(t *testing.T) {
	if p := gate.NewPermission("job_offer", gate.ActionApply); p != "job_offer:apply" {
		t.Fatalf("NewPermission = %q", p)
	}
	res, act := gate.Permission("formation:complete").Split()
	if res != "formation" || act != gate.ActionComplete {
		t.Errorf("Split = %q, %q", res, act)
	}
	if res, act := gate.Permission("formation").Split(); res != "" || act != "" {
		t.Errorf("Split without colon = %q, %q", res, act)
	}
}

func TestPermission_Grants(t *testing.T) {
	tests := []struct {
		held      gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"job_offer:apply", "job_offer:apply", true},
		{"job_offer:apply", "job_offer:delete", false},
		{"job_offer:apply", "interview:apply", false},
		{"profile:*", "profile:update", true},
		{"profile:*", "user:update", false},
		{":*", ":update", false},
		{gate.Everything, "interview:confirm", true},
		{gate.Everything, "formation:delete", true},
	}
	for _, tt := range tests {
		if got := tt.held.Grants(tt.requested); got != tt.want {
			t.Errorf("%s grants %s = %v, want %v", tt.held, tt.requested, got, tt.want)
		}
	}
}
