package registry

import (
	"testing"

	"github.com/vovakirdan/tilematch/internal/core"
)

type stubGame struct {
	id    string
	state core.GameState
}

func (g *stubGame) ID() string { return g.id }
func (g *stubGame) Title() string { return "Stub " + g.id }
func (g *stubGame) Reset(core.RuntimeConfig) {}
func (g *stubGame) Render(*core.Screen) {}
func (g *stubGame) State() core.GameState { return g.state }
func (g *stubGame) Step(core.InputFrame) core.StepResult {
	return core.StepResult{State: g.state}
}

func TestRegisterCreateList(t *testing.T) {
	Register("zz_stub_b", func() Game { return &stubGame{id: "zz_stub_b"} })
	Register("zz_stub_a", func() Game { return &stubGame{id: "zz_stub_a"} })

	if !Exists("zz_stub_a") || Exists("zz_missing") {
		t.Fatal("Exists reports the wrong games")
	}

	g, err := Create("zz_stub_a")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.ID() != "zz_stub_a" {
		t.Errorf("created %q", g.ID())
	}

	if _, err := Create("zz_missing"); err == nil {
		t.Error("Create should fail for an unknown game")
	}

	var ids []string
	for _, info := range List() {
		ids = append(ids, info.ID)
		if info.ID == "zz_stub_a" && info.Title != "Stub zz_stub_a" {
			t.Errorf("title = %q", info.Title)
		}
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List not sorted: %v", ids)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("zz_dup", func() Game { return &stubGame{id: "zz_dup"} })
}
