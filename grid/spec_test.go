package grid

import "testing"

func TestSpecToGridPunchesObstacles(t *testing.T) {
	s := Spec{
		Height:    3,
		Width:     3,
		Obstacles: []Location{{Y: 1, X: 1}},
	}
	g := s.ToGrid()
	if g.NumCells() != 8 {
		t.Fatalf("expected 8 cells, got %d", g.NumCells())
	}
	if g.Contains(Location{Y: 1, X: 1}) {
		t.Fatal("obstacle cell should not be part of the grid")
	}
}

func TestLoadSpecMissingFile(t *testing.T) {
	if _, err := LoadSpec("/nonexistent/grid.yaml"); err == nil {
		t.Fatal("expected an error for a missing grid file")
	}
}
