package pathgraph

import (
	"testing"
)

func mustExpand(t *testing.T, d string) *Graph {
	t.Helper()
	g, err := Expand(d)
	if err != nil {
		t.Fatalf("Expand(%q): %v", d, err)
	}
	return g
}

func TestExpandCollapseRoundTrip(t *testing.T) {
	paths := []string{
		"M 0,0 L 10,0",
		"M 0,0 L 20,0",
		"M 0,0 L 10,0 L 10,10 L 0,10 Z",
		"M 0,0 L 10,0 M 50,50 L 60,60 L 70,50",
		"M 0,0 L 10,0 L 10,10 Z M 100,100 L 110,100 L 110,110 Z",
		"M -5.5,2.25 L 7,8.125",
	}

	for _, d := range paths {
		g := mustExpand(t, d)
		if got := g.Collapse(); got != d {
			t.Errorf("collapse(expand(%q)) = %q", d, got)
		}
	}
}

func TestExpandErrors(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"L 10,10",
		"M 0,0 L 10,0 Z M 5,5 L 6,6", // mixed closed and open
	}
	for _, d := range bad {
		if _, err := Expand(d); err == nil {
			t.Errorf("Expand(%q) = nil error, want failure", d)
		}
	}
}

func TestExpandRelativeCommands(t *testing.T) {
	g := mustExpand(t, "m 10,10 l 5,0 l 0,5")
	if got := g.Collapse(); got != "M 10,10 L 15,10 L 15,15" {
		t.Errorf("relative expand = %q", got)
	}
}

func TestExpandTypesAndStructure(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	if g.Type != Closed {
		t.Fatalf("type = %v, want Closed", g.Type)
	}
	seg := g.Segments()[0]
	if len(seg.Points) != 4 || len(seg.Lines) != 4 {
		t.Fatalf("closed segment: %d points, %d lines, want 4/4", len(seg.Points), len(seg.Lines))
	}

	g = mustExpand(t, "M 0,0 L 10,0 L 20,5")
	if g.Type != Open {
		t.Fatalf("type = %v, want Open", g.Type)
	}
	seg = g.Segments()[0]
	if len(seg.Points) != 3 || len(seg.Lines) != 2 {
		t.Fatalf("open segment: %d points, %d lines, want 3/2", len(seg.Points), len(seg.Lines))
	}
}

// Scenario: open path with the last point dragged.
func TestMoveLastPoint(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0")
	seg := g.Segments()[0]
	last := seg.Points[len(seg.Points)-1]

	if !g.MovePoint(last, 20, 0) {
		t.Fatal("MovePoint failed")
	}
	if got := g.Collapse(); got != "M 0,0 L 20,0" {
		t.Errorf("after drag collapse = %q, want \"M 0,0 L 20,0\"", got)
	}

	// Both adjacent line endpoints follow the point.
	l, _ := g.Line(seg.Lines[0])
	p, _ := g.Point(l.After)
	if p.X != 20 {
		t.Errorf("line endpoint did not follow the point: %+v", p)
	}
}

// Scenario: subdividing the first line of a closed square.
func TestSubdivideClosedSquare(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	seg := g.Segments()[0]

	nid, ok := g.Subdivide(seg.Lines[0])
	if !ok {
		t.Fatal("Subdivide failed")
	}
	if len(seg.Points) != 5 || len(seg.Lines) != 5 {
		t.Fatalf("after subdivide: %d points, %d lines, want 5/5", len(seg.Points), len(seg.Lines))
	}

	n, _ := g.Point(nid)
	if n.X != 5 || n.Y != 0 {
		t.Errorf("midpoint = (%v,%v), want (5,0)", n.X, n.Y)
	}

	got := g.Collapse()
	if got != "M 0,0 L 5,0 L 10,0 L 10,10 L 0,10 Z" {
		t.Errorf("collapse = %q", got)
	}
}

func TestSubdivideClosingLine(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	seg := g.Segments()[0]

	// The closing line runs from the last point back to the first.
	if _, ok := g.Subdivide(seg.Lines[3]); !ok {
		t.Fatal("Subdivide failed")
	}
	if got := g.Collapse(); got != "M 0,0 L 10,0 L 10,10 L 0,10 L 0,5 Z" {
		t.Errorf("collapse = %q", got)
	}
}

// Scenario: deleting the only interior point of a 3-point open path.
func TestDeleteInteriorPoint(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 20,5")
	seg := g.Segments()[0]

	if !g.DeletePoint(seg.Points[1]) {
		t.Fatal("DeletePoint failed")
	}
	if got := g.Collapse(); got != "M 0,0 L 20,5" {
		t.Errorf("collapse = %q, want former neighbors connected", got)
	}
	if len(seg.Points) != 2 || len(seg.Lines) != 1 {
		t.Errorf("after delete: %d points, %d lines, want 2/1", len(seg.Points), len(seg.Lines))
	}
}

func TestDeleteEndpoints(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 20,0 L 30,0")
	seg := g.Segments()[0]

	g.DeletePoint(seg.Points[0])
	if got := g.Collapse(); got != "M 10,0 L 20,0 L 30,0" {
		t.Errorf("after first-point delete: %q", got)
	}

	g.DeletePoint(seg.Points[len(seg.Points)-1])
	if got := g.Collapse(); got != "M 10,0 L 20,0" {
		t.Errorf("after last-point delete: %q", got)
	}
}

func TestDeleteFirstPointOfClosed(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 10,10 L 0,10 Z")
	seg := g.Segments()[0]

	g.DeletePoint(seg.Points[0])
	if got := g.Collapse(); got != "M 10,0 L 10,10 L 0,10 Z" {
		t.Errorf("after delete: %q", got)
	}
	if len(seg.Points) != 3 || len(seg.Lines) != 3 {
		t.Errorf("after delete: %d points, %d lines, want 3/3", len(seg.Points), len(seg.Lines))
	}
}

// Deleting below the minimum removes the whole segment, unless it is the
// last one, in which case nothing happens.
func TestDeleteBelowMinimum(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 M 50,50 L 60,50")
	first := g.Segments()[0]

	if !g.DeletePoint(first.Points[0]) {
		t.Fatal("expected segment removal")
	}
	if len(g.Segments()) != 1 {
		t.Fatalf("segments = %d, want 1", len(g.Segments()))
	}
	if got := g.Collapse(); got != "M 50,50 L 60,50" {
		t.Errorf("collapse = %q", got)
	}

	// The sole remaining segment must survive any deletes.
	rest := g.Segments()[0]
	if g.DeletePoint(rest.Points[0]) {
		t.Error("delete on the last minimal segment must be a no-op")
	}
	if len(g.Segments()) != 1 || len(rest.Points) != 2 {
		t.Error("last segment was damaged")
	}
}

func TestMinimumInvariantOpen(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 20,0 L 30,0 M 100,0 L 110,0 L 120,0")

	// Hammer deletes across all points; invariants must hold throughout.
	for i := 0; i < 20; i++ {
		segs := g.Segments()
		if len(segs) == 0 {
			t.Fatal("graph lost all segments")
		}
		seg := segs[0]
		g.DeletePoint(seg.Points[0])

		for _, s := range g.Segments() {
			if len(s.Points) < 2 {
				t.Fatalf("open segment dropped below 2 points: %d", len(s.Points))
			}
			if len(s.Lines) != len(s.Points)-1 {
				t.Fatalf("open segment %d points / %d lines", len(s.Points), len(s.Lines))
			}
		}
	}
}

func TestMinimumInvariantClosed(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 10,10 L 0,10 Z M 50,50 L 60,50 L 60,60 L 50,60 Z")

	for i := 0; i < 20; i++ {
		seg := g.Segments()[0]
		g.DeletePoint(seg.Points[0])

		for _, s := range g.Segments() {
			if len(s.Points) < 3 {
				t.Fatalf("closed segment dropped below 3 points: %d", len(s.Points))
			}
			if len(s.Lines) != len(s.Points) {
				t.Fatalf("closed segment %d points / %d lines", len(s.Points), len(s.Lines))
			}
		}
	}
}

func TestDeleteLineDeletesBeforePoint(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 20,0")
	seg := g.Segments()[0]

	// The second line's before-point is the interior point.
	if !g.DeleteLine(seg.Lines[1]) {
		t.Fatal("DeleteLine failed")
	}
	if got := g.Collapse(); got != "M 0,0 L 20,0" {
		t.Errorf("collapse = %q", got)
	}
}

func TestExtendOpen(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0")
	seg := g.Segments()[0]

	g.ExtendOpen(seg, false, 20, 5)
	if got := g.Collapse(); got != "M 0,0 L 10,0 L 20,5" {
		t.Errorf("append: %q", got)
	}

	g.ExtendOpen(seg, true, -10, -5)
	if got := g.Collapse(); got != "M -10,-5 L 0,0 L 10,0 L 20,5" {
		t.Errorf("prepend: %q", got)
	}

	if len(seg.Lines) != len(seg.Points)-1 {
		t.Errorf("invariant broken: %d points / %d lines", len(seg.Points), len(seg.Lines))
	}
}

func TestInsertOnLineAtCoords(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0 L 10,10 Z")
	seg := g.Segments()[0]

	nid, ok := g.InsertOnLine(seg.Lines[0], 4, 1)
	if !ok {
		t.Fatal("InsertOnLine failed")
	}
	n, _ := g.Point(nid)
	if n.X != 4 || n.Y != 1 {
		t.Errorf("inserted point = (%v,%v), want (4,1)", n.X, n.Y)
	}
	if got := g.Collapse(); got != "M 0,0 L 4,1 L 10,0 L 10,10 Z" {
		t.Errorf("collapse = %q", got)
	}
}

func TestAddSegment(t *testing.T) {
	g := mustExpand(t, "M 0,0 L 10,0")
	seg := g.AddSegment(200, 100)
	if len(seg.Points) != 2 || len(seg.Lines) != 1 {
		t.Fatalf("open default segment: %d points / %d lines", len(seg.Points), len(seg.Lines))
	}
	if got := g.Collapse(); got != "M 0,0 L 10,0 M 150,100 L 250,100" {
		t.Errorf("collapse = %q", got)
	}

	gc := mustExpand(t, "M 0,0 L 10,0 L 10,10 Z")
	rect := gc.AddSegment(0, 0)
	if len(rect.Points) != 4 || len(rect.Lines) != 4 {
		t.Fatalf("closed default segment: %d points / %d lines", len(rect.Points), len(rect.Lines))
	}
	if got := gc.Collapse(); got != "M 0,0 L 10,0 L 10,10 Z M -50,-50 L 50,-50 L 50,50 L -50,50 Z" {
		t.Errorf("collapse = %q", got)
	}
}
