package pathgraph

// ============================================================
// Proxy path graph
// ============================================================
//
// Редактируемое представление сериализованного пути: арена прокси-точек
// и прокси-линий с целочисленными id (никаких строковых DOM-ссылок).
// Граф живет только пока путь в режиме редактирования: Expand строит его
// из строки d, Collapse сворачивает обратно и граф выбрасывается.

type PathType int

const (
	Open PathType = iota
	Closed
)

func (t PathType) String() string {
	if t == Closed {
		return "closed"
	}
	return "open"
}

// MinPoints — минимальное число точек сегмента данного типа.
func (t PathType) MinPoints() int {
	if t == Closed {
		return 3
	}
	return 2
}

// Point — прокси-точка; принадлежит ровно одному сегменту,
// на нее ссылаются 0–2 линии.
type Point struct {
	ID int
	X  float64
	Y  float64
}

// Line — направленное ребро между двумя прокси-точками.
type Line struct {
	ID     int
	Before int // id точки перед линией
	After  int // id точки после линии
}

// Segment — один связный кусок пути: упорядоченные точки и линии.
// Инвариант: открытый сегмент — len(points) >= 2, len(lines) == len(points)-1;
// замкнутый — len(points) >= 3, len(lines) == len(points), последняя линия
// замыкает на первую точку.
type Segment struct {
	Points []int
	Lines  []int
}

// Graph — весь путь: один или несколько сегментов одного типа.
type Graph struct {
	Type     PathType
	segments []*Segment
	points   map[int]*Point
	lines    map[int]*Line
	nextID   int
}

func newGraph(typ PathType) *Graph {
	return &Graph{
		Type:   typ,
		points: make(map[int]*Point),
		lines:  make(map[int]*Line),
	}
}

// ============================================================
// Accessors
// ============================================================

func (g *Graph) Segments() []*Segment {
	return g.segments
}

func (g *Graph) Point(id int) (*Point, bool) {
	p, ok := g.points[id]
	return p, ok
}

func (g *Graph) Line(id int) (*Line, bool) {
	l, ok := g.lines[id]
	return l, ok
}

// SegmentOf находит сегмент, которому принадлежит точка.
func (g *Graph) SegmentOf(pointID int) (*Segment, bool) {
	for _, seg := range g.segments {
		for _, pid := range seg.Points {
			if pid == pointID {
				return seg, true
			}
		}
	}
	return nil, false
}

// SegmentOfLine находит сегмент, которому принадлежит линия.
func (g *Graph) SegmentOfLine(lineID int) (*Segment, bool) {
	for _, seg := range g.segments {
		for _, lid := range seg.Lines {
			if lid == lineID {
				return seg, true
			}
		}
	}
	return nil, false
}

// ============================================================
// Construction
// ============================================================

func (g *Graph) newPoint(x, y float64) *Point {
	g.nextID++
	p := &Point{ID: g.nextID, X: x, Y: y}
	g.points[p.ID] = p
	return p
}

func (g *Graph) newLine(before, after int) *Line {
	g.nextID++
	l := &Line{ID: g.nextID, Before: before, After: after}
	g.lines[l.ID] = l
	return l
}

// appendSegment собирает сегмент из готового списка точек.
func (g *Graph) appendSegment(pointIDs []int) *Segment {
	seg := &Segment{Points: pointIDs}
	for i := 0; i+1 < len(pointIDs); i++ {
		seg.Lines = append(seg.Lines, g.newLine(pointIDs[i], pointIDs[i+1]).ID)
	}
	if g.Type == Closed {
		seg.Lines = append(seg.Lines, g.newLine(pointIDs[len(pointIDs)-1], pointIDs[0]).ID)
	}
	g.segments = append(g.segments, seg)
	return seg
}

// ============================================================
// Point movement
// ============================================================

// MovePoint двигает прокси-точку; линии ссылаются на нее по id,
// так что оба смежных конца следуют автоматически.
func (g *Graph) MovePoint(id int, x, y float64) bool {
	p, ok := g.points[id]
	if !ok {
		return false
	}
	p.X = x
	p.Y = y
	return true
}

// ============================================================
// Topology edits
// ============================================================

// DeletePoint удаляет точку, сращивая две смежные линии в одну.
// Падение ниже минимума точек удаляет весь сегмент, кроме случая
// последнего оставшегося сегмента — тогда no-op.
func (g *Graph) DeletePoint(id int) bool {
	seg, ok := g.SegmentOf(id)
	if !ok {
		return false
	}

	if len(seg.Points) <= g.Type.MinPoints() {
		if len(g.segments) == 1 {
			return false
		}
		g.removeSegment(seg)
		return true
	}

	idx := indexOf(seg.Points, id)

	switch {
	case g.Type == Open && idx == 0:
		// Крайняя точка: уходит вместе со своей единственной линией.
		g.dropLine(seg, 0)
	case g.Type == Open && idx == len(seg.Points)-1:
		g.dropLine(seg, len(seg.Lines)-1)
	default:
		// Внутренняя точка: линия перед ней перенаправляется на соседа,
		// линия после — удаляется.
		prevIdx := idx - 1
		if prevIdx < 0 {
			prevIdx = len(seg.Lines) - 1 // замкнутый сегмент, первая точка
		}
		nextIdx := idx
		if g.Type == Closed && idx == 0 {
			nextIdx = 0
		}
		prev := g.lines[seg.Lines[prevIdx]]
		next := g.lines[seg.Lines[nextIdx]]
		prev.After = next.After
		g.dropLine(seg, nextIdx)
	}

	delete(g.points, id)
	seg.Points = append(seg.Points[:idx], seg.Points[idx+1:]...)
	return true
}

// DeleteLine определено как удаление точки «перед» линией.
func (g *Graph) DeleteLine(id int) bool {
	l, ok := g.lines[id]
	if !ok {
		return false
	}
	return g.DeletePoint(l.Before)
}

// Subdivide вставляет точку в середину линии, разбивая ее на две.
// Возвращает id новой точки.
func (g *Graph) Subdivide(lineID int) (int, bool) {
	l, ok := g.lines[lineID]
	if !ok {
		return 0, false
	}
	a := g.points[l.Before]
	b := g.points[l.After]
	return g.InsertOnLine(lineID, (a.X+b.X)/2, (a.Y+b.Y)/2)
}

// InsertOnLine вставляет новую точку (x,y) внутрь линии: линия A→B
// становится A→N, добавляется линия N→B.
func (g *Graph) InsertOnLine(lineID int, x, y float64) (int, bool) {
	seg, ok := g.SegmentOfLine(lineID)
	if !ok {
		return 0, false
	}
	l := g.lines[lineID]

	n := g.newPoint(x, y)
	tail := g.newLine(n.ID, l.After)
	l.After = n.ID

	lineIdx := indexOf(seg.Lines, lineID)
	seg.Lines = insertAt(seg.Lines, lineIdx+1, tail.ID)
	// Точка встает после начала линии; для замыкающей линии это конец списка.
	seg.Points = insertAt(seg.Points, lineIdx+1, n.ID)
	return n.ID, true
}

// ExtendOpen наращивает открытый сегмент с края: prepend у первой точки,
// append у последней. Возвращает id новой точки.
func (g *Graph) ExtendOpen(seg *Segment, atStart bool, x, y float64) int {
	n := g.newPoint(x, y)
	if atStart {
		l := g.newLine(n.ID, seg.Points[0])
		seg.Points = insertAt(seg.Points, 0, n.ID)
		seg.Lines = insertAt(seg.Lines, 0, l.ID)
	} else {
		l := g.newLine(seg.Points[len(seg.Points)-1], n.ID)
		seg.Points = append(seg.Points, n.ID)
		seg.Lines = append(seg.Lines, l.ID)
	}
	return n.ID
}

// AddSegment создает отдельный сегмент того же типа: для открытого —
// отрезок из двух точек, для замкнутого — прямоугольник из четырех,
// вокруг переданного центра.
func (g *Graph) AddSegment(cx, cy float64) *Segment {
	const half = 50.0
	if g.Type == Closed {
		ids := []int{
			g.newPoint(cx-half, cy-half).ID,
			g.newPoint(cx+half, cy-half).ID,
			g.newPoint(cx+half, cy+half).ID,
			g.newPoint(cx-half, cy+half).ID,
		}
		return g.appendSegment(ids)
	}
	ids := []int{
		g.newPoint(cx-half, cy).ID,
		g.newPoint(cx+half, cy).ID,
	}
	return g.appendSegment(ids)
}

// ============================================================
// Internal helpers
// ============================================================

func (g *Graph) removeSegment(seg *Segment) {
	for _, pid := range seg.Points {
		delete(g.points, pid)
	}
	for _, lid := range seg.Lines {
		delete(g.lines, lid)
	}
	for i, s := range g.segments {
		if s == seg {
			g.segments = append(g.segments[:i], g.segments[i+1:]...)
			return
		}
	}
}

func (g *Graph) dropLine(seg *Segment, lineIdx int) {
	delete(g.lines, seg.Lines[lineIdx])
	seg.Lines = append(seg.Lines[:lineIdx], seg.Lines[lineIdx+1:]...)
}

func indexOf(list []int, v int) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}

func insertAt(list []int, idx int, v int) []int {
	list = append(list, 0)
	copy(list[idx+1:], list[idx:])
	list[idx] = v
	return list
}
