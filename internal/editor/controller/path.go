package controller

import (
	"fmt"
	"log"

	"plan-editor/internal/editor/pathgraph"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/scene"
)

// ============================================================
// Path topology controller
// ============================================================

type ProxyKind int

const (
	ProxyNone ProxyKind = iota
	ProxyPoint
	ProxyLine
)

// PathController правит топологию пути через прокси-граф: пока путь в
// режиме редактирования, граф — источник истины, после каждой мутации
// свернутая строка пишется обратно в документ.
type PathController struct {
	doc   *scene.Document
	saver *persistclient.Saver

	pathID string
	graph  *pathgraph.Graph

	selKind ProxyKind
	selID   int

	dragging bool
}

func NewPathController(doc *scene.Document, saver *persistclient.Saver) *PathController {
	return &PathController{doc: doc, saver: saver}
}

// Active — идет ли сейчас редактирование какого-то пути.
func (p *PathController) Active() bool {
	return p.graph != nil
}

func (p *PathController) PathID() string {
	return p.pathID
}

func (p *PathController) Graph() *pathgraph.Graph {
	return p.graph
}

// Selection возвращает текущий прокси-элемент (точку или линию).
func (p *PathController) Selection() (ProxyKind, int) {
	return p.selKind, p.selID
}

// ============================================================
// Edit lifecycle
// ============================================================

// Edit разворачивает путь элемента в прокси-граф и входит в режим
// редактирования.
func (p *PathController) Edit(pathID string) error {
	el, ok := p.doc.Element(pathID)
	if !ok || el.Kind != scene.KindPath {
		return fmt.Errorf("element %q is not a path", pathID)
	}

	g, err := pathgraph.Expand(el.PathData)
	if err != nil {
		return fmt.Errorf("expand path %q: %w", pathID, err)
	}

	p.pathID = pathID
	p.graph = g
	p.selKind = ProxyNone
	return nil
}

// Finish сворачивает граф обратно в строку пути, сохраняет ее
// и разбирает прокси-структуры.
func (p *PathController) Finish() {
	if p.graph == nil {
		return
	}
	d := p.graph.Collapse()
	p.doc.SetPathData(p.pathID, d)
	p.saver.PathEdited(p.pathID, persistclient.PathGeometry{SvgPath: d})

	p.graph = nil
	p.pathID = ""
	p.selKind = ProxyNone
	p.dragging = false
}

// ============================================================
// Proxy selection
// ============================================================

// SelectPoint / SelectLine делают прокси-элемент текущей ссылкой
// для расширения/удаления/разбиения.
func (p *PathController) SelectPoint(id int) {
	if _, ok := p.graph.Point(id); !ok {
		return
	}
	p.selKind = ProxyPoint
	p.selID = id
}

func (p *PathController) SelectLine(id int) {
	if _, ok := p.graph.Line(id); !ok {
		return
	}
	p.selKind = ProxyLine
	p.selID = id
}

func (p *PathController) clearSelection() {
	p.selKind = ProxyNone
	p.selID = 0
}

// ============================================================
// Point drag
// ============================================================

// DragPoint двигает прокси-точку под курсором; концы смежных линий
// следуют за ней. Строка пути переписывается на каждом сэмпле.
func (p *PathController) DragPoint(pointID int, screenX, screenY float64) {
	if p.graph == nil {
		return
	}
	pos := p.doc.ScreenToScene(screenX, screenY)
	if !p.graph.MovePoint(pointID, pos.X, pos.Y) {
		return
	}
	p.dragging = true
	p.selKind = ProxyPoint
	p.selID = pointID
	p.writeThrough()
}

// DragEnd ставит весь сериализованный путь в очередь сохранения.
func (p *PathController) DragEnd() {
	if !p.dragging {
		return
	}
	p.dragging = false
	p.saver.PathChanged(p.pathID, persistclient.PathGeometry{SvgPath: p.graph.Collapse()})
}

// ============================================================
// Topology edits
// ============================================================

// ExtendAt — клик по пустому месту канвы при текущей ссылке на
// точку/линию. Открытый путь растет с краев; внутренняя ссылка и
// замкнутый путь дают вставку в линию.
func (p *PathController) ExtendAt(screenX, screenY float64) {
	if p.graph == nil || p.selKind == ProxyNone {
		return
	}
	pos := p.doc.ScreenToScene(screenX, screenY)

	if p.graph.Type == pathgraph.Open && p.selKind == ProxyPoint {
		if seg, ok := p.graph.SegmentOf(p.selID); ok {
			switch p.selID {
			case seg.Points[0]:
				p.SelectPoint(p.graph.ExtendOpen(seg, true, pos.X, pos.Y))
				p.persistEdit()
				return
			case seg.Points[len(seg.Points)-1]:
				p.SelectPoint(p.graph.ExtendOpen(seg, false, pos.X, pos.Y))
				p.persistEdit()
				return
			}
		}
	}

	// Внутренняя ссылка или замкнутый путь: вставка в линию-ссылку.
	lineID, ok := p.referenceLine()
	if !ok {
		return
	}
	if nid, ok := p.graph.InsertOnLine(lineID, pos.X, pos.Y); ok {
		p.SelectPoint(nid)
		p.persistEdit()
	}
}

// DeleteSelected удаляет текущий прокси-элемент. Удаление линии
// определено как удаление ее точки «перед».
func (p *PathController) DeleteSelected() {
	if p.graph == nil {
		return
	}

	var ok bool
	switch p.selKind {
	case ProxyPoint:
		ok = p.graph.DeletePoint(p.selID)
	case ProxyLine:
		ok = p.graph.DeleteLine(p.selID)
	default:
		return
	}

	if !ok {
		// Последний минимальный сегмент: запрошенное удаление — no-op.
		log.Printf("[PATH] delete kept the last segment of %s intact", p.pathID)
		return
	}
	p.clearSelection()
	p.persistEdit()
}

// SubdivideSelected вставляет точку в середину выбранной линии; для
// выбранной точки берется смежная с ней линия.
func (p *PathController) SubdivideSelected() {
	if p.graph == nil {
		return
	}

	lineID, ok := p.referenceLine()
	if !ok {
		return
	}
	if nid, ok := p.graph.Subdivide(lineID); ok {
		p.SelectPoint(nid)
		p.persistEdit()
	}
}

// AddSegment создает новый несвязный сегмент того же типа в визуальном
// центре сцены.
func (p *PathController) AddSegment() {
	if p.graph == nil {
		return
	}
	c := p.doc.VisualCenter()
	seg := p.graph.AddSegment(c.X, c.Y)
	p.SelectPoint(seg.Points[0])
	p.persistEdit()
}

// ============================================================
// Helpers
// ============================================================

// referenceLine — выбранная линия, либо линия, смежная с выбранной точкой.
func (p *PathController) referenceLine() (int, bool) {
	switch p.selKind {
	case ProxyLine:
		return p.selID, true
	case ProxyPoint:
		seg, ok := p.graph.SegmentOf(p.selID)
		if !ok {
			return 0, false
		}
		for _, lid := range seg.Lines {
			l, _ := p.graph.Line(lid)
			if l.Before == p.selID {
				return lid, true
			}
		}
		for _, lid := range seg.Lines {
			l, _ := p.graph.Line(lid)
			if l.After == p.selID {
				return lid, true
			}
		}
	}
	return 0, false
}

// writeThrough переписывает производный атрибут d после мутации графа.
func (p *PathController) writeThrough() {
	p.doc.SetPathData(p.pathID, p.graph.Collapse())
}

// persistEdit — структурные правки дискретны, сохраняются сразу.
func (p *PathController) persistEdit() {
	p.writeThrough()
	p.saver.PathEdited(p.pathID, persistclient.PathGeometry{SvgPath: p.graph.Collapse()})
}
