package controller

import (
	"log"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/scene"
)

// ============================================================
// Object transform controller
// ============================================================

type ObjectMode int

const (
	ObjectIdle ObjectMode = iota
	ObjectDragging
	ObjectScaling
	ObjectRotating
)

const (
	// Шаг масштаба по колесу/клавишам.
	objectScaleStep = 0.05
	// Шаг поворота по колесу/клавишам, градусы.
	objectRotateStep = 5.0
)

// ObjectController владеет локальной трансформацией выбранной иконки:
// перетаскивание, модальные масштаб/поворот, колесо и жест двумя
// указателями. Режимы взаимоисключающие.
type ObjectController struct {
	doc   *scene.Document
	saver *persistclient.Saver

	selected string
	mode     ObjectMode

	// Снапшот на входе в режим — точка возврата для Escape.
	snapshot models.Transform

	// Drag: смещение курсора (в единицах сцены, деленных на scale)
	// от translate на старте жеста.
	dragOffset models.Point

	// Scale/Rotate перетаскиванием: предыдущий сэмпл.
	havePrev  bool
	prevPoint models.Point

	// Жест двумя указателями.
	pinchActive bool
	pinchAngle  float64 // угол иконки на старте жеста
}

func NewObjectController(doc *scene.Document, saver *persistclient.Saver) *ObjectController {
	return &ObjectController{doc: doc, saver: saver}
}

func (o *ObjectController) Selected() string {
	return o.selected
}

func (o *ObjectController) Mode() ObjectMode {
	return o.mode
}

// Select делает иконку текущей целью контроллера.
func (o *ObjectController) Select(id string) {
	if o.selected == id {
		return
	}
	o.selected = id
	o.mode = ObjectIdle
	if el, ok := o.doc.Element(id); ok {
		o.snapshot = el.Transform
	}
}

// Deselect сбрасывает выделение и внутреннее состояние правки.
func (o *ObjectController) Deselect() {
	o.selected = ""
	o.mode = ObjectIdle
	o.havePrev = false
	o.pinchActive = false
}

// EnterScale / EnterRotate — модальные режимы по клавишам s/r.
func (o *ObjectController) EnterScale() {
	o.enterMode(ObjectScaling)
}

func (o *ObjectController) EnterRotate() {
	o.enterMode(ObjectRotating)
}

func (o *ObjectController) enterMode(m ObjectMode) {
	el, ok := o.doc.Element(o.selected)
	if !ok {
		return
	}
	o.mode = m
	o.snapshot = el.Transform
	o.havePrev = false
}

// ============================================================
// Gestures
// ============================================================

// HandleMove — сэмпл перетаскивания. В Idle жест по самой иконке
// начинает перетаскивание (переход пришел с pointer-down по иконке).
func (o *ObjectController) HandleMove(g models.PointerGesture) {
	el, ok := o.doc.Element(o.selected)
	if !ok {
		return
	}

	if o.mode == ObjectIdle {
		o.startDrag(el, g)
	}

	switch o.mode {
	case ObjectDragging:
		o.drag(el, g)
	case ObjectScaling:
		o.scaleDrag(el, g)
	case ObjectRotating:
		o.rotateDrag(el, g)
	}
}

// HandleEnd фиксирует результат жеста и ставит сохранение в очередь.
// Модальные режимы остаются активными до клавиши/Escape.
func (o *ObjectController) HandleEnd(g models.PointerGesture) {
	if o.mode == ObjectDragging {
		o.mode = ObjectIdle
	}
	o.havePrev = false
	o.commit()
}

// HandleWheel — шаг масштаба (или поворота в режиме Rotate) колесом.
func (o *ObjectController) HandleWheel(delta float64) {
	el, ok := o.doc.Element(o.selected)
	if !ok {
		return
	}

	if o.mode == ObjectRotating {
		step := objectRotateStep
		if delta < 0 {
			step = -step
		}
		o.applyRotate(el, step)
	} else {
		factor := 1 + objectScaleStep
		if delta < 0 {
			factor = 1 - objectScaleStep
		}
		o.applyScale(el, factor)
	}
	o.commit()
}

// HandleStep — шаг по клавишам +/- в текущем режиме.
func (o *ObjectController) HandleStep(increase bool) {
	el, ok := o.doc.Element(o.selected)
	if !ok {
		return
	}

	if o.mode == ObjectRotating {
		step := objectRotateStep
		if !increase {
			step = -step
		}
		o.applyRotate(el, step)
	} else {
		factor := 1 + objectScaleStep
		if !increase {
			factor = 1 - objectScaleStep
		}
		o.applyScale(el, factor)
	}
	o.commit()
}

// Abort откатывает трансформацию к снапшоту входа в режим.
func (o *ObjectController) Abort() {
	if o.selected == "" {
		return
	}
	o.doc.SetTransform(o.selected, o.snapshot)
	o.mode = ObjectIdle
	o.havePrev = false
	o.pinchActive = false
}

// ============================================================
// Two-pointer combined scale+rotate
// ============================================================

// TwoPointer применяет одновременные масштаб (по отношению дистанций
// к предыдущему сэмплу) и поворот (по абсолютной дельте угла с начала
// жеста).
func (o *ObjectController) TwoPointer(g models.TwoPointerGesture) {
	el, ok := o.doc.Element(o.selected)
	if !ok {
		return
	}

	if !o.pinchActive {
		o.pinchActive = true
		o.snapshot = el.Transform
		o.pinchAngle = el.Transform.Rotate.Angle
	}

	o.applyScale(el, g.DeltaDistancePrevious)

	t := el.Transform
	t.Rotate.Angle = geometry.NormalizeAngle(o.pinchAngle + g.DeltaAngleStart)
	o.doc.SetTransform(o.selected, t)
}

// TwoPointerEnd фиксирует результат жеста двумя указателями.
func (o *ObjectController) TwoPointerEnd() {
	if !o.pinchActive {
		return
	}
	o.pinchActive = false
	o.commit()
}

// ============================================================
// Mode implementations
// ============================================================

func (o *ObjectController) startDrag(el *scene.Element, g models.PointerGesture) {
	o.mode = ObjectDragging
	o.snapshot = el.Transform

	cursor := o.doc.ScreenToScene(g.Start.X, g.Start.Y)
	t := el.Transform
	o.dragOffset = models.Point{
		X: cursor.X/t.Scale.X - t.Translate.X,
		Y: cursor.Y/t.Scale.Y - t.Translate.Y,
	}
}

// drag держит точку захвата под курсором; scale и rotate не меняются.
func (o *ObjectController) drag(el *scene.Element, g models.PointerGesture) {
	cursor := o.doc.ScreenToScene(g.Last.X, g.Last.Y)
	t := el.Transform
	t.Translate = models.Translate{
		X: cursor.X/t.Scale.X - o.dragOffset.X,
		Y: cursor.Y/t.Scale.Y - o.dragOffset.Y,
	}
	if !finite(t.Translate.X) || !finite(t.Translate.Y) {
		log.Printf("[OBJECT] skipping non-finite translate for %s", o.selected)
		return
	}
	o.doc.SetTransform(o.selected, t)
}

// scaleDrag — непрерывный масштаб от отношения дистанций до экранного
// центра иконки между сэмплами.
func (o *ObjectController) scaleDrag(el *scene.Element, g models.PointerGesture) {
	center, ok := o.doc.ScreenCenterOf(o.selected)
	if !ok {
		return
	}
	if !o.havePrev {
		o.havePrev = true
		o.prevPoint = models.Point{X: g.Start.X, Y: g.Start.Y}
	}

	prevDist := geometry.Distance(o.prevPoint, center)
	curDist := geometry.Distance(g.Last, center)
	o.prevPoint = g.Last
	if prevDist == 0 {
		return
	}
	o.applyScale(el, curDist/prevDist)
}

// rotateDrag — поворот по угловому движению курсора вокруг центра иконки.
func (o *ObjectController) rotateDrag(el *scene.Element, g models.PointerGesture) {
	center, ok := o.doc.ScreenCenterOf(o.selected)
	if !ok {
		return
	}
	if !o.havePrev {
		o.havePrev = true
		o.prevPoint = models.Point{X: g.Start.X, Y: g.Start.Y}
	}

	delta := geometry.RotationAngle(center.X, center.Y, o.prevPoint, g.Last)
	o.prevPoint = g.Last
	o.applyRotate(el, delta)
}

// ============================================================
// Transform updates
// ============================================================

// applyScale умножает масштаб и компенсирует translate множителем
// old/new, чтобы точка привязки не прыгала на экране.
func (o *ObjectController) applyScale(el *scene.Element, factor float64) {
	if factor == 0 || !finite(factor) {
		log.Printf("[OBJECT] skipping invalid scale factor %v for %s", factor, o.selected)
		return
	}

	t := el.Transform
	old := t.Scale
	t.Scale.X *= factor
	t.Scale.Y *= factor
	if t.Scale.X == 0 || t.Scale.Y == 0 || !finite(t.Scale.X) || !finite(t.Scale.Y) {
		log.Printf("[OBJECT] skipping degenerate scale for %s", o.selected)
		return
	}
	t.Translate.X *= old.X / t.Scale.X
	t.Translate.Y *= old.Y / t.Scale.Y
	o.doc.SetTransform(o.selected, t)
}

func (o *ObjectController) applyRotate(el *scene.Element, delta float64) {
	t := el.Transform
	t.Rotate.Angle = geometry.NormalizeAngle(t.Rotate.Angle + delta)
	o.doc.SetTransform(o.selected, t)
}

// commit ставит текущую геометрию в очередь отложенного сохранения.
func (o *ObjectController) commit() {
	el, ok := o.doc.Element(o.selected)
	if !ok {
		return
	}
	t := el.Transform
	o.saver.IconChanged(o.selected, persistclient.IconGeometry{
		SvgX:      t.Translate.X,
		SvgY:      t.Translate.Y,
		SvgScale:  t.Scale.X,
		SvgRotate: t.Rotate.Angle,
	})
}
