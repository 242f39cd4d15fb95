package controller

import (
	"log"
	"math"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/scene"
)

// ============================================================
// View navigation controller
// ============================================================

type ViewMode int

const (
	ViewMove ViewMode = iota // режим по умолчанию
	ViewScale
	ViewRotate
)

const (
	// Дистанция перетаскивания в пикселях, дающая изменение масштаба на 1.0.
	zoomDragK = 300.0
	// Шаг зума по колесу/клавишам.
	zoomStep = 0.1
	// Шаг поворота фона по клавишам.
	viewRotateStep = 5.0
)

// ViewController владеет viewBox сцены: панорамирование, зум и поворот
// фона с ограничением пределами (extents).
type ViewController struct {
	doc   *scene.Document
	saver *persistclient.Saver

	mode ViewMode

	// Снапшот на входе в режим — точка возврата для Escape.
	modeViewBox  models.ViewBox
	modeRotation float64

	// Снапшот на старте перетаскивания.
	dragActive    bool
	startViewBox  models.ViewBox
	startRotation float64
	startDistance float64
}

func NewViewController(doc *scene.Document, saver *persistclient.Saver) *ViewController {
	v := &ViewController{doc: doc, saver: saver}
	// Точка возврата существует с самого начала, а не только после
	// первого переключения режима.
	v.modeViewBox = doc.ViewBox
	v.modeRotation = doc.Rotation
	return v
}

func (v *ViewController) Mode() ViewMode {
	return v.mode
}

// SetMode переключает режим взаимодействия и фиксирует точку возврата.
func (v *ViewController) SetMode(m ViewMode) {
	v.mode = m
	v.dragActive = false
	v.modeViewBox = v.doc.ViewBox
	v.modeRotation = v.doc.Rotation
}

// ============================================================
// Gestures
// ============================================================

// HandleMove обрабатывает сэмпл перетаскивания фона.
func (v *ViewController) HandleMove(g models.PointerGesture) {
	if !v.dragActive {
		v.dragActive = true
		v.startViewBox = v.doc.ViewBox
		v.startRotation = v.doc.Rotation
		center := v.screenCenter()
		v.startDistance = geometry.Distance(models.Point{X: g.Start.X, Y: g.Start.Y}, center)
	}

	switch v.mode {
	case ViewMove:
		v.pan(g)
	case ViewScale:
		v.scale(g)
	case ViewRotate:
		v.rotate(g)
	}
}

// HandleEnd завершает перетаскивание и ставит геометрию в очередь сохранения.
func (v *ViewController) HandleEnd(g models.PointerGesture) {
	if !v.dragActive {
		return
	}
	v.dragActive = false
	v.persist()
}

// HandleWheel — зум колесом вокруг центра окна.
func (v *ViewController) HandleWheel(delta float64) {
	factor := 1 + zoomStep
	if delta < 0 {
		factor = 1 - zoomStep
	}
	v.zoomBy(factor)
	v.persist()
}

// HandleStep — шаг по клавишам +/-: зум в режиме Move/Scale,
// поворот в режиме Rotate.
func (v *ViewController) HandleStep(increase bool) {
	if v.mode == ViewRotate {
		step := viewRotateStep
		if !increase {
			step = -step
		}
		v.doc.SetRotation(v.doc.Rotation + step)
		v.applyViewBox(v.doc.ViewBox)
	} else {
		factor := 1 - zoomStep
		if !increase {
			factor = 1 + zoomStep
		}
		v.zoomBy(factor)
	}
	v.persist()
}

// Abort откатывает модальные Scale/Rotate к снапшоту входа в режим и
// возвращает Move. В режиме Move прерывается только незавершенное
// перетаскивание; уже зафиксированная геометрия не трогается.
func (v *ViewController) Abort() {
	switch {
	case v.mode != ViewMove:
		v.doc.SetRotation(v.modeRotation)
		v.applyViewBox(v.modeViewBox)
	case v.dragActive:
		v.doc.SetRotation(v.startRotation)
		v.applyViewBox(v.startViewBox)
	}
	v.mode = ViewMove
	v.dragActive = false
}

// Resize подгоняет окно под новый размер контейнера, сохраняя
// соотношение сторон фона.
func (v *ViewController) Resize(containerW, containerH float64) {
	if containerW <= 0 || containerH <= 0 {
		log.Printf("[VIEW] ignoring resize to %gx%g", containerW, containerH)
		return
	}
	v.doc.Container.Width = containerW
	v.doc.Container.Height = containerH
	v.applyViewBox(v.withAspect(v.doc.ViewBox))
	v.persist()
}

// ============================================================
// Mode implementations
// ============================================================

// pan сдвигает окно на дельту жеста: пиксели → единицы сцены,
// затем поворот на минус угол фона, чтобы панорамирование ощущалось
// экранным при любом повороте.
func (v *ViewController) pan(g models.PointerGesture) {
	ppu := v.doc.PixelsPerUnit()
	if ppu.X == 0 || ppu.Y == 0 {
		return
	}
	delta := models.Point{
		X: (g.Last.X - g.Start.X) / ppu.X,
		Y: (g.Last.Y - g.Start.Y) / ppu.Y,
	}
	delta = geometry.RotateVector(delta, -v.doc.Rotation)

	vb := v.startViewBox
	vb.X -= delta.X
	vb.Y -= delta.Y
	v.applyViewBox(vb)
}

// scale — линейный масштаб от изменения дистанции до экранного центра сцены.
func (v *ViewController) scale(g models.PointerGesture) {
	center := v.screenCenter()
	dist := geometry.Distance(g.Last, center)
	factor := 1 - (dist-v.startDistance)/zoomDragK
	if factor <= 0 || !finite(factor) {
		return
	}

	vb := v.startViewBox
	cx, cy := vb.X+vb.Width/2, vb.Y+vb.Height/2
	// Ширина и высота всегда меняются вместе.
	vb.Width *= factor
	vb.Height *= factor
	vb = v.withAspect(vb)
	vb.X = cx - vb.Width/2
	vb.Y = cy - vb.Height/2
	v.applyViewBox(vb)
}

// rotate — поворот фона на знаковую дельту угла вокруг центра сцены.
func (v *ViewController) rotate(g models.PointerGesture) {
	center := v.screenCenter()
	delta := geometry.RotationAngle(center.X, center.Y, models.Point{X: g.Start.X, Y: g.Start.Y}, g.Last)
	v.doc.SetRotation(v.startRotation + delta)
	// Повернутые пределы могли сузить допустимое окно.
	v.applyViewBox(v.doc.ViewBox)
}

func (v *ViewController) zoomBy(factor float64) {
	vb := v.doc.ViewBox
	cx, cy := vb.X+vb.Width/2, vb.Y+vb.Height/2
	vb.Width *= factor
	vb.Height *= factor
	vb = v.withAspect(vb)
	vb.X = cx - vb.Width/2
	vb.Y = cy - vb.Height/2
	v.applyViewBox(vb)
}

// ============================================================
// Clamping
// ============================================================

// applyViewBox прогоняет кандидата через ограничение пределами и пишет.
func (v *ViewController) applyViewBox(vb models.ViewBox) {
	v.doc.SetViewBox(v.clamp(vb))
}

// clamp не дает окну выйти за пределы, повернутые на текущий угол фона.
// Сначала зажимается позиция, и только если окно больше пределов —
// ужимается размер.
func (v *ViewController) clamp(vb models.ViewBox) models.ViewBox {
	ext := geometry.RotatedBoundingBox(v.doc.Extents, v.doc.Rotation)

	if vb.Width >= ext.Width {
		vb.Width = ext.Width
		vb.X = ext.X
	} else {
		vb.X = clampFloat(vb.X, ext.X, ext.X+ext.Width-vb.Width)
	}
	if vb.Height >= ext.Height {
		vb.Height = ext.Height
		vb.Y = ext.Y
	} else {
		vb.Y = clampFloat(vb.Y, ext.Y, ext.Y+ext.Height-vb.Height)
	}
	return vb
}

// withAspect расширяет меньшую (относительно контейнера) сторону окна,
// чтобы сохранить пропорции фона.
func (v *ViewController) withAspect(vb models.ViewBox) models.ViewBox {
	c := v.doc.Container
	if c.Width <= 0 || c.Height <= 0 {
		return vb
	}
	aspect := c.Width / c.Height
	if vb.Width/vb.Height < aspect {
		vb.Width = vb.Height * aspect
	} else {
		vb.Height = vb.Width / aspect
	}
	return vb
}

// ============================================================
// Helpers
// ============================================================

func (v *ViewController) screenCenter() models.Point {
	return v.doc.Container.Center()
}

func (v *ViewController) persist() {
	s, err := geometry.SerializeViewBox(v.doc.ViewBox)
	if err != nil {
		return
	}
	v.saver.ViewChanged(v.doc.ViewID, persistclient.ViewGeometry{
		SvgViewBoxStr: s,
		SvgRotate:     v.doc.Rotation,
	})
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
