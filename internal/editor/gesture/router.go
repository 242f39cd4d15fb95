package gesture

import (
	"math"
	"time"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
)

// ============================================================
// Pointer gesture router
// ============================================================

// Порог в пикселях, после которого контакт считается перетаскиванием,
// а не шумом вокруг клика.
const dragThresholdPx = 3.0

// Handler получает нормализованные жесты. Для одного id указателя события
// приходят строго в порядке start → move* → end; пока активен владелец
// выделения, жесты других контроллеров не доставляются.
type Handler interface {
	// GestureMove — указатель перетаскивается (порог пройден).
	GestureMove(target string, g models.PointerGesture)
	// GestureEnd — завершение перетаскивания.
	GestureEnd(target string, g models.PointerGesture)
	// GestureClick — указатель поднят без перетаскивания.
	GestureClick(target string, x, y float64)
	// TwoPointer — сэмпл жеста двумя указателями (масштаб+поворот).
	TwoPointer(g models.TwoPointerGesture)
	// TwoPointerEnd — один из двух контактов поднят.
	TwoPointerEnd()
	// Wheel — прокрутка колеса над поверхностью.
	Wheel(target string, delta float64, x, y float64)
}

type pointerState struct {
	target  string
	gesture models.PointerGesture
}

type twoPointerState struct {
	first, second int // id указателей
	startAngle    float64
	prevDistance  float64
}

// Router — конечный автомат Idle → Armed → Dragging по каждому контакту,
// с объединенным режимом при появлении второго контакта.
type Router struct {
	handler      Handler
	pointers     map[int]*pointerState
	order        []int // порядок появления контактов
	two          *twoPointerState
	swallowClick bool
}

func NewRouter(h Handler) *Router {
	return &Router{
		handler:  h,
		pointers: make(map[int]*pointerState),
	}
}

// PointerDown переводит контакт в Armed: запоминаем старт, никаких
// побочных эффектов (клик и перетаскивание еще неразличимы).
func (r *Router) PointerDown(id int, target string, x, y float64, t time.Time) {
	if _, ok := r.pointers[id]; ok {
		return
	}
	if len(r.pointers) >= 2 {
		// Третий и далее контакты не отслеживаем.
		return
	}

	r.pointers[id] = &pointerState{
		target: target,
		gesture: models.PointerGesture{
			Start: models.GestureStart{X: x, Y: y, T: t},
			Last:  models.Point{X: x, Y: y},
		},
	}
	r.order = append(r.order, id)

	if len(r.pointers) == 2 {
		r.enterTwoPointer()
	}
}

// PointerMove двигает контакт. До порога — шум; после порога каждый
// сэмпл уходит активному контроллеру.
func (r *Router) PointerMove(id int, x, y float64) {
	ps, ok := r.pointers[id]
	if !ok {
		return
	}
	ps.gesture.Last = models.Point{X: x, Y: y}

	if r.two != nil {
		r.sampleTwoPointer()
		return
	}

	if !ps.gesture.IsMoving {
		dx := math.Abs(x - ps.gesture.Start.X)
		dy := math.Abs(y - ps.gesture.Start.Y)
		if dx <= dragThresholdPx && dy <= dragThresholdPx {
			return
		}
		ps.gesture.IsMoving = true
	}
	r.handler.GestureMove(ps.target, ps.gesture)
}

// PointerUp завершает контакт: end при перетаскивании, иначе
// синтетический click. Эти исходы взаимоисключающие; после end
// следующий внешний click поглощается один раз.
func (r *Router) PointerUp(id int) {
	ps, ok := r.pointers[id]
	if !ok {
		return
	}
	delete(r.pointers, id)
	r.dropFromOrder(id)

	if r.two != nil {
		r.two = nil
		r.handler.TwoPointerEnd()
		// Оставшийся контакт не должен породить клик при подъеме.
		for _, rest := range r.pointers {
			rest.gesture.IsMoving = true
		}
		r.swallowClick = true
		return
	}

	if ps.gesture.IsMoving {
		r.swallowClick = true
		r.handler.GestureEnd(ps.target, ps.gesture)
		return
	}
	r.handler.GestureClick(ps.target, ps.gesture.Last.X, ps.gesture.Last.Y)
}

// Wheel — прямая доставка активному контроллеру.
func (r *Router) Wheel(target string, delta float64, x, y float64) {
	r.handler.Wheel(target, delta, x, y)
}

// SwallowClick возвращает и сбрасывает одноразовый флаг «проглотить
// следующий click» (браузер шлет click независимо от pointer-up).
func (r *Router) SwallowClick() bool {
	s := r.swallowClick
	r.swallowClick = false
	return s
}

// ============================================================
// Two-pointer mode
// ============================================================

func (r *Router) enterTwoPointer() {
	first, second := r.order[0], r.order[1]
	p0 := r.pointers[first].gesture.Last
	p1 := r.pointers[second].gesture.Last

	r.two = &twoPointerState{
		first:        first,
		second:       second,
		startAngle:   angleBetween(p0, p1),
		prevDistance: geometry.Distance(p0, p1),
	}
	// Одиночная обработка приостановлена до подъема одного из контактов.
	for _, ps := range r.pointers {
		ps.gesture.IsMoving = true
	}
}

func (r *Router) sampleTwoPointer() {
	p0 := r.pointers[r.two.first].gesture.Last
	p1 := r.pointers[r.two.second].gesture.Last

	dist := geometry.Distance(p0, p1)
	ratio := 1.0
	if r.two.prevDistance > 0 {
		ratio = dist / r.two.prevDistance
	}
	r.two.prevDistance = dist

	// Угол пары относительно стартового угла жеста.
	start := geometry.RotateVector(models.Point{X: 1, Y: 0}, r.two.startAngle)
	now := models.Point{X: p1.X - p0.X, Y: p1.Y - p0.Y}

	r.handler.TwoPointer(models.TwoPointerGesture{
		DeltaDistancePrevious: ratio,
		DeltaAngleStart:       geometry.RotationAngle(0, 0, start, now),
	})
}

func angleBetween(p0, p1 models.Point) float64 {
	return math.Atan2(p1.Y-p0.Y, p1.X-p0.X) * 180 / math.Pi
}

func (r *Router) dropFromOrder(id int) {
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
