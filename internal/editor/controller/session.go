package controller

import (
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"plan-editor/internal/editor/bus"
	"plan-editor/internal/editor/gesture"
	"plan-editor/internal/editor/models"
	"plan-editor/internal/editor/persistclient"
	"plan-editor/internal/editor/scene"
)

// ============================================================
// Editing session
// ============================================================

// Префиксы целей событий для прокси-элементов редактора путей.
const (
	proxyPointPrefix = "proxy-point:"
	proxyLinePrefix  = "proxy-line:"
)

// InputEvent — сырое событие ввода, приходящее с клиента.
type InputEvent struct {
	Type        string  `json:"type"` // pointerdown|pointermove|pointerup|click|wheel|keydown|resize
	PointerID   int     `json:"pointer_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Delta       float64 `json:"delta"`
	Key         string  `json:"key"`
	Target      string  `json:"target"` // id элемента под указателем, "" — пустая канва
	Width       float64 `json:"width"`  // для resize
	Height      float64 `json:"height"`
	InTextField bool    `json:"in_text_field"`
}

// Session связывает роутер жестов с тремя контроллерами и следит,
// чтобы событиями владел ровно один из них (координация выделения
// через внедренную шину). Вся обработка событий сессии сериализована
// мьютексом — кооперативная однопоточная модель.
type Session struct {
	ID string

	mu     sync.Mutex
	doc    *scene.Document
	events *bus.Bus
	router *gesture.Router
	saver  *persistclient.Saver

	view   *ViewController
	object *ObjectController
	path   *PathController

	sel models.Selection
}

func NewSession(id string, doc *scene.Document, events *bus.Bus, store persistclient.Store) *Session {
	s := &Session{
		ID:     id,
		doc:    doc,
		events: events,
		saver:  persistclient.NewSaver(store),
	}
	s.view = NewViewController(doc, s.saver)
	s.object = NewObjectController(doc, s.saver)
	s.path = NewPathController(doc, s.saver)
	s.router = gesture.NewRouter(s)

	events.Subscribe(bus.EventSelection, s.onSelection)
	return s
}

func (s *Session) Document() *scene.Document {
	return s.doc
}

func (s *Session) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// Apply обрабатывает одно событие ввода. События одной сессии
// выполняются строго последовательно.
func (s *Session) Apply(ev InputEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Type {
	case "pointerdown":
		s.router.PointerDown(ev.PointerID, ev.Target, ev.X, ev.Y, time.Now())
	case "pointermove":
		s.router.PointerMove(ev.PointerID, ev.X, ev.Y)
	case "pointerup":
		s.router.PointerUp(ev.PointerID)
	case "click":
		// Родной click браузера дублирует синтетический клик роутера;
		// после перетаскивания он поглощается один раз.
		if s.router.SwallowClick() {
			log.Printf("[EDITOR] swallowed click after drag")
		}
	case "wheel":
		s.router.Wheel(ev.Target, ev.Delta, ev.X, ev.Y)
	case "keydown":
		s.keyDown(ev.Key, ev.InTextField)
	case "resize":
		s.view.Resize(ev.Width, ev.Height)
	default:
		log.Printf("[EDITOR] unknown event type %q", ev.Type)
	}
}

// Close завершает сессию: незаконченная правка пути сворачивается,
// отложенные сохранения выполняются.
func (s *Session) Close() {
	s.mu.Lock()
	if s.path.Active() {
		s.path.Finish()
	}
	s.mu.Unlock()
	s.saver.Flush()
}

// ============================================================
// Selection coordination
// ============================================================

// claim передает владение выделением одному модулю и оповещает шину;
// остальные модули чистят свое состояние в onSelection.
func (s *Session) claim(owner models.OwnerModule, targetID string) {
	if s.sel.Owner == owner && s.sel.TargetID == targetID {
		return
	}
	s.sel = models.Selection{Owner: owner, TargetID: targetID}
	s.events.Emit(bus.EventSelection, bus.Event{ModuleName: owner.String(), TargetID: targetID})
}

// onSelection — реакция на смену владельца (наша или внешняя):
// все модули, кроме нового владельца, сбрасывают локальное состояние.
func (s *Session) onSelection(e bus.Event) {
	if e.ModuleName != models.OwnerObjectTransform.String() && s.object.Selected() != "" {
		s.object.Deselect()
	}
	if e.ModuleName != models.OwnerPathTopology.String() && s.path.Active() {
		s.path.Finish()
	}
	if e.ModuleName != models.OwnerViewNav.String() && s.view.Mode() != ViewMove {
		s.view.SetMode(ViewMove)
	}
}

// ============================================================
// gesture.Handler
// ============================================================

func (s *Session) GestureMove(target string, g models.PointerGesture) {
	switch {
	case s.path.Active():
		if pid, ok := proxyPointID(target); ok {
			s.path.DragPoint(pid, g.Last.X, g.Last.Y)
		}
		// Прочие перетаскивания в режиме правки пути игнорируются:
		// у жеста один владелец.
	case s.objectOwns(target):
		// Перетаскивание невыделенной иконки сначала забирает выделение.
		if id := iconID(s.doc, target); id != "" && s.object.Selected() != id {
			s.claim(models.OwnerObjectTransform, id)
			s.object.Select(id)
		}
		s.object.HandleMove(g)
	default:
		s.claim(models.OwnerViewNav, s.doc.ViewID)
		s.view.HandleMove(g)
	}
}

func (s *Session) GestureEnd(target string, g models.PointerGesture) {
	switch {
	case s.path.Active():
		if _, ok := proxyPointID(target); ok {
			s.path.DragEnd()
		}
	case s.objectOwns(target):
		s.object.HandleEnd(g)
	default:
		s.view.HandleEnd(g)
	}
}

func (s *Session) GestureClick(target string, x, y float64) {
	if s.path.Active() {
		if pid, ok := proxyPointID(target); ok {
			s.path.SelectPoint(pid)
			return
		}
		if lid, ok := proxyLineID(target); ok {
			s.path.SelectLine(lid)
			return
		}
		if target == "" {
			// Клик по пустой канве расширяет путь от текущей ссылки.
			s.path.ExtendAt(x, y)
			return
		}
		// Клик по другому элементу выходит из правки пути.
		s.path.Finish()
	}

	el, ok := s.doc.Element(target)
	switch {
	case ok && el.Kind == scene.KindIcon:
		s.claim(models.OwnerObjectTransform, target)
		s.object.Select(target)
	case ok && el.Kind == scene.KindPath:
		if err := s.path.Edit(target); err != nil {
			log.Printf("[EDITOR] cannot edit path %s: %v", target, err)
			return
		}
		s.claim(models.OwnerPathTopology, target)
	default:
		// Пустое место: явный сброс выделения.
		s.claim(models.OwnerNone, "")
	}
}

func (s *Session) TwoPointer(g models.TwoPointerGesture) {
	if s.object.Selected() != "" {
		s.object.TwoPointer(g)
	}
}

func (s *Session) TwoPointerEnd() {
	s.object.TwoPointerEnd()
}

func (s *Session) Wheel(target string, delta float64, x, y float64) {
	if s.object.Selected() != "" {
		s.object.HandleWheel(delta)
		return
	}
	// В том числе во время правки пути: зум не трогает прокси-граф,
	// экранные координаты пересчитываются через ScreenToScene.
	s.view.HandleWheel(delta)
}

// ============================================================
// Keyboard surface
// ============================================================

func (s *Session) keyDown(key string, inTextField bool) {
	// Горячие клавиши не работают, пока фокус в текстовом поле.
	if inTextField {
		return
	}

	switch strings.ToLower(key) {
	case "escape":
		s.escape()
	case "s":
		if s.object.Selected() != "" {
			s.object.EnterScale()
		} else if !s.path.Active() {
			s.view.SetMode(ViewScale)
		}
	case "r":
		if s.object.Selected() != "" {
			s.object.EnterRotate()
		} else if !s.path.Active() {
			s.view.SetMode(ViewRotate)
		}
	case "+", "=":
		switch {
		case s.path.Active():
			s.path.AddSegment()
		case s.object.Selected() != "":
			s.object.HandleStep(true)
		default:
			s.view.HandleStep(true)
		}
	case "-":
		if s.object.Selected() != "" {
			s.object.HandleStep(false)
		} else if !s.path.Active() {
			s.view.HandleStep(false)
		}
	case "delete", "backspace":
		if s.path.Active() {
			s.path.DeleteSelected()
		}
	case "insert", "i":
		if s.path.Active() {
			s.path.SubdivideSelected()
		}
	case "a":
		if s.path.Active() {
			s.path.AddSegment()
		}
	}
}

// escape: прервать текущую правку, иначе снять выделение.
func (s *Session) escape() {
	switch {
	case s.path.Active():
		s.path.Finish()
		s.claim(models.OwnerNone, "")
	case s.object.Selected() != "":
		if s.object.Mode() != ObjectIdle {
			s.object.Abort()
		} else {
			s.claim(models.OwnerNone, "")
		}
	default:
		s.view.Abort()
	}
}

// ============================================================
// Routing helpers
// ============================================================

// objectOwns — жест принадлежит контроллеру объектов: либо цель —
// иконка, либо контроллер уже в модальном режиме.
func (s *Session) objectOwns(target string) bool {
	if s.object.Selected() != "" && s.object.Mode() != ObjectIdle {
		return true
	}
	return iconID(s.doc, target) != ""
}

func iconID(doc *scene.Document, target string) string {
	if el, ok := doc.Element(target); ok && el.Kind == scene.KindIcon {
		return target
	}
	return ""
}

func proxyPointID(target string) (int, bool) {
	if !strings.HasPrefix(target, proxyPointPrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(target[len(proxyPointPrefix):])
	return id, err == nil
}

func proxyLineID(target string) (int, bool) {
	if !strings.HasPrefix(target, proxyLinePrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(target[len(proxyLinePrefix):])
	return id, err == nil
}
