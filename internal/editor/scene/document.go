package scene

import (
	"fmt"
	"log"

	"plan-editor/internal/editor/geometry"
	"plan-editor/internal/editor/models"
)

// ============================================================
// Scene document
// ============================================================

type ElementKind int

const (
	KindIcon ElementKind = iota
	KindPath
)

// Element — один размещенный объект сцены. Модель — источник истины;
// строки атрибутов в Attrs — производное представление, переписываемое
// при каждой мутации и никогда не читаемое обратно для логики.
type Element struct {
	ID        string
	Kind      ElementKind
	Rect      models.Rect // локальный bbox иконки в единицах сцены
	Transform models.Transform
	PathData  string // для KindPath: атрибут d (только M/L/Z)
	Attrs     map[string]string
}

// Document — редактируемая сцена: окно просмотра, допустимые пределы,
// поворот фона и размещенные элементы.
type Document struct {
	ViewID    string
	ViewBox   models.ViewBox
	Extents   models.Rect // максимальный диапазон панорамирования/зума
	Rotation  float64     // поворот фона, градусы [0,360)
	Container models.Rect // прямоугольник контейнера на экране, px

	Attrs    map[string]string // производные атрибуты корня (viewBox, transform)
	elements map[string]*Element
}

func NewDocument(viewID string, vb models.ViewBox, extents models.Rect, container models.Rect) *Document {
	d := &Document{
		ViewID:    viewID,
		ViewBox:   vb,
		Extents:   extents,
		Container: container,
		Attrs:     make(map[string]string),
		elements:  make(map[string]*Element),
	}
	d.writeRootAttrs()
	return d
}

// ============================================================
// Elements
// ============================================================

func (d *Document) AddIcon(id string, transformAttr string, rect models.Rect) *Element {
	t := geometry.ParseTransform(transformAttr)
	if transformAttr == "" {
		// Новый объект не должен рождаться в начале координат.
		t = geometry.PlacementTransform()
	}
	el := &Element{
		ID:        id,
		Kind:      KindIcon,
		Rect:      rect,
		Transform: t,
		Attrs:     map[string]string{"transform": geometry.SerializeTransform(t)},
	}
	d.elements[id] = el
	return el
}

func (d *Document) AddPath(id string, pathData string) *Element {
	el := &Element{
		ID:        id,
		Kind:      KindPath,
		Transform: models.IdentityTransform(),
		PathData:  pathData,
		Attrs:     map[string]string{"d": pathData},
	}
	d.elements[id] = el
	return el
}

func (d *Document) Element(id string) (*Element, bool) {
	el, ok := d.elements[id]
	return el, ok
}

func (d *Document) Elements() map[string]*Element {
	return d.elements
}

// ============================================================
// Mutations (модель + производные атрибуты)
// ============================================================

// SetViewBox пишет новое окно просмотра. Невалидная геометрия — no-op.
func (d *Document) SetViewBox(vb models.ViewBox) error {
	s, err := geometry.SerializeViewBox(vb)
	if err != nil {
		log.Printf("[SCENE] skipping invalid viewBox write: %v", err)
		return err
	}
	d.ViewBox = vb
	d.Attrs["viewBox"] = s
	return nil
}

// SetRotation пишет поворот фона, нормализуя угол.
func (d *Document) SetRotation(angle float64) {
	d.Rotation = geometry.NormalizeAngle(angle)
	d.writeRootAttrs()
}

// SetTransform пишет локальную трансформацию элемента. No-op для чужих id.
func (d *Document) SetTransform(id string, t models.Transform) error {
	el, ok := d.elements[id]
	if !ok {
		return fmt.Errorf("unknown element %q", id)
	}
	t.Rotate.Angle = geometry.NormalizeAngle(t.Rotate.Angle)
	el.Transform = t
	el.Attrs["transform"] = geometry.SerializeTransform(t)
	return nil
}

// SetPathData пишет сериализованный путь элемента.
func (d *Document) SetPathData(id string, pathData string) error {
	el, ok := d.elements[id]
	if !ok {
		return fmt.Errorf("unknown element %q", id)
	}
	el.PathData = pathData
	el.Attrs["d"] = pathData
	return nil
}

func (d *Document) writeRootAttrs() {
	if s, err := geometry.SerializeViewBox(d.ViewBox); err == nil {
		d.Attrs["viewBox"] = s
	}
	c := d.Extents.Center()
	d.Attrs["transform"] = fmt.Sprintf("rotate(%g,%g,%g)", d.Rotation, c.X, c.Y)
}

// ============================================================
// Coordinate spaces
// ============================================================

// ScreenMatrix — накопленная экранная матрица корня сцены:
// контейнер ← viewBox ← поворот фона вокруг центра пределов.
func (d *Document) ScreenMatrix() geometry.Matrix {
	c := d.Extents.Center()
	return geometry.Identity.
		Translate(d.Container.X, d.Container.Y).
		Scale(d.Container.Width/d.ViewBox.Width, d.Container.Height/d.ViewBox.Height).
		Translate(-d.ViewBox.X, -d.ViewBox.Y).
		Translate(c.X, c.Y).
		RotateDeg(d.Rotation).
		Translate(-c.X, -c.Y)
}

// ScreenToScene переводит экранную точку в координаты сцены.
func (d *Document) ScreenToScene(x, y float64) models.Point {
	return geometry.ScreenToScene(d.ScreenMatrix(), x, y)
}

// PixelsPerUnit — пикселей на единицу сцены по осям.
func (d *Document) PixelsPerUnit() models.Scale {
	return geometry.PixelsPerSceneUnit(d.ScreenMatrix())
}

// ElementMatrix — матрица локальной трансформации элемента
// (scale → translate → rotate, как в сериализованном атрибуте).
func ElementMatrix(t models.Transform) geometry.Matrix {
	return geometry.Identity.
		Scale(t.Scale.X, t.Scale.Y).
		Translate(t.Translate.X, t.Translate.Y).
		Translate(t.Rotate.CX, t.Rotate.CY).
		RotateDeg(t.Rotate.Angle).
		Translate(-t.Rotate.CX, -t.Rotate.CY)
}

// SceneCenterOf — центр ограничивающего прямоугольника элемента
// в координатах сцены (экранный центр, сконвертированный обратно).
func (d *Document) SceneCenterOf(id string) (models.Point, bool) {
	el, ok := d.elements[id]
	if !ok {
		return models.Point{}, false
	}
	return ElementMatrix(el.Transform).Apply(el.Rect.Center()), true
}

// ScreenCenterOf — центр элемента в экранных координатах.
func (d *Document) ScreenCenterOf(id string) (models.Point, bool) {
	p, ok := d.SceneCenterOf(id)
	if !ok {
		return models.Point{}, false
	}
	return d.ScreenMatrix().Apply(p), true
}

// VisualCenter — центр текущего окна просмотра в координатах сцены.
func (d *Document) VisualCenter() models.Point {
	return models.Point{
		X: d.ViewBox.X + d.ViewBox.Width/2,
		Y: d.ViewBox.Y + d.ViewBox.Height/2,
	}
}
