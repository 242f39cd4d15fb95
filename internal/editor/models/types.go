package models

import "time"

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center возвращает центр прямоугольника.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// ViewBox — видимое окно сцены в координатах сцены.
// Инвариант: Width, Height > 0.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ============================================================
// Transform
// ============================================================

type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Translate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Rotate struct {
	Angle float64 `json:"angle"` // градусы, нормализованы в [0,360)
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
}

// Transform — локальная трансформация элемента сцены.
// Сериализуется всегда в порядке scale → translate → rotate.
type Transform struct {
	Scale     Scale     `json:"scale"`
	Translate Translate `json:"translate"`
	Rotate    Rotate    `json:"rotate"`
}

// IdentityTransform возвращает единичную трансформацию.
func IdentityTransform() Transform {
	return Transform{Scale: Scale{X: 1, Y: 1}}
}

// ============================================================
// Pointer gestures
// ============================================================

// GestureStart — точка и момент начала жеста.
type GestureStart struct {
	X float64
	Y float64
	T time.Time
}

// PointerGesture — состояние одного активного указателя.
type PointerGesture struct {
	Start    GestureStart
	Last     Point
	IsMoving bool
}

// TwoPointerGesture — сводка жеста двумя указателями.
// DeltaDistancePrevious — отношение текущего расстояния между указателями
// к расстоянию на предыдущем сэмпле; DeltaAngleStart — изменение угла
// между указателями с начала жеста, в градусах.
type TwoPointerGesture struct {
	DeltaDistancePrevious float64
	DeltaAngleStart       float64
}

// ============================================================
// Selection
// ============================================================

type OwnerModule int

const (
	OwnerNone OwnerModule = iota
	OwnerViewNav
	OwnerObjectTransform
	OwnerPathTopology
)

func (m OwnerModule) String() string {
	switch m {
	case OwnerViewNav:
		return "view-nav"
	case OwnerObjectTransform:
		return "object-transform"
	case OwnerPathTopology:
		return "path-topology"
	default:
		return "none"
	}
}

// Selection — кто из контроллеров владеет выделением и каким элементом.
type Selection struct {
	Owner    OwnerModule
	TargetID string
}
