package geometry

import (
	"math"

	"plan-editor/internal/editor/models"
)

// ============================================================
// Angles and vectors
// ============================================================

// NormalizeAngle приводит угол к диапазону [0,360).
func NormalizeAngle(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	return a
}

// RotateVector поворачивает вектор на angle градусов.
func RotateVector(v models.Point, angle float64) models.Point {
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return models.Point{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// RotationAngle — знаковый угол в градусах между векторами (center→p0)
// и (center→p1), нормализованный в (-180,180].
func RotationAngle(cx, cy float64, p0, p1 models.Point) float64 {
	a0 := math.Atan2(p0.Y-cy, p0.X-cx)
	a1 := math.Atan2(p1.Y-cy, p1.X-cx)
	d := (a1 - a0) * 180 / math.Pi

	d = math.Mod(d+180, 360)
	if d <= 0 {
		d += 360
	}
	return d - 180
}

// Distance — расстояние между точками.
func Distance(p1, p2 models.Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// RotatedBoundingBox — ограничивающий прямоугольник четырех углов r,
// повернутых на angle градусов вокруг центра r. Используется при
// ограничении панорамирования/зума под поворотом фона.
func RotatedBoundingBox(r models.Rect, angle float64) models.Rect {
	c := r.Center()
	corners := [4]models.Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range corners {
		rot := RotateVector(models.Point{X: p.X - c.X, Y: p.Y - c.Y}, angle)
		x, y := rot.X+c.X, rot.Y+c.Y
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}

	return models.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
