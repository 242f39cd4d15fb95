package geometry

import (
	"math"

	"plan-editor/internal/editor/models"
)

// ============================================================
// Affine matrix
// ============================================================

// Matrix — аффинная матрица 2D в шестикомпонентной записи SVG:
//
//	| A C E |
//	| B D F |
//
// x' = A*x + C*y + E; y' = B*x + D*y + F.
type Matrix struct {
	A, B, C, D, E, F float64
}

var Identity = Matrix{A: 1, D: 1}

// Mult умножает матрицы (сначала применяется b, потом a).
func (a Matrix) Mult(b Matrix) Matrix {
	return Matrix{
		A: a.A*b.A + a.C*b.B,
		B: a.B*b.A + a.D*b.B,
		C: a.A*b.C + a.C*b.D,
		D: a.B*b.C + a.D*b.D,
		E: a.A*b.E + a.C*b.F + a.E,
		F: a.B*b.E + a.D*b.F + a.F,
	}
}

func (a Matrix) Translate(x, y float64) Matrix {
	return a.Mult(Matrix{A: 1, D: 1, E: x, F: y})
}

func (a Matrix) Scale(x, y float64) Matrix {
	return a.Mult(Matrix{A: x, D: y})
}

// RotateDeg добавляет поворот на angle градусов вокруг начала координат.
func (a Matrix) RotateDeg(angle float64) Matrix {
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	return a.Mult(Matrix{A: cos, B: sin, C: -sin, D: cos})
}

// Apply применяет матрицу к точке.
func (m Matrix) Apply(p models.Point) models.Point {
	return models.Point{
		X: p.X*m.A + p.Y*m.C + m.E,
		Y: p.X*m.B + p.Y*m.D + m.F,
	}
}

// Invert возвращает обратную матрицу. Вырожденная матрица (det == 0)
// в редакторских потоках не возникает; на всякий случай вернем identity и false.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.A*m.D - m.B*m.C
	if det == 0 {
		return Identity, false
	}
	inv := Matrix{
		A: m.D / det,
		B: -m.B / det,
		C: -m.C / det,
		D: m.A / det,
	}
	inv.E = -(inv.A*m.E + inv.C*m.F)
	inv.F = -(inv.B*m.E + inv.D*m.F)
	return inv, true
}

// ============================================================
// Screen <-> scene conversion
// ============================================================

// ScreenToScene переводит экранную точку в координаты сцены,
// применяя обратную матрицу экранной трансформации корня сцены.
func ScreenToScene(screen Matrix, x, y float64) models.Point {
	inv, ok := screen.Invert()
	if !ok {
		return models.Point{X: x, Y: y}
	}
	return inv.Apply(models.Point{X: x, Y: y})
}

// PixelsPerSceneUnit — сколько экранных пикселей приходится на одну
// единицу сцены по каждой оси; нужен для перевода пиксельных дельт
// перетаскивания в единицы сцены независимо от текущего зума.
func PixelsPerSceneUnit(screen Matrix) models.Scale {
	return models.Scale{
		X: math.Hypot(screen.A, screen.B),
		Y: math.Hypot(screen.C, screen.D),
	}
}
