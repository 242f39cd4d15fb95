package geometry

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"plan-editor/internal/editor/models"
)

// ============================================================
// ViewBox parsing / serialization
// ============================================================

// ParseViewBox парсит строку атрибута viewBox ("x y width height").
// На кривом входе логирует предупреждение и возвращает ошибку;
// вызывающий обязан трактовать это как no-op. Каждый из четырех токенов
// обязан быть числом: непарсящийся токен — ошибка, а не пропуск.
func ParseViewBox(s string) (models.ViewBox, error) {
	parts := strings.Fields(strings.ReplaceAll(strings.TrimSpace(s), ",", " "))
	if len(parts) != 4 {
		log.Printf("[GEOM] malformed viewBox %q: want 4 numbers, got %d", s, len(parts))
		return models.ViewBox{}, fmt.Errorf("malformed viewBox %q", s)
	}

	var nums [4]float64
	for i, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || !isFinite(n) {
			log.Printf("[GEOM] malformed viewBox %q: bad token %q", s, part)
			return models.ViewBox{}, fmt.Errorf("bad viewBox token %q in %q", part, s)
		}
		nums[i] = n
	}
	if nums[2] <= 0 || nums[3] <= 0 {
		log.Printf("[GEOM] malformed viewBox %q: non-positive size", s)
		return models.ViewBox{}, fmt.Errorf("non-positive viewBox size in %q", s)
	}
	return models.ViewBox{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}, nil
}

// SerializeViewBox собирает строку "x y width height".
// Невалидная геометрия (не-конечные числа, размер <= 0) — ошибка, no-op у вызывающего.
func SerializeViewBox(vb models.ViewBox) (string, error) {
	if !isFinite(vb.X) || !isFinite(vb.Y) || !isFinite(vb.Width) || !isFinite(vb.Height) {
		log.Printf("[GEOM] refusing to serialize non-finite viewBox %+v", vb)
		return "", fmt.Errorf("non-finite viewBox")
	}
	if vb.Width <= 0 || vb.Height <= 0 {
		log.Printf("[GEOM] refusing to serialize non-positive viewBox %+v", vb)
		return "", fmt.Errorf("non-positive viewBox size")
	}
	return fmt.Sprintf("%s %s %s %s", fnum(vb.X), fnum(vb.Y), fnum(vb.Width), fnum(vb.Height)), nil
}

// ============================================================
// Numeric helpers
// ============================================================

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
