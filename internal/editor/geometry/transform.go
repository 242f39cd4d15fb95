package geometry

import (
	"fmt"
	"log"
	"regexp"

	"plan-editor/internal/editor/models"
)

// ============================================================
// Transform parsing / serialization
// ============================================================

var (
	scaleRe     = regexp.MustCompile(`scale\(([^)]*)\)`)
	translateRe = regexp.MustCompile(`translate\(([^)]*)\)`)
	rotateRe    = regexp.MustCompile(`rotate\(([^)]*)\)`)
)

// ParseTransform извлекает scale/translate/rotate из строки атрибута transform.
// Термы могут идти в любом порядке, каждый опционален; отсутствующие
// принимают единичные значения (scale 1,1; translate 0,0; rotate 0,0,0).
// Кривые термы логируются и заменяются единичными — парсер никогда не падает.
func ParseTransform(s string) models.Transform {
	t := models.IdentityTransform()

	if m := scaleRe.FindStringSubmatch(s); m != nil {
		args := parseCoords(m[1])
		switch {
		case len(args) >= 2:
			t.Scale = models.Scale{X: args[0], Y: args[1]}
		case len(args) == 1:
			t.Scale = models.Scale{X: args[0], Y: args[0]}
		default:
			log.Printf("[GEOM] malformed scale term in %q, using identity", s)
		}
		if t.Scale.X == 0 || t.Scale.Y == 0 {
			log.Printf("[GEOM] zero scale in %q, using identity", s)
			t.Scale = models.Scale{X: 1, Y: 1}
		}
	}

	if m := translateRe.FindStringSubmatch(s); m != nil {
		args := parseCoords(m[1])
		if len(args) >= 2 {
			t.Translate = models.Translate{X: args[0], Y: args[1]}
		} else {
			log.Printf("[GEOM] malformed translate term in %q, using identity", s)
		}
	}

	if m := rotateRe.FindStringSubmatch(s); m != nil {
		args := parseCoords(m[1])
		switch {
		case len(args) >= 3:
			t.Rotate = models.Rotate{Angle: NormalizeAngle(args[0]), CX: args[1], CY: args[2]}
		case len(args) == 1:
			t.Rotate = models.Rotate{Angle: NormalizeAngle(args[0])}
		default:
			log.Printf("[GEOM] malformed rotate term in %q, using identity", s)
		}
	}

	return t
}

// SerializeTransform собирает строку атрибута в фиксированном порядке
// scale → translate → rotate, независимо от порядка во входной строке.
func SerializeTransform(t models.Transform) string {
	return fmt.Sprintf("scale(%s,%s) translate(%s,%s) rotate(%s,%s,%s)",
		fnum(t.Scale.X), fnum(t.Scale.Y),
		fnum(t.Translate.X), fnum(t.Translate.Y),
		fnum(t.Rotate.Angle), fnum(t.Rotate.CX), fnum(t.Rotate.CY))
}

// PlacementTransform — трансформация по умолчанию для только что
// брошенных на сцену объектов: чуть в стороне от начала координат,
// чтобы новый объект не рождался в (0,0).
func PlacementTransform() models.Transform {
	t := models.IdentityTransform()
	t.Translate = models.Translate{X: 40, Y: 40}
	return t
}
