package pathgraph

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================
// Expand / collapse
// ============================================================

// Контракт атрибута d — только команды M/L/Z (кривых нет);
// строчные варианты принимаются как относительные.
var commandRe = regexp.MustCompile(`([MmLlZz])([^MmLlZz]*)`)

// Expand разворачивает сериализованный путь в прокси-граф.
// M начинает новый сегмент, L добавляет точку, Z помечает сегмент
// замкнутым. Все сегменты пути обязаны быть одного типа.
func Expand(d string) (*Graph, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	type rawSegment struct {
		coords [][2]float64
		closed bool
	}

	var segs []*rawSegment
	var cur *rawSegment
	var curX, curY float64

	matches := commandRe.FindAllStringSubmatch(d, -1)
	for _, match := range matches {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "m":
			if len(coords) < 2 {
				return nil, fmt.Errorf("move-to without coordinates in %q", d)
			}
			if cmd == "m" {
				curX += coords[0]
				curY += coords[1]
			} else {
				curX, curY = coords[0], coords[1]
			}
			cur = &rawSegment{coords: [][2]float64{{curX, curY}}}
			segs = append(segs, cur)
			// Пары после первой — неявные line-to.
			for i := 2; i+1 < len(coords); i += 2 {
				if cmd == "m" {
					curX += coords[i]
					curY += coords[i+1]
				} else {
					curX, curY = coords[i], coords[i+1]
				}
				cur.coords = append(cur.coords, [2]float64{curX, curY})
			}

		case "L", "l":
			if cur == nil {
				return nil, fmt.Errorf("line-to before move-to in %q", d)
			}
			for i := 0; i+1 < len(coords); i += 2 {
				if cmd == "l" {
					curX += coords[i]
					curY += coords[i+1]
				} else {
					curX, curY = coords[i], coords[i+1]
				}
				cur.coords = append(cur.coords, [2]float64{curX, curY})
			}

		case "Z", "z":
			if cur == nil {
				return nil, fmt.Errorf("close before move-to in %q", d)
			}
			cur.closed = true
		}
	}

	if len(segs) == 0 {
		return nil, fmt.Errorf("no segments in path %q", d)
	}

	typ := Open
	if segs[0].closed {
		typ = Closed
	}

	g := newGraph(typ)
	for _, rs := range segs {
		segType := Open
		if rs.closed {
			segType = Closed
		}
		if segType != typ {
			return nil, fmt.Errorf("mixed open/closed segments in path %q", d)
		}
		if len(rs.coords) < typ.MinPoints() {
			log.Printf("[PATH] dropping degenerate %s segment with %d points", typ, len(rs.coords))
			continue
		}

		ids := make([]int, 0, len(rs.coords))
		for _, c := range rs.coords {
			ids = append(ids, g.newPoint(c[0], c[1]).ID)
		}
		g.appendSegment(ids)
	}

	if len(g.segments) == 0 {
		return nil, fmt.Errorf("no valid segments in path %q", d)
	}
	return g, nil
}

// Collapse сворачивает граф обратно в строку пути: M для первой точки
// каждого сегмента, L для остальных, Z для замкнутых.
func (g *Graph) Collapse() string {
	var b strings.Builder
	for i, seg := range g.segments {
		if i > 0 {
			b.WriteByte(' ')
		}
		for j, pid := range seg.Points {
			p := g.points[pid]
			if j == 0 {
				b.WriteString("M ")
			} else {
				b.WriteString(" L ")
			}
			b.WriteString(coord(p.X))
			b.WriteByte(',')
			b.WriteString(coord(p.Y))
		}
		if g.Type == Closed {
			b.WriteString(" Z")
		}
	}
	return b.String()
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

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
