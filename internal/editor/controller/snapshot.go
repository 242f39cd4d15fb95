package controller

import (
	"fmt"
	"sort"

	"plan-editor/internal/editor/scene"
)

// ============================================================
// Session state snapshot
// ============================================================

// Snapshot — сериализуемое состояние сессии для клиента: производные
// атрибуты корня и элементов плюс текущее выделение. В режиме правки
// пути добавляется прокси-граф.
type Snapshot struct {
	ViewID    string            `json:"view_id"`
	ViewBox   string            `json:"view_box"`
	Rotation  float64           `json:"rotation"`
	RootAttrs map[string]string `json:"root_attrs"`

	Elements []ElementSnapshot `json:"elements"`

	Selection SelectionSnapshot `json:"selection"`
	Proxy     *ProxySnapshot    `json:"proxy,omitempty"`
}

type ElementSnapshot struct {
	ID    string            `json:"id"`
	Kind  string            `json:"kind"` // icon|path
	Attrs map[string]string `json:"attrs"`
}

type SelectionSnapshot struct {
	Owner    string `json:"owner"`
	TargetID string `json:"target_id"`
}

// ProxySnapshot — видимые прокси-точки и прокси-линии правки пути.
type ProxySnapshot struct {
	PathID   string      `json:"path_id"`
	PathType string      `json:"path_type"`
	Points   []ProxyNode `json:"points"`
	Lines    []ProxyEdge `json:"lines"`
	Selected string      `json:"selected,omitempty"` // id прокси-элемента
}

type ProxyNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type ProxyEdge struct {
	ID     string `json:"id"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Snapshot собирает текущее состояние под мьютексом сессии.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ViewID:    s.doc.ViewID,
		ViewBox:   s.doc.Attrs["viewBox"],
		Rotation:  s.doc.Rotation,
		RootAttrs: copyAttrs(s.doc.Attrs),
		Selection: SelectionSnapshot{
			Owner:    s.sel.Owner.String(),
			TargetID: s.sel.TargetID,
		},
	}

	for id, el := range s.doc.Elements() {
		snap.Elements = append(snap.Elements, ElementSnapshot{
			ID:    id,
			Kind:  kindName(el.Kind),
			Attrs: copyAttrs(el.Attrs),
		})
	}
	// Стабильный порядок для клиента и тестов.
	sort.Slice(snap.Elements, func(i, j int) bool {
		return snap.Elements[i].ID < snap.Elements[j].ID
	})

	if s.path.Active() {
		snap.Proxy = s.proxySnapshot()
	}
	return snap
}

func (s *Session) proxySnapshot() *ProxySnapshot {
	g := s.path.Graph()
	ps := &ProxySnapshot{
		PathID:   s.path.PathID(),
		PathType: g.Type.String(),
	}

	for _, seg := range g.Segments() {
		for _, pid := range seg.Points {
			p, ok := g.Point(pid)
			if !ok {
				continue
			}
			ps.Points = append(ps.Points, ProxyNode{
				ID: fmt.Sprintf("%s%d", proxyPointPrefix, pid),
				X:  p.X,
				Y:  p.Y,
			})
		}
		for _, lid := range seg.Lines {
			l, ok := g.Line(lid)
			if !ok {
				continue
			}
			ps.Lines = append(ps.Lines, ProxyEdge{
				ID:     fmt.Sprintf("%s%d", proxyLinePrefix, lid),
				Before: fmt.Sprintf("%s%d", proxyPointPrefix, l.Before),
				After:  fmt.Sprintf("%s%d", proxyPointPrefix, l.After),
			})
		}
	}

	switch kind, id := s.path.Selection(); kind {
	case ProxyPoint:
		ps.Selected = fmt.Sprintf("%s%d", proxyPointPrefix, id)
	case ProxyLine:
		ps.Selected = fmt.Sprintf("%s%d", proxyLinePrefix, id)
	}
	return ps
}

func kindName(k scene.ElementKind) string {
	if k == scene.KindPath {
		return "path"
	}
	return "icon"
}

func copyAttrs(attrs map[string]string) map[string]string {
	out := make(map[string]string, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
