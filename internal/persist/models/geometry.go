package models

// ============================================================
// Geometry Models
// ============================================================

// Записи геометрии — последняя сохраненная версия, last-write-wins.

type IconGeometry struct {
	ID        string  `json:"id"`
	SvgX      float64 `json:"svg_x"`
	SvgY      float64 `json:"svg_y"`
	SvgScale  float64 `json:"svg_scale"`
	SvgRotate float64 `json:"svg_rotate"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

type PathGeometry struct {
	ID        string `json:"id"`
	SvgPath   string `json:"svg_path"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type ViewGeometry struct {
	ID            string  `json:"id"`
	SvgViewBoxStr string  `json:"svg_view_box_str"`
	SvgRotate     float64 `json:"svg_rotate"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
}
