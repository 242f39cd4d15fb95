package persistclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// ============================================================
// Persistence client
// ============================================================

// Полезные нагрузки — всегда полная текущая геометрия, не дельта,
// поэтому переупорядочивание на стороне сервиса безвредно
// (last-write-wins).

type IconGeometry struct {
	SvgX      float64 `json:"svg_x"`
	SvgY      float64 `json:"svg_y"`
	SvgScale  float64 `json:"svg_scale"`
	SvgRotate float64 `json:"svg_rotate"`
}

type PathGeometry struct {
	SvgPath string `json:"svg_path"`
}

type ViewGeometry struct {
	SvgViewBoxStr string  `json:"svg_view_box_str"`
	SvgRotate     float64 `json:"svg_rotate"`
}

// Store — куда уходит геометрия. Реализуется HTTP-клиентом;
// в тестах подменяется двойником.
type Store interface {
	SaveIcon(id string, g IconGeometry) error
	SavePath(id string, g PathGeometry) error
	SaveView(id string, g ViewGeometry) error
}

// Client шлет геометрию сервису персистентности. Ошибки не ретраятся:
// все вызовы — идемпотентные полные перезаписи, источником истины
// остается геометрия в памяти.
type Client struct {
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

func (c *Client) SaveIcon(id string, g IconGeometry) error {
	return c.put(fmt.Sprintf("%s/icons/%s", c.baseURL, id), g)
}

func (c *Client) SavePath(id string, g PathGeometry) error {
	return c.put(fmt.Sprintf("%s/paths/%s", c.baseURL, id), g)
}

func (c *Client) SaveView(id string, g ViewGeometry) error {
	return c.put(fmt.Sprintf("%s/views/%s", c.baseURL, id), g)
}

func (c *Client) put(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("reach persistence service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("persistence service returned %d", resp.StatusCode)
	}
	return nil
}

// logErr — общий хвост fire-and-forget вызовов.
func logErr(what, id string, err error) {
	if err != nil {
		log.Printf("[PERSIST] save %s %s: %v", what, id, err)
	}
}
