package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"plan-editor/internal/persist/models"
)

// ============================================================
// SQLite Repository
// ============================================================

type Repository struct {
	db *sql.DB
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Init запускает миграции.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	data, err := os.ReadFile(migrationsPath)
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, string(data)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// ============================================================
// Icons
// ============================================================

func (r *Repository) UpsertIcon(ctx context.Context, g models.IconGeometry) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO icon_geometry (id, svg_x, svg_y, svg_scale, svg_rotate, updated_at)
        VALUES (?, ?, ?, ?, ?, datetime('now'))
        ON CONFLICT(id) DO UPDATE SET
            svg_x = excluded.svg_x,
            svg_y = excluded.svg_y,
            svg_scale = excluded.svg_scale,
            svg_rotate = excluded.svg_rotate,
            updated_at = excluded.updated_at
    `, g.ID, g.SvgX, g.SvgY, g.SvgScale, g.SvgRotate)
	if err != nil {
		return fmt.Errorf("upsert icon %s: %w", g.ID, err)
	}
	return nil
}

func (r *Repository) GetIcon(ctx context.Context, id string) (*models.IconGeometry, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, svg_x, svg_y, svg_scale, svg_rotate, updated_at
        FROM icon_geometry
        WHERE id = ?
    `, id)

	var g models.IconGeometry
	if err := row.Scan(&g.ID, &g.SvgX, &g.SvgY, &g.SvgScale, &g.SvgRotate, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &g, nil
}

// ============================================================
// Paths
// ============================================================

func (r *Repository) UpsertPath(ctx context.Context, g models.PathGeometry) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO path_geometry (id, svg_path, updated_at)
        VALUES (?, ?, datetime('now'))
        ON CONFLICT(id) DO UPDATE SET
            svg_path = excluded.svg_path,
            updated_at = excluded.updated_at
    `, g.ID, g.SvgPath)
	if err != nil {
		return fmt.Errorf("upsert path %s: %w", g.ID, err)
	}
	return nil
}

func (r *Repository) GetPath(ctx context.Context, id string) (*models.PathGeometry, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, svg_path, updated_at
        FROM path_geometry
        WHERE id = ?
    `, id)

	var g models.PathGeometry
	if err := row.Scan(&g.ID, &g.SvgPath, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &g, nil
}

// ============================================================
// Views
// ============================================================

func (r *Repository) UpsertView(ctx context.Context, g models.ViewGeometry) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO view_geometry (id, svg_view_box_str, svg_rotate, updated_at)
        VALUES (?, ?, ?, datetime('now'))
        ON CONFLICT(id) DO UPDATE SET
            svg_view_box_str = excluded.svg_view_box_str,
            svg_rotate = excluded.svg_rotate,
            updated_at = excluded.updated_at
    `, g.ID, g.SvgViewBoxStr, g.SvgRotate)
	if err != nil {
		return fmt.Errorf("upsert view %s: %w", g.ID, err)
	}
	return nil
}

func (r *Repository) GetView(ctx context.Context, id string) (*models.ViewGeometry, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, svg_view_box_str, svg_rotate, updated_at
        FROM view_geometry
        WHERE id = ?
    `, id)

	var g models.ViewGeometry
	if err := row.Scan(&g.ID, &g.SvgViewBoxStr, &g.SvgRotate, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("not found")
		}
		return nil, err
	}
	return &g, nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
