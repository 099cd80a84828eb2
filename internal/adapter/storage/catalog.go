package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ifmais/storefront/internal/core/domain"
	"github.com/ifmais/storefront/internal/core/port"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
)

var _ port.CatalogReader = (*CatalogRepository)(nil)

type sqldb interface {
	PingContext(ctx context.Context) error
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	Close() error
}

// A CatalogRepository reads the immutable product and category
// reference data supplied by the catalog database.
type CatalogRepository struct {
	sqldb sqldb
}

func NewCatalogRepository(
	ctx context.Context, dsn string,
) (CatalogRepository, error) {
	connConfig, _ := pgx.ParseConfig(dsn)
	connStr := stdlib.RegisterConnConfig(connConfig)
	db, _ := sql.Open("pgx", connStr)

	r := CatalogRepository{db}
	if err := r.ping(ctx); err != nil {
		return CatalogRepository{}, err
	}
	return r, nil
}

func (r CatalogRepository) ping(ctx context.Context) error {
	const op = "CatalogRepository.ping"
	if err := r.sqldb.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: database unavailable: %w", op, err)
	}
	slog.Info("database is available", "op", op)
	return nil
}

func (r CatalogRepository) ReadCatalog(
	ctx context.Context,
) (domain.Catalog, error) {
	const op = "CatalogRepository.ReadCatalog"

	if err := ctx.Err(); err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	cs, err := r.readCategories(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := r.readProducts(ctx)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.NewCatalog(ps, cs), nil
}

func (r CatalogRepository) readCategories(
	ctx context.Context,
) ([]domain.Category, error) {
	const op = "CatalogRepository.readCategories"

	query := `
		SELECT id, name, label
		FROM categories
		ORDER BY position ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var cs []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Label); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		cs = append(cs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (r CatalogRepository) readProducts(
	ctx context.Context,
) ([]domain.Product, error) {
	const op = "CatalogRepository.readProducts"

	query := `
		SELECT id, title, description, price::text, image, category
		FROM products
		ORDER BY position ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		var p domain.Product
		var priceS string
		err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &priceS, &p.Image, &p.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.Price, err = decimal.NewFromString(priceS)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (r CatalogRepository) Close() {
	const op = "CatalogRepository.Close"
	log := slog.With("op", op)

	log.Info("closing sql database...")
	if err := r.sqldb.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("sql database is closed")
}
