package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubConnector struct {
	conn *stubConn
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) {
	return c.conn, nil
}

func (c stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("open is not supported")
}

type stubConn struct {
	queries    []string
	categories [][]driver.Value
	products   [][]driver.Value
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions are not supported")
}

func (c *stubConn) QueryContext(
	ctx context.Context, query string, args []driver.NamedValue,
) (driver.Rows, error) {
	c.queries = append(c.queries, query)
	if strings.Contains(query, "FROM categories") {
		return &stubRows{
			cols: []string{"id", "name", "label"},
			rows: c.categories,
		}, nil
	}
	return &stubRows{
		cols: []string{
			"id", "title", "description", "price", "image", "category",
		},
		rows: c.products,
	}, nil
}

type stubRows struct {
	cols []string
	rows [][]driver.Value
	next int
}

func (r *stubRows) Columns() []string { return r.cols }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

func newStubRepository(conn *stubConn) CatalogRepository {
	return CatalogRepository{sql.OpenDB(stubConnector{conn})}
}

func TestReadCatalog(t *testing.T) {
	t.Run("ProductsOrderedByPosition", func(t *testing.T) {
		conn := &stubConn{}
		r := newStubRepository(conn)

		_, err := r.ReadCatalog(context.Background())

		require.NoError(t, err)
		require.Len(t, conn.queries, 2)
		assert.Contains(t, conn.queries[1], "FROM products")
		assert.Contains(t, conn.queries[1], "ORDER BY position ASC")
	})

	t.Run("ProductsKeepFeedOrder", func(t *testing.T) {
		conn := &stubConn{
			categories: [][]driver.Value{
				{"doces", "doces", "Doces"},
				{"bebidas", "bebidas", "Bebidas"},
			},
			// positional feed order crosses lexicographic id order
			products: [][]driver.Value{
				{"2", "Beijinho de Coco", "", "4.00", "", "doces"},
				{"10", "Cappuccino Cremoso", "", "7.50", "", "bebidas"},
				{"3", "Trufa de Chocolate", "", "6.00", "", "doces"},
			},
		}
		r := newStubRepository(conn)

		catalog, err := r.ReadCatalog(context.Background())

		require.NoError(t, err)
		ps := catalog.Products()
		require.Len(t, ps, 3)
		assert.Equal(t, "2", ps[0].ID)
		assert.Equal(t, "10", ps[1].ID)
		assert.Equal(t, "3", ps[2].ID)
		assert.True(t, ps[1].Price.Equal(decimal.RequireFromString("7.50")))

		cs := catalog.Categories()
		require.Len(t, cs, 2)
		assert.Equal(t, "doces", cs[0].ID)
		assert.Equal(t, "bebidas", cs[1].ID)
	})

	t.Run("MalformedPrice", func(t *testing.T) {
		conn := &stubConn{
			products: [][]driver.Value{
				{"1", "Brigadeiro Gourmet", "", "not-a-price", "", "doces"},
			},
		}
		r := newStubRepository(conn)

		_, err := r.ReadCatalog(context.Background())

		require.Error(t, err)
	})
}
