package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/dulceria-api/internal/domain"
	"github.com/jhoicas/dulceria-api/internal/domain/entity"
	"github.com/jhoicas/dulceria-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, name_search, category, description, price, quantity, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un dulce nuevo.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, name_search, category, description, price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.NameSearch, product.Category,
		product.Description, product.Price, product.Quantity,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un dulce por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los campos de catálogo (no Quantity: el stock se mueve con
// UpdateQuantity/AddQuantity).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, name_search = $3, category = $4, description = $5, price = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.NameSearch, product.Category,
		product.Description, product.Price, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un dulce.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista paginada ordenada por nombre.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]entity.Product, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Search busca por nombre normalizado (LIKE sobre name_search) y/o categoría.
// nameNorm debe venir ya normalizado por el caso de uso (misma normalización
// con la que se indexa name_search).
func (r *ProductRepo) Search(ctx context.Context, nameNorm, category string, limit, offset int) ([]entity.Product, int, error) {
	where := `WHERE ($1 = '' OR name_search LIKE '%' || $1 || '%')
		AND ($2 = '' OR lower(category) = lower($2))`

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM products `+where, nameNorm, category).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count search: %w", err)
	}
	query := `SELECT ` + productColumns + ` FROM products ` + where + ` ORDER BY name LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, nameNorm, category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer rows.Close()
	products, err := collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// UpdateQuantity escritura condicional de stock (compare-and-swap): solo
// aplica si la cantidad almacenada sigue siendo expected. Dos compras
// concurrentes que leyeron el mismo valor no pueden ganar ambas; la perdedora
// recibe false y debe releer. El CHECK (quantity >= 0) de la tabla cubre
// cualquier escritura que se escape de esta disciplina.
func (r *ProductRepo) UpdateQuantity(ctx context.Context, id string, expected, newQty int) (bool, error) {
	query := `
		UPDATE products
		SET quantity = $3, updated_at = now()
		WHERE id = $1 AND quantity = $2`
	tag, err := r.q.Exec(ctx, query, id, expected, newQty)
	if err != nil {
		if isCheckViolation(err) {
			return false, domain.ErrConflict
		}
		return false, fmt.Errorf("conditional update quantity: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AddQuantity suma delta de forma atómica en la fila (reposición o
// compensación de una compra fallida) y devuelve la cantidad resultante.
func (r *ProductRepo) AddQuantity(ctx context.Context, id string, delta int) (int, bool, error) {
	query := `
		UPDATE products
		SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1
		RETURNING quantity`
	var newQty int
	err := r.q.QueryRow(ctx, query, id, delta).Scan(&newQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		if isCheckViolation(err) {
			return 0, true, domain.ErrConflict
		}
		return 0, false, fmt.Errorf("add quantity: %w", err)
	}
	return newQty, true, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.NameSearch, &p.Category, &p.Description,
		&p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]entity.Product, error) {
	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
