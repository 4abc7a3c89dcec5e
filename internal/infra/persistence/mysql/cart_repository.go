package mysql

import (
	"context"
	"database/sql"
	"errors"

	domcart "example.com/shop-core/internal/domain/cart"
)

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) GetByUserID(ctx context.Context, userID int64) (*domcart.Cart, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, user_id, total_items, total_price, is_active
        FROM carts WHERE user_id = ?
    `, userID)

	var c domcart.Cart
	if err := row.Scan(&c.ID, &c.UserID, &c.TotalItems, &c.TotalPrice, &c.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcart.ErrCartNotFound
		}
		return nil, err
	}

	items, err := r.listItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return &c, nil
}

func (r *CartRepository) Create(ctx context.Context, c *domcart.Cart) (*domcart.Cart, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO carts (user_id, total_items, total_price, is_active)
        VALUES (?, ?, ?, ?)
    `, c.UserID, c.TotalItems, c.TotalPrice, c.IsActive)
	if err != nil {
		return nil, err
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

// Save writes the aggregate as a whole: the cart row plus a full replace of
// its item rows inside one transaction.
func (r *CartRepository) Save(ctx context.Context, c *domcart.Cart) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
        UPDATE carts SET total_items = ?, total_price = ?, is_active = ?
        WHERE id = ?
    `, c.TotalItems, c.TotalPrice, c.IsActive, c.ID)
	if err != nil {
		retErr = err
		return retErr
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		// RowsAffected is zero for a no-change update too, so verify
		// existence before deciding the cart is gone.
		var exists int64
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM carts WHERE id = ?`, c.ID).Scan(&exists); err != nil {
			retErr = err
			return retErr
		}
		if exists == 0 {
			retErr = domcart.ErrCartNotFound
			return retErr
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, c.ID); err != nil {
		retErr = err
		return retErr
	}
	for _, it := range c.Items {
		res, err := tx.ExecContext(ctx, `
            INSERT INTO cart_items (cart_id, product_id, quantity, unit_price, total_price)
            VALUES (?, ?, ?, ?, ?)
        `, c.ID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice)
		if err != nil {
			retErr = err
			return retErr
		}
		it.ID, _ = res.LastInsertId()
		it.CartID = c.ID
	}

	if err := tx.Commit(); err != nil {
		retErr = err
		return retErr
	}
	return nil
}

func (r *CartRepository) listItems(ctx context.Context, cartID int64) ([]*domcart.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, cart_id, product_id, quantity, unit_price, total_price
        FROM cart_items WHERE cart_id = ?
        ORDER BY id
    `, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*domcart.Item{}
	for rows.Next() {
		var it domcart.Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
