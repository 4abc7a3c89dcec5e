package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domorder "example.com/shop-core/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order aggregate and commits the stock decrement in the
// same transaction. Product rows are locked with FOR UPDATE for the duration
// of the re-check, so two concurrent checkouts cannot both pass a stock
// check that only one can satisfy.
func (r *OrderRepository) Create(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, it := range o.Items {
		var stock sql.NullInt64
		row := tx.QueryRowContext(ctx, `
            SELECT stock FROM products WHERE id = ? FOR UPDATE
        `, it.ProductID)
		if err := row.Scan(&stock); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				retErr = domorder.ErrCheckoutValidation
				return nil, retErr
			}
			retErr = err
			return nil, retErr
		}
		if !stock.Valid || stock.Int64 < it.Quantity {
			retErr = domorder.ErrCheckoutValidation
			return nil, retErr
		}
		if _, err := tx.ExecContext(ctx, `
            UPDATE products SET stock = stock - ? WHERE id = ?
        `, it.Quantity, it.ProductID); err != nil {
			retErr = err
			return nil, retErr
		}
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (
            number, user_id, status,
            total_amount, discount_amount, delivery_fee, final_amount,
            recipient_name, recipient_phone, road_address, detail_address, zip_code, delivery_memo,
            tracking_number, delivered_at,
            payment_method, payment_status, payment_id, transaction_id, paid_at, payment_cancelled_at, payment_cancel_reason,
            created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, o.Number, o.UserID, o.Status,
		o.TotalAmount, o.DiscountAmount, o.DeliveryFee, o.FinalAmount,
		o.Delivery.RecipientName, o.Delivery.RecipientPhone, o.Delivery.RoadAddress,
		o.Delivery.DetailAddress, o.Delivery.ZipCode, o.Delivery.Memo,
		o.Delivery.TrackingNumber, o.Delivery.DeliveredAt,
		o.Payment.Method, o.Payment.Status, o.Payment.PaymentID, o.Payment.TransactionID,
		o.Payment.PaidAt, o.Payment.CancelledAt, o.Payment.CancelReason,
		o.CreatedAt)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	o.ID, _ = res.LastInsertId()

	for _, it := range o.Items {
		res, err := tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, total_price, status)
            VALUES (?, ?, ?, ?, ?, ?, ?)
        `, o.ID, it.ProductID, it.ProductName, it.Quantity, it.UnitPrice, it.TotalPrice, it.Status)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		it.ID, _ = res.LastInsertId()
		it.OrderID = o.ID
	}

	if err := tx.Commit(); err != nil {
		retErr = err
		return nil, retErr
	}
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	return r.getOne(ctx, `WHERE id = ?`, id)
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	return r.list(ctx, ``)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]*domorder.Order, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

// Save persists the mutable parts of the aggregate: order-level fields, item
// statuses, and any history entries appended since load. History rows are
// append-only; existing ones only get their notes updated.
func (r *OrderRepository) Save(ctx context.Context, o *domorder.Order) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
        UPDATE orders SET
            status = ?,
            total_amount = ?, discount_amount = ?, delivery_fee = ?, final_amount = ?,
            recipient_name = ?, recipient_phone = ?, road_address = ?, detail_address = ?, zip_code = ?, delivery_memo = ?,
            tracking_number = ?, delivered_at = ?,
            payment_status = ?, payment_id = ?, transaction_id = ?, paid_at = ?, payment_cancelled_at = ?, payment_cancel_reason = ?
        WHERE id = ?
    `, o.Status,
		o.TotalAmount, o.DiscountAmount, o.DeliveryFee, o.FinalAmount,
		o.Delivery.RecipientName, o.Delivery.RecipientPhone, o.Delivery.RoadAddress,
		o.Delivery.DetailAddress, o.Delivery.ZipCode, o.Delivery.Memo,
		o.Delivery.TrackingNumber, o.Delivery.DeliveredAt,
		o.Payment.Status, o.Payment.PaymentID, o.Payment.TransactionID,
		o.Payment.PaidAt, o.Payment.CancelledAt, o.Payment.CancelReason,
		o.ID)
	if err != nil {
		retErr = err
		return retErr
	}

	for _, it := range o.Items {
		if _, err := tx.ExecContext(ctx, `
            UPDATE order_items SET status = ? WHERE id = ?
        `, it.Status, it.ID); err != nil {
			retErr = err
			return retErr
		}
	}

	for _, h := range o.History {
		if h.ID == 0 {
			res, err := tx.ExecContext(ctx, `
                INSERT INTO order_status_history (order_id, from_status, to_status, reason, memo, changed_at)
                VALUES (?, ?, ?, ?, ?, ?)
            `, o.ID, h.From, h.To, h.Reason, h.Memo, h.ChangedAt)
			if err != nil {
				retErr = err
				return retErr
			}
			h.ID, _ = res.LastInsertId()
			h.OrderID = o.ID
		} else {
			if _, err := tx.ExecContext(ctx, `
                UPDATE order_status_history SET reason = ?, memo = ? WHERE id = ?
            `, h.Reason, h.Memo, h.ID); err != nil {
				retErr = err
				return retErr
			}
		}
	}

	if err := tx.Commit(); err != nil {
		retErr = err
		return retErr
	}
	return nil
}

const orderColumns = `
    id, number, user_id, status,
    total_amount, discount_amount, delivery_fee, final_amount,
    recipient_name, recipient_phone, road_address, detail_address, zip_code, delivery_memo,
    tracking_number, delivered_at,
    payment_method, payment_status, payment_id, transaction_id, paid_at, payment_cancelled_at, payment_cancel_reason,
    created_at
`

func (r *OrderRepository) getOne(ctx context.Context, where string, args ...any) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders `+where, args...)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) list(ctx context.Context, where string, args ...any) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders `+where+` ORDER BY id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range orders {
		if err := r.loadChildren(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var o domorder.Order
	var detailAddress, deliveryMemo, trackingNumber sql.NullString
	var deliveredAt sql.NullTime
	var paymentID, transactionID, cancelReason sql.NullString
	var paidAt, cancelledAt sql.NullTime

	if err := row.Scan(
		&o.ID, &o.Number, &o.UserID, &o.Status,
		&o.TotalAmount, &o.DiscountAmount, &o.DeliveryFee, &o.FinalAmount,
		&o.Delivery.RecipientName, &o.Delivery.RecipientPhone, &o.Delivery.RoadAddress,
		&detailAddress, &o.Delivery.ZipCode, &deliveryMemo,
		&trackingNumber, &deliveredAt,
		&o.Payment.Method, &o.Payment.Status, &paymentID, &transactionID,
		&paidAt, &cancelledAt, &cancelReason,
		&o.CreatedAt,
	); err != nil {
		return nil, err
	}

	o.Delivery.DetailAddress = nullString(detailAddress)
	o.Delivery.Memo = nullString(deliveryMemo)
	o.Delivery.TrackingNumber = nullString(trackingNumber)
	o.Delivery.DeliveredAt = nullTime(deliveredAt)
	o.Payment.PaymentID = nullString(paymentID)
	o.Payment.TransactionID = nullString(transactionID)
	o.Payment.CancelReason = nullString(cancelReason)
	o.Payment.PaidAt = nullTime(paidAt)
	o.Payment.CancelledAt = nullTime(cancelledAt)
	return &o, nil
}

func (r *OrderRepository) loadChildren(ctx context.Context, o *domorder.Order) error {
	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return err
	}
	o.Items = items

	history, err := r.listHistory(ctx, o.ID)
	if err != nil {
		return err
	}
	o.History = history
	return nil
}

func (r *OrderRepository) listItems(ctx context.Context, orderID int64) ([]*domorder.Item, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price, status
        FROM order_items WHERE order_id = ?
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domorder.Item
	for rows.Next() {
		var it domorder.Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.Status); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *OrderRepository) listHistory(ctx context.Context, orderID int64) ([]*domorder.StatusChange, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, from_status, to_status, reason, memo, changed_at
        FROM order_status_history WHERE order_id = ?
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []*domorder.StatusChange
	for rows.Next() {
		var h domorder.StatusChange
		if err := rows.Scan(&h.ID, &h.OrderID, &h.From, &h.To, &h.Reason, &h.Memo, &h.ChangedAt); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
