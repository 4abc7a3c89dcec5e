package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	domorder "example.com/shop-core/internal/domain/order"
	domuser "example.com/shop-core/internal/domain/user"
)

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	orders, err := a.orderSvc.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (a *API) handleGetMyOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.GetForUser(r.Context(), claims.UserID, id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

func (a *API) handleCancelMyOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req cancelOrderRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.CancelForUser(r.Context(), claims.UserID, id, req.Reason)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orderSvc.List(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.GetByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type changeStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

func (a *API) handleChangeOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req changeStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.ChangeStatus(r.Context(), id, domorder.Status(req.Status), req.Reason)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req cancelOrderRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.Cancel(r.Context(), id, req.Reason)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type markDeliveredRequest struct {
	TrackingNumber *string `json:"tracking_number"`
}

func (a *API) handleMarkOrderDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req markDeliveredRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.MarkAsDelivered(r.Context(), id, req.TrackingNumber)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type deliveryInfoRequest struct {
	RecipientName  *string `json:"recipient_name"`
	RecipientPhone *string `json:"recipient_phone"`
	RoadAddress    *string `json:"road_address"`
	ZipCode        *string `json:"zip_code"`
	DetailAddress  *string `json:"detail_address"`
	Memo           *string `json:"memo"`
}

func (a *API) handleUpdateDeliveryInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req deliveryInfoRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.UpdateDeliveryInfo(r.Context(), id, domorder.DeliveryUpdate{
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		RoadAddress:    req.RoadAddress,
		ZipCode:        req.ZipCode,
		DetailAddress:  req.DetailAddress,
		Memo:           req.Memo,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (a *API) handleApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req amountRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.ApplyDiscount(r.Context(), id, req.Amount)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (a *API) handleSetDeliveryFee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req amountRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.orderSvc.SetDeliveryFee(r.Context(), id, req.Amount)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

type itemStatusRequest struct {
	Action string `json:"action" validate:"required,oneof=PREPARE SHIP DELIVER CANCEL REFUND EXCHANGE"`
}

func (a *API) handleUpdateOrderItemStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	itemID, err := parseIDParam(r, "itemID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req itemStatusRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var o *domorder.Order
	switch req.Action {
	case "PREPARE":
		o, err = a.orderSvc.StartPreparingItem(r.Context(), orderID, itemID)
	case "SHIP":
		o, err = a.orderSvc.ShipItem(r.Context(), orderID, itemID)
	case "DELIVER":
		o, err = a.orderSvc.DeliverItem(r.Context(), orderID, itemID)
	case "CANCEL":
		o, err = a.orderSvc.CancelItem(r.Context(), orderID, itemID)
	case "REFUND":
		o, err = a.orderSvc.RefundItem(r.Context(), orderID, itemID)
	case "EXCHANGE":
		o, err = a.orderSvc.ExchangeItem(r.Context(), orderID, itemID)
	}
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func mapOrders(orders []*domorder.Order) []map[string]any {
	out := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		out = append(out, mapOrder(o))
	}
	return out
}
