package http

import (
	"net/http"

	domorder "example.com/shop-core/internal/domain/order"
	domuser "example.com/shop-core/internal/domain/user"
	checkoutuc "example.com/shop-core/internal/usecase/checkout"
)

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	c, err := a.cartSvc.GetCart(r.Context(), claims.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.cartSvc.AddToCart(r.Context(), claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

type updateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.cartSvc.UpdateItemQuantity(r.Context(), claims.UserID, productID, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	productID, err := parseIDParam(r, "productID")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	c, err := a.cartSvc.RemoveItem(r.Context(), claims.UserID, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

func (a *API) handleClearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	c, err := a.cartSvc.Clear(r.Context(), claims.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(c))
}

func (a *API) handleValidateCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	result, err := a.cartSvc.Validate(r.Context(), claims.UserID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	warnings := make([]map[string]any, 0, len(result.Warnings))
	for _, warn := range result.Warnings {
		warnings = append(warnings, map[string]any{
			"product_id": warn.ProductID,
			"message":    warn.Message,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cart":     mapCart(result.Cart),
		"valid":    len(warnings) == 0,
		"warnings": warnings,
	})
}

type checkoutRequest struct {
	PaymentMethod  string  `json:"payment_method" validate:"required"`
	RecipientName  string  `json:"recipient_name" validate:"required"`
	RecipientPhone string  `json:"recipient_phone" validate:"required"`
	RoadAddress    string  `json:"road_address" validate:"required"`
	DetailAddress  *string `json:"detail_address"`
	ZipCode        string  `json:"zip_code" validate:"required"`
	Memo           *string `json:"memo"`
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	claims, ok := getAuthUser(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, domuser.ErrUnauthorized)
		return
	}

	var req checkoutRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	o, err := a.checkoutSvc.Checkout(r.Context(), claims.UserID, checkoutuc.Input{
		PaymentMethod:  domorder.PaymentMethod(req.PaymentMethod),
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		RoadAddress:    req.RoadAddress,
		DetailAddress:  req.DetailAddress,
		ZipCode:        req.ZipCode,
		Memo:           req.Memo,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrder(o))
}
