package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	domcart "example.com/shop-core/internal/domain/cart"
	domcategory "example.com/shop-core/internal/domain/category"
	domorder "example.com/shop-core/internal/domain/order"
	domproduct "example.com/shop-core/internal/domain/product"
	domuser "example.com/shop-core/internal/domain/user"
	domrole "example.com/shop-core/internal/domain/userrole"
	authuc "example.com/shop-core/internal/usecase/auth"
	cartuc "example.com/shop-core/internal/usecase/cart"
	categoryuc "example.com/shop-core/internal/usecase/category"
	checkoutuc "example.com/shop-core/internal/usecase/checkout"
	orderuc "example.com/shop-core/internal/usecase/order"
	productuc "example.com/shop-core/internal/usecase/product"
	useruc "example.com/shop-core/internal/usecase/user"
	userroleuc "example.com/shop-core/internal/usecase/userrole"
)

type API struct {
	authSvc     *authuc.Service
	userSvc     *useruc.Service
	roleSvc     *userroleuc.Service
	categorySvc *categoryuc.Service
	productSvc  *productuc.Service
	cartSvc     *cartuc.Service
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	validator   *validator.Validate
	tokenSvc    authuc.TokenService
	logger      zerolog.Logger
	healthCheck func(context.Context) error
}

type Dependencies struct {
	AuthService     *authuc.Service
	UserService     *useruc.Service
	UserRoleService *userroleuc.Service
	CategoryService *categoryuc.Service
	ProductService  *productuc.Service
	CartService     *cartuc.Service
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	TokenService    authuc.TokenService
	Logger          zerolog.Logger
	HealthCheck     func(context.Context) error
}

func NewAPI(deps Dependencies) *API {
	return &API{
		authSvc:     deps.AuthService,
		userSvc:     deps.UserService,
		roleSvc:     deps.UserRoleService,
		categorySvc: deps.CategoryService,
		productSvc:  deps.ProductService,
		cartSvc:     deps.CartService,
		checkoutSvc: deps.CheckoutService,
		orderSvc:    deps.OrderService,
		tokenSvc:    deps.TokenService,
		validator:   validator.New(),
		logger:      deps.Logger,
		healthCheck: deps.HealthCheck,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if a.healthCheck != nil {
			if err := a.healthCheck(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", a.handleLogin)
		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)

			pr.Route("/me/cart", func(cr chi.Router) {
				cr.Get("/", a.handleGetCart)
				cr.Delete("/", a.handleClearCart)
				cr.Post("/items", a.handleAddCartItem)
				cr.Put("/items/{productID}", a.handleUpdateCartItem)
				cr.Delete("/items/{productID}", a.handleRemoveCartItem)
				cr.Get("/validation", a.handleValidateCart)
			})

			pr.Post("/me/checkout", a.handleCheckout)
			pr.Get("/me/orders", a.handleListMyOrders)
			pr.Get("/me/orders/{id}", a.handleGetMyOrder)
			pr.Post("/me/orders/{id}/cancel", a.handleCancelMyOrder)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin, domuser.RoleCodeSuperAdmin))

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/user-roles", func(rr chi.Router) {
					rr.Get("/", a.handleListUserRoles)
					rr.Post("/", a.handleCreateUserRole)
					rr.Get("/{id}", a.handleGetUserRole)
					rr.Put("/{id}", a.handleUpdateUserRole)
					rr.Delete("/{id}", a.handleDeleteUserRole)
				})

				admin.Route("/users", func(rr chi.Router) {
					rr.Get("/", a.handleListUsers)
					rr.Post("/", a.handleCreateUser)
					rr.Get("/{id}", a.handleGetUser)
					rr.Put("/{id}", a.handleUpdateUser)
					rr.Delete("/{id}", a.handleDeleteUser)
				})

				admin.Route("/categories", func(rr chi.Router) {
					rr.Get("/", a.handleListCategories)
					rr.Post("/", a.handleCreateCategory)
					rr.Get("/{id}", a.handleGetCategory)
					rr.Put("/{id}", a.handleUpdateCategory)
					rr.Delete("/{id}", a.handleDeleteCategory)
				})

				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProductsAdmin)
					rr.Post("/", a.handleCreateProduct)
					rr.Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.Patch("/{id}/status", a.handleChangeOrderStatus)
					rr.Post("/{id}/cancel", a.handleCancelOrder)
					rr.Post("/{id}/delivered", a.handleMarkOrderDelivered)
					rr.Put("/{id}/delivery-info", a.handleUpdateDeliveryInfo)
					rr.Patch("/{id}/discount", a.handleApplyDiscount)
					rr.Patch("/{id}/delivery-fee", a.handleSetDeliveryFee)
					rr.Post("/{id}/items/{itemID}/status", a.handleUpdateOrderItemStatus)
				})
			})
		})
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

// handleDomainError maps sentinel errors to status codes. The error kind is
// decided in the domain; this switch only translates it.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domrole.ErrRoleNotFound),
		errors.Is(err, domcategory.ErrCategoryNotFound),
		errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domcart.ErrCartNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domorder.ErrOrderItemNotFound):
		respondError(w, http.StatusNotFound, err)

	case errors.Is(err, domuser.ErrUnauthorized),
		errors.Is(err, domuser.ErrInvalidCredential):
		respondError(w, http.StatusUnauthorized, err)

	case errors.Is(err, domorder.ErrNotOwner),
		errors.Is(err, domuser.ErrCannotAssignRole):
		respondError(w, http.StatusForbidden, err)

	case errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrInvalidAmount),
		errors.Is(err, domuser.ErrInvalidRoleCode),
		errors.Is(err, domcategory.ErrCategoryInvalidName):
		respondError(w, http.StatusBadRequest, err)

	case errors.Is(err, domcategory.ErrCategorySlugExists),
		errors.Is(err, domrole.ErrRoleCodeExisted),
		errors.Is(err, domuser.ErrEmailAlreadyUsed),
		errors.Is(err, domproduct.ErrProductUnavailable),
		errors.Is(err, domproduct.ErrUnknownStock),
		errors.Is(err, domproduct.ErrInsufficientStock),
		errors.Is(err, domorder.ErrInvalidTransition),
		errors.Is(err, domorder.ErrCannotCancel),
		errors.Is(err, domorder.ErrCheckoutValidation):
		respondError(w, http.StatusConflict, err)

	case errors.Is(err, domorder.ErrEmptyOrderItems),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domrole.ErrRoleImmutable),
		errors.Is(err, domrole.ErrRoleInUse):
		respondError(w, http.StatusUnprocessableEntity, err)

	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}

func mapUser(u *domuser.User) map[string]any {
	return map[string]any{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role_code": u.RoleCode,
	}
}

func mapRole(role *domrole.UserRole) map[string]any {
	return map[string]any{
		"id":          role.ID,
		"code":        role.Code,
		"name":        role.Name,
		"description": role.Description,
		"is_system":   role.IsSystem,
	}
}

func mapCategory(c *domcategory.Category) map[string]any {
	return map[string]any{
		"id":          c.ID,
		"name":        c.Name,
		"slug":        c.Slug,
		"description": c.Description,
		"is_active":   c.IsActive,
	}
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"stock":       p.Stock,
		"category_id": p.CategoryID,
		"is_active":   p.IsActive,
	}
}

func mapCart(c *domcart.Cart) map[string]any {
	items := make([]map[string]any, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, map[string]any{
			"product_id":  it.ProductID,
			"quantity":    it.Quantity,
			"unit_price":  it.UnitPrice,
			"total_price": it.TotalPrice,
		})
	}
	return map[string]any{
		"id":          c.ID,
		"user_id":     c.UserID,
		"total_items": c.TotalItems,
		"total_price": c.TotalPrice,
		"is_active":   c.IsActive,
		"items":       items,
	}
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"id":           it.ID,
			"product_id":   it.ProductID,
			"product_name": it.ProductName,
			"quantity":     it.Quantity,
			"unit_price":   it.UnitPrice,
			"total_price":  it.TotalPrice,
			"status":       it.Status,
		})
	}

	history := make([]map[string]any, 0, len(o.History))
	for _, h := range o.History {
		history = append(history, map[string]any{
			"from":       h.From,
			"to":         h.To,
			"reason":     h.Reason,
			"memo":       h.Memo,
			"changed_at": h.ChangedAt,
		})
	}

	return map[string]any{
		"id":              o.ID,
		"number":          o.Number,
		"user_id":         o.UserID,
		"status":          o.Status,
		"total_amount":    o.TotalAmount,
		"discount_amount": o.DiscountAmount,
		"delivery_fee":    o.DeliveryFee,
		"final_amount":    o.FinalAmount,
		"delivery": map[string]any{
			"recipient_name":  o.Delivery.RecipientName,
			"recipient_phone": o.Delivery.RecipientPhone,
			"road_address":    o.Delivery.RoadAddress,
			"detail_address":  o.Delivery.DetailAddress,
			"zip_code":        o.Delivery.ZipCode,
			"memo":            o.Delivery.Memo,
			"tracking_number": o.Delivery.TrackingNumber,
			"delivered_at":    o.Delivery.DeliveredAt,
		},
		"payment": map[string]any{
			"method":         o.Payment.Method,
			"status":         o.Payment.Status,
			"payment_id":     o.Payment.PaymentID,
			"transaction_id": o.Payment.TransactionID,
			"paid_at":        o.Payment.PaidAt,
			"cancelled_at":   o.Payment.CancelledAt,
			"cancel_reason":  o.Payment.CancelReason,
		},
		"history":    history,
		"items":      items,
		"created_at": o.CreatedAt,
	}
}
