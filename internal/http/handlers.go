package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"lavka/internal/domain"
	"lavka/internal/repository"
	"lavka/internal/service"
)

type Server struct {
	engine   *gin.Engine
	products *service.ProductService
	users    *service.UserService
	carts    *service.CartService
	orders   *service.OrderService
}

func NewServer(products *service.ProductService, users *service.UserService, carts *service.CartService, orders *service.OrderService) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, products: products, users: users, carts: carts, orders: orders}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET(":id", s.getProduct)
		products.PUT(":id", s.updateProduct)
		products.DELETE(":id", s.deleteProduct)
		products.GET("", s.listProducts)

		users := v1.Group("/users")
		users.POST("", s.registerUser)
		users.GET(":id", s.getUser)

		carts := v1.Group("/carts")
		carts.POST("", s.createCart)
		carts.GET(":userID", s.getCart)
		carts.POST(":userID/items", s.addCartItem)
		carts.GET(":userID/quote", s.quoteCart)
		carts.POST(":userID/validate", s.validateCart)

		orders := v1.Group("/orders")
		orders.POST("", s.checkout)
		orders.GET(":id", s.getOrder)
		orders.GET(":id/summary", s.getOrderSummary)
		orders.GET(":id/deliveries", s.getOrderDeliveries)
		orders.POST(":id/status", s.updateOrderStatus)
	}
}

// Product handlers
type createProductReq struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int64   `json:"stock"`
	DownloadURL string  `json:"download_url"`
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param input body createProductReq true "Product"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req createProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.products.Create(c, domain.Product{
		ID:          req.ID,
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Category:    domain.ProductCategory(req.Category),
		Stock:       req.Stock,
		DownloadURL: req.DownloadURL,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	p, err := s.products.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

type updateProductReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int64   `json:"stock"`
	DownloadURL string  `json:"download_url"`
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param input body updateProductReq true "Update"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req updateProductReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	p, err := s.products.Update(c, domain.Product{
		ID:          id,
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Category:    domain.ProductCategory(req.Category),
		Stock:       req.Stock,
		DownloadURL: req.DownloadURL,
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Param id path int true "Product ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.products.Delete(c, id); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name contains"
// @Param category query string false "Category"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Success 200 {array} domain.Product
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	if q := c.Query("q"); q != "" {
		f.NameSubstring = q
	}
	if v := c.Query("category"); v != "" {
		f.Category = domain.ProductCategory(v)
	}
	if v := c.Query("min_price"); v != "" {
		if x, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = &x
		}
	}
	if v := c.Query("max_price"); v != "" {
		if x, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = &x
		}
	}
	list, err := s.products.List(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}

// User handlers
type registerUserReq struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// @Summary Register user
// @Tags users
// @Accept json
// @Produce json
// @Param input body registerUserReq true "User"
// @Success 201 {object} domain.User
// @Failure 400 {object} map[string]string
// @Router /users [post]
func (s *Server) registerUser(c *gin.Context) {
	var req registerUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	u, err := s.users.Register(c, domain.User{
		ID:       req.ID,
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.UserRole(req.Role),
	})
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, u)
}

// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} map[string]string
// @Router /users/{id} [get]
func (s *Server) getUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	u, err := s.users.GetByID(c, id)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// Cart handlers
type createCartReq struct {
	UserID int64 `json:"user_id"`
}

// @Summary Create cart
// @Tags carts
// @Accept json
// @Produce json
// @Param input body createCartReq true "Cart owner"
// @Success 201 {object} domain.Cart
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /carts [post]
func (s *Server) createCart(c *gin.Context) {
	var req createCartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cart, err := s.carts.Create(c, req.UserID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, cart)
}

// @Summary Get cart by user id
// @Tags carts
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} domain.Cart
// @Failure 404 {object} map[string]string
// @Router /carts/{userID} [get]
func (s *Server) getCart(c *gin.Context) {
	userID, err := parseID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cart, err := s.carts.Get(c, userID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cart)
}

type addCartItemReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// @Summary Add item to cart
// @Tags carts
// @Accept json
// @Produce json
// @Param userID path int true "User ID"
// @Param input body addCartItemReq true "Item"
// @Success 200 {object} domain.Cart
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /carts/{userID}/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	userID, err := parseID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req addCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cart, err := s.carts.AddItem(c, userID, req.ProductID, req.Quantity)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cart)
}

// @Summary Quote cart totals
// @Tags carts
// @Produce json
// @Param userID path int true "User ID"
// @Param discount_kind query string false "Percentage | Fixed | None"
// @Param discount_value query number false "Discount value"
// @Param tax_rate query number false "Tax rate percent"
// @Success 200 {object} service.CartQuote
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /carts/{userID}/quote [get]
func (s *Server) quoteCart(c *gin.Context) {
	userID, err := parseID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	kind := domain.DiscountKind(c.Query("discount_kind"))
	value, err := parseDecimal(c.Query("discount_value"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount_value"})
		return
	}
	taxRate, err := parseDecimal(c.Query("tax_rate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax_rate"})
		return
	}
	quote, err := s.carts.Quote(c, userID, kind, value, taxRate)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// @Summary Validate cart against the catalog
// @Tags carts
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /carts/{userID}/validate [post]
func (s *Server) validateCart(c *gin.Context) {
	userID, err := parseID(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := s.carts.Validate(c, userID); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// Order handlers
type checkoutReq struct {
	UserID          int64  `json:"user_id"`
	ShippingAddress string `json:"shipping_address"`
}

// @Summary Checkout: create order from the user's cart
// @Tags orders
// @Accept json
// @Produce json
// @Param input body checkoutReq true "Checkout"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders [post]
func (s *Server) checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.Checkout(c, req.UserID, req.ShippingAddress)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.Get(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

// @Summary Order summary
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderSummary
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/summary [get]
func (s *Server) getOrderSummary(c *gin.Context) {
	sum, err := s.orders.Summary(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// @Summary Digital deliveries of an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {array} domain.DigitalDelivery
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/deliveries [get]
func (s *Server) getOrderDeliveries(c *gin.Context) {
	dd, err := s.orders.Deliveries(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dd)
}

type updateStatusReq struct {
	Status string `json:"status"`
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param X-User-ID header int true "Acting user ID"
// @Param input body updateStatusReq true "New status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/status [post]
func (s *Server) updateOrderStatus(c *gin.Context) {
	actorID, err := parseID(c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor"})
		return
	}
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	o, err := s.orders.UpdateStatus(c, c.Param("id"), domain.OrderStatus(req.Status), actorID)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, o)
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// parseDecimal отсутствующий параметр трактуется как 0, мусор — ошибка
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
