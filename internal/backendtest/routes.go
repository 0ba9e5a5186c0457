package backendtest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopvine/storefront/types"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const contextUserKey contextKey = "userID"

// Handler returns the full API router.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/google-login", s.handleGoogleLogin)
		r.With(s.requireAuth).Get("/auth/profile", s.handleProfile)
		r.With(s.requireAuth).Put("/auth/profile", s.handleUpdateProfile)
		r.With(s.requireAuth, s.requireAdmin).Get("/auth", s.handleListUsers)

		r.Get("/products", s.handleListProducts)
		r.Get("/products/{id}", s.handleGetProduct)
		r.With(s.requireAuth, s.requireAdmin).Post("/products", s.handleCreateProduct)
		r.With(s.requireAuth, s.requireAdmin).Put("/products/{id}", s.handleUpdateProduct)
		r.With(s.requireAuth, s.requireAdmin).Delete("/products/{id}", s.handleDeleteProduct)
		r.With(s.requireAuth, s.requireAdmin).Post("/products/{id}/upload-image", s.handleUploadProductImage)

		r.Get("/categories", s.handleListCategories)
		r.With(s.requireAuth, s.requireAdmin).Post("/categories", s.handleCreateCategory)
		r.With(s.requireAuth, s.requireAdmin).Delete("/categories/{id}", s.handleDeleteCategory)
		r.With(s.requireAuth, s.requireAdmin).Post("/categories/{id}/slides", s.handleUploadCategorySlides)
		r.With(s.requireAuth, s.requireAdmin).Delete("/categories/{id}/slides", s.handleDeleteCategorySlide)

		r.Get("/home/slides", s.handleListHomeSlides)
		r.With(s.requireAuth, s.requireAdmin).Post("/home/slides", s.handleUploadHomeSlides)
		r.With(s.requireAuth, s.requireAdmin).Delete("/home/slides", s.handleDeleteHomeSlide)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/cart", s.handleGetCart)
			r.Post("/cart/add", s.handleAddToCart)
			r.Put("/cart/update", s.handleUpdateCartItem)
			r.Delete("/cart/item/{id}", s.handleRemoveCartItem)
			r.Delete("/cart", s.handleClearCart)

			r.Post("/orders/place", s.handlePlaceOrder)
			r.Get("/orders/me", s.handleMyOrders)
			r.Put("/orders/cancel/{id}", s.handleCancelOrder)
		})
		r.With(s.requireAuth, s.requireAdmin).Get("/orders", s.handleListOrders)
	})
	return router
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		userID, err := s.parseToken(tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		s.mu.Lock()
		_, exists := s.users[userID]
		s.mu.Unlock()
		if !exists {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), contextUserKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := r.Context().Value(contextUserKey).(string)
		s.mu.Lock()
		acct := s.users[userID]
		s.mu.Unlock()
		if acct == nil || acct.user.Role != types.RoleAdmin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestUser(r *http.Request) string {
	userID, _ := r.Context().Value(contextUserKey).(string)
	return userID
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phoneNumber"`
		Address   string `json:"address"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	s.mu.Lock()
	_, exists := s.emails[req.Email]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}

	user := s.SeedUser(req.Email, req.Password, req.FirstName, req.LastName, types.RoleUser)
	s.mu.Lock()
	acct := s.users[user.ID]
	acct.user.Phone = req.Phone
	acct.user.Address = req.Address
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	userID, ok := s.emails[req.Email]
	var acct *account
	if ok {
		acct = s.users[userID]
	}
	s.mu.Unlock()
	if acct == nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": s.issueToken(acct.user.ID, tokenTTL),
		"user":  acct.user,
	})
}

// handleGoogleLogin accepts a fixture credential of the form
// "google:<email>:<full name>" and responds in the flat shape (user fields
// beside the token) so the client's auth normalization is exercised.
func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	parts := strings.SplitN(req.Credential, ":", 3)
	if len(parts) != 3 || parts[0] != "google" || parts[1] == "" {
		writeError(w, http.StatusUnauthorized, "Invalid Google credential")
		return
	}
	email, fullName := parts[1], parts[2]

	s.mu.Lock()
	userID, exists := s.emails[email]
	if !exists {
		user := types.User{
			ID:       s.id("u"),
			Email:    email,
			FullName: fullName,
			Role:     types.RoleUser,
		}
		s.users[user.ID] = &account{user: user}
		s.emails[email] = user.ID
		userID = user.ID
	}
	user := s.users[userID].user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"token":    s.issueToken(userID, tokenTTL),
		"_id":      user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
		"role":     user.Role,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	acct := s.users[requestUser(r)]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, acct.user)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		FirstName string `json:"firstname"`
		LastName  string `json:"lastname"`
		Address   string `json:"address"`
		Phone     string `json:"phone"`
		Password  string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	acct := s.users[requestUser(r)]
	if patch.FirstName != "" {
		acct.user.FirstName = patch.FirstName
	}
	if patch.LastName != "" {
		acct.user.LastName = patch.LastName
	}
	if patch.Address != "" {
		acct.user.Address = patch.Address
	}
	if patch.Phone != "" {
		acct.user.Phone = patch.Phone
	}
	if patch.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(patch.Password), bcrypt.MinCost)
		if err == nil {
			acct.passwordHash = string(hash)
		}
	}
	user := acct.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]types.User, 0, len(s.users))
	for _, acct := range s.users {
		users = append(users, acct.user)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	products := append([]types.Product(nil), s.products...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	product, ok := s.findProduct(chi.URLParam(r, "id"))
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) productFromForm(r *http.Request, product *types.Product) error {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return err
	}
	form := r.MultipartForm
	if v := form.Value["name"]; len(v) > 0 {
		product.Name = v[0]
	}
	if v := form.Value["price"]; len(v) > 0 {
		price, err := strconv.ParseFloat(v[0], 64)
		if err != nil {
			return err
		}
		product.Price = price
	}
	if v := form.Value["category"]; len(v) > 0 {
		product.Category = v[0]
	}
	if v := form.Value["brand"]; len(v) > 0 {
		product.Brand = v[0]
	}
	if v := form.Value["description"]; len(v) > 0 {
		product.Description = v[0]
	}
	if v := form.Value["specifications"]; len(v) > 0 {
		product.Specifications = v
	}
	if files := form.File["image"]; len(files) > 0 {
		product.Image = "/uploads/" + files[0].Filename
	}
	return nil
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product types.Product
	if err := s.productFromForm(r, &product); err != nil {
		writeError(w, http.StatusBadRequest, "invalid product form")
		return
	}

	s.mu.Lock()
	product.ID = s.id("p")
	s.products = append(s.products, product)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		if err := s.productFromForm(r, &s.products[i]); err != nil {
			writeError(w, http.StatusBadRequest, "invalid product form")
			return
		}
		writeJSON(w, http.StatusOK, s.products[i])
		return
	}
	writeError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) handleUploadProductImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "image file required")
		return
	}

	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].Image = "/uploads/" + files[0].Filename
			writeJSON(w, http.StatusOK, s.products[i])
			return
		}
	}
	writeError(w, http.StatusNotFound, "Product not found")
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	categories := append([]types.Category(nil), s.categories...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "category name required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, req.Name) {
			writeError(w, http.StatusConflict, "Category already exists")
			return
		}
	}
	category := types.Category{ID: s.id("c"), Name: req.Name}
	s.categories = append(s.categories, category)
	writeJSON(w, http.StatusCreated, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) handleUploadCategorySlides(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		for _, file := range r.MultipartForm.File["slides"] {
			s.categories[i].Slides = append(s.categories[i].Slides, "/uploads/slides/"+file.Filename)
		}
		writeJSON(w, http.StatusOK, s.categories[i])
		return
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) handleDeleteCategorySlide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slide string `json:"slide"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID != id {
			continue
		}
		slides := s.categories[i].Slides[:0]
		for _, slide := range s.categories[i].Slides {
			if slide != req.Slide {
				slides = append(slides, slide)
			}
		}
		s.categories[i].Slides = slides
		writeJSON(w, http.StatusOK, s.categories[i])
		return
	}
	writeError(w, http.StatusNotFound, "Category not found")
}

func (s *Server) handleListHomeSlides(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	slides := append([]string{}, s.homeSlides...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, slides)
}

func (s *Server) handleUploadHomeSlides(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	s.mu.Lock()
	for _, file := range r.MultipartForm.File["slides"] {
		s.homeSlides = append(s.homeSlides, "/uploads/home/"+file.Filename)
	}
	slides := append([]string{}, s.homeSlides...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, slides)
}

func (s *Server) handleDeleteHomeSlide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slide string `json:"slide"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	s.mu.Lock()
	slides := s.homeSlides[:0]
	for _, slide := range s.homeSlides {
		if slide != req.Slide {
			slides = append(slides, slide)
		}
	}
	s.homeSlides = slides
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Slide deleted"})
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := s.cartItemsFor(requestUser(r))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId required")
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.findProduct(req.ProductID); !ok {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	// Duplicate adds coalesce into one line, quantities summed.
	lines := s.carts[userID]
	merged := false
	for i := range lines {
		if lines[i].productID == req.ProductID {
			lines[i].quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, cartLine{productID: req.ProductID, quantity: req.Quantity})
	}
	s.carts[userID] = lines
	writeJSON(w, http.StatusOK, s.cartItemsFor(userID))
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId required")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].productID != req.ProductID {
			continue
		}
		if req.Quantity < 1 {
			lines = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i].quantity = req.Quantity
		}
		s.carts[userID] = lines
		writeJSON(w, http.StatusOK, s.cartItemsFor(userID))
		return
	}
	writeError(w, http.StatusNotFound, "Item not in cart")
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "id")
	userID := requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	lines := s.carts[userID]
	for i := range lines {
		if lines[i].productID == productID {
			s.carts[userID] = append(lines[:i], lines[i+1:]...)
			writeJSON(w, http.StatusOK, s.cartItemsFor(userID))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Item not in cart")
}

func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	s.mu.Lock()
	delete(s.carts, userID)
	items := s.cartItemsFor(userID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req types.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	userID := requestUser(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.carts[userID]) == 0 {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	items := make([]types.CartItem, 0, len(s.carts[userID]))
	for _, line := range s.carts[userID] {
		product, ok := s.findProduct(line.productID)
		if !ok {
			continue
		}
		items = append(items, types.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  line.quantity,
		})
	}

	placed := &order{
		Order: types.Order{
			ID:            s.id("o"),
			Items:         items,
			TotalAmount:   s.cartTotal(userID),
			Status:        "placed",
			Address:       req.Address,
			PaymentMethod: req.PaymentMethod,
			CreatedAt:     time.Now().UTC(),
		},
		userID: userID,
	}
	s.orders = append(s.orders, placed)
	delete(s.carts, userID)

	writeJSON(w, http.StatusCreated, placed.Order)
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	userID := requestUser(r)
	s.mu.Lock()
	orders := []types.Order{}
	for _, o := range s.orders {
		if o.userID == userID {
			orders = append(orders, o.Order)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := requestUser(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.Order.ID != id || o.userID != userID {
			continue
		}
		if o.Order.Status == "delivered" {
			writeError(w, http.StatusBadRequest, "Delivered orders cannot be cancelled")
			return
		}
		o.Order.Status = "cancelled"
		writeJSON(w, http.StatusOK, o.Order)
		return
	}
	writeError(w, http.StatusNotFound, "Order not found")
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	page := parsePositiveInt(r.URL.Query().Get("page"), 1)
	limit := parsePositiveInt(r.URL.Query().Get("limit"), 10)

	s.mu.Lock()
	all := make([]types.Order, 0, len(s.orders))
	for _, o := range s.orders {
		all = append(all, o.Order)
	}
	s.mu.Unlock()

	pages := (len(all) + limit - 1) / limit
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	writeJSON(w, http.StatusOK, types.OrderPage{
		Orders: all[start:end],
		Page:   page,
		Pages:  pages,
		Total:  len(all),
	})
}
