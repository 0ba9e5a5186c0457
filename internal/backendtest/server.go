// Package backendtest is an in-memory stand-in for the storefront REST
// backend. Package tests and the e2e suite run the client against it over
// httptest instead of a deployed API. It speaks the same routes, bearer
// auth, multipart forms, and error shapes as the real service, including
// the expanded "productId" object form in cart payloads.
package backendtest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopvine/storefront/types"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type account struct {
	user         types.User
	passwordHash string
}

type cartLine struct {
	productID string
	quantity  int
}

type order struct {
	types.Order
	userID string
}

// Server holds the in-memory storefront data.
type Server struct {
	mu         sync.Mutex
	secret     []byte
	nextID     int
	users      map[string]*account // keyed by user ID
	emails     map[string]string   // email -> user ID
	products   []types.Product
	categories []types.Category
	carts      map[string][]cartLine // keyed by user ID
	orders     []*order
	homeSlides []string
}

func New() *Server {
	return &Server{
		secret: []byte("backendtest-secret"),
		users:  make(map[string]*account),
		emails: make(map[string]string),
		carts:  make(map[string][]cartLine),
	}
}

func (s *Server) id(prefix string) string {
	s.nextID++
	return prefix + strconv.Itoa(s.nextID)
}

// SeedUser registers an account directly, bypassing signup validation.
func (s *Server) SeedUser(email, password, firstName, lastName, role string) types.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user := types.User{
		ID:        s.id("u"),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
	s.users[user.ID] = &account{user: user, passwordHash: string(hash)}
	s.emails[email] = user.ID
	return user
}

// SeedProduct inserts a product, assigning an ID when absent.
func (s *Server) SeedProduct(p types.Product) types.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.id("p")
	}
	s.products = append(s.products, p)
	return p
}

// SeedCategory inserts a category, assigning an ID when absent.
func (s *Server) SeedCategory(c types.Category) types.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.id("c")
	}
	s.categories = append(s.categories, c)
	return c
}

// TokenFor mints a valid token for a seeded user's email.
func (s *Server) TokenFor(email string) string {
	s.mu.Lock()
	userID, ok := s.emails[email]
	s.mu.Unlock()
	if !ok {
		panic("backendtest: no user with email " + email)
	}
	return s.issueToken(userID, tokenTTL)
}

// ExpiredTokenFor mints a token whose expiry has already passed.
func (s *Server) ExpiredTokenFor(email string) string {
	s.mu.Lock()
	userID, ok := s.emails[email]
	s.mu.Unlock()
	if !ok {
		panic("backendtest: no user with email " + email)
	}
	return s.issueToken(userID, -time.Minute)
}

func (s *Server) issueToken(userID string, ttl time.Duration) string {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) parseToken(tokenString string) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("missing authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("missing authorization")
	}
	return token, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// cartItemsFor renders a user's cart in the expanded wire shape the real
// backend produces: the product document embedded under "productId".
func (s *Server) cartItemsFor(userID string) []map[string]any {
	items := []map[string]any{}
	for _, line := range s.carts[userID] {
		product, ok := s.findProduct(line.productID)
		if !ok {
			continue
		}
		items = append(items, map[string]any{
			"productId": map[string]any{
				"_id":   product.ID,
				"name":  product.Name,
				"price": product.Price,
				"image": product.Image,
			},
			"quantity": line.quantity,
		})
	}
	return items
}

func (s *Server) findProduct(id string) (types.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return types.Product{}, false
}

func (s *Server) cartTotal(userID string) float64 {
	total := 0.0
	for _, line := range s.carts[userID] {
		if p, ok := s.findProduct(line.productID); ok {
			total += p.Price * float64(line.quantity)
		}
	}
	return total
}

func parsePositiveInt(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
