package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Govind-619/Storefront/config"
	"github.com/Govind-619/Storefront/controllers"
	"github.com/Govind-619/Storefront/models"
	"github.com/Govind-619/Storefront/repository/memstore"
	"github.com/Govind-619/Storefront/services"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer is the full router over an in-memory store
type testServer struct {
	router *gin.Engine
	store  *memstore.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New()
	evaluator := services.NewCouponEvaluator(store, store)

	h := &controllers.Handler{
		CartEngine: services.NewCartEngine(store, store, evaluator),
		CheckoutEngine: services.NewCheckoutEngine(services.CheckoutDeps{
			Carts:   store,
			Orders:  store,
			Coupons: evaluator,
		}),
		OrderService: services.NewOrderService(store),
		CouponAdmin:  services.NewCouponAdmin(store),
	}
	cfg := &config.Config{
		JWTSecret:     testJWTSecret,
		SessionSecret: "test-session-secret",
		Env:           "test",
	}
	return &testServer{router: SetupRouter(h, cfg), store: store}
}

func (s *testServer) product(name string, price int64, stock int) uint {
	return s.store.AddProduct(models.Product{Name: name, SKU: "SKU-" + name, Price: price, Quantity: stock})
}

// testRequest describes one call against the router
type testRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// testResponse carries the raw response plus the decoded JSON body, if any
type testResponse struct {
	StatusCode int
	Header     http.Header
	Raw        []byte
	Body       map[string]interface{}
}

func (s *testServer) do(t *testing.T, req testRequest) testResponse {
	t.Helper()
	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		require.NoError(t, err)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httpReq)

	resp := testResponse{StatusCode: w.Code, Header: w.Header(), Raw: w.Body.Bytes()}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Body))
	}
	return resp
}

// data returns the "data" object of a standard response
func (r testResponse) data(t *testing.T) map[string]interface{} {
	t.Helper()
	data, ok := r.Body["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", r.Raw)
	return data
}

// errorDetails returns data.error of an error response
func (r testResponse) errorDetails(t *testing.T) map[string]interface{} {
	t.Helper()
	details, ok := r.data(t)["error"].(map[string]interface{})
	require.True(t, ok, "response has no error details: %s", r.Raw)
	return details
}

func bearer(t *testing.T, claims jwt.MapClaims) map[string]string {
	t.Helper()
	claims["exp"] = time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func guest(token string) map[string]string {
	return map[string]string{"X-Cart-Token": token}
}

var checkoutBody = map[string]interface{}{
	"fullName": "Nguyen Van A",
	"phone":    "0901234567",
	"email":    "a@example.com",
	"province": "HCM",
	"district": "Q1",
	"address":  "1 Le Loi",
}
