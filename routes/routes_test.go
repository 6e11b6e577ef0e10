package routes

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, testRequest{Method: http.MethodGet, Path: "/health"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", resp.Body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestGuestCartFlow(t *testing.T) {
	s := newTestServer(t)
	kettle := s.product("kettle", 100000, 5)
	admin := bearer(t, jwt.MapClaims{"admin_id": 1})

	created := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/admin/coupons",
		Body:    map[string]interface{}{"code": "sale10", "discountType": "percent", "discountValue": 10},
		Headers: admin,
	})
	require.Equal(t, http.StatusCreated, created.StatusCode, string(created.Raw))

	added := s.do(t, testRequest{
		Method: http.MethodPost,
		Path:   "/api/v1/cart/add",
		Body:   map[string]interface{}{"productId": kettle, "quantity": 2},
	})
	require.Equal(t, http.StatusOK, added.StatusCode, string(added.Raw))
	token := added.Header.Get("X-Cart-Token")
	require.NotEmpty(t, token)
	assert.EqualValues(t, 200000, added.data(t)["subtotal"])

	applied := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/apply-coupon",
		Body:    map[string]interface{}{"code": "SALE10"},
		Headers: guest(token),
	})
	require.Equal(t, http.StatusOK, applied.StatusCode, string(applied.Raw))
	assert.EqualValues(t, 20000, applied.data(t)["computedDiscount"])
	assert.EqualValues(t, 180000, applied.data(t)["totalPayable"])

	rejected := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/apply-coupon",
		Body:    map[string]interface{}{"code": "NOPE"},
		Headers: guest(token),
	})
	assert.Equal(t, http.StatusBadRequest, rejected.StatusCode)
	assert.Equal(t, "not_found", rejected.errorDetails(t)["reason"])

	cart := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/cart", Headers: guest(token)})
	require.Equal(t, http.StatusOK, cart.StatusCode)
	coupon, ok := cart.data(t)["coupon"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "SALE10", coupon["code"])

	missing := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/checkout",
		Body:    map[string]interface{}{"phone": "0901234567"},
		Headers: guest(token),
	})
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)
	assert.Equal(t, "fullName", missing.errorDetails(t)["field"])

	placed := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/checkout",
		Body:    checkoutBody,
		Headers: guest(token),
	})
	require.Equal(t, http.StatusCreated, placed.StatusCode, string(placed.Raw))
	order := placed.data(t)["order"].(map[string]interface{})
	code := order["orderCode"].(string)
	assert.Regexp(t, `^DH\d{6}$`, code)
	assert.EqualValues(t, 180000, order["total"])
	assert.Equal(t, "pending", order["status"])

	after := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/cart", Headers: guest(token)})
	require.Equal(t, http.StatusOK, after.StatusCode)
	assert.Empty(t, after.data(t)["items"])

	again := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/checkout",
		Body:    checkoutBody,
		Headers: guest(token),
	})
	assert.Equal(t, http.StatusBadRequest, again.StatusCode)

	fetched := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/" + code, Headers: guest(token)})
	require.Equal(t, http.StatusOK, fetched.StatusCode)
	assert.EqualValues(t, 20000, fetched.data(t)["order"].(map[string]interface{})["discount"])

	invoice := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/" + code + "/invoice", Headers: guest(token)})
	require.Equal(t, http.StatusOK, invoice.StatusCode)
	assert.Equal(t, "application/pdf", invoice.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(invoice.Raw, []byte("%PDF")))

	unknown := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/DH000000", Headers: guest(token)})
	assert.Equal(t, http.StatusNotFound, unknown.StatusCode)
}

func TestOrderReadsAreOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	admin := bearer(t, jwt.MapClaims{"admin_id": 1})
	towel := s.product("towel", 30000, 4)

	added := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/add",
		Body:    map[string]interface{}{"productId": towel, "quantity": 1},
		Headers: guest("guest-owner"),
	})
	require.Equal(t, http.StatusOK, added.StatusCode, string(added.Raw))
	placed := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/cart/checkout", Body: checkoutBody, Headers: guest("guest-owner")})
	require.Equal(t, http.StatusCreated, placed.StatusCode, string(placed.Raw))
	code := placed.data(t)["order"].(map[string]interface{})["orderCode"].(string)

	for _, path := range []string{"/api/v1/orders/" + code, "/api/v1/orders/" + code + "/invoice"} {
		t.Run(path, func(t *testing.T) {
			noToken := s.do(t, testRequest{Method: http.MethodGet, Path: path})
			assert.Equal(t, http.StatusNotFound, noToken.StatusCode)

			otherGuest := s.do(t, testRequest{Method: http.MethodGet, Path: path, Headers: guest("guest-other")})
			assert.Equal(t, http.StatusNotFound, otherGuest.StatusCode)

			someUser := s.do(t, testRequest{Method: http.MethodGet, Path: path, Headers: bearer(t, jwt.MapClaims{"user_id": 12})})
			assert.Equal(t, http.StatusNotFound, someUser.StatusCode)

			owner := s.do(t, testRequest{Method: http.MethodGet, Path: path, Headers: guest("guest-owner")})
			assert.Equal(t, http.StatusOK, owner.StatusCode)
		})
	}

	adminView := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/admin/orders/" + code, Headers: admin})
	require.Equal(t, http.StatusOK, adminView.StatusCode, string(adminView.Raw))
	assert.Equal(t, code, adminView.data(t)["order"].(map[string]interface{})["orderCode"])

	adminInvoice := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/admin/orders/" + code + "/invoice", Headers: admin})
	require.Equal(t, http.StatusOK, adminInvoice.StatusCode)
	assert.True(t, bytes.HasPrefix(adminInvoice.Raw, []byte("%PDF")))

	adminMissing := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/admin/orders/DH000000", Headers: admin})
	assert.Equal(t, http.StatusNotFound, adminMissing.StatusCode)
}

func TestListMyOrders(t *testing.T) {
	s := newTestServer(t)
	kettle := s.product("kettle", 100000, 5)
	user := bearer(t, jwt.MapClaims{"user_id": 21})

	anonymous := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/mine", Headers: guest("guest-3")})
	assert.Equal(t, http.StatusUnauthorized, anonymous.StatusCode)

	empty := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/mine", Headers: user})
	require.Equal(t, http.StatusOK, empty.StatusCode, string(empty.Raw))
	assert.EqualValues(t, 0, empty.data(t)["total"])

	added := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/add",
		Body:    map[string]interface{}{"productId": kettle, "quantity": 1},
		Headers: user,
	})
	require.Equal(t, http.StatusOK, added.StatusCode, string(added.Raw))
	placed := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/cart/checkout", Body: checkoutBody, Headers: user})
	require.Equal(t, http.StatusCreated, placed.StatusCode, string(placed.Raw))
	code := placed.data(t)["order"].(map[string]interface{})["orderCode"].(string)

	mine := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/mine", Headers: user})
	require.Equal(t, http.StatusOK, mine.StatusCode, string(mine.Raw))
	assert.EqualValues(t, 1, mine.data(t)["total"])
	list := mine.data(t)["orders"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, code, list[0].(map[string]interface{})["orderCode"])

	own := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/orders/" + code, Headers: user})
	assert.Equal(t, http.StatusOK, own.StatusCode)
}

func TestCartValidation(t *testing.T) {
	s := newTestServer(t)
	mug := s.product("mug", 50000, 1)

	tests := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{"missing quantity", map[string]interface{}{"productId": mug}, http.StatusBadRequest},
		{"zero quantity", map[string]interface{}{"productId": mug, "quantity": 0}, http.StatusBadRequest},
		{"unknown product", map[string]interface{}{"productId": 999, "quantity": 1}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/cart/add", Body: tt.body})
			assert.Equal(t, tt.code, resp.StatusCode, string(resp.Raw))
		})
	}

	clamped := s.do(t, testRequest{
		Method: http.MethodPost,
		Path:   "/api/v1/cart/add",
		Body:   map[string]interface{}{"productId": mug, "quantity": 3},
	})
	require.Equal(t, http.StatusOK, clamped.StatusCode, string(clamped.Raw))
	items := clamped.data(t)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, items[0].(map[string]interface{})["quantity"])
}

func TestMergeRequiresLogin(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, testRequest{
		Method: http.MethodPost,
		Path:   "/api/v1/cart/merge",
		Body:   map[string]interface{}{"fromCartToken": "guest-1"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMergeGuestCartIntoUser(t *testing.T) {
	s := newTestServer(t)
	kettle := s.product("kettle", 100000, 5)

	added := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/add",
		Body:    map[string]interface{}{"productId": kettle, "quantity": 1},
		Headers: guest("guest-1"),
	})
	require.Equal(t, http.StatusOK, added.StatusCode, string(added.Raw))

	merged := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/merge",
		Body:    map[string]interface{}{"fromCartToken": "guest-1"},
		Headers: bearer(t, jwt.MapClaims{"user_id": 9}),
	})
	require.Equal(t, http.StatusOK, merged.StatusCode, string(merged.Raw))
	assert.Len(t, merged.data(t)["items"], 1)
	assert.EqualValues(t, 100000, merged.data(t)["subtotal"])
}

func TestAdminCoupons(t *testing.T) {
	s := newTestServer(t)
	admin := bearer(t, jwt.MapClaims{"admin_id": 1})
	body := map[string]interface{}{"code": "FLAT5K", "discountType": "amount", "discountValue": 5000}

	noToken := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/admin/coupons", Body: body})
	assert.Equal(t, http.StatusUnauthorized, noToken.StatusCode)

	userToken := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/admin/coupons",
		Body:    body,
		Headers: bearer(t, jwt.MapClaims{"user_id": 3}),
	})
	assert.Equal(t, http.StatusForbidden, userToken.StatusCode)

	created := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/admin/coupons", Body: body, Headers: admin})
	require.Equal(t, http.StatusCreated, created.StatusCode, string(created.Raw))
	coupon := created.data(t)["coupon"].(map[string]interface{})
	require.NotNil(t, coupon["id"])

	duplicate := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/admin/coupons", Body: body, Headers: admin})
	assert.Equal(t, http.StatusConflict, duplicate.StatusCode)

	invalid := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/admin/coupons",
		Body:    map[string]interface{}{"code": "BAD", "discountType": "bogus", "discountValue": 5},
		Headers: admin,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, invalid.StatusCode)

	badID := s.do(t, testRequest{Method: http.MethodDelete, Path: "/api/v1/admin/coupons/abc", Headers: admin})
	assert.Equal(t, http.StatusBadRequest, badID.StatusCode)

	gone := s.do(t, testRequest{Method: http.MethodDelete, Path: "/api/v1/admin/coupons/999", Headers: admin})
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestAdminOrders(t *testing.T) {
	s := newTestServer(t)
	admin := bearer(t, jwt.MapClaims{"admin_id": 1})
	towel := s.product("towel", 30000, 4)

	added := s.do(t, testRequest{
		Method:  http.MethodPost,
		Path:    "/api/v1/cart/add",
		Body:    map[string]interface{}{"productId": towel, "quantity": 2},
		Headers: guest("guest-2"),
	})
	require.Equal(t, http.StatusOK, added.StatusCode, string(added.Raw))
	placed := s.do(t, testRequest{Method: http.MethodPost, Path: "/api/v1/cart/checkout", Body: checkoutBody, Headers: guest("guest-2")})
	require.Equal(t, http.StatusCreated, placed.StatusCode, string(placed.Raw))
	code := placed.data(t)["order"].(map[string]interface{})["orderCode"].(string)

	empty := s.do(t, testRequest{Method: http.MethodPatch, Path: "/api/v1/admin/orders/" + code, Body: map[string]interface{}{}, Headers: admin})
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)

	bogus := s.do(t, testRequest{Method: http.MethodPatch, Path: "/api/v1/admin/orders/" + code, Body: map[string]interface{}{"status": "lost"}, Headers: admin})
	assert.Equal(t, http.StatusBadRequest, bogus.StatusCode)

	confirmed := s.do(t, testRequest{Method: http.MethodPatch, Path: "/api/v1/admin/orders/" + code, Body: map[string]interface{}{"status": "confirmed"}, Headers: admin})
	require.Equal(t, http.StatusOK, confirmed.StatusCode, string(confirmed.Raw))
	assert.Equal(t, "confirmed", confirmed.data(t)["order"].(map[string]interface{})["status"])

	backwards := s.do(t, testRequest{Method: http.MethodPatch, Path: "/api/v1/admin/orders/" + code, Body: map[string]interface{}{"status": "pending"}, Headers: admin})
	assert.Equal(t, http.StatusConflict, backwards.StatusCode)

	export := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/admin/orders/export", Headers: admin})
	require.Equal(t, http.StatusOK, export.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", export.Header.Get("Content-Type"))
	assert.NotEmpty(t, export.Raw)

	badRange := s.do(t, testRequest{Method: http.MethodGet, Path: "/api/v1/admin/orders/export?from=2025-03-10&to=2025-03-01", Headers: admin})
	assert.Equal(t, http.StatusBadRequest, badRange.StatusCode)
}
