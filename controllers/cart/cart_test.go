package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shopyard/ecommerce-api/models"
)

const testUserID = "user-1"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Coupon{},
	))
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Stand-in for the JWT middleware.
	r.Use(func(c *gin.Context) {
		c.Set("user_id", testUserID)
		c.Set("email", "user1@example.com")
	})

	r.POST("/cart", AddProductToCart(db))
	r.GET("/cart", GetCart(db))
	r.DELETE("/cart", ClearCart(db))
	r.PATCH("/cart/applyCoupon", ApplyCoupon(db))
	r.PATCH("/cart/:itemId", UpdateCartItemQuantity(db))
	r.DELETE("/cart/:itemId", RemoveCartItem(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedProduct(t *testing.T, db *gorm.DB, price float64) models.Product {
	t.Helper()
	product := models.Product{Name: "Shirt", Price: price, Quantity: 20}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func loadCart(t *testing.T, db *gorm.DB) models.Cart {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Preload("Items").Where("user_id = ?", testUserID).First(&cart).Error)
	return cart
}

func TestAddSameProductAndColorMergesLines(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 50)

	body := gin.H{"product_id": product.ID, "color": "red"}
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/cart", body).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/cart", body).Code)

	cart := loadCart(t, db)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.InDelta(t, 100.0, cart.TotalCartPrice, 1e-9)
}

func TestAddDifferentColorCreatesNewLine(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 50)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})
	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "blue"})

	cart := loadCart(t, db)
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 100.0, cart.TotalCartPrice, 1e-9)
}

func TestAddUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": 999, "color": "red"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLinePriceIsSnapshottedAtAddTime(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 50)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	// Catalog price change must not leak into the existing line.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 80).Error)
	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	cart := loadCart(t, db)
	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 50.0, cart.Items[0].Price, 1e-9)
	assert.InDelta(t, 100.0, cart.TotalCartPrice, 1e-9)
}

func TestUpdateQuantity(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})
	cart := loadCart(t, db)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/cart/%d", cart.Items[0].ID), gin.H{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)

	cart = loadCart(t, db)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.InDelta(t, 500.0, cart.TotalCartPrice, 1e-9)
}

func TestUpdateQuantityUnknownItem(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	w := doJSON(t, r, http.MethodPatch, "/cart/424242", gin.H{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateQuantityRejectsZero(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})
	cart := loadCart(t, db)

	w := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/cart/%d", cart.Items[0].ID), gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveItemRecomputesSubtotal(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	p1 := seedProduct(t, db, 100)
	p2 := models.Product{Name: "Hat", Price: 25, Quantity: 20}
	require.NoError(t, db.Create(&p2).Error)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": p1.ID, "color": "red"})
	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": p2.ID, "color": ""})
	cart := loadCart(t, db)
	require.Len(t, cart.Items, 2)

	var hatLine models.CartItem
	for _, item := range cart.Items {
		if item.ProductID == p2.ID {
			hatLine = item
		}
	}
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/cart/%d", hatLine.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	cart = loadCart(t, db)
	assert.Len(t, cart.Items, 1)
	assert.InDelta(t, 100.0, cart.TotalCartPrice, 1e-9)
}

func TestApplyCouponComputesDiscountedTotal(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	require.NoError(t, db.Create(&models.Coupon{
		Name: "SAVE10", Expire: time.Now().Add(24 * time.Hour), Discount: 10,
	}).Error)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})
	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	w := doJSON(t, r, http.MethodPatch, "/cart/applyCoupon", gin.H{"coupon": "SAVE10"})
	assert.Equal(t, http.StatusOK, w.Code)

	cart := loadCart(t, db)
	assert.InDelta(t, 200.0, cart.TotalCartPrice, 1e-9)
	require.NotNil(t, cart.TotalPriceAfterDiscount)
	assert.InDelta(t, 180.0, *cart.TotalPriceAfterDiscount, 1e-9)
}

func TestExpiredCouponAndUnknownCouponLookAlike(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	require.NoError(t, db.Create(&models.Coupon{
		Name: "OLD", Expire: time.Now().Add(-time.Hour), Discount: 50,
	}).Error)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	expired := doJSON(t, r, http.MethodPatch, "/cart/applyCoupon", gin.H{"coupon": "OLD"})
	unknown := doJSON(t, r, http.MethodPatch, "/cart/applyCoupon", gin.H{"coupon": "NOPE"})

	assert.Equal(t, http.StatusBadRequest, expired.Code)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.JSONEq(t, expired.Body.String(), unknown.Body.String())
}

func TestCartMutationInvalidatesDiscount(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	require.NoError(t, db.Create(&models.Coupon{
		Name: "SAVE10", Expire: time.Now().Add(24 * time.Hour), Discount: 10,
	}).Error)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})
	doJSON(t, r, http.MethodPatch, "/cart/applyCoupon", gin.H{"coupon": "SAVE10"})
	require.NotNil(t, loadCart(t, db).TotalPriceAfterDiscount)

	// Adding after the coupon was applied must clear the stale discount.
	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	cart := loadCart(t, db)
	assert.Nil(t, cart.TotalPriceAfterDiscount)
	assert.InDelta(t, 200.0, cart.TotalCartPrice, 1e-9)
}

func TestGetCartWithoutCart(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)

	w := doJSON(t, r, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	r := setupRouter(db)
	product := seedProduct(t, db, 100)

	doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "color": "red"})

	assert.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodDelete, "/cart", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, "/cart", nil).Code)
}
