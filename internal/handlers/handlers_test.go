package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/config"
	"github.com/safir2310/ayamgepreksambalijo26/internal/database"
	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

var testCfg = config.Config{
	ShopName:  "AYAM GEPREK SAMBAL IJO",
	ShopPhone: "6285260812758",
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	// Per-test in-memory database to avoid cross-test interference
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	app := fiber.New()
	Register(app, db, testCfg)
	return app, db
}

func doReq(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, out), "body: %s", b)
}

var nextUserNum = 1000

func seedUser(t *testing.T, db *gorm.DB, username string, role models.Role, points int) (models.User, string) {
	t.Helper()
	hash, err := middleware.HashPassword("rahasia123")
	require.NoError(t, err)

	nextUserNum++
	user := models.User{
		UserNum:  nextUserNum,
		Username: username,
		Email:    username + "@example.com",
		Phone:    fmt.Sprintf("08%010d", nextUserNum),
		Password: hash,
		Role:     role,
		Points:   points,
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	require.NoError(t, err)
	return user, token
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: price, Category: models.CategoryFood, Status: models.StatusRegular}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestRegisterLoginAndProfile(t *testing.T) {
	app, _ := setupApp(t)

	resp := doReq(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{
		"username": "budi",
		"password": "rahasia123",
		"email":    "budi@example.com",
		"phone":    "081234567890",
		"address":  "Jl. Merdeka 1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &reg)
	require.GreaterOrEqual(t, reg.User.UserNum, 1000)
	require.LessOrEqual(t, reg.User.UserNum, 9999)
	require.Equal(t, models.RoleUser, reg.User.Role)
	require.Equal(t, 0, reg.User.Points)

	// Wrong password
	resp = doReq(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"username": "budi", "password": "salah"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doReq(t, app, "POST", "/api/v1/auth/login", "", fiber.Map{"username": "budi", "password": "rahasia123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login models.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)
	require.Equal(t, models.RoleUser, login.Role)

	resp = doReq(t, app, "GET", "/api/v1/me", login.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decode(t, resp, &me)
	require.Equal(t, "budi", me.Username)

	// No token
	resp = doReq(t, app, "GET", "/api/v1/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterDuplicateFields(t *testing.T) {
	app, _ := setupApp(t)

	base := fiber.Map{
		"username": "budi",
		"password": "rahasia123",
		"email":    "budi@example.com",
		"phone":    "081234567890",
	}
	resp := doReq(t, app, "POST", "/api/v1/auth/register", "", base)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cases := []struct {
		body    fiber.Map
		message string
	}{
		{fiber.Map{"username": "budi", "password": "x123456", "email": "lain@example.com", "phone": "0811"}, "Username already exists"},
		{fiber.Map{"username": "lain", "password": "x123456", "email": "budi@example.com", "phone": "0812"}, "Email already exists"},
		{fiber.Map{"username": "lain", "password": "x123456", "email": "lain@example.com", "phone": "081234567890"}, "Phone already exists"},
	}
	for _, tc := range cases {
		resp = doReq(t, app, "POST", "/api/v1/auth/register", "", tc.body)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		var body map[string]string
		decode(t, resp, &body)
		require.Equal(t, tc.message, body["error"])
	}

	// Missing required field
	resp = doReq(t, app, "POST", "/api/v1/auth/register", "", fiber.Map{"username": "x"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterAdminVerificationCode(t *testing.T) {
	app, _ := setupApp(t)

	admin := fiber.Map{
		"username":      "owner",
		"password":      "rahasia123",
		"email":         "owner@example.com",
		"phone":         "081200000000",
		"role":          "admin",
		"date_of_birth": "1990-05-07",
	}

	// Missing code
	resp := doReq(t, app, "POST", "/api/v1/auth/register", "", admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Wrong code
	admin["verification_code"] = "123456"
	resp = doReq(t, app, "POST", "/api/v1/auth/register", "", admin)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// ddmmyy of 1990-05-07
	admin["verification_code"] = "070590"
	resp = doReq(t, app, "POST", "/api/v1/auth/register", "", admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var reg struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &reg)
	require.Equal(t, models.RoleAdmin, reg.User.Role)
}

func TestCartAccumulatesAndRemoves(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedUser(t, db, "budi", models.RoleUser, 0)
	product := seedProduct(t, db, "Ayam Geprek", 25000)

	resp := doReq(t, app, "POST", "/api/v1/cart", token, fiber.Map{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Same product again accumulates instead of adding a second line.
	resp = doReq(t, app, "POST", "/api/v1/cart", token, fiber.Map{"product_id": product.ID, "quantity": 3})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doReq(t, app, "GET", "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Cart models.Cart `json:"cart"`
	}
	decode(t, resp, &got)
	require.Len(t, got.Cart.Items, 1)
	require.Equal(t, 5, got.Cart.Items[0].Quantity)
	require.Equal(t, "Ayam Geprek", got.Cart.Items[0].Product.Name)

	// Zero quantity rejected.
	resp = doReq(t, app, "POST", "/api/v1/cart", token, fiber.Map{"product_id": product.ID, "quantity": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown product rejected.
	resp = doReq(t, app, "POST", "/api/v1/cart", token, fiber.Map{"product_id": 999, "quantity": 1})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doReq(t, app, "DELETE", fmt.Sprintf("/api/v1/cart?item_id=%d", got.Cart.Items[0].ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doReq(t, app, "DELETE", "/api/v1/cart?item_id=999", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckoutFlow(t *testing.T) {
	app, db := setupApp(t)
	user, token := seedUser(t, db, "budi", models.RoleUser, 0)
	ayam := seedProduct(t, db, "Ayam Geprek", 25000)
	teh := seedProduct(t, db, "Es Teh", 5000)

	resp := doReq(t, app, "POST", "/api/v1/cart", token, fiber.Map{"product_id": ayam.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doReq(t, app, "POST", "/api/v1/cart", token, fiber.Map{"product_id": teh.ID, "quantity": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doReq(t, app, "POST", "/api/v1/checkout", token, fiber.Map{
		"address": "Jl. Merdeka 1",
		"items": []fiber.Map{
			{"product_id": ayam.ID, "name": "Ayam Geprek", "price": 25000, "quantity": 2},
			{"product_id": teh.ID, "name": "Es Teh", "price": 5000, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Transaction     models.Transaction `json:"transaction"`
		TransactionID   string             `json:"transaction_id"`
		WhatsAppURL     string             `json:"whatsapp_url"`
		WhatsAppMessage string             `json:"whatsapp_message"`
	}
	decode(t, resp, &out)
	require.Equal(t, 55000, out.Transaction.Total)
	require.Equal(t, 55, out.Transaction.PointsEarned)
	require.Equal(t, models.StatusWaiting, out.Transaction.Status)
	require.Len(t, out.TransactionID, 4)
	require.True(t, strings.HasPrefix(out.WhatsAppURL, "https://wa.me/"+testCfg.ShopPhone))
	require.Contains(t, out.WhatsAppMessage, "TOTAL: Rp 55.000")

	// Cart is cleared afterwards.
	var cartItems int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&cartItems).Error)
	require.Equal(t, int64(0), cartItems)

	// Points only accrue on completion.
	var after models.User
	require.NoError(t, db.First(&after, user.ID).Error)
	require.Equal(t, 0, after.Points)

	// Empty cart rejected.
	resp = doReq(t, app, "POST", "/api/v1/checkout", token, fiber.Map{"address": "Jl. Merdeka 1", "items": []fiber.Map{}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRedeemFlow(t *testing.T) {
	app, db := setupApp(t)
	poor, poorToken := seedUser(t, db, "asep", models.RoleUser, 100)
	rich, richToken := seedUser(t, db, "budi", models.RoleUser, 130)

	body := fiber.Map{
		"address": "Jl. Merdeka 1",
		"items": []fiber.Map{
			{"point_product_id": 1, "name": "Mug", "points_required": 50, "quantity": 2},
			{"point_product_id": 2, "name": "Stiker", "points_required": 30, "quantity": 1},
		},
	}

	resp := doReq(t, app, "POST", "/api/v1/redeem-points", poorToken, body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var errBody map[string]string
	decode(t, resp, &errBody)
	require.Contains(t, errBody["error"], "130")

	var after models.User
	require.NoError(t, db.First(&after, poor.ID).Error)
	require.Equal(t, 100, after.Points)

	resp = doReq(t, app, "POST", "/api/v1/redeem-points", richToken, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Transaction     models.Transaction `json:"transaction"`
		WhatsAppMessage string             `json:"whatsapp_message"`
	}
	decode(t, resp, &out)
	require.Equal(t, models.TypeRedeem, out.Transaction.Type)
	require.Equal(t, 0, out.Transaction.Total)
	require.Equal(t, -130, out.Transaction.PointsEarned)
	require.Contains(t, out.WhatsAppMessage, "Sisa Point: 0")

	after = models.User{}
	require.NoError(t, db.First(&after, rich.ID).Error)
	require.Equal(t, 0, after.Points)
}

func TestTransactionStatusEndpoint(t *testing.T) {
	app, db := setupApp(t)
	user, userToken := seedUser(t, db, "budi", models.RoleUser, 0)
	_, adminToken := seedUser(t, db, "owner", models.RoleAdmin, 0)

	trx := models.Transaction{
		TransactionNum: 4321,
		UserID:         user.ID,
		Type:           models.TypePurchase,
		Status:         models.StatusWaiting,
		Total:          55000,
		PointsEarned:   55,
	}
	require.NoError(t, db.Create(&trx).Error)
	path := fmt.Sprintf("/api/v1/transactions/%d/status", trx.ID)

	// Customers cannot touch statuses.
	resp := doReq(t, app, "PUT", path, userToken, fiber.Map{"status": "processing"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Skipping processing is an illegal transition.
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"status": "completed"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"status": "processing"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"status": "completed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after models.User
	require.NoError(t, db.First(&after, user.ID).Error)
	require.Equal(t, 55, after.Points)

	// Terminal state: a repeated completion cannot double-credit.
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"status": "completed"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.NoError(t, db.First(&after, user.ID).Error)
	require.Equal(t, 55, after.Points)

	// Unknown status and unknown transaction.
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"status": "done"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = doReq(t, app, "PUT", "/api/v1/transactions/9999/status", adminToken, fiber.Map{"status": "processing"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransactionsListVisibilityAndFilters(t *testing.T) {
	app, db := setupApp(t)
	budi, budiToken := seedUser(t, db, "budi", models.RoleUser, 0)
	asep, _ := seedUser(t, db, "asep", models.RoleUser, 0)
	_, adminToken := seedUser(t, db, "owner", models.RoleAdmin, 0)

	rows := []models.Transaction{
		{TransactionNum: 1001, UserID: budi.ID, Type: models.TypePurchase, Status: models.StatusWaiting, Total: 25000, PointsEarned: 25},
		{TransactionNum: 1002, UserID: budi.ID, Type: models.TypeRedeem, Status: models.StatusWaiting, PointsEarned: -50},
		{TransactionNum: 1003, UserID: asep.ID, Type: models.TypePurchase, Status: models.StatusWaiting, Total: 5000, PointsEarned: 5},
	}
	for i := range rows {
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	var out struct {
		Transactions []models.Transaction `json:"transactions"`
	}

	// A customer only sees their own rows.
	resp := doReq(t, app, "GET", "/api/v1/transactions", budiToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	require.Len(t, out.Transactions, 2)
	for _, trx := range out.Transactions {
		require.Equal(t, budi.ID, trx.UserID)
	}

	// Type filter.
	resp = doReq(t, app, "GET", "/api/v1/transactions?type=redeem", budiToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	require.Len(t, out.Transactions, 1)
	require.Equal(t, models.TypeRedeem, out.Transactions[0].Type)

	// Admin sees everything, and can filter by user.
	resp = doReq(t, app, "GET", "/api/v1/transactions", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	require.Len(t, out.Transactions, 3)

	resp = doReq(t, app, "GET", fmt.Sprintf("/api/v1/transactions?user_id=%d", asep.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	require.Len(t, out.Transactions, 1)
	require.Equal(t, asep.ID, out.Transactions[0].UserID)
}

func TestProductCRUDAndAdminGuard(t *testing.T) {
	app, db := setupApp(t)
	_, userToken := seedUser(t, db, "budi", models.RoleUser, 0)
	_, adminToken := seedUser(t, db, "owner", models.RoleAdmin, 0)

	body := fiber.Map{"name": "Ayam Geprek", "price": 25000, "category": "food", "status": "new", "stock": 10}

	resp := doReq(t, app, "POST", "/api/v1/products", userToken, body)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doReq(t, app, "POST", "/api/v1/products", adminToken, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		Product models.Product `json:"product"`
	}
	decode(t, resp, &created)
	require.Equal(t, models.StatusNew, created.Product.Status)

	// Catalog reads are public.
	resp = doReq(t, app, "GET", "/api/v1/products?category=food", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Products []models.Product `json:"products"`
	}
	decode(t, resp, &listed)
	require.Len(t, listed.Products, 1)

	resp = doReq(t, app, "GET", "/api/v1/products?category=drink", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &listed)
	require.Len(t, listed.Products, 0)

	// Partial update leaves unmentioned fields alone.
	path := fmt.Sprintf("/api/v1/products/%d", created.Product.ID)
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"price": 27000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Product models.Product `json:"product"`
	}
	decode(t, resp, &updated)
	require.Equal(t, 27000, updated.Product.Price)
	require.Equal(t, "Ayam Geprek", updated.Product.Name)

	resp = doReq(t, app, "DELETE", path, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doReq(t, app, "GET", path, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Missing category is a validation error.
	resp = doReq(t, app, "POST", "/api/v1/products", adminToken, fiber.Map{"name": "Es Teh", "price": 5000})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminUserManagement(t *testing.T) {
	app, db := setupApp(t)
	user, userToken := seedUser(t, db, "budi", models.RoleUser, 10)
	_, adminToken := seedUser(t, db, "owner", models.RoleAdmin, 0)

	resp := doReq(t, app, "GET", "/api/v1/admin/users", userToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doReq(t, app, "GET", "/api/v1/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed struct {
		Users []models.User `json:"users"`
	}
	decode(t, resp, &listed)
	require.Len(t, listed.Users, 2)

	path := fmt.Sprintf("/api/v1/admin/users/%d", user.ID)
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"points": 99, "address": "Jl. Baru 2"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var after models.User
	require.NoError(t, db.First(&after, user.ID).Error)
	require.Equal(t, 99, after.Points)
	require.Equal(t, "Jl. Baru 2", after.Address)

	// Balance can never be set negative.
	resp = doReq(t, app, "PUT", path, adminToken, fiber.Map{"points": -1})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doReq(t, app, "DELETE", path, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doReq(t, app, "DELETE", path, adminToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
