package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/produksi-api/internal/application/analytics"
	"github.com/jhoicas/produksi-api/internal/application/auth"
	"github.com/jhoicas/produksi-api/internal/application/cart"
	"github.com/jhoicas/produksi-api/internal/application/inventory"
	"github.com/jhoicas/produksi-api/internal/application/order"
	"github.com/jhoicas/produksi-api/internal/application/production"
	"github.com/jhoicas/produksi-api/internal/application/report"
	"github.com/jhoicas/produksi-api/internal/application/trade"
	"github.com/jhoicas/produksi-api/internal/application/usecase"
	"github.com/jhoicas/produksi-api/internal/infrastructure/excel"
	"github.com/jhoicas/produksi-api/internal/infrastructure/memory"
	"github.com/jhoicas/produksi-api/internal/infrastructure/pdf"
	"github.com/jhoicas/produksi-api/internal/infrastructure/storage"
	apphttp "github.com/jhoicas/produksi-api/internal/interfaces/http"
	"github.com/jhoicas/produksi-api/internal/interfaces/http/views"
)

// ──── Servidor de prueba sobre adaptadores en memoria ───────────────────────

type testServer struct {
	t       *testing.T
	app     *fiber.App
	uploads string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	sessions := memory.NewSessionStore()
	tx := memory.NewTxRunner(store)
	ledger := inventory.NewLedger(nil, zerolog.Nop())
	items := memory.NewItemRepository(store)
	employees := memory.NewEmployeeRepository(store)
	customers := memory.NewCustomerRepository(store)
	analyticsRepo := memory.NewAnalyticsRepository(store)

	uploads := t.TempDir()
	files, err := storage.NewLocalFileStore(uploads, 1<<20)
	require.NoError(t, err)

	authUC := auth.NewAuthUseCase(employees, customers, sessions, sessions,
		auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 30, Issuer: testIssuer})
	orderUC := order.NewUseCase(tx, ledger, memory.NewOrderRepository(store), nil)

	app := fiber.New(fiber.Config{Views: views.NewEngine()})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:       authUC,
		ItemUC:       inventory.NewItemUseCase(tx, ledger, items, memory.NewStockMovementRepository(store)),
		ProductionUC: production.NewUseCase(tx, ledger, memory.NewProductionRepository(store)),
		PurchaseUC:   trade.NewPurchaseUseCase(tx, ledger, memory.NewPurchaseRepository(store)),
		SaleUC:       trade.NewSaleUseCase(tx, ledger, memory.NewSaleRepository(store)),
		OrderUC:      orderUC,
		CartUC:       cart.NewUseCase(sessions, items, tx, orderUC, nil, zerolog.Nop()),
		CustomerUC:   usecase.NewCustomerUseCase(customers, analyticsRepo, orderUC),
		EmployeeUC:   usecase.NewEmployeeUseCase(employees),
		DashboardUC:  appanalytics.NewDashboardUseCase(analyticsRepo, items),
		ReportUC: report.NewUseCase(analyticsRepo, items,
			pdf.NewMarotoReportExporter("Produksi Tahu Tempe"), excel.NewExcelizeReportExporter()),
		Files:     files,
		ShopName:  "Produksi Tahu Tempe",
		JWTSecret: testJWTSecret,
	})

	_, err = memory.SeedAdmin(context.Background(), store, "admin", "rahasia123")
	require.NoError(t, err)
	return &testServer{t: t, app: app, uploads: uploads}
}

func (s *testServer) do(method, path string, body any, token string) (*http.Response, []byte) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (*http.Response, []byte) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, raw
}

func (s *testServer) login(path, username, password string) string {
	s.t.Helper()
	resp, raw := s.do(http.MethodPost, path, map[string]string{"username": username, "password": password}, "")
	require.Equal(s.t, http.StatusOK, resp.StatusCode, string(raw))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(raw, &out))
	return out.Token
}

func (s *testServer) adminToken() string {
	return s.login("/api/auth/employees/login", "admin", "rahasia123")
}

func (s *testServer) customerToken(username string) string {
	s.t.Helper()
	resp, raw := s.do(http.MethodPost, "/api/auth/customers/register", map[string]string{
		"name": "Sari", "address": "Jl. Kenanga 5", "phone": "0813",
		"username": username, "password": "secret6", "confirm_password": "secret6",
	}, "")
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, string(raw))
	return s.login("/api/auth/customers/login", username, "secret6")
}

func (s *testServer) createItem(token, name, category string, stock int) map[string]any {
	s.t.Helper()
	resp, raw := s.do(http.MethodPost, "/api/items", map[string]any{
		"name": name, "category": category, "price": "5000", "unit": "pcs", "initial_stock": stock,
	}, token)
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, string(raw))
	return decode(s.t, raw)
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func (s *testServer) itemStock(token, id string) float64 {
	s.t.Helper()
	resp, raw := s.do(http.MethodGet, "/api/items/"+id, nil, token)
	require.Equal(s.t, http.StatusOK, resp.StatusCode, string(raw))
	return decode(s.t, raw)["stock"].(float64)
}

// ──── Auth y sesiones ────────────────────────────────────────────────────────

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.do(http.MethodPost, "/api/auth/employees/login",
		map[string]string{"username": "admin", "password": "salah"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(raw), "UNAUTHORIZED")
}

func TestLogin_CuerpoIncompleto_Retorna400(t *testing.T) {
	s := newTestServer(t)
	resp, raw := s.do(http.MethodPost, "/api/auth/employees/login", map[string]string{"username": "admin"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "password")
}

func TestLogout_InvalidaElToken(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken()

	resp, _ := s.do(http.MethodGet, "/api/items", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(http.MethodPost, "/api/auth/logout", nil, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw := s.do(http.MethodGet, "/api/items", nil, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "el JWT sigue vigente pero la sesión ya no existe")
	assert.Contains(t, string(raw), "SESSION_EXPIRED")
}

func TestRegistro_UsuarioDuplicado_Retorna409(t *testing.T) {
	s := newTestServer(t)
	s.customerToken("sari")
	resp, raw := s.do(http.MethodPost, "/api/auth/customers/register", map[string]string{
		"name": "Sari 2", "address": "x", "phone": "1", "username": "SARI",
		"password": "secret6", "confirm_password": "secret6",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "USERNAME_TAKEN")
}

// ──── Roles ──────────────────────────────────────────────────────────────────

func TestRoles_KaryawanNoCreaItemsPeroRegistraProduccion(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	kedelai := s.createItem(admin, "Kedelai", "RAW_MATERIAL", 50)

	resp, raw := s.do(http.MethodPost, "/api/employees", map[string]string{
		"name": "Budi", "username": "budi", "password": "secret6", "role": "karyawan",
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	karyawan := s.login("/api/auth/employees/login", "budi", "secret6")

	resp, _ = s.do(http.MethodPost, "/api/items", map[string]any{
		"name": "Garam", "category": "RAW_MATERIAL", "unit": "kg",
	}, karyawan)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw = s.do(http.MethodPost, "/api/productions", map[string]any{
		"result_type": "TAHU", "quantity": 100,
		"lines": []map[string]any{{"item_id": kedelai["id"], "quantity": 20}},
	}, karyawan)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.Equal(t, float64(30), s.itemStock(admin, kedelai["id"].(string)))
}

func TestRoles_ClienteBloqueadoEnRutasDePersonal(t *testing.T) {
	s := newTestServer(t)
	token := s.customerToken("sari")

	resp, _ := s.do(http.MethodGet, "/api/items", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = s.do(http.MethodGet, "/api/dashboard/summary", nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──── Items y ledger ─────────────────────────────────────────────────────────

func TestItems_ValidacionYAjusteSinNegativos(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	resp, raw := s.do(http.MethodPost, "/api/items", map[string]any{"category": "RAW_MATERIAL", "unit": "kg"}, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "VALIDATION")

	item := s.createItem(admin, "Kedelai", "RAW_MATERIAL", 5)
	id := item["id"].(string)

	resp, raw = s.do(http.MethodPost, "/api/items/"+id+"/adjust", map[string]any{"delta": -6}, admin)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode(t, raw)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(1), body["shortfall"])
	assert.Equal(t, float64(5), s.itemStock(admin, id), "el rechazo no modifica el stock")

	resp, _ = s.do(http.MethodGet, "/api/items/no-existe", nil, admin)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──── Pedidos ────────────────────────────────────────────────────────────────

func TestPedidos_CancelarDevuelveStock(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.customerToken("sari")
	tahu := s.createItem(admin, "Tahu", "FINISHED_GOOD", 10)
	tahuID := tahu["id"].(string)

	resp, raw := s.do(http.MethodGet, "/api/customers", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var customers []map[string]any
	require.NoError(t, json.Unmarshal(raw, &customers))
	require.Len(t, customers, 1)

	resp, raw = s.do(http.MethodPost, "/api/orders", map[string]any{
		"customer_id": customers[0]["id"], "status": "PROCESSING",
		"lines": []map[string]any{{"item_id": tahuID, "quantity": 4}},
	}, admin)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	orderID := decode(t, raw)["id"].(string)
	assert.Equal(t, float64(6), s.itemStock(admin, tahuID))

	resp, raw = s.do(http.MethodPatch, "/api/orders/"+orderID+"/status", map[string]string{"status": "CANCELLED"}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, float64(10), s.itemStock(admin, tahuID))

	resp, _ = s.do(http.MethodPatch, "/api/orders/"+orderID+"/status", map[string]string{"status": "LOST"}, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──── Tienda: carrito, checkout y comprobante ────────────────────────────────

func multipartProof(t *testing.T, path string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	part, err := w.CreateFormFile("payment_proof", "bukti.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestTienda_CheckoutSinComprobanteYLuegoPago(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	tempe := s.createItem(admin, "Tempe", "FINISHED_GOOD", 8)
	tempeID := tempe["id"].(string)
	customer := s.customerToken("sari")

	resp, raw := s.do(http.MethodGet, "/api/items/available", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Tempe", "el catálogo es público")

	resp, raw = s.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": tempeID, "quantity": 3}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = s.do(http.MethodPost, "/api/checkout", nil, customer)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	placed := decode(t, raw)
	assert.Equal(t, "AWAITING_PAYMENT", placed["status"])
	assert.Equal(t, "Jl. Kenanga 5", placed["shipping_address"])
	assert.Equal(t, float64(8), s.itemStock(admin, tempeID), "sin pago no se descuenta")

	resp, raw = s.do(http.MethodGet, "/api/cart", nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode(t, raw)["lines"], "el carrito se vacía tras el checkout")

	orderID := placed["id"].(string)
	resp, raw = s.send(multipartProof(t, "/api/account/orders/"+orderID+"/payment-proof", nil), customer)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "PROCESSING", decode(t, raw)["status"])
	assert.Equal(t, float64(5), s.itemStock(admin, tempeID))

	resp, _ = s.do(http.MethodGet, "/api/orders/"+orderID+"/payment-proof", nil, admin)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTienda_CheckoutConComprobanteNaceActivo(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	tahu := s.createItem(admin, "Tahu", "FINISHED_GOOD", 5)
	tahuID := tahu["id"].(string)
	customer := s.customerToken("sari")

	resp, raw := s.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": tahuID, "quantity": 2}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	req := multipartProof(t, "/api/checkout", map[string]string{"shipping_address": "Jl. Mawar 9"})
	resp, raw = s.send(req, customer)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	placed := decode(t, raw)
	assert.Equal(t, "PROCESSING", placed["status"])
	assert.Equal(t, "Jl. Mawar 9", placed["shipping_address"])
	assert.Equal(t, float64(3), s.itemStock(admin, tahuID))
}

func TestTienda_CheckoutConStockInsuficiente_Retorna409(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	tahu := s.createItem(admin, "Tahu", "FINISHED_GOOD", 2)
	tahuID := tahu["id"].(string)
	customer := s.customerToken("sari")

	resp, _ := s.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": tahuID, "quantity": 2}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(http.MethodPost, "/api/items/"+tahuID+"/adjust", map[string]any{"delta": -1}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := s.do(http.MethodPost, "/api/checkout", nil, customer)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(raw), "INSUFFICIENT_STOCK")

	resp, raw = s.do(http.MethodGet, "/api/account/orders", nil, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(raw), "el checkout fallido no crea pedido")
}

func TestTienda_CheckoutFallidoNoDejaComprobanteHuerfano(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	tahu := s.createItem(admin, "Tahu", "FINISHED_GOOD", 2)
	tahuID := tahu["id"].(string)
	customer := s.customerToken("sari")

	resp, _ := s.do(http.MethodPost, "/api/cart/items", map[string]any{"item_id": tahuID, "quantity": 2}, customer)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(http.MethodPost, "/api/items/"+tahuID+"/adjust", map[string]any{"delta": -1}, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw := s.send(multipartProof(t, "/api/checkout", map[string]string{"shipping_address": "Jl. Mawar 9"}), customer)
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(raw))

	entries, err := os.ReadDir(s.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries, "el comprobante del checkout rechazado se borra")
}

// ──── Reportes ───────────────────────────────────────────────────────────────

func TestReportes_Formatos(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.createItem(admin, "Kedelai", "RAW_MATERIAL", 40)

	resp, raw := s.do(http.MethodGet, "/api/reports/items", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, string(raw), "Kedelai")

	resp, raw = s.do(http.MethodGet, "/api/reports/items?format=html", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(raw), "Kedelai")
	assert.Contains(t, string(raw), "Produksi Tahu Tempe")

	resp, raw = s.do(http.MethodGet, "/api/reports/items?format=xlsx", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	resp, raw = s.do(http.MethodGet, "/api/reports/items?format=pdf", nil, admin)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp, _ = s.do(http.MethodGet, "/api/reports/items?format=doc", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = s.do(http.MethodGet, "/api/reports/orders?from=17-10-2026", nil, admin)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
