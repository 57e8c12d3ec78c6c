package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/testutil"
	"go-inventory-api/pkg/jwt"
)

type testEnv struct {
	t     *testing.T
	app   *App
	admin string
	user  string
}

func newTestEnv(t *testing.T) *testEnv {
	db := testutil.NewDB(t)
	manager, err := jwt.NewManager("router-secret", time.Hour)
	require.NoError(t, err)

	app := New(db, Options{AppName: "test", AllowOrigins: "*", JWT: manager}, nil)
	t.Cleanup(app.Hub.Close)

	_, err = app.Auth.SeedAdmin("Admin", "admin@example.com", "admin123")
	require.NoError(t, err)

	env := &testEnv{t: t, app: app}
	env.admin = env.login("admin@example.com", "admin123")

	status, _ := env.do(http.MethodPost, "/api/register", "", `{"name":"Budi","email":"budi@example.com","password":"rahasia","password_confirmation":"rahasia"}`)
	require.Equal(t, http.StatusCreated, status)
	env.user = env.login("budi@example.com", "rahasia")
	return env
}

func (e *testEnv) login(email, password string) string {
	status, body := e.do(http.MethodPost, "/api/login", "", fmt.Sprintf(`{"email":%q,"password":%q}`, email, password))
	require.Equal(e.t, http.StatusOK, status, body)
	token, _ := body["token"].(string)
	require.NotEmpty(e.t, token)
	return token
}

func (e *testEnv) do(method, path, token, payload string) (int, map[string]interface{}) {
	var reader io.Reader
	if payload != "" {
		reader = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Fiber.Test(req, -1)
	require.NoError(e.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)

	body := map[string]interface{}{}
	if len(raw) > 0 {
		require.NoError(e.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

func (e *testEnv) createKategori(name string) uint {
	status, body := e.do(http.MethodPost, "/api/kategori", e.admin, fmt.Sprintf(`{"kategori":%q}`, name))
	require.Equal(e.t, http.StatusCreated, status, body)
	return uint(body["data"].(map[string]interface{})["id"].(float64))
}

func (e *testEnv) createSupplier(name string) uint {
	status, body := e.do(http.MethodPost, "/api/supplier", e.user, fmt.Sprintf(`{"supplier":%q,"kontak":"0812"}`, name))
	require.Equal(e.t, http.StatusCreated, status, body)
	return uint(body["data"].(map[string]interface{})["id"].(float64))
}

func (e *testEnv) createBarang(nama string, kategoriID, supplierID uint, stok, minimum int) uint {
	payload := fmt.Sprintf(`{"nama":%q,"kategori_id":%d,"supplier_id":%d,"satuan":"Pcs","stok":%d,"stok_minimum":%d}`,
		nama, kategoriID, supplierID, stok, minimum)
	status, body := e.do(http.MethodPost, "/api/barang", e.admin, payload)
	require.Equal(e.t, http.StatusCreated, status, body)
	return uint(body["data"].(map[string]interface{})["id"].(float64))
}

func pageOf(body map[string]interface{}) map[string]interface{} {
	return body["data"].(map[string]interface{})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	status, body := env.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestKategoriPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 25; i++ {
		env.createKategori(fmt.Sprintf("Kategori %02d", i))
	}

	expected := map[int]int{1: 10, 2: 10, 3: 5, 4: 0}
	seen := map[float64]bool{}
	for page, count := range expected {
		status, body := env.do(http.MethodGet, fmt.Sprintf("/api/kategori?page=%d&per_page=10", page), env.user, "")
		require.Equal(t, http.StatusOK, status)

		p := pageOf(body)
		rows := p["data"].([]interface{})
		assert.Len(t, rows, count, "page %d", page)
		assert.Equal(t, float64(25), p["total"])
		assert.Equal(t, float64(3), p["last_page"])
		assert.Equal(t, float64(page), p["current_page"])

		for _, row := range rows {
			id := row.(map[string]interface{})["id"].(float64)
			assert.False(t, seen[id], "row %v listed twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 25)

	_, body := env.do(http.MethodGet, "/api/kategori?search=kategori%200", env.user, "")
	assert.Equal(t, float64(9), pageOf(body)["total"])

	_, body = env.do(http.MethodGet, "/api/kategori?per_page=1000", env.user, "")
	assert.Equal(t, float64(100), pageOf(body)["per_page"])
}

func TestKategoriHugePageIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	for i := 1; i <= 3; i++ {
		env.createKategori(fmt.Sprintf("Kategori %d", i))
	}

	status, body := env.do(http.MethodGet, "/api/kategori?per_page=10&page=1000000000000000000", env.user, "")
	require.Equal(t, http.StatusOK, status)

	p := pageOf(body)
	assert.Empty(t, p["data"].([]interface{}))
	assert.Equal(t, float64(3), p["total"])
	assert.Equal(t, float64(1), p["last_page"])
	assert.Nil(t, p["from"])
	assert.Nil(t, p["to"])
}

func TestKategoriCRUD(t *testing.T) {
	env := newTestEnv(t)
	id := env.createKategori("Elektronik")
	path := fmt.Sprintf("/api/kategori/%d", id)

	status, body := env.do(http.MethodGet, path, env.user, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Elektronik", body["kategori"])

	status, body = env.do(http.MethodPut, path, env.admin, `{"kategori":"Elektronika"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Data kategori berhasil diubah.", body["message"])

	// Updating with the same body twice leaves the same visible state.
	status, _ = env.do(http.MethodPut, path, env.admin, `{"kategori":"Elektronika"}`)
	require.Equal(t, http.StatusOK, status)
	_, body = env.do(http.MethodGet, path, env.user, "")
	assert.Equal(t, "Elektronika", body["kategori"])

	status, _ = env.do(http.MethodDelete, path, env.admin, "")
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(http.MethodGet, path, env.user, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])

	status, _ = env.do(http.MethodDelete, path, env.admin, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(http.MethodGet, "/api/kategori/abc", env.user, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestValidationAndMalformedBodies(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/api/kategori", env.admin, `{"kategori":"   "}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Data yang diberikan tidak valid.", body["message"])
	assert.Contains(t, body["errors"], "kategori")

	status, body = env.do(http.MethodPost, "/api/kategori", env.admin, `{"kategori":`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON", body["message"])

	status, body = env.do(http.MethodPost, "/api/register", "", `{"name":"X","email":"admin@example.com","password":"abcd","password_confirmation":"abcd"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "email")
	// A wrong-typed auth field is a field error like on the resource routes.
	status, body = env.do(http.MethodPost, "/api/register", "", `{"name":"X","email":123,"password":"abcd","password_confirmation":"abcd"}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, false, body["status"])
	assert.Contains(t, body["errors"], "email")

	status, body = env.do(http.MethodPost, "/api/login", "", `{"email":"admin@example.com","password":42}`)
	require.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Contains(t, body["errors"], "password")

	status, body = env.do(http.MethodPost, "/api/login", "", `{"email":`)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON", body["message"])
}

func TestNonAdminCannotWriteKategori(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodPost, "/api/kategori", env.user, `{"kategori":"Rahasia"}`)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Akses ditolak: hanya admin yang dapat membuat Kategori.", body["message"])

	_, body = env.do(http.MethodGet, "/api/kategori", env.user, "")
	assert.Equal(t, float64(0), pageOf(body)["total"])

	id := env.createKategori("Umum")
	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/kategori/%d", id), env.user, "")
	assert.Equal(t, http.StatusForbidden, status)

	// Supplier writes are open to every authenticated user.
	env.createSupplier("PT Maju")
}

func TestUnauthenticatedRequests(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodGet, "/api/kategori", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, body["success"])

	status, _ = env.do(http.MethodGet, "/api/kategori", "not-a-token", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(http.MethodPost, "/api/login", "", `{"email":"admin@example.com","password":"salah"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Provided email or password is incorrect", body["message"])
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(http.MethodGet, "/api/me", env.user, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, model.RoleUser, body["user"].(map[string]interface{})["role"])

	status, _ = env.do(http.MethodPost, "/api/logout", env.user, "")
	require.Equal(t, http.StatusOK, status)

	status, _ = env.do(http.MethodGet, "/api/me", env.user, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	// Other sessions stay valid.
	status, _ = env.do(http.MethodGet, "/api/me", env.admin, "")
	assert.Equal(t, http.StatusOK, status)
}

func TestBarangCascadeAndLookups(t *testing.T) {
	env := newTestEnv(t)
	k1 := env.createKategori("Alat Tulis")
	k2 := env.createKategori("Elektronik")
	s1 := env.createSupplier("PT Sumber")

	b1 := env.createBarang("Pensil", k1, s1, 2, 5)
	env.createBarang("Pulpen", k1, s1, 10, 5)
	env.createBarang("Kabel", k2, s1, 3, 1)

	status, body := env.do(http.MethodGet, fmt.Sprintf("/api/barang/%d", b1), env.user, "")
	require.Equal(t, http.StatusOK, status)
	assert.Regexp(t, fmt.Sprintf(`^K%dS%d01\d{6}$`, k1, s1), body["kode"])
	assert.Equal(t, "Alat Tulis", body["kategori"].(map[string]interface{})["label"])
	assert.Equal(t, true, body["low_stock"])

	_, body = env.do(http.MethodGet, "/api/barang?low_stock=1", env.user, "")
	assert.Equal(t, float64(1), pageOf(body)["total"])

	_, body = env.do(http.MethodGet, fmt.Sprintf("/api/barang?kategori_id=%d", k1), env.user, "")
	assert.Equal(t, float64(2), pageOf(body)["total"])

	_, body = env.do(http.MethodGet, "/api/barang/listkategori", env.user, "")
	lookups := body["data"].([]interface{})
	require.Len(t, lookups, 2)
	assert.Contains(t, lookups[0].(map[string]interface{}), "label")

	_, body = env.do(http.MethodGet, "/api/barang/listsupplier", env.user, "")
	assert.Len(t, body["data"].([]interface{}), 1)

	status, _ = env.do(http.MethodDelete, fmt.Sprintf("/api/kategori/%d", k1), env.admin, "")
	require.Equal(t, http.StatusOK, status)

	_, body = env.do(http.MethodGet, "/api/barang", env.user, "")
	assert.Equal(t, float64(1), pageOf(body)["total"])

	status, _ = env.do(http.MethodGet, fmt.Sprintf("/api/barang/%d", b1), env.user, "")
	assert.Equal(t, http.StatusNotFound, status)

	_, body = env.do(http.MethodGet, "/api/dashboard/stats", env.user, "")
	totals := body["data"].(map[string]interface{})["totals"].(map[string]interface{})
	assert.Equal(t, float64(1), totals["total_barang"])
}

func TestNonAdminCannotWriteBarang(t *testing.T) {
	env := newTestEnv(t)
	k := env.createKategori("Umum")
	s := env.createSupplier("CV Jaya")

	status, _ := env.do(http.MethodPost, "/api/barang", env.user,
		fmt.Sprintf(`{"nama":"Palu","kategori_id":%d,"supplier_id":%d,"satuan":"Unit"}`, k, s))
	assert.Equal(t, http.StatusForbidden, status)

	_, body := env.do(http.MethodGet, "/api/barang", env.user, "")
	assert.Equal(t, float64(0), pageOf(body)["total"])
}
