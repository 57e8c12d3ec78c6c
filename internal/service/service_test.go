package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-inventory-api/internal/model"
	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/testutil"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/pagination"
)

type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(evt ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) last() ws.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

type fixture struct {
	db       *gorm.DB
	events   *recorder
	kategori ResourceService[model.Kategori]
	supplier ResourceService[model.Supplier]
	barang   ResourceService[model.Barang]
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	ev := &recorder{}
	kRepo := repository.NewKategoriRepo(db)
	sRepo := repository.NewSupplierRepo(db)
	bRepo := repository.NewBarangRepo(db)
	return &fixture{
		db:       db,
		events:   ev,
		kategori: NewKategoriService(kRepo, ev, nil),
		supplier: NewSupplierService(sRepo, ev, nil),
		barang:   NewBarangService(bRepo, kRepo, sRepo, ev, nil),
	}
}

var admin = Actor{ID: 1, Name: "Admin", Email: "admin@example.com"}

func validationErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Errors
}

func TestKategoriCreateReadRoundTrip(t *testing.T) {
	f := newFixture(t)

	created, err := f.kategori.Create([]byte(`{"kategori":"Elektronik"}`), admin)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, uint(1), created.CreatedBy)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := f.kategori.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elektronik", got.Kategori)

	evt := f.events.last()
	assert.Equal(t, ws.EventResourceChanged, evt.Type)
	assert.Equal(t, ResourceKategori, evt.Resource)
	assert.Equal(t, "created", evt.Action)
	assert.Equal(t, created.ID, evt.ID)
}

func TestKategoriCreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.kategori.Create([]byte(`{"kategori":"   "}`), admin)
	assert.Contains(t, validationErrors(t, err), "kategori")

	_, err = f.kategori.Create([]byte(`{"kategori":12}`), admin)
	assert.Contains(t, validationErrors(t, err), "kategori")

	_, err = f.kategori.Create([]byte(`{"kategori":`), admin)
	assert.ErrorIs(t, err, ErrMalformedBody)

	_, err = f.kategori.Create([]byte(`[1,2]`), admin)
	assert.ErrorIs(t, err, ErrMalformedBody)

	n, err := repository.NewKategoriRepo(f.db).Count()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.events.events)
}

func TestSupplierEmailOptionalButValid(t *testing.T) {
	f := newFixture(t)

	_, err := f.supplier.Create([]byte(`{"supplier":"PT A","kontak":"0812"}`), admin)
	require.NoError(t, err)

	_, err = f.supplier.Create([]byte(`{"supplier":"PT B","kontak":"0812","email":"bukan-email"}`), admin)
	assert.Contains(t, validationErrors(t, err), "email")

	_, err = f.supplier.Create([]byte(`{"alamat":"Jl. Mawar"}`), admin)
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "supplier")
	assert.Contains(t, errs, "kontak")
}

func TestUpdateChangesOnlySuppliedFields(t *testing.T) {
	f := newFixture(t)

	s, err := f.supplier.Create([]byte(`{"supplier":"PT A","kontak":"0812","alamat":"Jl. Mawar"}`), admin)
	require.NoError(t, err)

	updated, err := f.supplier.Update(s.ID, []byte(`{"kontak":"0899"}`), Actor{ID: 2, Name: "Budi"})
	require.NoError(t, err)
	assert.Equal(t, "0899", updated.Kontak)
	assert.Equal(t, "PT A", updated.Supplier)
	assert.Equal(t, "Jl. Mawar", updated.Alamat)
	assert.Equal(t, uint(1), updated.CreatedBy)
	assert.Equal(t, uint(2), updated.UpdatedBy)
	assert.Equal(t, "updated", f.events.last().Action)
}

func TestUpdateIsIdempotent(t *testing.T) {
	f := newFixture(t)

	k, err := f.kategori.Create([]byte(`{"kategori":"A"}`), admin)
	require.NoError(t, err)

	body := []byte(`{"kategori":"B"}`)
	first, err := f.kategori.Update(k.ID, body, admin)
	require.NoError(t, err)
	second, err := f.kategori.Update(k.ID, body, admin)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Kategori, second.Kategori)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestUpdateRejectsInvalidMerge(t *testing.T) {
	f := newFixture(t)

	k, err := f.kategori.Create([]byte(`{"kategori":"A"}`), admin)
	require.NoError(t, err)

	_, err = f.kategori.Update(k.ID, []byte(`{"kategori":""}`), admin)
	assert.Contains(t, validationErrors(t, err), "kategori")

	got, err := f.kategori.Get(k.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Kategori)

	_, err = f.kategori.Update(999, []byte(`{"kategori":"B"}`), admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteThenGetIsNotFound(t *testing.T) {
	f := newFixture(t)

	k, err := f.kategori.Create([]byte(`{"kategori":"A"}`), admin)
	require.NoError(t, err)

	_, err = f.kategori.Delete(k.ID, admin)
	require.NoError(t, err)

	_, err = f.kategori.Get(k.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.kategori.Delete(k.ID, admin)
	assert.ErrorIs(t, err, ErrNotFound)
}

func createKategoriSupplier(t *testing.T, f *fixture) (model.Kategori, model.Supplier) {
	t.Helper()
	k, err := f.kategori.Create([]byte(`{"kategori":"Elektronik"}`), admin)
	require.NoError(t, err)
	s, err := f.supplier.Create([]byte(`{"supplier":"PT Maju","kontak":"0812"}`), admin)
	require.NoError(t, err)
	return *k, *s
}

func TestBarangCreateGeneratesKode(t *testing.T) {
	f := newFixture(t)
	k, s := createKategoriSupplier(t, f)

	body := fmt.Sprintf(`{"nama":"Kabel","kategori_id":%d,"supplier_id":%d,"satuan":"Pcs","stok":4,"stok_minimum":10}`, k.ID, s.ID)
	b, err := f.barang.Create([]byte(body), admin)
	require.NoError(t, err)

	now := time.Now()
	assert.Equal(t, GenerateKode(k.ID, s.ID, 1, now), b.Kode)
	require.NotNil(t, b.Kategori)
	assert.Equal(t, "Elektronik", b.Kategori.Kategori)
	assert.True(t, b.LowStock())

	second, err := f.barang.Create([]byte(body), admin)
	require.NoError(t, err)
	assert.Equal(t, GenerateKode(k.ID, s.ID, 2, now), second.Kode)
}

func TestBarangCreateValidation(t *testing.T) {
	f := newFixture(t)
	k, s := createKategoriSupplier(t, f)

	_, err := f.barang.Create([]byte(`{"nama":"X","kategori_id":999,"supplier_id":998,"satuan":"Box","stok":-1}`), admin)
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "kategori_id")
	assert.Contains(t, errs, "supplier_id")
	assert.Contains(t, errs, "satuan")
	assert.Contains(t, errs, "stok")

	_, err = f.barang.Create([]byte(`{"nama":"X","kategori_id":"satu","supplier_id":1,"satuan":"KG"}`), admin)
	assert.Contains(t, validationErrors(t, err), "kategori_id")

	ok := fmt.Sprintf(`{"kode":"BRG-1","nama":"X","kategori_id":%d,"supplier_id":%d,"satuan":"KG","gambar":"https://img.example.com/x.png"}`, k.ID, s.ID)
	_, err = f.barang.Create([]byte(ok), admin)
	require.NoError(t, err)

	_, err = f.barang.Create([]byte(ok), admin)
	assert.Equal(t, []string{"kode sudah digunakan."}, validationErrors(t, err)["kode"])
}

func TestBarangUpdateKeepsKodeUnique(t *testing.T) {
	f := newFixture(t)
	k, s := createKategoriSupplier(t, f)

	mk := func(kode string) *model.Barang {
		b, err := f.barang.Create([]byte(fmt.Sprintf(`{"kode":%q,"nama":"X","kategori_id":%d,"supplier_id":%d,"satuan":"Unit"}`, kode, k.ID, s.ID)), admin)
		require.NoError(t, err)
		return b
	}
	a := mk("A-1")
	mk("B-1")

	_, err := f.barang.Update(a.ID, []byte(`{"kode":"B-1"}`), admin)
	assert.Contains(t, validationErrors(t, err), "kode")

	_, err = f.barang.Update(a.ID, []byte(`{"kode":""}`), admin)
	assert.Contains(t, validationErrors(t, err), "kode")

	// Re-sending its own kode is fine.
	updated, err := f.barang.Update(a.ID, []byte(`{"kode":"A-1","stok":9}`), admin)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stok)
}

// staleKodeCheck answers every uniqueness check as if the kode were free,
// like a concurrent writer inserting between the check and the insert.
type staleKodeCheck struct {
	repository.BarangRepository
}

func (staleKodeCheck) KodeTaken(string, uint) (bool, error) {
	return false, nil
}

func TestBarangDuplicateKodeAtInsertIsFieldError(t *testing.T) {
	f := newFixture(t)
	k, s := createKategoriSupplier(t, f)
	kRepo := repository.NewKategoriRepo(f.db)
	sRepo := repository.NewSupplierRepo(f.db)
	racy := NewBarangService(staleKodeCheck{repository.NewBarangRepo(f.db)}, kRepo, sRepo, nil, nil)

	body := []byte(fmt.Sprintf(`{"kode":"DUP-1","nama":"X","kategori_id":%d,"supplier_id":%d,"satuan":"Unit"}`, k.ID, s.ID))
	_, err := racy.Create(body, admin)
	require.NoError(t, err)

	_, err = racy.Create(body, admin)
	assert.Equal(t, []string{"kode sudah digunakan."}, validationErrors(t, err)["kode"])

	other, err := racy.Create([]byte(fmt.Sprintf(`{"kode":"DUP-2","nama":"Y","kategori_id":%d,"supplier_id":%d,"satuan":"Unit"}`, k.ID, s.ID)), admin)
	require.NoError(t, err)
	_, err = racy.Update(other.ID, []byte(`{"kode":"DUP-1"}`), admin)
	assert.Contains(t, validationErrors(t, err), "kode")
}

func TestKategoriDeleteCascadesAndReportsCount(t *testing.T) {
	f := newFixture(t)
	k, s := createKategoriSupplier(t, f)

	for i := 0; i < 3; i++ {
		_, err := f.barang.Create([]byte(fmt.Sprintf(`{"nama":"B%d","kategori_id":%d,"supplier_id":%d,"satuan":"Pcs"}`, i, k.ID, s.ID)), admin)
		require.NoError(t, err)
	}

	cascaded, err := f.kategori.Delete(k.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, int64(3), cascaded)

	evt := f.events.last()
	assert.Equal(t, "deleted", evt.Action)
	assert.Equal(t, int64(3), evt.Cascaded)

	page, err := f.barang.List(pagination.NewPageRequest(1, 10, ""))
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}
