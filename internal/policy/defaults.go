package policy

// Resource names, matching the change feed.
const (
	ResourceKategori = "kategori"
	ResourceSupplier = "supplier"
	ResourceBarang   = "barang"
)

// Default returns the inventory gate: Kategori and Barang writes are admin-only,
// Supplier writes are open to any authenticated user.
func Default() *Gate {
	g := NewGate()

	g.Define(ResourceKategori, Create, AdminOnly("Akses ditolak: hanya admin yang dapat membuat Kategori."))
	g.Define(ResourceKategori, Update, AdminOnly("Akses ditolak: hanya admin yang dapat mengubah data Kategori."))
	g.Define(ResourceKategori, Delete, AdminOnly("Akses ditolak: hanya admin yang dapat menghapus Kategori."))
	g.Define(ResourceKategori, Restore, AdminOnly("Akses ditolak: hanya admin yang dapat memulihkan Kategori."))
	g.Define(ResourceKategori, ForceDelete, AdminOnly("Akses ditolak: hanya admin yang dapat menghapus Kategori secara permanen."))

	g.Define(ResourceBarang, Create, AdminOnly("Akses ditolak: hanya admin yang dapat menambah barang."))
	g.Define(ResourceBarang, Update, AdminOnly("Akses ditolak: hanya admin yang dapat mengubah data barang."))
	g.Define(ResourceBarang, Delete, AdminOnly("Akses ditolak: hanya admin yang dapat menghapus barang."))
	g.Define(ResourceBarang, Restore, AdminOnly("Akses ditolak: hanya admin yang dapat memulihkan barang."))
	g.Define(ResourceBarang, ForceDelete, AdminOnly("Akses ditolak: hanya admin yang dapat menghapus barang secara permanen."))

	return g
}
