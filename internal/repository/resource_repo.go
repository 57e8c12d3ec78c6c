package repository

import (
	"errors"
	"fmt"
	"strings"

	"go-inventory-api/pkg/pagination"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Dependent is a table whose rows reference the resource and are deleted with it.
type Dependent struct {
	Model  func() interface{}
	Column string
}

// Schema tells the generic repository how to search, load and delete a resource.
type Schema struct {
	SearchColumns []string
	Preloads      []string
	Dependents    []Dependent
}

// Scope narrows a list query (extra filters next to the search).
type Scope = func(*gorm.DB) *gorm.DB

type ResourceRepository[T any] interface {
	Paginate(req pagination.PageRequest, scopes ...Scope) (*pagination.Page[T], error)
	FindByID(id uint) (*T, error)
	Create(entity *T) error
	Update(id uint, fields map[string]interface{}) error
	// Delete removes the row and its dependents in one transaction and
	// returns how many dependent rows went with it.
	Delete(id uint) (int64, error)
	Count() (int64, error)
}

type resourceRepo[T any] struct {
	db     *gorm.DB
	schema Schema
}

func NewResourceRepo[T any](db *gorm.DB, schema Schema) ResourceRepository[T] {
	return &resourceRepo[T]{db: db, schema: schema}
}

func (r *resourceRepo[T]) filtered(req pagination.PageRequest, scopes []Scope) *gorm.DB {
	q := r.db.Model(new(T)).Scopes(scopes...)
	if req.Search != "" && len(r.schema.SearchColumns) > 0 {
		q = q.Scopes(searchScope(r.schema.SearchColumns, req.Search))
	}
	return q
}

func (r *resourceRepo[T]) preload(q *gorm.DB) *gorm.DB {
	for _, p := range r.schema.Preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *resourceRepo[T]) Paginate(req pagination.PageRequest, scopes ...Scope) (*pagination.Page[T], error) {
	var total int64
	if err := r.filtered(req, scopes).Count(&total).Error; err != nil {
		return nil, err
	}
	if req.Beyond(total) {
		return pagination.NewPage[T](nil, req, total), nil
	}

	var rows []T
	err := r.preload(r.filtered(req, scopes)).
		Order("updated_at DESC").
		Order("id ASC").
		Offset(req.Offset()).
		Limit(req.PerPage).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return pagination.NewPage(rows, req, total), nil
}

func (r *resourceRepo[T]) FindByID(id uint) (*T, error) {
	entity := new(T)
	if err := r.preload(r.db).First(entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return entity, nil
}

func (r *resourceRepo[T]) Create(entity *T) error {
	return translate(r.db.Create(entity).Error)
}

// Update writes only the given columns; existence is checked by the caller.
func (r *resourceRepo[T]) Update(id uint, fields map[string]interface{}) error {
	return translate(r.db.Model(new(T)).Where("id = ?", id).Updates(fields).Error)
}

func (r *resourceRepo[T]) Delete(id uint) (int64, error) {
	var cascaded int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		for _, dep := range r.schema.Dependents {
			res := tx.Where(dep.Column+" = ?", id).Delete(dep.Model())
			if res.Error != nil {
				return fmt.Errorf("cascade delete on %s: %w", dep.Column, res.Error)
			}
			cascaded += res.RowsAffected
		}

		return tx.Delete(new(T), "id = ?", id).Error
	})
	if err != nil {
		return 0, err
	}
	return cascaded, nil
}

func (r *resourceRepo[T]) Count() (int64, error) {
	var n int64
	err := r.db.Model(new(T)).Count(&n).Error
	return n, err
}

// searchScope matches the term as a case-insensitive substring of any column.
func searchScope(columns []string, search string) Scope {
	pattern := pagination.LikePattern(search)
	return func(db *gorm.DB) *gorm.DB {
		conds := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			conds[i] = fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", col)
			args[i] = pattern
		}
		return db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}

// translate maps a unique index violation to ErrDuplicate, whichever driver raised it.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	msg := strings.ToLower(err.Error())
	// sqlite: "UNIQUE constraint failed", postgres: "duplicate key value", mysql: "Duplicate entry"
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") || strings.Contains(msg, "duplicate entry") {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
