package service

import (
	"errors"
	"fmt"
	"time"

	"go-inventory-api/internal/repository"
	"go-inventory-api/internal/ws"
	"go-inventory-api/pkg/pagination"
	"go-inventory-api/pkg/validator"

	"go.uber.org/zap"
)

// Actor is the authenticated user performing a mutation.
type Actor struct {
	ID    uint
	Name  string
	Email string
}

// EventPublisher receives change events after successful mutations.
type EventPublisher interface {
	Publish(evt ws.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(ws.Event) {}

// Definition describes how a resource is read from and written to its form.
type Definition[T any, F any] struct {
	Name    string
	NewForm func() *F
	// Load copies an existing row into the form before an update body is applied.
	Load  func(form *F, entity *T)
	Apply func(form *F, entity *T)
	// Values maps column names (which equal the JSON keys) to form values.
	Values func(form *F) map[string]interface{}
	// Check runs rules that need the store. id is 0 on create.
	Check        func(form *F, id uint) (validator.Errors, error)
	BeforeCreate func(form *F) error
	// Unique names the field reported when the store rejects a duplicate.
	Unique string
}

type ResourceService[T any] interface {
	Name() string
	List(req pagination.PageRequest, scopes ...repository.Scope) (*pagination.Page[T], error)
	Get(id uint) (*T, error)
	Create(body []byte, actor Actor) (*T, error)
	Update(id uint, body []byte, actor Actor) (*T, error)
	// Delete returns the number of dependent rows removed with the record.
	Delete(id uint, actor Actor) (int64, error)
}

type resourceService[T any, F any] struct {
	def    Definition[T, F]
	repo   repository.ResourceRepository[T]
	events EventPublisher
	log    *zap.Logger
}

func newResourceService[T any, F any](def Definition[T, F], repo repository.ResourceRepository[T], events EventPublisher, log *zap.Logger) ResourceService[T] {
	if events == nil {
		events = nopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &resourceService[T, F]{def: def, repo: repo, events: events, log: log.With(zap.String("resource", def.Name))}
}

func (s *resourceService[T, F]) Name() string {
	return s.def.Name
}

func (s *resourceService[T, F]) List(req pagination.PageRequest, scopes ...repository.Scope) (*pagination.Page[T], error) {
	return s.repo.Paginate(req, scopes...)
}

func (s *resourceService[T, F]) Get(id uint) (*T, error) {
	entity, err := s.repo.FindByID(id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return entity, nil
}

func (s *resourceService[T, F]) Create(body []byte, actor Actor) (*T, error) {
	form := s.def.NewForm()
	_, errs, err := decodeBody(body, form)
	if err != nil {
		return nil, err
	}
	if err := s.validate(form, 0, errs); err != nil {
		return nil, err
	}

	if s.def.BeforeCreate != nil {
		if err := s.def.BeforeCreate(form); err != nil {
			return nil, err
		}
	}

	entity := new(T)
	s.def.Apply(form, entity)
	stamp(entity, actor.ID, true)

	if err := s.repo.Create(entity); err != nil {
		if verr := s.duplicate(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("create %s: %w", s.def.Name, err)
	}

	id := idOf(entity)
	s.log.Info("resource created", zap.Uint("id", id), zap.Uint("user_id", actor.ID))
	s.publish("created", id, 0, actor)

	// Reload so relations are resolved the same way as on read.
	return s.Get(id)
}

func (s *resourceService[T, F]) Update(id uint, body []byte, actor Actor) (*T, error) {
	existing, err := s.repo.FindByID(id)
	if err != nil {
		return nil, mapRepoErr(err)
	}

	form := s.def.NewForm()
	s.def.Load(form, existing)

	keys, errs, err := decodeBody(body, form)
	if err != nil {
		return nil, err
	}
	if err := s.validate(form, id, errs); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	for col, val := range s.def.Values(form) {
		if _, ok := keys[col]; ok {
			fields[col] = val
		}
	}
	fields["updated_at"] = time.Now()
	if actor.ID != 0 {
		fields["updated_by"] = actor.ID
	}

	if err := s.repo.Update(id, fields); err != nil {
		if verr := s.duplicate(err); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("update %s %d: %w", s.def.Name, id, err)
	}

	s.log.Info("resource updated", zap.Uint("id", id), zap.Int("fields", len(fields)-1), zap.Uint("user_id", actor.ID))
	s.publish("updated", id, 0, actor)

	return s.Get(id)
}

func (s *resourceService[T, F]) Delete(id uint, actor Actor) (int64, error) {
	cascaded, err := s.repo.Delete(id)
	if err != nil {
		return 0, mapRepoErr(err)
	}

	s.log.Info("resource deleted", zap.Uint("id", id), zap.Int64("cascaded", cascaded), zap.Uint("user_id", actor.ID))
	s.publish("deleted", id, cascaded, actor)
	return cascaded, nil
}

func (s *resourceService[T, F]) validate(form *F, id uint, errs validator.Errors) error {
	if errs == nil {
		errs = validator.Errors{}
	}
	errs.Merge(validator.ValidateStruct(form))

	if s.def.Check != nil {
		extra, err := s.def.Check(form, id)
		if err != nil {
			return err
		}
		errs.Merge(extra)
	}
	return newValidationError(errs)
}

// duplicate turns a unique index violation into a field error on def.Unique.
func (s *resourceService[T, F]) duplicate(err error) error {
	if s.def.Unique == "" || !errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	errs := validator.Errors{}
	errs.Add(s.def.Unique, s.def.Unique+" sudah digunakan.")
	return newValidationError(errs)
}

func (s *resourceService[T, F]) publish(action string, id uint, cascaded int64, actor Actor) {
	evt := ws.Event{
		Type:     ws.EventResourceChanged,
		Resource: s.def.Name,
		Action:   action,
		ID:       id,
		Cascaded: cascaded,
	}
	if actor.ID != 0 {
		evt.User = &ws.Actor{ID: actor.ID, Name: actor.Name, Email: actor.Email}
		evt.Message = fmt.Sprintf("%s %s %s #%d", actor.Name, action, s.def.Name, id)
	}
	s.events.Publish(evt)
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func idOf(entity interface{}) uint {
	if e, ok := entity.(interface{ GetID() uint }); ok {
		return e.GetID()
	}
	return 0
}

func stamp(entity interface{}, userID uint, creating bool) {
	if e, ok := entity.(interface{ Stamp(uint, bool) }); ok {
		e.Stamp(userID, creating)
	}
}
