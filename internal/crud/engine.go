package crud

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/pkg/response"
)

// Event describes one committed mutation, published to the notifier after a
// successful create, update, delete or wipe.
type Event struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
}

// Notifier receives engine events. The websocket hub implements it; a nil
// notifier disables publishing.
type Notifier interface {
	Publish(event Event)
}

// Engine implements create/read/update/delete uniformly across every
// registered entity kind. All security-sensitive behaviors — field stripping,
// reference validation, wipe gating — live on this single code path.
type Engine struct {
	store        repository.Store
	registry     Registry
	elevatedRole string
	notifier     Notifier
}

// NewEngine wires the engine. elevatedRole gates the wipe mode locally,
// independent of whatever the authorization engine decided earlier.
func NewEngine(store repository.Store, registry Registry, elevatedRole string, notifier Notifier) *Engine {
	return &Engine{store: store, registry: registry, elevatedRole: elevatedRole, notifier: notifier}
}

func (e *Engine) publish(eventType string, desc Descriptor, id string) {
	if e.notifier != nil {
		e.notifier.Publish(Event{Type: eventType, Resource: desc.Table, ID: id})
	}
}

func (e *Engine) descriptor(kind model.Resource) (Descriptor, *response.Result) {
	desc, ok := e.registry.Lookup(kind)
	if !ok {
		res := response.Error(fmt.Sprintf("unregistered entity kind %q", kind))
		return Descriptor{}, &res
	}
	return desc, nil
}

// strip removes blacklisted fields in place and returns the record.
func strip(record map[string]any, blacklist []string) map[string]any {
	for _, field := range blacklist {
		delete(record, field)
	}
	return record
}

// List returns every record matching the caller-supplied query, with the
// kind's blacklist applied to each. An empty match set is a normal outcome.
func (e *Engine) List(ctx context.Context, kind model.Resource, q repository.ListQuery) response.Result {
	desc, fail := e.descriptor(kind)
	if fail != nil {
		return *fail
	}

	rows, err := e.store.Find(ctx, desc.Table, q)
	if err != nil {
		return response.Error(err.Error())
	}

	for _, row := range rows {
		strip(row, desc.Blacklist)
	}

	message := desc.Plural + " have been found"
	if len(rows) == 0 {
		message = desc.Plural + " list is empty"
	}
	return response.Found(message, rows, len(rows))
}

// GetByID distinguishes found from not-found; the latter is a negative result
// with its own status, not an error.
func (e *Engine) GetByID(ctx context.Context, kind model.Resource, id string) response.Result {
	desc, fail := e.descriptor(kind)
	if fail != nil {
		return *fail
	}

	row, err := e.store.FindByID(ctx, desc.Table, id)
	if err != nil {
		return response.Error(err.Error())
	}
	if row == nil {
		return response.NotFound(desc.Singular + " does not exist")
	}
	return response.FoundOne(desc.Singular+" has been found", strip(row, desc.Blacklist))
}

// resolvedRef is the outcome of one foreign-key lookup.
type resolvedRef struct {
	fk     ForeignKey
	record map[string]any
	miss   bool
	err    error
}

// resolveForeignKeys walks the declared foreign keys of the kind. Fields absent
// or empty in the payload are removed and left unset; fields carrying an id
// that fails to resolve produce a miss. Lookups for distinct fields run
// concurrently and all complete before the result is assembled.
func (e *Engine) resolveForeignKeys(ctx context.Context, desc Descriptor, payload map[string]any) ([]resolvedRef, *response.Result) {
	pending := make([]ForeignKey, 0, len(desc.ForeignKeys))
	for _, fk := range desc.ForeignKeys {
		raw, ok := payload[fk.Field]
		if !ok {
			continue
		}
		id, _ := raw.(string)
		if id == "" {
			// An empty reference is simply omitted, not an error.
			delete(payload, fk.Field)
			continue
		}
		pending = append(pending, fk)
	}

	results := make([]resolvedRef, len(pending))
	var wg sync.WaitGroup
	for i, fk := range pending {
		wg.Add(1)
		go func(i int, fk ForeignKey) {
			defer wg.Done()
			id, _ := payload[fk.Field].(string)
			target, lookupFail := e.descriptor(fk.Target)
			if lookupFail != nil {
				results[i] = resolvedRef{fk: fk, err: fmt.Errorf("unregistered foreign-key target %q", fk.Target)}
				return
			}
			record, err := e.store.FindByID(ctx, target.Table, id)
			if err != nil {
				results[i] = resolvedRef{fk: fk, err: err}
				return
			}
			if record == nil {
				results[i] = resolvedRef{fk: fk, miss: true}
				return
			}
			results[i] = resolvedRef{fk: fk, record: strip(record, fk.TargetBlacklist)}
		}(i, fk)
	}
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			res := response.Error(r.err.Error())
			return nil, &res
		}
		if r.miss {
			res := response.NotFound(r.fk.Field + " doesn't exist")
			return nil, &res
		}
	}
	return results, nil
}

// Create deep-copies the payload, resolves declared foreign keys, persists the
// assembled record and strips blacklisted fields from the response. A supplied
// reference that fails to resolve aborts the create with a not-found result.
func (e *Engine) Create(ctx context.Context, kind model.Resource, payload map[string]any) response.Result {
	desc, fail := e.descriptor(kind)
	if fail != nil {
		return *fail
	}

	record := clone(payload)
	refs, fail := e.resolveForeignKeys(ctx, desc, record)
	if fail != nil {
		return *fail
	}

	created, err := e.store.Create(ctx, desc.Table, record)
	if err != nil {
		return response.Error(err.Error())
	}

	strip(created, desc.Blacklist)
	for _, ref := range refs {
		created[ref.fk.Relation] = ref.record
	}

	id, _ := created["id"].(string)
	e.publish("created", desc, id)
	return response.Created(desc.Singular+" has been created successfully", created)
}

// Update requires the target to exist, resolves foreign keys over the patch,
// strips blacklisted fields from it and persists only the supplied fields.
// Fields absent from the patch are never overwritten.
func (e *Engine) Update(ctx context.Context, kind model.Resource, id string, patch map[string]any) response.Result {
	desc, fail := e.descriptor(kind)
	if fail != nil {
		return *fail
	}

	existing, err := e.store.FindByID(ctx, desc.Table, id)
	if err != nil {
		return response.Error(err.Error())
	}
	if existing == nil {
		return response.NotFound(desc.Singular + " does not exist")
	}

	changes := clone(patch)
	refs, fail := e.resolveForeignKeys(ctx, desc, changes)
	if fail != nil {
		return *fail
	}
	strip(changes, desc.Blacklist)
	delete(changes, "id")

	if _, err := e.store.UpdateByID(ctx, desc.Table, id, changes); err != nil {
		return response.Error(err.Error())
	}

	updated, err := e.store.FindByID(ctx, desc.Table, id)
	if err != nil {
		return response.Error(err.Error())
	}
	strip(updated, desc.Blacklist)
	for _, ref := range refs {
		updated[ref.fk.Relation] = ref.record
	}

	e.publish("updated", desc, id)
	return response.Updated(desc.Singular+" has been updated successfully", updated, changes)
}

// Delete removes a single record, or with wipe set destroys every row of the
// kind's table. Wipe is gated on the elevated role here regardless of the
// authorization engine's earlier verdict, because it is uniquely destructive.
func (e *Engine) Delete(ctx context.Context, kind model.Resource, id string, wipe bool, callerRole string) response.Result {
	desc, fail := e.descriptor(kind)
	if fail != nil {
		return *fail
	}

	if wipe && callerRole != e.elevatedRole {
		return response.Forbidden("Unauthorized, only admins can truncate tables")
	}

	record := map[string]any{}
	if id != "" {
		found, err := e.store.FindByID(ctx, desc.Table, id)
		if err != nil {
			return response.Error(err.Error())
		}
		if found == nil {
			return response.NotFound(desc.Singular + " does not exist")
		}
		record = strip(found, desc.Blacklist)
	}

	if wipe {
		if err := e.store.Truncate(ctx, desc.Table); err != nil {
			return response.Error(err.Error())
		}
		e.publish("wiped", desc, "")
		return response.Deleted(fmt.Sprintf("Table %q has been truncated", desc.Table), nil, record)
	}

	if id == "" {
		return response.BadRequest("id is required unless wipe is set")
	}

	affected, err := e.store.DeleteByID(ctx, desc.Table, id)
	if err != nil {
		return response.Error(err.Error())
	}

	e.publish("deleted", desc, id)
	return response.Deleted(desc.Singular+" has been deleted successfully", map[string]any{"rows_affected": affected}, record)
}

// clone shallow-copies a payload so resolution never mutates the caller's map.
func clone(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = v
	}
	return out
}
