package gomodel

// EventChange is the general change event, emitted once per committed
// mutation after all field-scoped events.
const EventChange = "change"

// FieldEvent returns the name of the change event scoped to key.
func FieldEvent(key string) string { return EventChange + ":" + key }

// ChangeEvent describes a committed mutation. Entity.Data() already
// returns the new snapshot when handlers run.
type ChangeEvent struct {
	Entity  *Entity
	Prev    *Snapshot
	Changes Changes
}

// ChangeHandler observes committed mutations.
type ChangeHandler func(ChangeEvent)

// On registers h for the named event. Handlers run synchronously in
// registration order.
func (e *Entity) On(event string, h ChangeHandler) {
	if e.listeners == nil {
		e.listeners = map[string][]ChangeHandler{}
	}
	e.listeners[event] = append(e.listeners[event], h)
}

// OnChange registers h for the general change event.
func (e *Entity) OnChange(h ChangeHandler) { e.On(EventChange, h) }

// OnFieldChange registers h for changes of key. key must be declared or
// accepted by the wildcard entry.
func (e *Entity) OnFieldChange(key string, h ChangeHandler) error {
	if _, err := e.resolve(key); err != nil {
		return err
	}
	e.On(FieldEvent(key), h)
	return nil
}

// emit notifies field-scoped handlers in change order, then general
// handlers.
func (e *Entity) emit(prev *Snapshot, changes Changes) {
	if len(e.listeners) == 0 {
		return
	}
	ev := ChangeEvent{Entity: e, Prev: prev, Changes: changes}
	for _, k := range changes.keys {
		for _, h := range e.listeners[FieldEvent(k)] {
			h(ev)
		}
	}
	for _, h := range e.listeners[EventChange] {
		h(ev)
	}
}
