package profile

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("stateful.profile")

// Updater is the remote side of an update.
type Updater interface {
	UpdateUser(ctx context.Context, user User, updates Updates) (User, error)
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc func(ctx context.Context, user User, updates Updates) (User, error)

// UpdateUser calls f.
func (f UpdaterFunc) UpdateUser(ctx context.Context, user User, updates Updates) (User, error) {
	return f(ctx, user, updates)
}

// Update drives one update through store: StartUpdate, then FinishUpdate
// with the updater's result or FailUpdate with the normalized error, which is
// also returned. A panic inside the updater is treated as a rejection.
//
// Update does not guard against a second call while one is pending.
func Update(ctx context.Context, store *Store, updater Updater, user User, updates Updates) (User, error) {
	ctx, span := tracer.Start(ctx, "profile.Update",
		trace.WithAttributes(attribute.String("profile.username", user.Username)))
	defer span.End()

	store.Dispatch(StartUpdate{Updates: updates})
	updated, err := callUpdater(ctx, updater, user, updates)
	if err != nil {
		perr := NormalizeError(err)
		store.Dispatch(FailUpdate{Err: perr})
		span.RecordError(perr)
		span.SetStatus(codes.Error, perr.Message)
		return User{}, perr
	}
	store.Dispatch(FinishUpdate{Updated: updated})
	return updated, nil
}

func callUpdater(ctx context.Context, updater Updater, user User, updates Updates) (updated User, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NormalizeError(r)
		}
	}()
	return updater.UpdateUser(ctx, user, updates)
}
