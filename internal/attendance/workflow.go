package attendance

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/anuverse/teamops-backend/pkg/enums"
	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
)

// State is the check-in workflow phase.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingPhoto State = "awaiting_photo"
	StateSubmitting    State = "submitting"
	StateSuccess       State = "success"
	StateFailed        State = "failed"
)

// SuccessCloseDelay is how long clients keep the success view on screen
// before the workflow closes.
const SuccessCloseDelay = 2000 * time.Millisecond

type checkinSubmitter interface {
	CheckIn(ctx context.Context, input CheckinInput) (*AttendanceDTO, error)
}

// Workflow drives one user's check-in from open to success or failure.
// Transitions: Idle -> AwaitingPhoto -> Submitting -> Success | Failed.
// Failed still accepts a retry Submit; Success is terminal.
type Workflow struct {
	mu       sync.Mutex
	state    State
	userID   uuid.UUID
	svc      checkinSubmitter
	geo      geocoder
	resolver *Resolver
}

// NewWorkflow builds an idle workflow for one user.
func NewWorkflow(svc checkinSubmitter, geo geocoder, userID uuid.UUID) *Workflow {
	return &Workflow{
		state:  StateIdle,
		userID: userID,
		svc:    svc,
		geo:    geo,
	}
}

// State reports the current phase.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Open starts location resolution in the background and readies the
// workflow for a photo. The resolver result is never awaited.
func (w *Workflow) Open(ctx context.Context, coords *Coordinates, locationSupported bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateIdle {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "check-in already open")
	}
	w.resolver = StartResolver(ctx, w.geo, coords, locationSupported)
	w.state = StateAwaitingPhoto
	return nil
}

// Submit uploads the photo and records the check-in. The location is
// whatever the resolver has produced by now. A second Submit while one is
// in flight is rejected, and a Submit after success is rejected.
func (w *Workflow) Submit(ctx context.Context, photo io.Reader, contentType string) (*AttendanceDTO, error) {
	w.mu.Lock()
	switch w.state {
	case StateSubmitting:
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission already in progress")
	case StateSuccess:
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "check-in already recorded")
	case StateIdle:
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "check-in not open")
	}
	if photo == nil {
		// Missing photo is not a transition: the workflow keeps waiting.
		w.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Photo required")
	}
	resolver := w.resolver
	w.state = StateSubmitting
	w.mu.Unlock()

	location := ""
	if resolver != nil {
		location = resolver.Current()
	}
	dto, err := w.svc.CheckIn(ctx, CheckinInput{
		UserID:      w.userID,
		Photo:       photo,
		ContentType: contentType,
		Location:    location,
		Timestamp:   time.Now().UTC(),
		Method:      enums.CheckinMethodWeb,
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.state = StateFailed
		return nil, err
	}
	w.state = StateSuccess
	return dto, nil
}

// WaitLocation blocks until the resolver finishes or the head start
// elapses, whichever comes first. Submit never requires this; it reads
// whatever the resolver has at that moment.
func (w *Workflow) WaitLocation(ctx context.Context, headStart time.Duration) {
	w.mu.Lock()
	resolver := w.resolver
	w.mu.Unlock()
	if resolver == nil || headStart <= 0 {
		return
	}
	timer := time.NewTimer(headStart)
	defer timer.Stop()
	select {
	case <-resolver.Done():
	case <-timer.C:
	case <-ctx.Done():
	}
}

// Close abandons an open workflow. The pending resolver lookup is
// cancelled; an in-flight submission is left to finish.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateSubmitting {
		return
	}
	if w.resolver != nil {
		w.resolver.Abandon()
		w.resolver = nil
	}
	w.state = StateIdle
}
