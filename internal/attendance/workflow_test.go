package attendance

import (
	"context"
	"fmt"
	"strings"
	"testing"

	pkgerrors "github.com/anuverse/teamops-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubSubmitter struct {
	dto     *AttendanceDTO
	err     error
	inputs  []CheckinInput
	release chan struct{}
	started chan struct{}
}

func (s *stubSubmitter) CheckIn(ctx context.Context, input CheckinInput) (*AttendanceDTO, error) {
	s.inputs = append(s.inputs, input)
	if s.started != nil {
		close(s.started)
		s.started = nil
	}
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.dto, nil
}

func TestWorkflowHappyPath(t *testing.T) {
	userID := uuid.New()
	svc := &stubSubmitter{dto: &AttendanceDTO{UserID: userID}}
	w := NewWorkflow(svc, nil, userID)

	if w.State() != StateIdle {
		t.Fatalf("expected idle start, got %s", w.State())
	}
	if err := w.Open(context.Background(), &Coordinates{Lat: 1, Lng: 2}, true); err != nil {
		t.Fatalf("open: %v", err)
	}
	if w.State() != StateAwaitingPhoto {
		t.Fatalf("expected awaiting photo, got %s", w.State())
	}

	dto, err := w.Submit(context.Background(), strings.NewReader("jpeg-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if dto.UserID != userID {
		t.Fatalf("unexpected dto user %s", dto.UserID)
	}
	if w.State() != StateSuccess {
		t.Fatalf("expected success, got %s", w.State())
	}

	input := svc.inputs[0]
	if input.Location != "1.0000, 2.0000" {
		t.Fatalf("expected resolver location passed through, got %q", input.Location)
	}
	if input.Method != "web" {
		t.Fatalf("expected web method, got %s", input.Method)
	}
}

func TestWorkflowSubmitWithoutPhoto(t *testing.T) {
	svc := &stubSubmitter{}
	w := NewWorkflow(svc, nil, uuid.New())
	if err := w.Open(context.Background(), nil, true); err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err := w.Submit(context.Background(), nil, "")
	if err == nil {
		t.Fatalf("expected photo validation error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "Photo required" {
		t.Fatalf("expected photo message, got %q", typed.Message())
	}
	if w.State() != StateAwaitingPhoto {
		t.Fatalf("missing photo must not change state, got %s", w.State())
	}
	if len(svc.inputs) != 0 {
		t.Fatalf("expected upload path to never run without a photo")
	}
}

func TestWorkflowSingleFlightSubmit(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &stubSubmitter{dto: &AttendanceDTO{}, release: release, started: started}
	w := NewWorkflow(svc, nil, uuid.New())
	if err := w.Open(context.Background(), nil, true); err != nil {
		t.Fatalf("open: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background(), strings.NewReader("photo"), "image/jpeg")
		errCh <- err
	}()
	<-started

	_, err := w.Submit(context.Background(), strings.NewReader("photo-again"), "image/jpeg")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for concurrent submit, got %v", err)
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(svc.inputs) != 1 {
		t.Fatalf("expected exactly one submission, got %d", len(svc.inputs))
	}
}

func TestWorkflowFailureIsRetryable(t *testing.T) {
	svc := &stubSubmitter{err: fmt.Errorf("bucket unavailable")}
	w := NewWorkflow(svc, nil, uuid.New())
	if err := w.Open(context.Background(), nil, true); err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := w.Submit(context.Background(), strings.NewReader("photo"), ""); err == nil {
		t.Fatalf("expected submit failure")
	}
	if w.State() != StateFailed {
		t.Fatalf("expected failed state, got %s", w.State())
	}

	svc.err = nil
	svc.dto = &AttendanceDTO{}
	if _, err := w.Submit(context.Background(), strings.NewReader("photo"), ""); err != nil {
		t.Fatalf("retry submit: %v", err)
	}
	if w.State() != StateSuccess {
		t.Fatalf("expected success after retry, got %s", w.State())
	}
}

func TestWorkflowSuccessIsTerminal(t *testing.T) {
	svc := &stubSubmitter{dto: &AttendanceDTO{}}
	w := NewWorkflow(svc, nil, uuid.New())
	if err := w.Open(context.Background(), nil, true); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := w.Submit(context.Background(), strings.NewReader("photo"), ""); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := w.Submit(context.Background(), strings.NewReader("photo"), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict after success, got %v", err)
	}
}

func TestWorkflowCloseBeforeSubmit(t *testing.T) {
	release := make(chan struct{})
	geo := &stubGeocoder{release: release}
	w := NewWorkflow(&stubSubmitter{}, geo, uuid.New())
	if err := w.Open(context.Background(), &Coordinates{Lat: 9, Lng: 9}, true); err != nil {
		t.Fatalf("open: %v", err)
	}

	w.Close()
	if w.State() != StateIdle {
		t.Fatalf("expected idle after close, got %s", w.State())
	}

	_, err := w.Submit(context.Background(), strings.NewReader("photo"), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected closed workflow to reject submit, got %v", err)
	}
}
