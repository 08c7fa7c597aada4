package signup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/stageshow/internal/clock"
	"github.com/san-kum/stageshow/internal/surface"
)

type fakeSubmitter struct {
	err     error
	numbers chan string
}

func (f *fakeSubmitter) Submit(_ context.Context, number string) error {
	f.numbers <- number
	return f.err
}

// syncDispatch collects dispatched funcs so the test can run them on its
// own goroutine, the way an event loop would.
type syncDispatch chan func()

func (d syncDispatch) post(fn func()) { d <- fn }

func (d syncDispatch) drain(t *testing.T) {
	t.Helper()
	select {
	case fn := <-d:
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("no reply dispatched")
	}
}

func setup(t *testing.T, sub *fakeSubmitter) (*surface.Screen, *Form, syncDispatch) {
	t.Helper()
	scr := surface.NewScreen(80, 24, clock.NewManual(time.Unix(0, 0)), surface.GetTheme(""))
	n := surface.NewText(surface.Plain("We'll text you tomorrow."), surface.Style{})
	n.ID = "gimme"
	scr.Append(n)

	d := make(syncDispatch, 1)
	f := NewForm(context.Background(), scr, sub, d.post, "gimme", "1-508-222-3333")
	f.Arm()
	return scr, f, d
}

func TestFormArm(t *testing.T) {
	scr, _, _ := setup(t, &fakeSubmitter{numbers: make(chan string, 1)})
	n := scr.Find("gimme")
	if n.Field == nil {
		t.Fatal("field not attached")
	}
	if n.Field.Placeholder != "1-508-222-3333" {
		t.Errorf("placeholder = %q", n.Field.Placeholder)
	}
	if !scr.Focused() {
		t.Error("field not focused")
	}
}

func TestFormArm_MissingNode(t *testing.T) {
	scr := surface.NewScreen(80, 24, clock.NewManual(time.Unix(0, 0)), surface.GetTheme(""))
	f := NewForm(context.Background(), scr, &fakeSubmitter{}, func(func()) {}, "gimme", "")
	f.Arm()
	if scr.Focused() {
		t.Error("focused without a node")
	}
}

func TestFormSubmit_Invalid(t *testing.T) {
	sub := &fakeSubmitter{numbers: make(chan string, 1)}
	scr, f, _ := setup(t, sub)
	scr.Type([]rune("12")...)
	scr.Submit()

	if got := scr.Find("gimme").Field.Status; got != statusInvalid {
		t.Errorf("status = %q", got)
	}
	if f.Done() {
		t.Error("form done after invalid input")
	}
	select {
	case n := <-sub.numbers:
		t.Errorf("submitted %q", n)
	default:
	}
}

func TestFormSubmit_Accepted(t *testing.T) {
	sub := &fakeSubmitter{numbers: make(chan string, 1)}
	scr, f, d := setup(t, sub)
	scr.Type([]rune("1-508-222-3333")...)
	scr.Submit()

	if got := <-sub.numbers; got != "5082223333" {
		t.Errorf("submitted %q", got)
	}
	d.drain(t)

	if !f.Done() {
		t.Fatal("form not done")
	}
	nodes := scr.Nodes()
	if len(nodes) != 1 {
		t.Fatalf("nodes = %d, want farewell card only", len(nodes))
	}
	if !strings.Contains(nodes[0].Text(), "See you tomorrow!") {
		t.Errorf("card = %q", nodes[0].Text())
	}
	if scr.Focused() {
		t.Error("input still focused after farewell")
	}
}

func TestFormSubmit_FailureAllowsRetry(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("offline"), numbers: make(chan string, 2)}
	scr, f, d := setup(t, sub)
	scr.Type([]rune("5082223333")...)
	scr.Submit()
	<-sub.numbers
	d.drain(t)

	if f.Done() {
		t.Fatal("done after failure")
	}
	if got := scr.Find("gimme").Field.Status; got != statusFailed {
		t.Errorf("status = %q", got)
	}

	sub.err = nil
	scr.Submit()
	<-sub.numbers
	d.drain(t)
	if !f.Done() {
		t.Error("retry did not complete")
	}
}
