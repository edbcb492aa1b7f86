package optimistic

import (
	"context"
	"errors"
	"testing"
)

func TestDo_SuccessKeepsChange(t *testing.T) {
	t.Parallel()
	total := 5.0
	err := Do(context.Background(), Mutation[float64]{
		Snapshot: func() float64 { return total },
		Apply:    func() error { total = 7.5; return nil },
		Restore:  func(pre float64) { total = pre },
	}, func(context.Context) error { return nil })

	if err != nil || total != 7.5 {
		t.Fatalf("err = %v total = %v", err, total)
	}
}

func TestDo_FailureRestoresPreImage(t *testing.T) {
	t.Parallel()
	total := 5.0
	opErr := errors.New("server rejected")
	err := Do(context.Background(), Mutation[float64]{
		Snapshot: func() float64 { return total },
		Apply:    func() error { total = 7.5; return nil },
		Restore:  func(pre float64) { total = pre },
	}, func(context.Context) error { return opErr })

	if !errors.Is(err, opErr) {
		t.Fatalf("err = %v, want op error unchanged", err)
	}
	if total != 5.0 {
		t.Fatalf("total = %v, want pre-image restored", total)
	}
}

func TestDo_ApplyErrorSkipsOp(t *testing.T) {
	t.Parallel()
	applyErr := errors.New("slot taken")
	opRan := false
	err := Do(context.Background(), Mutation[struct{}]{
		Snapshot: func() struct{} { return struct{}{} },
		Apply:    func() error { return applyErr },
		Restore:  func(struct{}) {},
	}, func(context.Context) error { opRan = true; return nil })

	if !errors.Is(err, applyErr) || opRan {
		t.Fatalf("err = %v opRan = %v", err, opRan)
	}
}
