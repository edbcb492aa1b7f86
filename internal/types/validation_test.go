package types

import (
	"testing"

	apierrors "github.com/aminat2005/viva-sync/internal/errors"
)

func TestValidateStruct_CreateMeal(t *testing.T) {
	t.Parallel()

	ok := CreateMealRequest{Category: Lunch, Name: "Salad", Calories: 320, Date: "2026-08-31"}
	if err := ValidateStruct(ok); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	bad := CreateMealRequest{Category: "brunch", Name: "", Calories: -5, Date: "31/08/2026"}
	err := ValidateStruct(bad)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if apierrors.KindOf(err) != apierrors.KindValidation {
		t.Fatalf("kind = %s, want validation", apierrors.KindOf(err))
	}
	var e *apierrors.Error
	if !asAPIError(err, &e) || len(e.Fields) < 3 {
		t.Fatalf("expected per-field messages, got %+v", e)
	}
}

func TestValidateIDPresent(t *testing.T) {
	t.Parallel()
	if err := ValidateIDPresent("", "mealId"); apierrors.KindOf(err) != apierrors.KindValidation {
		t.Fatal("empty id must be a validation error")
	}
	if err := ValidateIDPresent("5", "mealId"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateDate(t *testing.T) {
	t.Parallel()
	if err := ValidateDate("2026-08-31"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDate("tomorrow"); err == nil {
		t.Fatal("expected validation error")
	}
}

func asAPIError(err error, target **apierrors.Error) bool {
	e, ok := err.(*apierrors.Error)
	if ok {
		*target = e
	}
	return ok
}
