package ui

import (
	"testing"

	"possu/internal/calendar"
)

func TestOptionBuilders(t *testing.T) {
	o := OptionFromString("Food")
	if o.Value != "Food" || o.Text != "Food" || o.Selected || o.Disabled {
		t.Fatalf("unexpected option %+v", o)
	}
	for _, want := range []bool{true, false} {
		if got := o.WithSelected(want).Selected; got != want {
			t.Fatalf("WithSelected(%v) = %v", want, got)
		}
		if got := o.WithDisabled(want).Disabled; got != want {
			t.Fatalf("WithDisabled(%v) = %v", want, got)
		}
	}
	_ = o.WithSelected(true)
	if o.Selected {
		t.Fatal("builders must not mutate the receiver")
	}
}

func TestOptionConversions(t *testing.T) {
	cases := []struct {
		got  SelectOption
		want SelectOption
	}{
		{OptionFromYear(2024), SelectOption{Value: "2024", Text: "2024"}},
		{OptionFromMonth(calendar.February), SelectOption{Value: "2", Text: "February"}},
		{OptionFromMonth(calendar.December), SelectOption{Value: "12", Text: "December"}},
		{OptionFromDay(7), SelectOption{Value: "7", Text: "7"}},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("got %+v, want %+v", tc.got, tc.want)
		}
	}
}

func TestOptionsFromStrings(t *testing.T) {
	opts := OptionsFromStrings([]string{"a", "b", "c"}, "b")
	if len(opts) != 3 {
		t.Fatalf("len = %d", len(opts))
	}
	if SelectedIndex(opts) != 1 {
		t.Fatalf("selected index = %d", SelectedIndex(opts))
	}
	if SelectedIndex(OptionsFromStrings([]string{"a"}, "z")) != -1 {
		t.Fatal("expected no selection")
	}
}

func TestWidgetIDs(t *testing.T) {
	in := NewMonetaryInput("value", "Value")
	if in.SectionID() != "value_section" || in.LabelID() != "value_label" {
		t.Fatalf("ids: %s %s", in.SectionID(), in.LabelID())
	}
	if in.InputMode != ModeNumeric || in.Placeholder != "0.00" || in.Type != InputText {
		t.Fatalf("unexpected monetary input %+v", in)
	}
	if NewPasswordInput("pw", "Password").Type != InputPassword {
		t.Fatal("expected password type")
	}
	if in.FieldID() != "value_input_field" {
		t.Fatalf("input field id %s", in.FieldID())
	}
	if id := (Select{ID: "category"}).FieldID(); id != "category_select_field" {
		t.Fatalf("select field id %s", id)
	}
	if id := (DateSelect{ID: "date"}).SectionID(); id != "date_datetime_select" {
		t.Fatalf("date select section id %s", id)
	}
}
