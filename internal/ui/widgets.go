package ui

// InputType is the type attribute of an input element.
type InputType string

const (
	InputText     InputType = "text"
	InputPassword InputType = "password"
)

// InputMode hints which virtual keyboard to show.
type InputMode string

const (
	ModeText    InputMode = "text"
	ModeNumeric InputMode = "numeric"
)

// Select is a labelled select list.
type Select struct {
	ID      string
	Label   string
	Name    string
	Options []SelectOption
	// HX attributes for re-rendering on change; empty disables them.
	HXGet     string
	HXTarget  string
	HXInclude string
}

func (s Select) SectionID() string { return s.ID + "_section" }
func (s Select) LabelID() string   { return s.ID + "_label" }
func (s Select) FieldID() string   { return s.ID + "_select_field" }

// Input is a labelled input element.
type Input struct {
	ID          string
	Label       string
	Name        string
	Type        InputType
	InputMode   InputMode
	Placeholder string
	Value       string
	HXPost      string
}

func (i Input) SectionID() string { return i.ID + "_section" }
func (i Input) LabelID() string   { return i.ID + "_label" }
func (i Input) FieldID() string   { return i.ID + "_input_field" }

func NewTextInput(id, label string) Input {
	return Input{ID: id, Label: label, Name: id, Type: InputText, InputMode: ModeText}
}

func NewPasswordInput(id, label string) Input {
	in := NewTextInput(id, label)
	in.Type = InputPassword
	return in
}

// NewMonetaryInput is a numeric text input showing "0.00" until filled.
func NewMonetaryInput(id, label string) Input {
	in := NewTextInput(id, label)
	in.InputMode = ModeNumeric
	in.Placeholder = "0.00"
	return in
}

// Button is a submit button.
type Button struct {
	ID    string
	Label string
}

// DateSelect is one cascading date selector: a select per level plus the
// composed date, RFC 3339 or empty, and the preselect it composes onto.
type DateSelect struct {
	ID        string
	Label     string
	Selects   []Select
	Value     string
	Preselect string
}

func (d DateSelect) SectionID() string { return d.ID + "_datetime_select" }
