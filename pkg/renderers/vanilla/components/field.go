package components

// Field is the view model a component renders: one catalog field with its
// current value and validation state.
type Field struct {
	Name        string   `json:"name"`
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Kind        string   `json:"kind"`
	Placeholder string   `json:"placeholder,omitempty"`
	Required    bool     `json:"required"`
	Value       string   `json:"value"`
	Invalid     bool     `json:"invalid"`
	Messages    []string `json:"messages,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// Option is one choice of a select or radio group.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}
