// Package editor holds the defaults handed to the embedded rich-text view.
package editor

// DefaultClass is the class list applied to the editable element
const DefaultClass = "prose-lg prose-stone dark:prose-invert prose-headings:font-title font-default focus:outline-none max-w-full"

// Props are the view properties the editor is created with
type Props struct {
	Attributes map[string]string `json:"attributes"`
}

// DefaultProps returns a fresh copy of the default view properties
func DefaultProps() Props {
	return Props{
		Attributes: map[string]string{
			"class": DefaultClass,
		},
	}
}
