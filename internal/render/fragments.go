package render

import (
	"html/template"
	"strings"
)

// Slot names one position in a widget's fixed render order.
type Slot string

const (
	SlotWrapperBegin    Slot = "wrapperBegin"
	SlotContent         Slot = "content"
	SlotCountdown       Slot = "countdown"
	SlotButtonBegin     Slot = "buttonBegin"
	SlotLabel           Slot = "label"
	SlotRegularPrice    Slot = "regularPrice"
	SlotDiscountedPrice Slot = "discountedPrice"
	SlotButtonEnd       Slot = "buttonEnd"
	SlotWrapperEnd      Slot = "wrapperEnd"
	SlotDate            Slot = "date"
)

// PayButtonOrder is the fixed slot order of the pay-button widget.
var PayButtonOrder = []Slot{
	SlotWrapperBegin,
	SlotContent,
	SlotCountdown,
	SlotButtonBegin,
	SlotLabel,
	SlotRegularPrice,
	SlotDiscountedPrice,
	SlotButtonEnd,
	SlotWrapperEnd,
}

// ExpirationOrder is the fixed slot order of the expiration-label widget.
var ExpirationOrder = []Slot{
	SlotContent,
	SlotDate,
}

// Fragments renders a widget as an ordered set of HTML fragments. Concrete
// widgets fill slots; the order is fixed at construction and empty slots are
// skipped, so every call site agrees on the final markup shape.
type Fragments struct {
	order   []Slot
	content map[Slot]template.HTML
}

// NewFragments creates an empty fragment set with the given render order.
func NewFragments(order []Slot) *Fragments {
	return &Fragments{
		order:   order,
		content: make(map[Slot]template.HTML),
	}
}

// Set fills a slot with already-safe HTML.
func (f *Fragments) Set(slot Slot, html template.HTML) {
	f.content[slot] = html
}

// SetText fills a slot with escaped plain text.
func (f *Fragments) SetText(slot Slot, text string) {
	f.content[slot] = template.HTML(template.HTMLEscapeString(text))
}

// Get returns the content of a slot.
func (f *Fragments) Get(slot Slot) template.HTML {
	return f.content[slot]
}

// HTML concatenates the filled slots in render order.
func (f *Fragments) HTML() template.HTML {
	var b strings.Builder
	for _, slot := range f.order {
		b.WriteString(string(f.content[slot]))
	}
	return template.HTML(b.String())
}

// ClassAttr renders a class attribute from a class list.
func ClassAttr(classes []string) template.HTML {
	escaped := make([]string, len(classes))
	for i, c := range classes {
		escaped[i] = template.HTMLEscapeString(c)
	}
	return template.HTML(`class="` + strings.Join(escaped, " ") + `"`)
}
