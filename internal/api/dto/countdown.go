package dto

import (
	"html/template"
)

// CountdownEntry is one element of the client payload contract: the level id
// and the window deadline as epoch milliseconds rendered as a string, ready
// for the page script that boots the countdown widget.
type CountdownEntry struct {
	ID              string `json:"id"`
	DiscountExpires string `json:"discount_expires"`
}

// RenderButtonRequest carries the pay-button display options. Defaults match
// the original shortcode attributes.
type RenderButtonRequest struct {
	PaymentURL           string `form:"payment_url"`
	ButtonLabel          string `form:"button_label"`
	Content              string `form:"content"`
	ShowCountdown        bool   `form:"show_countdown"`
	ShowDiscount         bool   `form:"show_discount"`
	PricePrefix          string `form:"price_prefix"`
	BeforeDiscountPrefix string `form:"before_discount_prefix"`
	AfterDiscountPrefix  string `form:"after_discount_prefix"`
	PriceNote            string `form:"price_note"`
}

// ApplyDefaults fills the prefix defaults of the original shortcode.
func (r *RenderButtonRequest) ApplyDefaults() {
	if r.PricePrefix == "" {
		r.PricePrefix = "only"
	}
	if r.BeforeDiscountPrefix == "" {
		r.BeforeDiscountPrefix = "instead of"
	}
	if r.AfterDiscountPrefix == "" {
		r.AfterDiscountPrefix = "only"
	}
}

// RenderExpirationRequest carries the expiration-label display options.
type RenderExpirationRequest struct {
	Template      string `form:"template"`
	ShowIfExpired bool   `form:"show_if_expired"`
	Content       string `form:"content"`
}

// HTMLResponse wraps a rendered fragment for API responses
type HTMLResponse struct {
	HTML template.HTML `json:"html"`
}
