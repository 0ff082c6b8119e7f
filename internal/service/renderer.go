package service

import (
	"context"
	"fmt"
	"html/template"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/svbk/countdown/internal/api/dto"
	"github.com/svbk/countdown/internal/domain/discount"
	"github.com/svbk/countdown/internal/domain/level"
	ierr "github.com/svbk/countdown/internal/errors"
	"github.com/svbk/countdown/internal/render"
)

// expirationDateFormat matches the storefront's human-readable date display.
const expirationDateFormat = "January 2, 2006"

// RenderService produces the server-rendered price/countdown fragments and
// the serialized payload the client widget boots from. All three consumers of
// the countdown (checkout, rendered prices, client widget) read the same
// expiration engine, so they cannot disagree on whether a discount is active.
type RenderService interface {
	// RenderPayButton renders the pay-button fragment set for a level.
	RenderPayButton(ctx context.Context, levelID string, req dto.RenderButtonRequest) (template.HTML, error)

	// RenderExpirationLabel renders the main discount's absolute expiration
	// date through a template, hidden once expired unless requested.
	RenderExpirationLabel(ctx context.Context, levelID string, req dto.RenderExpirationRequest) (template.HTML, error)

	// CountdownPayload returns one {id, discount_expires} pair per active
	// level whose discount window has not elapsed for the current identity.
	// Epoch milliseconds as string; nothing is persisted by a render.
	CountdownPayload(ctx context.Context) ([]dto.CountdownEntry, error)
}

type renderService struct {
	ServiceParams
	discounts   DiscountService
	expirations ExpirationService
}

func NewRenderService(params ServiceParams) RenderService {
	return &renderService{
		ServiceParams: params,
		discounts:     NewDiscountService(params),
		expirations:   NewExpirationService(params),
	}
}

func (s *renderService) RenderPayButton(ctx context.Context, levelID string, req dto.RenderButtonRequest) (template.HTML, error) {
	req.ApplyDefaults()
	frags := render.NewFragments(render.PayButtonOrder)

	lvl, err := s.LevelRepo.Get(ctx, levelID)
	if err != nil {
		if ierr.IsNotFound(err) {
			frags.SetText(render.SlotContent, "Membership level not found")
			return frags.HTML(), nil
		}
		return "", err
	}

	mainDiscount, err := s.discounts.MainDiscount(ctx, lvl.ID)
	if err != nil {
		if !ierr.IsNotFound(err) {
			return "", err
		}
		// Dangling discount id: degrade to the regular price.
		s.Logger.Warnw("main discount not resolvable, rendering regular price",
			"level_id", lvl.ID)
		mainDiscount = nil
	}

	discountShown := req.ShowDiscount && mainDiscount != nil
	if discountShown {
		expired, err := s.expirations.HasExpired(ctx, lvl.ID)
		if err != nil {
			return "", err
		}
		discountShown = !expired
	}

	classes := []string{"pay-button", "prices", "level-" + lvl.ID}
	if discountShown {
		classes = append(classes, "has-discount")
		if req.ShowCountdown {
			classes = append(classes, "has-countdown")
		}
	}

	frags.Set(render.SlotWrapperBegin, template.HTML("<div "+string(render.ClassAttr(classes))+">"))
	frags.Set(render.SlotWrapperEnd, template.HTML("</div>"))

	if req.Content != "" {
		frags.SetText(render.SlotContent, req.Content)
	}

	if req.ButtonLabel != "" {
		frags.Set(render.SlotLabel, template.HTML(
			`<span class="label">`+template.HTMLEscapeString(req.ButtonLabel)+`</span>`))
	}

	if req.PaymentURL != "" {
		frags.Set(render.SlotButtonBegin, template.HTML(
			`<a class="button" href="`+template.HTMLEscapeString(req.PaymentURL)+`">`))
		frags.Set(render.SlotButtonEnd, template.HTML("</a>"))
	} else {
		frags.SetText(render.SlotLabel, "ERROR: Page not found")
	}

	regularClasses := []string{"price", "regular"}
	regularPrefix := template.HTML(template.HTMLEscapeString(req.PricePrefix))
	regularTag := "span"

	if discountShown {
		if req.ShowCountdown {
			if err := s.renderCountdown(ctx, frags, lvl); err != nil {
				return "", err
			}
		}

		discountPrice := mainDiscount.DiscountedPrice(lvl.Price)
		frags.Set(render.SlotDiscountedPrice,
			s.priceFragment([]string{"price", "after-discount"}, discountPrice, template.HTML(template.HTMLEscapeString(req.AfterDiscountPrefix)), "span", req.PriceNote))

		regularClasses = append(regularClasses, "before-discount")
		regularTag = "del"

		if req.PricePrefix != "" {
			regularPrefix = `<span class="without-discount">` + regularPrefix + `</span>`
		}
		if req.BeforeDiscountPrefix != "" {
			regularPrefix = `<span class="with-discount">` +
				template.HTML(template.HTMLEscapeString(req.BeforeDiscountPrefix)) +
				`</span>&nbsp;` + regularPrefix
		}
	}

	frags.Set(render.SlotRegularPrice,
		s.priceFragment(regularClasses, lvl.Price, regularPrefix, regularTag, req.PriceNote))

	return frags.HTML(), nil
}

func (s *renderService) renderCountdown(ctx context.Context, frags *render.Fragments, lvl *level.Level) error {
	identity := s.hooks().ResolveIdentity(ctx)
	expiresAt, err := s.expirations.PeekExpiration(ctx, lvl, identity)
	if err != nil {
		return err
	}

	tmpl := s.Config.Countdown.Template
	id := template.HTMLEscapeString(lvl.ID)
	frags.Set(render.SlotCountdown, template.HTML(fmt.Sprintf(
		`<div class="countdown level-%s" data-level="%s" data-template="%s">%s</div>`,
		id, id,
		template.HTMLEscapeString(tmpl),
		template.HTMLEscapeString(render.FormatRemaining(expiresAt.Sub(s.now()), tmpl)),
	)))
	return nil
}

// priceFragment builds one price block: optional prefix, the amount stripped
// of tax for display, optional note.
func (s *renderService) priceFragment(classes []string, price decimal.Decimal, prefix template.HTML, tag string, note string) template.HTML {
	displayPrice := price.Div(decimal.NewFromFloat(s.Config.Countdown.TaxRate))
	out := "<span " + string(render.ClassAttr(classes)) + ">"
	if prefix != "" {
		out += `<span class="price-prefix">` + string(prefix) + `</span> `
	}
	out += "<" + tag + ` class="price-amount">` +
		template.HTMLEscapeString(render.FormatCurrency(displayPrice, s.Config.Countdown.CurrencySymbol)) +
		"</" + tag + ">"
	if note != "" {
		out += `<span class="price-note">` + template.HTMLEscapeString(note) + `</span>`
	}
	out += "</span>"
	return template.HTML(out)
}

func (s *renderService) RenderExpirationLabel(ctx context.Context, levelID string, req dto.RenderExpirationRequest) (template.HTML, error) {
	frags := render.NewFragments(render.ExpirationOrder)

	lvl, err := s.LevelRepo.Get(ctx, levelID)
	if err != nil {
		if ierr.IsNotFound(err) {
			frags.SetText(render.SlotContent, "WARNING: Membership level not found")
			return frags.HTML(), nil
		}
		return "", err
	}

	if req.Content != "" {
		frags.SetText(render.SlotContent, req.Content)
	}

	mainDiscount, err := s.discounts.MainDiscount(ctx, lvl.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("main discount not resolvable, skipping expiration label",
				"level_id", lvl.ID)
			return frags.HTML(), nil
		}
		return "", err
	}
	if mainDiscount == nil {
		return frags.HTML(), nil
	}

	deadline, ok := mainDiscount.ExpiresAt()
	if !ok || (mainDiscount.IsExpired(s.now()) && !req.ShowIfExpired) {
		return frags.HTML(), nil
	}

	tmpl := req.Template
	if tmpl == "" {
		tmpl = "%s"
	}
	frags.SetText(render.SlotDate, fmt.Sprintf(tmpl, deadline.Format(expirationDateFormat)))

	return frags.HTML(), nil
}

func (s *renderService) CountdownPayload(ctx context.Context) ([]dto.CountdownEntry, error) {
	levels, err := s.LevelRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	identity := s.hooks().ResolveIdentity(ctx)
	now := s.now()

	entries := make([]dto.CountdownEntry, 0, len(levels))
	for _, lvl := range levels {
		mainDiscount, err := s.mainDiscountOrNil(ctx, lvl)
		if err != nil {
			return nil, err
		}
		if mainDiscount == nil {
			continue
		}

		expiresAt, err := s.expirations.PeekExpiration(ctx, lvl, identity)
		if err != nil {
			return nil, err
		}
		if now.After(expiresAt) {
			continue
		}

		entries = append(entries, dto.CountdownEntry{
			ID:              lvl.ID,
			DiscountExpires: strconv.FormatInt(expiresAt.UnixMilli(), 10),
		})
	}

	return entries, nil
}

func (s *renderService) mainDiscountOrNil(ctx context.Context, lvl *level.Level) (*discount.Discount, error) {
	mainDiscount, err := s.discounts.MainDiscount(ctx, lvl.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			s.Logger.Warnw("main discount not resolvable, excluding level from payload",
				"level_id", lvl.ID)
			return nil, nil
		}
		return nil, err
	}
	return mainDiscount, nil
}
