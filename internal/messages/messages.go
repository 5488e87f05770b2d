// Package messages holds the localized customer- and operator-facing copy.
//
// Keys are registered with golang.org/x/text/message for Italian (the shop's
// default) and English. Callers obtain a Printer for the configured language
// and format keys with Sprintf.
package messages

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Keys shared by handlers, the quote workflow and checkout.
const (
	ErrRegion          = "error.region"
	ErrApartmentID     = "error.apartment_id"
	ErrLeadTime        = "error.lead_time"
	ErrContact         = "error.contact"
	ErrInvalidLink     = "error.invalid_link"
	ErrMissingPrice    = "error.missing_price"
	ErrInvalidAction   = "error.invalid_action"
	ErrAlreadyDecided  = "error.already_decided"
	ErrEmptyCart       = "error.empty_cart"
	ErrInvalidItem     = "error.invalid_item"
	ErrInvalidRequest  = "error.invalid_request"
	ErrInternal        = "error.internal"
	ErrDeliveryFailure = "error.delivery_failure"

	QuoteOwnerSubject     = "quote.owner.subject"
	QuoteOwnerHeading     = "quote.owner.heading"
	QuoteOwnerIntro       = "quote.owner.intro"
	QuoteAckSubject       = "quote.ack.subject"
	QuoteAckHeading       = "quote.ack.heading"
	QuoteAckBody          = "quote.ack.body"
	QuoteAckDisclaimer    = "quote.ack.disclaimer"
	QuoteAckFollowUp      = "quote.ack.follow_up"
	QuoteAcceptedSubject  = "quote.accepted.subject"
	QuoteAcceptedBody     = "quote.accepted.body"
	QuoteDeniedSubject    = "quote.denied.subject"
	QuoteDeniedBody       = "quote.denied.body"
	QuoteRecordedSubject  = "quote.recorded.subject"
	QuoteRecordedBody     = "quote.recorded.body"
	QuoteActionAccepted   = "quote.action.accepted"
	QuoteActionDenied     = "quote.action.denied"
	QuoteNoPrice          = "quote.no_price"
	DecisionPageTitle     = "decision.page.title"
	DecisionPageAccept    = "decision.page.accept"
	DecisionPageDeny      = "decision.page.deny"
	DecisionPagePrice     = "decision.page.price"
	DecisionPageDone      = "decision.page.done"
	LabelCustomer         = "label.customer"
	LabelApartment        = "label.apartment"
	LabelDate             = "label.date"
	LabelRegion           = "label.region"
	LabelPrice            = "label.price"
	LabelTotal            = "label.total"
	LabelOrderRef         = "label.order_ref"
	LabelNotes            = "label.notes"
	LabelPhone            = "label.phone"
	OrderOwnerSubject     = "order.owner.subject"
	OrderOwnerHeading     = "order.owner.heading"
	OrderCustomerSubject  = "order.customer.subject"
	OrderCustomerHeading  = "order.customer.heading"
	OrderCustomerBody     = "order.customer.body"
	OrderCustomerFollowUp = "order.customer.follow_up"
)

var (
	italian = language.Italian
	english = language.English

	matcher = language.NewMatcher([]language.Tag{italian, english})
)

// Printer returns a message printer for lang ("it", "en", or any BCP 47 tag).
// Unsupported languages fall back to Italian.
func Printer(lang string) *message.Printer {
	return message.NewPrinter(Tag(lang))
}

// Tag resolves lang to one of the supported catalog languages.
func Tag(lang string) language.Tag {
	if lang == "" {
		return italian
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return italian
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return italian
	}
	if idx == 1 {
		return english
	}
	return italian
}

func init() {
	set := func(tag language.Tag, entries map[string]string) {
		for key, msg := range entries {
			_ = message.SetString(tag, key, msg)
		}
	}
	set(italian, it)
	set(english, en)
}
