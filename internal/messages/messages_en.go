package messages

var en = map[string]string{
	ErrRegion:          "Only available for %s.",
	ErrApartmentID:     "Invalid apartment ID.",
	ErrLeadTime:        "The date must be requested 72h before midnight of the chosen day.",
	ErrContact:         "A valid name and email are required.",
	ErrInvalidLink:     "Invalid or expired link.",
	ErrMissingPrice:    "Enter a valid price to accept the request.",
	ErrInvalidAction:   "Invalid action.",
	ErrAlreadyDecided:  "This request has already been handled.",
	ErrEmptyCart:       "The cart is empty.",
	ErrInvalidItem:     "Invalid item in cart.",
	ErrInvalidRequest:  "Invalid request.",
	ErrInternal:        "Internal error",
	ErrDeliveryFailure: "Internal error: email delivery failed.",

	QuoteOwnerSubject:    "Cleaning quote request — %s (%s)",
	QuoteOwnerHeading:    "New cleaning quote request (%s)",
	QuoteOwnerIntro:      "Open the link to Accept or Deny and enter the price:",
	QuoteAckSubject:      "Cleaning quote request received — %s (%s)",
	QuoteAckHeading:      "Quote request sent",
	QuoteAckBody:         "Thank you %s, we received your cleaning request for apartment %s on %s.",
	QuoteAckDisclaimer:   "Important: this is only a request; the cleaning is scheduled only after a written confirmation from MUSE.holiday.",
	QuoteAckFollowUp:     "You will receive an answer with acceptance or denial (and the price) as soon as possible.",
	QuoteAcceptedSubject: "Cleaning quote request ACCEPTED — %s (%s)",
	QuoteAcceptedBody:    "Hello %s, your cleaning request for apartment %s on %s has been ACCEPTED. Price: %s.",
	QuoteDeniedSubject:   "Cleaning quote request DENIED — %s (%s)",
	QuoteDeniedBody:      "Hello %s, unfortunately your cleaning request for apartment %s on %s has been DENIED.",
	QuoteRecordedSubject: "Decision recorded: %s — %s (%s)",
	QuoteRecordedBody:    "Decision: %s. Price: %s. Customer %s has been notified.",
	QuoteActionAccepted:  "ACCEPTED",
	QuoteActionDenied:    "DENIED",
	QuoteNoPrice:         "—",

	DecisionPageTitle:  "Cleaning quote decision",
	DecisionPageAccept: "Accept",
	DecisionPageDeny:   "Deny",
	DecisionPagePrice:  "Price (€)",
	DecisionPageDone:   "Decision recorded: %s. The customer has been notified.",

	LabelCustomer:  "Customer",
	LabelApartment: "Apartment",
	LabelDate:      "Requested cleaning date",
	LabelRegion:    "Region",
	LabelPrice:     "Price",
	LabelTotal:     "Total",
	LabelOrderRef:  "Order reference",
	LabelNotes:     "Notes",
	LabelPhone:     "Phone",

	OrderOwnerSubject:     "New order %s — %s",
	OrderOwnerHeading:     "New shop order (%s)",
	OrderCustomerSubject:  "Order %s received",
	OrderCustomerHeading:  "Thank you for your order",
	OrderCustomerBody:     "Hello %s, we received your order %s.",
	OrderCustomerFollowUp: "We will contact you shortly about payment and delivery.",
}
