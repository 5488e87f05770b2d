package messages

var it = map[string]string{
	ErrRegion:          "Disponibile solo per %s.",
	ErrApartmentID:     "ID appartamento non valido.",
	ErrLeadTime:        "La data deve essere richiesta 72h prima della mezzanotte del giorno scelto.",
	ErrContact:         "Nome ed email validi sono obbligatori.",
	ErrInvalidLink:     "Link non valido o scaduto.",
	ErrMissingPrice:    "Inserisci un prezzo valido per accettare la richiesta.",
	ErrInvalidAction:   "Azione non valida.",
	ErrAlreadyDecided:  "Questa richiesta è già stata gestita.",
	ErrEmptyCart:       "Il carrello è vuoto.",
	ErrInvalidItem:     "Articolo non valido nel carrello.",
	ErrInvalidRequest:  "Richiesta non valida.",
	ErrInternal:        "Errore interno",
	ErrDeliveryFailure: "Errore interno: invio email non riuscito.",

	QuoteOwnerSubject:    "Richiesta preventivo pulizia — %s (%s)",
	QuoteOwnerHeading:    "Nuova richiesta preventivo pulizia (%s)",
	QuoteOwnerIntro:      "Apri il link per Accettare o Rifiutare e inserire il prezzo:",
	QuoteAckSubject:      "Richiesta preventivo pulizia ricevuta — %s (%s)",
	QuoteAckHeading:      "Richiesta preventivo inviata",
	QuoteAckBody:         "Grazie %s, abbiamo ricevuto la tua richiesta per la pulizia dell'appartamento %s il giorno %s.",
	QuoteAckDisclaimer:   "Importante: questa è solo una richiesta; la pulizia verrà programmata esclusivamente dopo una conferma scritta da MUSE.holiday.",
	QuoteAckFollowUp:     "Riceverai una risposta con accettazione o rifiuto (ed eventuale prezzo) appena possibile.",
	QuoteAcceptedSubject: "Richiesta preventivo pulizia ACCETTATA — %s (%s)",
	QuoteAcceptedBody:    "Ciao %s, la tua richiesta di pulizia per l'appartamento %s il giorno %s è stata ACCETTATA. Prezzo: %s.",
	QuoteDeniedSubject:   "Richiesta preventivo pulizia RIFIUTATA — %s (%s)",
	QuoteDeniedBody:      "Ciao %s, purtroppo la tua richiesta di pulizia per l'appartamento %s il giorno %s è stata RIFIUTATA.",
	QuoteRecordedSubject: "Decisione registrata: %s — %s (%s)",
	QuoteRecordedBody:    "Decisione: %s. Prezzo: %s. Il cliente %s è stato avvisato.",
	QuoteActionAccepted:  "ACCETTATA",
	QuoteActionDenied:    "RIFIUTATA",
	QuoteNoPrice:         "—",

	DecisionPageTitle:  "Decisione preventivo pulizia",
	DecisionPageAccept: "Accetta",
	DecisionPageDeny:   "Rifiuta",
	DecisionPagePrice:  "Prezzo (€)",
	DecisionPageDone:   "Decisione registrata: %s. Il cliente è stato avvisato.",

	LabelCustomer:  "Cliente",
	LabelApartment: "Appartamento",
	LabelDate:      "Data richiesta pulizia",
	LabelRegion:    "Regione",
	LabelPrice:     "Prezzo",
	LabelTotal:     "Totale",
	LabelOrderRef:  "Riferimento ordine",
	LabelNotes:     "Note",
	LabelPhone:     "Telefono",

	OrderOwnerSubject:     "Nuovo ordine %s — %s",
	OrderOwnerHeading:     "Nuovo ordine dal negozio (%s)",
	OrderCustomerSubject:  "Conferma ricezione ordine %s",
	OrderCustomerHeading:  "Grazie per il tuo ordine",
	OrderCustomerBody:     "Ciao %s, abbiamo ricevuto il tuo ordine %s.",
	OrderCustomerFollowUp: "Ti contatteremo a breve per pagamento e consegna.",
}
