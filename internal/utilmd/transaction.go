package utilmd

import "example.com/edigate/internal/bo4e"

// Stammdaten wraps one entity object with its optional validity period and
// the reference of the time slice it belongs to.
type Stammdaten[T any] struct {
	Objekt      T      `json:"objekt"`
	Zeitscheibe string `json:"zeitscheibe,omitempty"`
	GueltigAb   string `json:"gueltigAb,omitempty"`
	GueltigBis  string `json:"gueltigBis,omitempty"`
}

// Transaction is the fully assembled business object for one logical
// transaction (Vorgang) of a UTILMD message. It owns all of its data; no
// field borrows from the input buffer.
type Transaction struct {
	TransaktionsID     string               `json:"transaktionsId"`
	Kategorie          string               `json:"kategorie,omitempty"`
	DokumentNummer     string               `json:"dokumentNummer,omitempty"`
	Nachrichtendatum   string               `json:"nachrichtendatum,omitempty"`
	Pruefidentifikator string               `json:"pruefidentifikator,omitempty"`
	Absender           bo4e.Marktteilnehmer `json:"absender"`
	Empfaenger         bo4e.Marktteilnehmer `json:"empfaenger"`

	Marktlokationen []Stammdaten[bo4e.Marktlokation] `json:"marktlokationen,omitempty"`
	Messlokationen  []Stammdaten[bo4e.Messlokation]  `json:"messlokationen,omitempty"`
	Zaehler         []Stammdaten[bo4e.Zaehler]       `json:"zaehler,omitempty"`
	Parteien        []bo4e.Geschaeftspartner         `json:"parteien,omitempty"`
	Zeitscheiben    []bo4e.Zeitscheibe               `json:"zeitscheiben,omitempty"`
}
