// Package bo4e holds the plain business objects assembled from UTILMD
// transactions. The types are attribute bags without behavior; their JSON
// form is the persisted representation of a converted transaction.
package bo4e

// Marktteilnehmer identifies a market participant by its code number.
type Marktteilnehmer struct {
	Codenummer string `json:"codenummer"`
	Codeliste  string `json:"codeliste,omitempty"`
	// Identifikationsqualifier is the UNB partner identification qualifier
	// (service element 0007). It is a different code space than Codeliste,
	// which carries the NAD code list agency (element 3055).
	Identifikationsqualifier string `json:"identifikationsqualifier,omitempty"`
	Rolle                    string `json:"rolle,omitempty"`
}

// Adresse is a postal address as carried in NAD address elements.
type Adresse struct {
	Strasse      string `json:"strasse,omitempty"`
	Hausnummer   string `json:"hausnummer,omitempty"`
	Postleitzahl string `json:"postleitzahl,omitempty"`
	Ort          string `json:"ort,omitempty"`
	Land         string `json:"land,omitempty"`
}

// Geschaeftspartner is a named party in a transaction, qualified by its NAD
// role code (for example DP for the delivery address or UD for the end
// customer).
type Geschaeftspartner struct {
	Rolle   string   `json:"rolle"`
	Name1   string   `json:"name1,omitempty"`
	Name2   string   `json:"name2,omitempty"`
	Name3   string   `json:"name3,omitempty"`
	Adresse *Adresse `json:"adresse,omitempty"`
}

// Marktlokation is the market location (MaLo) a transaction refers to.
type Marktlokation struct {
	MarktlokationsID    string `json:"marktlokationsId"`
	Bilanzierungsgebiet string `json:"bilanzierungsgebiet,omitempty"`
}

// Messlokation is the metering location (MeLo) a transaction refers to.
type Messlokation struct {
	MesslokationsID string `json:"messlokationsId"`
}

// Zaehler describes one meter with its device details.
type Zaehler struct {
	Zaehlernummer string   `json:"zaehlernummer"`
	Zaehlertyp    string   `json:"zaehlertyp,omitempty"`
	Merkmale      []string `json:"merkmale,omitempty"`
}

// Zeitscheibe is a bounded validity period referenced by entity data within
// one transaction. Beginn and Ende carry the raw DTM values (format
// qualifier 303, CCYYMMDDHHMMZZZ) copied from the wire.
type Zeitscheibe struct {
	Referenz string `json:"referenz"`
	Beginn   string `json:"beginn,omitempty"`
	Ende     string `json:"ende,omitempty"`
}
