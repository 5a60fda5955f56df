package extract

import (
	"strconv"
	"strings"
	"time"
)

// Sentinel marks a field no selector could resolve. Records always carry
// every field; absence is expressed with this value, never an error.
const Sentinel = "N/A"

// offersSeparator joins multiple offers for tabular export.
const offersSeparator = "; "

// Record is one extracted product. The schema is fixed: every field is
// always present and unresolved fields hold the sentinel.
type Record struct {
	Index         int       `json:"index"`
	Name          string    `json:"name"`
	CurrentPrice  string    `json:"current_price"`
	OriginalPrice string    `json:"original_price"`
	Rating        string    `json:"rating"`
	Reviews       string    `json:"reviews"`
	Discount      string    `json:"discount"`
	Offers        []string  `json:"offers"`
	Delivery      string    `json:"delivery"`
	Availability  string    `json:"availability"`
	Site          string    `json:"site"`
	ScrapedAt     time.Time `json:"scraped_at"`
}

// newRecord builds a record with every data field set to the sentinel.
func newRecord(index int, site string, scrapedAt time.Time) Record {
	return Record{
		Index:         index,
		Name:          Sentinel,
		CurrentPrice:  Sentinel,
		OriginalPrice: Sentinel,
		Rating:        Sentinel,
		Reviews:       Sentinel,
		Discount:      Sentinel,
		Delivery:      Sentinel,
		Availability:  Sentinel,
		Site:          site,
		ScrapedAt:     scrapedAt,
	}
}

// orSentinel substitutes the sentinel for a zero-value field so records
// built outside the engine still honor the every-field-present contract.
func orSentinel(v string) string {
	if v == "" {
		return Sentinel
	}
	return v
}

// OffersFlat flattens the offers list for tabular export, returning the
// sentinel when no offer was extracted.
func (r Record) OffersFlat() string {
	if len(r.Offers) == 0 {
		return Sentinel
	}
	return strings.Join(r.Offers, offersSeparator)
}

// Field returns a data field by its spec name, with offers flattened.
func (r Record) Field(name string) string {
	switch name {
	case "name":
		return orSentinel(r.Name)
	case "current_price":
		return orSentinel(r.CurrentPrice)
	case "original_price":
		return orSentinel(r.OriginalPrice)
	case "rating":
		return orSentinel(r.Rating)
	case "reviews":
		return orSentinel(r.Reviews)
	case "discount":
		return orSentinel(r.Discount)
	case "offers":
		return r.OffersFlat()
	case "delivery":
		return orSentinel(r.Delivery)
	case "availability":
		return orSentinel(r.Availability)
	default:
		return Sentinel
	}
}

// setField stores a single-valued data field by its spec name.
func (r *Record) setField(name, value string) {
	switch name {
	case "name":
		r.Name = value
	case "current_price":
		r.CurrentPrice = value
	case "original_price":
		r.OriginalPrice = value
	case "rating":
		r.Rating = value
	case "reviews":
		r.Reviews = value
	case "discount":
		r.Discount = value
	case "delivery":
		r.Delivery = value
	case "availability":
		r.Availability = value
	}
}

// Columns returns the tabular export header.
func Columns() []string {
	return []string{
		"index",
		"name",
		"current_price",
		"original_price",
		"rating",
		"reviews",
		"discount",
		"offers",
		"delivery",
		"availability",
		"site",
		"scraped_at",
	}
}

// Values returns the record as a tabular row matching Columns.
func (r Record) Values() []string {
	return []string{
		strconv.Itoa(r.Index),
		orSentinel(r.Name),
		orSentinel(r.CurrentPrice),
		orSentinel(r.OriginalPrice),
		orSentinel(r.Rating),
		orSentinel(r.Reviews),
		orSentinel(r.Discount),
		r.OffersFlat(),
		orSentinel(r.Delivery),
		orSentinel(r.Availability),
		r.Site,
		r.ScrapedAt.Format(time.RFC3339),
	}
}
