// Package location maps filter selections to and from the shareable
// query-string location, and owns the single copy of that location.
package location

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"coursedeck/internal/domain"
)

// Location keys, in canonical encoding order
const (
	KeySearch     = "search"
	KeyCategory   = "category"
	KeyLevel      = "level"
	KeyRating     = "rating"
	KeyLanguage   = "language"
	KeyPriceRange = "priceRange"
	KeySortBy     = "sortBy"
	KeyMinPrice   = "minPrice"
	KeyMaxPrice   = "maxPrice"
)

// Keys lists every recognized key in canonical order
var Keys = []string{
	KeySearch, KeyCategory, KeyLevel, KeyRating, KeyLanguage,
	KeyPriceRange, KeySortBy, KeyMinPrice, KeyMaxPrice,
}

// rawParams is the untyped view of a location. Everything is a string so the
// schema decoder never fails on a value; typed validation happens afterwards.
type rawParams struct {
	Search     string `schema:"search"`
	Category   string `schema:"category"`
	Level      string `schema:"level"`
	Rating     string `schema:"rating"`
	Language   string `schema:"language"`
	PriceRange string `schema:"priceRange"`
	SortBy     string `schema:"sortBy"`
	MinPrice   string `schema:"minPrice"`
	MaxPrice   string `schema:"maxPrice"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Anomaly records a location value that was replaced by its default
type Anomaly struct {
	Key   string
	Value string
}

// Encode produces the canonical location for m: non-default fields only, keys
// in the fixed order of Keys, so equal models encode to identical strings.
func Encode(m domain.FilterModel) string {
	m = m.Normalize()

	var b strings.Builder
	add := func(key, value string) {
		if value == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add(KeySearch, m.SearchText)
	add(KeyCategory, m.Category)
	add(KeyLevel, string(m.Level))
	if m.Rating != 0 {
		add(KeyRating, strconv.Itoa(m.Rating))
	}
	add(KeyLanguage, m.Language)
	add(KeyPriceRange, string(m.PriceRange))
	if m.SortBy != domain.SortPopular {
		add(KeySortBy, string(m.SortBy))
	}
	add(KeyMinPrice, FormatAmount(m.MinPrice))
	add(KeyMaxPrice, FormatAmount(m.MaxPrice))

	return b.String()
}

// FormatAmount renders a set amount in shortest decimal form, "" when unset
func FormatAmount(a domain.Amount) string {
	if !a.Set {
		return ""
	}
	return strconv.FormatFloat(a.Value, 'f', -1, 64)
}

// Decode parses a location into the best-effort model. It never fails:
// missing keys take defaults, unknown keys are ignored and malformed values
// fall back to empty.
func Decode(raw string) domain.FilterModel {
	m, _ := DecodeWithAnomalies(raw)
	return m
}

// DecodeWithAnomalies is Decode that also reports every value it discarded
func DecodeWithAnomalies(raw string) (domain.FilterModel, []Anomaly) {
	m := domain.Default()
	var anomalies []Anomaly

	// ParseQuery keeps every well-formed pair even when it reports an error
	values, _ := url.ParseQuery(strings.TrimPrefix(strings.TrimSpace(raw), "?"))
	if len(values) == 0 {
		return m, nil
	}

	var p rawParams
	if err := decoder.Decode(&p, values); err != nil {
		// string-only fields leave nothing to convert, but stay total anyway
		return m, []Anomaly{{Key: "", Value: raw}}
	}

	m.SearchText = p.Search
	m.Category = p.Category
	m.Language = p.Language

	if level := domain.Level(p.Level); level.Valid() {
		m.Level = level
	} else {
		anomalies = append(anomalies, Anomaly{Key: KeyLevel, Value: p.Level})
	}

	if pr := domain.PriceRange(p.PriceRange); pr.Valid() {
		m.PriceRange = pr
	} else {
		anomalies = append(anomalies, Anomaly{Key: KeyPriceRange, Value: p.PriceRange})
	}

	if p.SortBy != "" {
		if sb := domain.SortBy(p.SortBy); sb.Valid() {
			m.SortBy = sb
		} else {
			anomalies = append(anomalies, Anomaly{Key: KeySortBy, Value: p.SortBy})
		}
	}

	if p.Rating != "" {
		rating, err := strconv.Atoi(p.Rating)
		if err == nil && rating >= domain.MinRating && rating <= domain.MaxRating {
			m.Rating = rating
		} else {
			anomalies = append(anomalies, Anomaly{Key: KeyRating, Value: p.Rating})
		}
	}

	var ok bool
	if m.MinPrice, ok = parseAmount(p.MinPrice); !ok {
		anomalies = append(anomalies, Anomaly{Key: KeyMinPrice, Value: p.MinPrice})
	}
	if m.MaxPrice, ok = parseAmount(p.MaxPrice); !ok {
		anomalies = append(anomalies, Anomaly{Key: KeyMaxPrice, Value: p.MaxPrice})
	}

	return m, anomalies
}

// parseAmount returns ok=false only for a present but unusable value
func parseAmount(s string) (domain.Amount, bool) {
	if s == "" {
		return domain.Amount{}, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.Amount{}, false
	}
	return domain.Price(v), true
}

// FetchKey derives the de-duplication key for a model and page cursor
func FetchKey(m domain.FilterModel, page int) string {
	return Encode(m) + "#page=" + strconv.Itoa(page)
}
