package location

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursedeck/internal/domain"
)

func sampleModels() map[string]domain.FilterModel {
	return map[string]domain.FilterModel{
		"default": domain.Default(),
		"category and sort": {
			Category: "Programming",
			SortBy:   domain.SortPriceLow,
		},
		"everything discrete": {
			SearchText: "go & rust: 100% fun?",
			Category:   "Data Science",
			Level:      domain.LevelAdvanced,
			Rating:     3,
			Language:   "Português",
			PriceRange: domain.Price25To50,
			SortBy:     domain.SortHighestRated,
		},
		"custom price bounds": {
			MinPrice: domain.Price(9.99),
			MaxPrice: domain.Price(120),
			SortBy:   domain.SortNewest,
		},
		"zero lower bound": {
			MinPrice: domain.Price(0),
			SortBy:   domain.SortPopular,
		},
		"both price kinds from a hand-written link": {
			PriceRange: domain.PriceUnder25,
			MinPrice:   domain.Price(10),
			MaxPrice:   domain.Price(90),
			SortBy:     domain.SortPopular,
		},
		"whitespace is preserved": {
			SearchText: "  spaced  out ",
			SortBy:     domain.SortPriceHigh,
		},
	}
}

func TestEncodeScenario(t *testing.T) {
	m := domain.FilterModel{Category: "Programming", SortBy: domain.SortPriceLow}

	encoded := Encode(m)

	assert.Equal(t, "category=Programming&sortBy=price_low", encoded)
	assert.Equal(t, m, Decode(encoded))
}

func TestEncodeOmitsDefaults(t *testing.T) {
	assert.Equal(t, "", Encode(domain.Default()))
	assert.Equal(t, "", Encode(domain.FilterModel{}), "an empty sort is normalized to the default")
	assert.Equal(t, "rating=4", Encode(domain.FilterModel{Rating: 4, SortBy: domain.SortPopular}))
}

func TestEncodeUsesFixedKeyOrder(t *testing.T) {
	m := domain.FilterModel{
		SearchText: "sql",
		Category:   "Business",
		Level:      domain.LevelBeginner,
		Rating:     2,
		Language:   "English",
		PriceRange: domain.PriceFree,
		SortBy:     domain.SortNewest,
		MinPrice:   domain.Price(1),
		MaxPrice:   domain.Price(2),
	}

	assert.Equal(t,
		"search=sql&category=Business&level=beginner&rating=2&language=English&priceRange=free&sortBy=newest&minPrice=1&maxPrice=2",
		Encode(m))
}

func TestEncodeNumbersWithoutPadding(t *testing.T) {
	m := domain.FilterModel{MinPrice: domain.Price(5), MaxPrice: domain.Price(49.5), SortBy: domain.SortPopular}
	assert.Equal(t, "minPrice=5&maxPrice=49.5", Encode(m))

	assert.Equal(t, 10.0, Decode("minPrice=010").MinPrice.Value, "leading zeros are accepted on input")
	assert.Equal(t, "minPrice=10", Encode(Decode("minPrice=010")))
}

func TestRoundTrip(t *testing.T) {
	for name, m := range sampleModels() {
		t.Run(name, func(t *testing.T) {
			encoded := Encode(m)
			assert.Equal(t, m, Decode(encoded))
			assert.Equal(t, encoded, Encode(Decode(encoded)), "encoding must be idempotent")
		})
	}
}

func TestEqualModelsEncodeIdentically(t *testing.T) {
	a := domain.Default().Apply(domain.Partial{Category: domain.Ptr("Music"), Rating: domain.Ptr(2)})
	b := domain.Default().Apply(domain.Partial{Rating: domain.Ptr(2)}).Apply(domain.Partial{Category: domain.Ptr("Music")})

	require.Equal(t, a, b)
	assert.Equal(t, Encode(a), Encode(b))
}

func TestNegativeZeroPriceEncodesAsZero(t *testing.T) {
	decoded := Decode("minPrice=-0")
	plain := domain.FilterModel{MinPrice: domain.Price(0), SortBy: domain.SortPopular}

	require.Equal(t, plain, decoded)
	assert.Equal(t, "minPrice=0", Encode(decoded))
	assert.Equal(t, FetchKey(plain, 1), FetchKey(decoded, 1))

	typed := domain.Default().Apply(domain.Partial{MaxPrice: &domain.Amount{Value: math.Copysign(0, -1), Set: true}})
	assert.Equal(t, "maxPrice=0", Encode(typed))
}

func TestDecodeIsTotal(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      domain.FilterModel
		anomalies []string
	}{
		{
			name: "empty",
			raw:  "",
			want: domain.Default(),
		},
		{
			name: "leading question mark",
			raw:  "?level=intermediate",
			want: domain.FilterModel{Level: domain.LevelIntermediate, SortBy: domain.SortPopular},
		},
		{
			name: "unknown keys are ignored",
			raw:  "utm_source=newsletter&category=Design&page=3",
			want: domain.FilterModel{Category: "Design", SortBy: domain.SortPopular},
		},
		{
			name:      "malformed numbers fall back to empty",
			raw:       "minPrice=abc&maxPrice=-5&rating=many&category=Music",
			want:      domain.FilterModel{Category: "Music", SortBy: domain.SortPopular},
			anomalies: []string{KeyRating, KeyMinPrice, KeyMaxPrice},
		},
		{
			name:      "rating outside 1-4",
			raw:       "rating=5",
			want:      domain.Default(),
			anomalies: []string{KeyRating},
		},
		{
			name:      "unknown enumerations",
			raw:       "level=guru&priceRange=cheap&sortBy=random",
			want:      domain.Default(),
			anomalies: []string{KeyLevel, KeyPriceRange, KeySortBy},
		},
		{
			name:      "non-finite price",
			raw:       "maxPrice=NaN&minPrice=Inf",
			want:      domain.Default(),
			anomalies: []string{KeyMinPrice, KeyMaxPrice},
		},
		{
			name: "broken escapes keep the rest",
			raw:  "search=%zz&category=Photography",
			want: domain.FilterModel{Category: "Photography", SortBy: domain.SortPopular},
		},
		{
			name: "plus decodes to space",
			raw:  "search=machine+learning",
			want: domain.FilterModel{SearchText: "machine learning", SortBy: domain.SortPopular},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.FilterModel
			var anomalies []Anomaly
			require.NotPanics(t, func() { got, anomalies = DecodeWithAnomalies(tt.raw) })

			assert.Equal(t, tt.want, got)
			var keys []string
			for _, a := range anomalies {
				keys = append(keys, a.Key)
			}
			assert.ElementsMatch(t, tt.anomalies, keys)
		})
	}
}

func TestFetchKeyIncludesPage(t *testing.T) {
	m := domain.FilterModel{Category: "Programming", SortBy: domain.SortPopular}

	assert.Equal(t, "category=Programming#page=1", FetchKey(m, 1))
	assert.NotEqual(t, FetchKey(m, 1), FetchKey(m, 2))
	assert.Equal(t, FetchKey(m, 1), FetchKey(Decode(Encode(m)), 1))
}
