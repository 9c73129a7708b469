package openfoodfacts

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflife/backend/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.ProductLookupResult
	}{
		{
			name: "minimal found product",
			body: `{"status":1,"product":{"product_name":"X","nutriscore_grade":"a"}}`,
			want: domain.ProductLookupResult{Found: true, Title: "X", NutriScoreGrade: "A"},
		},
		{
			name: "complete product",
			body: `{
				"code": "3017620422003",
				"status": 1,
				"status_verbose": "product found",
				"product": {
					"product_name": "Nutella",
					"generic_name": "Hazelnut spread",
					"brands": "Ferrero, Nutella",
					"categories": "Spreads, Sweet spreads, Hazelnut spreads",
					"nutriscore_grade": "e",
					"ecoscore_grade": "d",
					"ecoscore_score": 23,
					"ingredients_text": "Sugar, palm oil, hazelnuts",
					"image_url": "https://images.openfoodfacts.org/nutella.jpg"
				}
			}`,
			want: domain.ProductLookupResult{
				Found:           true,
				Title:           "Nutella",
				Brand:           "Ferrero, Nutella",
				Category:        "Spreads",
				Description:     "Sugar, palm oil, hazelnuts",
				ImageURL:        "https://images.openfoodfacts.org/nutella.jpg",
				NutriScoreGrade: "E",
				EcoScore:        intPtr(23),
			},
		},
		{
			name: "falls back to generic name",
			body: `{"status":1,"product":{"generic_name":"Sparkling water"}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Sparkling water"},
		},
		{
			name: "blank product name falls back to generic name",
			body: `{"status":1,"product":{"product_name":"  ","generic_name":"Rice"}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Rice"},
		},
		{
			name: "unknown nutriscore is dropped",
			body: `{"status":1,"product":{"product_name":"Salt","nutriscore_grade":"not-applicable"}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Salt"},
		},
		{
			name: "fractional eco score is rounded",
			body: `{"status":1,"product":{"product_name":"Tea","ecoscore_score":71.6}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Tea", EcoScore: intPtr(72)},
		},
		{
			name: "eco score above range is capped",
			body: `{"status":1,"product":{"product_name":"Beans","ecoscore_score":112}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Beans", EcoScore: intPtr(100)},
		},
		{
			name: "eco score zero is kept",
			body: `{"status":1,"product":{"product_name":"Beef","ecoscore_score":0}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Beef", EcoScore: intPtr(0)},
		},
		{
			name: "wrong-typed fields are treated as absent",
			body: `{"status":1,"product":{"product_name":123,"generic_name":"Fallback","brands":["a"],"categories":false,"nutriscore_grade":1,"ecoscore_score":"55"}}`,
			want: domain.ProductLookupResult{Found: true, Title: "Fallback"},
		},
		{
			name: "status zero",
			body: `{"code":"0000","status":0,"status_verbose":"product not found"}`,
			want: domain.ProductLookupResult{},
		},
		{
			name: "status one without product",
			body: `{"status":1}`,
			want: domain.ProductLookupResult{},
		},
		{
			name: "status as string",
			body: `{"status":"1","product":{"product_name":"X"}}`,
			want: domain.ProductLookupResult{},
		},
		{
			name: "product not an object",
			body: `{"status":1,"product":"X"}`,
			want: domain.ProductLookupResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	bodies := []string{
		"",
		"<html>Service Unavailable</html>",
		`{"status":1,"product":{`,
		`[1,2,3]`,
		`null`,
	}

	for _, body := range bodies {
		got, err := Normalize([]byte(body))
		if !errors.Is(err, domain.ErrUnexpectedFormat) {
			t.Errorf("Normalize(%q) error = %v, want ErrUnexpectedFormat", body, err)
		}
		if got != domain.NotFound() {
			t.Errorf("Normalize(%q) = %+v, want empty result", body, got)
		}
	}
}

func TestFirstCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Beverages", "Beverages"},
		{" Dairies , Milks", "Dairies"},
		{",Snacks", ""},
	}

	for _, tt := range tests {
		if got := firstCategory(tt.in); got != tt.want {
			t.Errorf("firstCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
