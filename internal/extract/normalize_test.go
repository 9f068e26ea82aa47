package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brandlens/brandlens/internal/extract"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tracking params stripped",
			raw:  "https://acme.com/pricing?utm_source=chat&utm_medium=ai",
			want: "https://acme.com/pricing",
		},
		{
			name: "click ids stripped, real params kept",
			raw:  "https://acme.com/search?fbclid=abc&q=widgets",
			want: "https://acme.com/search?q=widgets",
		},
		{
			name: "fragment stripped",
			raw:  "https://acme.com/docs#install",
			want: "https://acme.com/docs",
		},
		{
			name: "trailing slash stripped",
			raw:  "https://acme.com/pricing/",
			want: "https://acme.com/pricing",
		},
		{
			name: "whitespace trimmed",
			raw:  "  https://acme.com/pricing  ",
			want: "https://acme.com/pricing",
		},
		{
			name: "hostless input passes through trimmed",
			raw:  " not a url ",
			want: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract.NormalizeURL(tt.raw))
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	raw := "https://acme.com/pricing/?utm_campaign=launch&ref=x#plans"
	once := extract.NormalizeURL(raw)
	assert.Equal(t, once, extract.NormalizeURL(once))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "acme.com", extract.DomainOf("https://www.acme.com/pricing"))
	assert.Equal(t, "acme.com", extract.DomainOf("https://acme.com"))
	assert.Equal(t, "", extract.DomainOf("garbage"))
}
