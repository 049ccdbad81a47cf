package page

// Default search-engine metadata for the pricing page
const (
	DefaultTitle        = "Pricing - Free Online Quiz Maker & Test Generator"
	DefaultDescription  = "Flexible pricing for our online quiz maker. Start for free. Affordable plans for professional exam software and test generators."
	DefaultKeywords     = "quiz maker free online, test maker free, online exam software pricing, free online exam maker, quiz maker online free, test generator free"
	DefaultCanonicalURL = "https://dostuff.com/pricing"
)

// Metadata is the document head of the pricing page
type Metadata struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Keywords     string `json:"keywords"`
	CanonicalURL string `json:"canonical_url"`
}

// DefaultMetadata returns the stock metadata
func DefaultMetadata() Metadata {
	return Metadata{
		Title:        DefaultTitle,
		Description:  DefaultDescription,
		Keywords:     DefaultKeywords,
		CanonicalURL: DefaultCanonicalURL,
	}
}

// WithDefaults fills empty fields from DefaultMetadata
func (m Metadata) WithDefaults() Metadata {
	d := DefaultMetadata()
	if m.Title == "" {
		m.Title = d.Title
	}
	if m.Description == "" {
		m.Description = d.Description
	}
	if m.Keywords == "" {
		m.Keywords = d.Keywords
	}
	if m.CanonicalURL == "" {
		m.CanonicalURL = d.CanonicalURL
	}
	return m
}
