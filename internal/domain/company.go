package domain

// Company is one portfolio listing as it moves through scrape, enrichment
// and filtering.
type Company struct {
	Name        string
	Website     string
	Description string
	Round       Round
	Source      string // EIP/SET/etc.
	ProfileURL  string // VC-hosted detail page, only used by enrichment
}

// NewCompany builds a scraped placeholder; round and description may be
// enriched later.
func NewCompany(name, source, website, description, profileURL string) Company {
	return Company{
		Name:        name,
		Website:     website,
		Description: description,
		Round:       RoundUnknown,
		Source:      source,
		ProfileURL:  profileURL,
	}
}
