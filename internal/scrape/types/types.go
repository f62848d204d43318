package types

// Entry is one candidate listing pulled from a portfolio page. Any field may
// be empty; an empty Name is filled by name inference.
type Entry struct {
	Name        string
	Description string
	Website     string
	ProfileURL  string // VC-hosted detail page, for layouts that only link there
}

// Extractor turns a raw document into ordered entries. Implementations must
// tolerate malformed markup and return what they found so far.
type Extractor interface {
	Name() string
	Extract(doc string) []Entry
}
