package models

// CompanyMatch is one company candidate produced for a theme prompt.
type CompanyMatch struct {
	Name      string `json:"name"`
	Symbol    string `json:"symbol,omitempty"`
	Sector    string `json:"sector,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

// GeneratedIndex is the title, description and company list for a prompt.
type GeneratedIndex struct {
	IndexName   string         `json:"indexName"`
	Description string         `json:"description"`
	Companies   []CompanyMatch `json:"companies"`
}

// Clone returns a deep copy of g.
func (g *GeneratedIndex) Clone() *GeneratedIndex {
	if g == nil {
		return nil
	}
	out := *g
	out.Companies = append([]CompanyMatch(nil), g.Companies...)
	return &out
}
