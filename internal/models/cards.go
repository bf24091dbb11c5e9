package models

// CardType identifies which presentation card a response carries
type CardType string

const (
	// CardTypeText is a plain text card
	CardTypeText CardType = "text"
	// CardTypeOptions is a prompt with a list of selectable options
	CardTypeOptions CardType = "options"
	// CardTypeJSON is a structured card with a paginated JSON payload and a location
	CardTypeJSON CardType = "json"
)

// Card sub types. Text and options cards always carry their fixed sub type,
// json cards keep the one supplied by the builder.
const (
	CardSubTypeText    = "text"
	CardSubTypeOptions = "options"
	CardSubTypeJSON    = "json"
)

// DefaultCardPageSize is the page size used for json card lists when none is configured
const DefaultCardPageSize = 10

// ValidCardTypes returns every card type in the order they are advertised to callers
func ValidCardTypes() []CardType {
	return []CardType{CardTypeJSON, CardTypeText, CardTypeOptions}
}

// IsValid reports whether t is one of the known card types
func (t CardType) IsValid() bool {
	switch t {
	case CardTypeText, CardTypeOptions, CardTypeJSON:
		return true
	}
	return false
}

// Card is a presentation payload. It is implemented only by *TextCard,
// *OptionsCard and *JSONCard.
type Card interface {
	CardType() CardType
	isCard()
}

// TextCard carries a single block of text
type TextCard struct {
	Txt string `json:"txt"`
}

// OptionsCard carries a prompt and an ordered list of options
type OptionsCard struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

// CardList is one page of an opaque serialized list
type CardList struct {
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
	PageSize    int    `json:"page_size"`
	JSONContent string `json:"json_content"`
}

// JSONCard carries a paginated structured payload and an optional location
type JSONCard struct {
	Txt               string   `json:"txt"`
	CardList          CardList `json:"card_list"`
	LocationLongitude *float64 `json:"location_longitude"`
	LocationLatitude  *float64 `json:"location_latitude"`
}

func (*TextCard) CardType() CardType    { return CardTypeText }
func (*OptionsCard) CardType() CardType { return CardTypeOptions }
func (*JSONCard) CardType() CardType    { return CardTypeJSON }

func (*TextCard) isCard()    {}
func (*OptionsCard) isCard() {}
func (*JSONCard) isCard()    {}

// DefaultCardList returns the list used when a json card is built without one
func DefaultCardList() CardList {
	return CardList{
		TotalPages:  1,
		CurrentPage: 1,
		PageSize:    DefaultCardPageSize,
		JSONContent: "[]",
	}
}

// defaultCard returns the empty card of the given type
func defaultCard(t CardType) Card {
	switch t {
	case CardTypeText:
		return &TextCard{}
	case CardTypeOptions:
		return &OptionsCard{Options: []string{}}
	case CardTypeJSON:
		return &JSONCard{CardList: DefaultCardList()}
	}
	return nil
}

// cloneCard returns a deep copy of card so a response never shares memory with its caller
func cloneCard(card Card) Card {
	switch c := card.(type) {
	case *TextCard:
		if c == nil {
			return nil
		}
		cp := *c
		return &cp
	case *OptionsCard:
		if c == nil {
			return nil
		}
		cp := *c
		cp.Options = append(make([]string, 0, len(c.Options)), c.Options...)
		return &cp
	case *JSONCard:
		if c == nil {
			return nil
		}
		cp := *c
		cp.LocationLongitude = cloneFloat(c.LocationLongitude)
		cp.LocationLatitude = cloneFloat(c.LocationLatitude)
		return &cp
	}
	return nil
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Float64 returns a pointer to v, for the optional json card coordinates
func Float64(v float64) *float64 {
	return &v
}
