package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/repositories"
)

// DefaultNextAgent is the routing label set on every response when none is configured
const DefaultNextAgent = "classifier_agent"

// CardSubTypeInstitutionList is the sub type of json cards listing institutions
const CardSubTypeInstitutionList = "institution_list"

// Fixed card content
const (
	TextCardMessage    = "This is a text card response."
	OptionsCardPrompt  = "Please choose one of the following options:"
	InstitutionsHeader = "Institutions near your location"
)

// DefaultOptions returns the choices offered on every options card
func DefaultOptions() []string {
	return []string{"Option 1", "Option 2", "Option 3"}
}

// CardService selects and builds the response card for a request
type CardService interface {
	Classify(ctx context.Context, req *models.RequestMSG) (*models.ResponseMSG, error)
}

// CardServiceConfig holds configuration for the card service
type CardServiceConfig struct {
	NextAgent string
	PageSize  int
}

// cardService implements CardService
type cardService struct {
	institutions repositories.InstitutionRepository
	nextAgent    string
	pageSize     int
}

// NewCardService creates a new card service
func NewCardService(institutions repositories.InstitutionRepository, config *CardServiceConfig) CardService {
	s := &cardService{
		institutions: institutions,
		nextAgent:    DefaultNextAgent,
		pageSize:     models.DefaultCardPageSize,
	}
	if config != nil {
		if config.NextAgent != "" {
			s.nextAgent = config.NextAgent
		}
		if config.PageSize > 0 {
			s.pageSize = config.PageSize
		}
	}
	return s
}

// ParseQueryType maps a query to a card type, ignoring case. Anything other
// than json, text or options is ErrUnrecognizedQueryType.
func ParseQueryType(query string) (models.CardType, error) {
	if t := models.CardType(strings.ToLower(query)); t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnrecognizedQueryType, query)
}

// Classify implements CardService.Classify
func (s *cardService) Classify(ctx context.Context, req *models.RequestMSG) (*models.ResponseMSG, error) {
	cardType, err := ParseQueryType(req.Query)
	if err != nil {
		return nil, err
	}

	switch cardType {
	case models.CardTypeText:
		return BuildTextCard(req, s.nextAgent)
	case models.CardTypeOptions:
		return BuildOptionsCard(req, s.nextAgent)
	default:
		if s.institutions == nil {
			return nil, fmt.Errorf("institution lookup: %w", repositories.ErrUnsupported)
		}
		lookup, err := s.institutions.Lookup(ctx, req.SourceSystem)
		if err != nil {
			return nil, fmt.Errorf("institution lookup: %w", err)
		}
		return BuildJSONCard(req, s.nextAgent, lookup, s.pageSize)
	}
}

// BuildTextCard builds the text card response for req
func BuildTextCard(req *models.RequestMSG, nextAgent string) (*models.ResponseMSG, error) {
	return models.NewCardResponse(req.Envelope(), nextAgent, &models.TextCard{Txt: TextCardMessage}, "")
}

// BuildOptionsCard builds the options card response for req
func BuildOptionsCard(req *models.RequestMSG, nextAgent string) (*models.ResponseMSG, error) {
	card := &models.OptionsCard{
		Text:    OptionsCardPrompt,
		Options: DefaultOptions(),
	}
	return models.NewCardResponse(req.Envelope(), nextAgent, card, "")
}

// BuildJSONCard builds the json card response for req. The card list holds the
// first page of institutions; the location comes from the lookup when present.
func BuildJSONCard(req *models.RequestMSG, nextAgent string, lookup *models.InstitutionLookup, pageSize int) (*models.ResponseMSG, error) {
	if pageSize <= 0 {
		pageSize = models.DefaultCardPageSize
	}

	var institutions []models.Institution
	if lookup != nil {
		institutions = lookup.Institutions
	}

	page := institutions
	if len(page) > pageSize {
		page = page[:pageSize]
	}
	if page == nil {
		page = []models.Institution{}
	}

	content, err := json.Marshal(page)
	if err != nil {
		return nil, fmt.Errorf("failed to encode card list: %w", err)
	}

	totalPages := (len(institutions) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	card := &models.JSONCard{
		Txt: InstitutionsHeader,
		CardList: models.CardList{
			TotalPages:  totalPages,
			CurrentPage: 1,
			PageSize:    pageSize,
			JSONContent: string(content),
		},
	}
	if lookup != nil && lookup.Location != nil {
		card.LocationLatitude = models.Float64(lookup.Location.Latitude)
		card.LocationLongitude = models.Float64(lookup.Location.Longitude)
	}

	return models.NewCardResponse(req.Envelope(), nextAgent, card, CardSubTypeInstitutionList)
}
