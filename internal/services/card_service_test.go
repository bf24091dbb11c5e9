package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"card-classifier-api/internal/models"
	"card-classifier-api/internal/repositories"
)

type stubInstitutionRepository struct {
	lookup *models.InstitutionLookup
	err    error
	seen   []int
}

func (r *stubInstitutionRepository) Lookup(ctx context.Context, sourceSystem int) (*models.InstitutionLookup, error) {
	r.seen = append(r.seen, sourceSystem)
	if r.err != nil {
		return nil, r.err
	}
	return r.lookup.Clone(), nil
}

func institutions(n int) []models.Institution {
	list := make([]models.Institution, n)
	for i := range list {
		list[i] = models.Institution{ID: fmt.Sprintf("inst-%d", i), Name: fmt.Sprintf("Institution %d", i)}
	}
	return list
}

func testRequest(query string) *models.RequestMSG {
	return &models.RequestMSG{RequestID: "1", SourceSystem: 46, SessionID: "s1", Query: query}
}

func TestParseQueryType(t *testing.T) {
	tests := []struct {
		query    string
		expected models.CardType
		wantErr  bool
	}{
		{"json", models.CardTypeJSON, false},
		{"JSON", models.CardTypeJSON, false},
		{"Text", models.CardTypeText, false},
		{"OPTIONS", models.CardTypeOptions, false},
		{"oPtIoNs", models.CardTypeOptions, false},
		{"", "", true},
		{" json", "", true},
		{"json ", "", true},
		{"jso", "", true},
		{"options2", "", true},
		{"image", "", true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.query), func(t *testing.T) {
			got, err := ParseQueryType(tt.query)
			if tt.wantErr {
				if !errors.Is(err, models.ErrUnrecognizedQueryType) {
					t.Errorf("Expected ErrUnrecognizedQueryType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseQueryType() failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestCardService_Classify(t *testing.T) {
	repo := &stubInstitutionRepository{lookup: repositories.SampleLookup()}
	service := NewCardService(repo, &CardServiceConfig{NextAgent: "next"})
	ctx := context.Background()

	for _, query := range []string{"json", "text", "options", "JSON", "Text", "Options"} {
		t.Run(query, func(t *testing.T) {
			resp, err := service.Classify(ctx, testRequest(query))
			if err != nil {
				t.Fatalf("Classify() failed: %v", err)
			}

			expected, _ := ParseQueryType(query)
			if resp.CardType() != expected {
				t.Errorf("Expected card type %q, got %q", expected, resp.CardType())
			}
			if resp.NextAgent() != "next" {
				t.Errorf("Expected next agent 'next', got %q", resp.NextAgent())
			}
			if resp.RequestID() != "1" || resp.SourceSystem() != 46 || resp.SessionID() != "s1" {
				t.Errorf("Envelope not echoed: %+v", resp.Envelope())
			}

			populated := 0
			if resp.TextCard() != nil {
				populated++
			}
			if resp.OptionsCard() != nil {
				populated++
			}
			if resp.JSONCard() != nil {
				populated++
			}
			if populated != 1 {
				t.Errorf("Expected exactly one card, got %d", populated)
			}
		})
	}

	t.Run("OptionsExample", func(t *testing.T) {
		resp, err := service.Classify(ctx, testRequest("OPTIONS"))
		if err != nil {
			t.Fatalf("Classify() failed: %v", err)
		}
		card := resp.OptionsCard()
		if card == nil || len(card.Options) != 3 {
			t.Errorf("Expected three options, got %+v", card)
		}
		if resp.TextCard() != nil || resp.JSONCard() != nil {
			t.Error("Expected text and json cards to be nil")
		}
	})

	t.Run("LookupUsesSourceSystem", func(t *testing.T) {
		repo.seen = nil
		if _, err := service.Classify(ctx, testRequest("json")); err != nil {
			t.Fatalf("Classify() failed: %v", err)
		}
		if len(repo.seen) != 1 || repo.seen[0] != 46 {
			t.Errorf("Expected one lookup for source system 46, got %v", repo.seen)
		}
	})

	t.Run("TextAndOptionsSkipLookup", func(t *testing.T) {
		repo.seen = nil
		service.Classify(ctx, testRequest("text"))
		service.Classify(ctx, testRequest("options"))
		if len(repo.seen) != 0 {
			t.Errorf("Expected no lookups, got %v", repo.seen)
		}
	})

	t.Run("UnrecognizedQuery", func(t *testing.T) {
		_, err := service.Classify(ctx, testRequest("hello"))
		if !errors.Is(err, models.ErrUnrecognizedQueryType) {
			t.Errorf("Expected ErrUnrecognizedQueryType, got %v", err)
		}
	})
}

func TestCardService_LookupFailure(t *testing.T) {
	repoErr := repositories.QueryError("lookup", "institution", "46", errors.New("disk I/O error"))
	service := NewCardService(&stubInstitutionRepository{err: repoErr}, nil)

	_, err := service.Classify(context.Background(), testRequest("json"))
	if !errors.Is(err, repositories.ErrQuery) {
		t.Errorf("Expected ErrQuery, got %v", err)
	}

	var target *repositories.RepositoryError
	if !errors.As(err, &target) {
		t.Errorf("Expected a RepositoryError in the chain, got %T", err)
	}
}

func TestCardService_Defaults(t *testing.T) {
	service := NewCardService(&stubInstitutionRepository{lookup: &models.InstitutionLookup{}}, &CardServiceConfig{})

	resp, err := service.Classify(context.Background(), testRequest("json"))
	if err != nil {
		t.Fatalf("Classify() failed: %v", err)
	}
	if resp.NextAgent() != DefaultNextAgent {
		t.Errorf("Expected default next agent, got %q", resp.NextAgent())
	}
	if resp.JSONCard().CardList.PageSize != models.DefaultCardPageSize {
		t.Errorf("Expected default page size, got %d", resp.JSONCard().CardList.PageSize)
	}
}

func TestBuildJSONCard(t *testing.T) {
	req := testRequest("json")

	t.Run("Pagination", func(t *testing.T) {
		tests := []struct {
			count      int
			pageSize   int
			totalPages int
			onPage     int
		}{
			{0, 10, 1, 0},
			{1, 10, 1, 1},
			{10, 10, 1, 10},
			{11, 10, 2, 10},
			{25, 10, 3, 10},
			{3, 2, 2, 2},
			{5, 0, 1, 5},
		}

		for _, tt := range tests {
			t.Run(fmt.Sprintf("%d_by_%d", tt.count, tt.pageSize), func(t *testing.T) {
				lookup := &models.InstitutionLookup{Institutions: institutions(tt.count)}
				resp, err := BuildJSONCard(req, "agent", lookup, tt.pageSize)
				if err != nil {
					t.Fatalf("BuildJSONCard() failed: %v", err)
				}

				list := resp.JSONCard().CardList
				if list.TotalPages != tt.totalPages || list.CurrentPage != 1 {
					t.Errorf("Expected %d pages on page 1, got %+v", tt.totalPages, list)
				}

				var page []models.Institution
				if err := json.Unmarshal([]byte(list.JSONContent), &page); err != nil {
					t.Fatalf("json_content is not a JSON array: %v", err)
				}
				if len(page) != tt.onPage {
					t.Errorf("Expected %d institutions on the page, got %d", tt.onPage, len(page))
				}
			})
		}
	})

	t.Run("Location", func(t *testing.T) {
		resp, err := BuildJSONCard(req, "agent", repositories.SampleLookup(), 10)
		if err != nil {
			t.Fatalf("BuildJSONCard() failed: %v", err)
		}

		card := resp.JSONCard()
		if card.LocationLatitude == nil || *card.LocationLatitude != repositories.SampleLatitude {
			t.Errorf("Unexpected latitude: %v", card.LocationLatitude)
		}
		if card.LocationLongitude == nil || *card.LocationLongitude != repositories.SampleLongitude {
			t.Errorf("Unexpected longitude: %v", card.LocationLongitude)
		}
		if card.CardList.JSONContent != "[]" {
			t.Errorf("Expected an empty list, got %s", card.CardList.JSONContent)
		}
		if resp.CardSubType() != CardSubTypeInstitutionList {
			t.Errorf("Expected sub type %q, got %q", CardSubTypeInstitutionList, resp.CardSubType())
		}
	})

	t.Run("NilLookup", func(t *testing.T) {
		resp, err := BuildJSONCard(req, "agent", nil, 10)
		if err != nil {
			t.Fatalf("BuildJSONCard() failed: %v", err)
		}

		card := resp.JSONCard()
		if card.LocationLatitude != nil || card.LocationLongitude != nil {
			t.Error("Expected no coordinates without a location")
		}
		if card.CardList.JSONContent != "[]" || card.CardList.TotalPages != 1 {
			t.Errorf("Unexpected card list: %+v", card.CardList)
		}
	})
}

func TestBuildersArePure(t *testing.T) {
	req := testRequest("text")

	first, _ := BuildTextCard(req, "agent")
	second, _ := BuildTextCard(req, "agent")
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Expected identical output, got %s and %s", a, b)
	}

	opts, _ := BuildOptionsCard(req, "agent")
	opts.OptionsCard().Options[0] = "changed"
	again, _ := BuildOptionsCard(req, "agent")
	if again.OptionsCard().Options[0] != DefaultOptions()[0] {
		t.Error("Options card shares state between calls")
	}
	if req.Query != "text" {
		t.Error("Builder mutated the request")
	}
}

func TestNewServiceContainer(t *testing.T) {
	if _, err := NewServiceContainer(nil, nil); err == nil {
		t.Error("Expected an error for a nil repository container")
	}

	if _, err := NewServiceContainer(&repositories.RepositoryContainer{}, nil); err == nil {
		t.Error("Expected an error for an empty repository container")
	}

	container, err := NewServiceContainer(&repositories.RepositoryContainer{
		InstitutionRepo: repositories.NewStaticInstitutionRepository(nil),
	}, nil)
	if err != nil {
		t.Fatalf("NewServiceContainer() failed: %v", err)
	}
	if container.CardService == nil {
		t.Error("Expected a card service")
	}
}
