package search

import (
	"real-estate-crm/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// SearchClient wraps the Meilisearch index holding property listings.
type SearchClient struct {
	client *meilisearch.Client
	index  string
}

// NewSearchClient connects to Meilisearch.
func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "properties",
	}
}

// InitIndex creates the properties index and configures its attributes.
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"title",
		"description",
		"address",
		"city",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"id",
		"type",
		"status",
		"price",
		"bedrooms",
		"city",
		"agent_id",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"area",
		"created_at",
	})
	return err
}

// IndexProperty indexes a single property.
func (s *SearchClient) IndexProperty(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Property{*property})
	return err
}

// IndexProperties indexes multiple properties.
func (s *SearchClient) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(properties)
	return err
}

// RemoveProperty drops a property from the index after a hard delete.
func (s *SearchClient) RemoveProperty(id string) error {
	_, err := s.client.Index(s.index).DeleteDocument(id)
	return err
}

// SearchRequest represents advanced search parameters.
type SearchRequest struct {
	Query                string
	Limit                int64
	Offset               int64
	Filter               []string
	Sort                 []string
	FacetsFilter         []string
	AttributesToRetrieve []string
}

// SearchResult represents search results with facets.
type SearchResult struct {
	Hits           []models.Property
	TotalHits      int64
	Facets         map[string]interface{}
	ProcessingTime int64
}

// Search searches listings with basic options.
func (s *SearchClient) Search(query string, limit int64) ([]models.Property, error) {
	result, err := s.AdvancedSearch(SearchRequest{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return result.Hits, nil
}

// AdvancedSearch performs search with facets, filters and sorting.
func (s *SearchClient) AdvancedSearch(req SearchRequest) (*SearchResult, error) {
	if req.Limit == 0 {
		req.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if len(req.Filter) > 0 {
		filterStr := ""
		for i, f := range req.Filter {
			if i > 0 {
				filterStr += " AND "
			}
			filterStr += f
		}
		searchReq.Filter = filterStr
	}

	if len(req.Sort) > 0 {
		searchReq.Sort = req.Sort
	}
	if len(req.FacetsFilter) > 0 {
		searchReq.Facets = req.FacetsFilter
	}
	if len(req.AttributesToRetrieve) > 0 {
		searchReq.AttributesToRetrieve = req.AttributesToRetrieve
	}

	searchRes, err := s.client.Index(s.index).Search(req.Query, searchReq)
	if err != nil {
		return nil, err
	}

	properties := make([]models.Property, 0, len(searchRes.Hits))
	for _, hit := range searchRes.Hits {
		properties = append(properties, parsePropertyFromHit(hit))
	}

	var facets map[string]interface{}
	if searchRes.FacetDistribution != nil {
		facets, _ = searchRes.FacetDistribution.(map[string]interface{})
	}

	return &SearchResult{
		Hits:           properties,
		TotalHits:      searchRes.EstimatedTotalHits,
		Facets:         facets,
		ProcessingTime: searchRes.ProcessingTimeMs,
	}, nil
}

// parsePropertyFromHit converts a search hit to a Property.
func parsePropertyFromHit(hit interface{}) models.Property {
	hitMap, ok := hit.(map[string]interface{})
	if !ok {
		return models.Property{}
	}

	property := models.Property{
		ID:          getString(hitMap, "id"),
		Title:       getString(hitMap, "title"),
		Description: getString(hitMap, "description"),
		Address:     getString(hitMap, "address"),
		City:        getString(hitMap, "city"),
		AgentID:     getString(hitMap, "agent_id"),
		Type:        models.PropertyType(getString(hitMap, "type")),
		Status:      models.PropertyStatus(getString(hitMap, "status")),
	}

	if price, ok := hitMap["price"].(float64); ok {
		property.Price = price
	}
	if area, ok := hitMap["area"].(float64); ok {
		property.Area = &area
	}
	if bedrooms, ok := hitMap["bedrooms"].(float64); ok {
		n := int(bedrooms)
		property.Bedrooms = &n
	}
	if bathrooms, ok := hitMap["bathrooms"].(float64); ok {
		n := int(bathrooms)
		property.Bathrooms = &n
	}
	if features, ok := hitMap["features"].([]interface{}); ok {
		for _, f := range features {
			if s, ok := f.(string); ok {
				property.Features = append(property.Features, s)
			}
		}
	}
	if photos, ok := hitMap["photos"].([]interface{}); ok {
		for _, p := range photos {
			if s, ok := p.(string); ok {
				property.Photos = append(property.Photos, s)
			}
		}
	}

	return property
}

// getString safely extracts a string from map.
func getString(m map[string]interface{}, key string) string {
	if val, ok := m[key].(string); ok {
		return val
	}
	return ""
}

// GetFacets retrieves facet distribution for specified fields.
func (s *SearchClient) GetFacets(facets []string) (map[string]interface{}, error) {
	searchRes, err := s.client.Index(s.index).Search("", &meilisearch.SearchRequest{
		Limit:  0,
		Facets: facets,
	})
	if err != nil {
		return nil, err
	}

	if searchRes.FacetDistribution != nil {
		if facetMap, ok := searchRes.FacetDistribution.(map[string]interface{}); ok {
			return facetMap, nil
		}
	}
	return map[string]interface{}{}, nil
}
