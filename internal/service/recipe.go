package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pageza/receipt-chef/backend/config"
	"github.com/pageza/receipt-chef/backend/internal/types"
)

const (
	recipeServiceName = "recipe"
	recipeDataset     = "COOKRCP01"

	// ResultCodeOK is the dataset's success sentinel
	ResultCodeOK = "INFO-000"

	recipeRequestFailed = "API 요청 오류"
	recipeNotFound      = "데이터를 찾을 수 없습니다."
)

// RecipeRow is one raw record of the COOKRCP01 dataset, keyed by column name.
// Non-string scalars are kept as their JSON text; null columns are treated as absent.
type RecipeRow map[string]string

// UnmarshalJSON accepts string, number and boolean column values
func (r *RecipeRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	row := make(RecipeRow, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 || bytes.Equal(value, []byte("null")) {
			continue
		}

		var str string
		if err := json.Unmarshal(value, &str); err == nil {
			row[key] = str
			continue
		}

		var num json.Number
		if err := json.Unmarshal(value, &num); err == nil {
			row[key] = num.String()
			continue
		}

		var b bool
		if err := json.Unmarshal(value, &b); err == nil {
			row[key] = strconv.FormatBool(b)
			continue
		}

		return fmt.Errorf("invalid value for column %s", key)
	}

	*r = row
	return nil
}

// Get returns the column value or types.MissingValue when the column is absent
func (r RecipeRow) Get(key string) string {
	if v, ok := r[key]; ok {
		return v
	}
	return types.MissingValue
}

// RecipeSearchResponse mirrors the dataset's JSON envelope
type RecipeSearchResponse struct {
	Dataset struct {
		TotalCount string      `json:"total_count"`
		Rows       []RecipeRow `json:"row"`
		Result     struct {
			Code    string `json:"CODE"`
			Message string `json:"MSG"`
		} `json:"RESULT"`
	} `json:"COOKRCP01"`
}

// NewRecipeRecord flattens a dataset row into a RecipeRecord.
// Manual slots 1..20 are scanned in order and kept only when their step text is non-blank.
func NewRecipeRecord(row RecipeRow) types.RecipeRecord {
	record := types.RecipeRecord{
		ID:          row.Get("RCP_SEQ"),
		Title:       row.Get("RCP_NM"),
		ImageURL:    row.Get("ATT_FILE_NO_MAIN"),
		ImageURL2:   row.Get("ATT_FILE_NO_MK"),
		Description: row.Get("INFO_ENG"),
		ManualSteps: []types.ManualStep{},
		Ingredients: row.Get("RCP_PARTS_DTLS"),
		Tip:         row.Get("RCP_NA_TIP"),
		Category:    row.Get("RCP_PAT2"),
	}

	for i := 1; i <= types.ManualStepSlots; i++ {
		step := strings.TrimSpace(row[fmt.Sprintf("MANUAL%02d", i)])
		if step == "" {
			continue
		}
		record.ManualSteps = append(record.ManualSteps, types.ManualStep{
			Step:  step,
			Image: strings.TrimSpace(row[fmt.Sprintf("MANUAL_IMG%02d", i)]),
		})
	}

	return record
}

// RecipeService searches the public recipe database
type RecipeService struct {
	baseURL string
	apiKey  string
	limit   int
	client  *http.Client
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(cfg *config.Config, client *http.Client) *RecipeService {
	if client == nil {
		client = &http.Client{Timeout: cfg.UpstreamTimeout}
	}
	limit := cfg.RecipeResultLimit
	if limit < 1 {
		limit = config.DefaultRecipeResultLimit
	}
	return &RecipeService{
		baseURL: cfg.RecipeAPIBaseURL,
		apiKey:  cfg.RecipeAPIKey,
		limit:   limit,
		client:  client,
	}
}

// subDelimEscaper encodes the sub-delimiters url.PathEscape keeps, so a term
// such as "a=b&c" stays a single RCP_NM value
var subDelimEscaper = strings.NewReplacer(
	"$", "%24", "&", "%26", "+", "%2B", ",", "%2C",
	":", "%3A", ";", "%3B", "=", "%3D", "@", "%40",
)

// SearchURL builds the name-match query URL for term
func (s *RecipeService) SearchURL(term string) string {
	return fmt.Sprintf("%s%s/%s/json/1/%d/RCP_NM=%s",
		s.baseURL, s.apiKey, recipeDataset, s.limit, escapeTerm(term))
}

func escapeTerm(term string) string {
	return subDelimEscaper.Replace(url.PathEscape(term))
}

// SearchRecipes returns the recipes whose name matches term
func (s *RecipeService) SearchRecipes(ctx context.Context, term string) ([]types.RecipeRecord, error) {
	if strings.TrimSpace(term) == "" {
		return nil, NewValidationError("No ingredient provided")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.SearchURL(term), nil)
	if err != nil {
		return nil, NewUpstreamError(recipeServiceName, recipeRequestFailed, 0, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, NewUpstreamError(recipeServiceName, recipeRequestFailed, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewUpstreamError(recipeServiceName, recipeRequestFailed, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewUpstreamError(recipeServiceName, recipeRequestFailed, resp.StatusCode,
			fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	var result RecipeSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, NewUpstreamError(recipeServiceName, recipeRequestFailed, resp.StatusCode,
			fmt.Errorf("failed to decode response: %w", err))
	}

	code := result.Dataset.Result.Code
	if code != ResultCodeOK {
		log.Printf("[RecipeService] search %q returned %s: %s", term, code, result.Dataset.Result.Message)
		return nil, NewNotFoundError(recipeNotFound)
	}

	recipes := make([]types.RecipeRecord, 0, len(result.Dataset.Rows))
	for _, row := range result.Dataset.Rows {
		recipes = append(recipes, NewRecipeRecord(row))
	}
	return recipes, nil
}
