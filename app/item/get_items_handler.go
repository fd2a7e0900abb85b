package item

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"henalis/app"
	"henalis/domain"
	"henalis/pkg/httperror"
)

type GetItemsHandler struct {
	repository Repository
	paging     app.Paging
}

func NewGetItemsHandler(repository Repository, paging app.Paging) *GetItemsHandler {
	return &GetItemsHandler{
		repository: repository,
		paging:     paging,
	}
}

type GetItemsRequest struct {
	Category string `query:"category"`
	Material string `query:"material" validate:"omitempty,uuid"`
	PriceMin string `query:"price_min"`
	PriceMax string `query:"price_max"`
	Tags     string `query:"tags"`
	IsActive string `query:"is_active" validate:"omitempty,boolean"`
	Query    string `query:"q"`
	Sort     string `query:"sort"`
	Limit    int    `query:"limit" validate:"gte=0"`
	Offset   int    `query:"offset" validate:"gte=0"`
}

type GetItemsResponse struct {
	Items []domain.Item `json:"items"`
	Meta  Meta          `json:"meta"`
}

type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func (h GetItemsHandler) Handle(ctx context.Context, req *GetItemsRequest) (*GetItemsResponse, error) {
	if err := app.Validate(req, "item.index"); err != nil {
		return nil, err
	}

	filter, err := req.filter()
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = h.paging.Clamp(req.Limit, req.Offset)

	page, err := h.repository.ListItems(ctx, filter)
	if err != nil {
		return nil, app.MapError(err, "item.index")
	}

	return &GetItemsResponse{
		Items: page.Items,
		Meta: Meta{
			Total:  page.Total,
			Limit:  page.Limit,
			Offset: page.Offset,
		},
	}, nil
}

// filter resolves the raw query values once, so the query engine only sees typed input.
func (req *GetItemsRequest) filter() (domain.ItemFilter, error) {
	f := domain.ItemFilter{
		Search: strings.TrimSpace(req.Query),
		Sort:   domain.ParseSortOrder(req.Sort),
	}

	if c := strings.TrimSpace(req.Category); c != "" {
		ref := domain.ParseCategoryRef(c)
		f.Category = &ref
	}

	if req.Material != "" {
		f.MaterialID = &req.Material
	}

	var err error
	if f.PriceMin, err = parsePrice("price_min", req.PriceMin); err != nil {
		return f, err
	}
	if f.PriceMax, err = parsePrice("price_max", req.PriceMax); err != nil {
		return f, err
	}

	if req.IsActive != "" {
		active, err := strconv.ParseBool(req.IsActive)
		if err != nil {
			return f, httperror.BadRequest("item.index.invalid_is_active", "is_active must be a boolean", nil)
		}
		f.IsActive = &active
	}

	for _, raw := range strings.Split(req.Tags, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, httperror.BadRequest("item.index.invalid_tag", "tags must be a comma separated list of tag ids",
				map[string]string{"tag": raw})
		}
		f.TagIDs = append(f.TagIDs, id.String())
	}

	return f, nil
}

func parsePrice(field, raw string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, httperror.BadRequest("item.index.invalid_"+field, field+" must be a decimal number", nil)
	}
	return &d, nil
}
