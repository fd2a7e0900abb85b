package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"henalis/app"
	"henalis/app/item"
	"henalis/domain"
	"henalis/pkg/events"
	"henalis/pkg/httperror"
)

const CatalogServiceName = "henalis.catalog.v1.CatalogService"

// CatalogServer is the read side of the item catalog exposed over gRPC. Items travel as
// google.protobuf.Struct values carrying the same JSON shape as the HTTP API.
type CatalogServer interface {
	GetItem(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error)
	ListItems(ctx context.Context, filter *structpb.Struct) (*structpb.Struct, error)
	IncrementLikes(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error)
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetItem", Handler: unaryHandler("GetItem", CatalogServer.GetItem)},
		{MethodName: "ListItems", Handler: unaryHandler("ListItems", CatalogServer.ListItems)},
		{MethodName: "IncrementLikes", Handler: unaryHandler("IncrementLikes", CatalogServer.IncrementLikes)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "henalis/catalog/v1/catalog.proto",
}

func unaryHandler[Req any](method string, call func(CatalogServer, context.Context, *Req) (*structpb.Struct, error)) grpc.MethodHandler {
	fullMethod := "/" + CatalogServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServer), ctx, req.(*Req))
		})
	}
}

// CatalogClient calls CatalogService on a client connection.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func (c *CatalogClient) GetItem(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetItem", wrapperspb.String(id), opts...)
}

func (c *CatalogClient) ListItems(ctx context.Context, filter map[string]any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(filter)
	if err != nil {
		return nil, fmt.Errorf("building filter: %w", err)
	}
	return c.invoke(ctx, "ListItems", in, opts...)
}

func (c *CatalogClient) IncrementLikes(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "IncrementLikes", wrapperspb.String(id), opts...)
}

func (c *CatalogClient) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+CatalogServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CatalogService answers CatalogServer calls with the same handlers the HTTP API uses.
type CatalogService struct {
	getItem  *item.GetItemHandler
	getItems *item.GetItemsHandler
	like     *item.LikeItemHandler
}

func NewCatalogService(repository item.Repository, paging app.Paging, emitter *events.Emitter) *CatalogService {
	return &CatalogService{
		getItem:  item.NewGetItemHandler(repository),
		getItems: item.NewGetItemsHandler(repository, paging),
		like:     item.NewLikeItemHandler(repository, emitter),
	}
}

func (s *CatalogService) GetItem(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error) {
	if id.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "item id is required")
	}

	res, err := s.getItem.Handle(ctx, &item.GetItemRequest{ItemID: id.GetValue()})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res.Item)
}

func (s *CatalogService) ListItems(ctx context.Context, filter *structpb.Struct) (*structpb.Struct, error) {
	req, err := itemsRequest(filter)
	if err != nil {
		return nil, err
	}

	res, err := s.getItems.Handle(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{
		"items":  res.Items,
		"total":  res.Meta.Total,
		"limit":  res.Meta.Limit,
		"offset": res.Meta.Offset,
	})
}

func (s *CatalogService) IncrementLikes(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error) {
	if id.GetValue() == "" {
		return nil, status.Error(codes.InvalidArgument, "item id is required")
	}

	res, err := s.like.Handle(ctx, &item.LikeItemRequest{ItemID: id.GetValue()})
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(res.Item)
}

// itemsRequest reads the filter struct with the field names of the HTTP query string.
func itemsRequest(filter *structpb.Struct) (*item.GetItemsRequest, error) {
	req := &item.GetItemsRequest{}
	for key, v := range filter.GetFields() {
		switch key {
		case "category":
			req.Category = scalar(v)
		case "material":
			req.Material = scalar(v)
		case "price_min":
			req.PriceMin = scalar(v)
		case "price_max":
			req.PriceMax = scalar(v)
		case "tags":
			req.Tags = list(v)
		case "is_active":
			req.IsActive = scalar(v)
		case "q":
			req.Query = scalar(v)
		case "sort":
			req.Sort = scalar(v)
		case "limit":
			req.Limit = int(v.GetNumberValue())
		case "offset":
			req.Offset = int(v.GetNumberValue())
		default:
			return nil, status.Errorf(codes.InvalidArgument, "unknown filter field %q", key)
		}
	}
	return req, nil
}

func scalar(v *structpb.Value) string {
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	}
	return ""
}

func list(v *structpb.Value) string {
	values := v.GetListValue().GetValues()
	if values == nil {
		return scalar(v)
	}
	parts := make([]string, 0, len(values))
	for _, e := range values {
		parts = append(parts, scalar(e))
	}
	return strings.Join(parts, ",")
}

// toStruct round-trips v through its JSON encoding so item fields keep their API names.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, "encoding response")
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, "encoding response")
	}
	return out, nil
}

func toStatus(err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		code := codes.Internal
		switch httpErr.Status {
		case 400:
			code = codes.InvalidArgument
		case 401:
			code = codes.Unauthenticated
		case 403:
			code = codes.PermissionDenied
		case 404:
			code = codes.NotFound
		case 409:
			code = codes.AlreadyExists
		}
		if code == codes.Internal {
			return status.Error(code, "internal error")
		}
		return status.Error(code, httpErr.Code+": "+httpErr.Message)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	}
	return status.Error(codes.Internal, "internal error")
}
