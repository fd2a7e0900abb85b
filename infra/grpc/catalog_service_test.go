package grpc

import (
	"context"
	"net"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"henalis/app"
	"henalis/domain"
	"henalis/infra/postgres"
	"henalis/internal/testdb"
)

type fixture struct {
	repo   *postgres.PgRepository
	client *CatalogClient
	conn   *grpc.ClientConn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := postgres.NewRepository(testdb.New(t))
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(lis, NewCatalogService(repo, app.Paging{DefaultLimit: 12, MaxLimit: 100}, nil))
	go func() { _ = srv.Start() }()
	t.Cleanup(func() { _ = srv.GracefulStop() })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &fixture{repo: repo, client: NewCatalogClient(conn), conn: conn}
}

func (f *fixture) item(t *testing.T, name, sku string, price int64, active bool) domain.Item {
	t.Helper()
	it, err := f.repo.CreateItem(context.Background(), domain.NewItem{
		Name:          name,
		SKU:           sku,
		Price:         decimal.NewFromInt(price),
		Currency:      "USD",
		StockQuantity: 1,
		IsActive:      active,
	})
	require.NoError(t, err)
	return it
}

func TestCatalogGetItem(t *testing.T) {
	f := newFixture(t)
	chair := f.item(t, "Oak Chair", "CH-1", 120, true)

	out, err := f.client.GetItem(context.Background(), chair.ID)
	require.NoError(t, err)
	assert.Equal(t, chair.ID, out.Fields["id"].GetStringValue())
	assert.Equal(t, "Oak Chair", out.Fields["name"].GetStringValue())
	price, err := decimal.NewFromString(out.Fields["price"].GetStringValue())
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(120)))

	_, err = f.client.GetItem(context.Background(), "00000000-0000-0000-0000-000000000001")
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = f.client.GetItem(context.Background(), "not-a-uuid")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.GetItem(context.Background(), "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCatalogListItems(t *testing.T) {
	f := newFixture(t)
	f.item(t, "Oak Chair", "CH-1", 120, true)
	f.item(t, "Pine Table", "TB-1", 450, true)
	f.item(t, "Old Stool", "ST-1", 40, false)

	out, err := f.client.ListItems(context.Background(), map[string]any{
		"is_active": true,
		"price_min": 100,
		"sort":      "price-high",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(2), out.Fields["total"].GetNumberValue())
	assert.Equal(t, float64(12), out.Fields["limit"].GetNumberValue())
	items := out.Fields["items"].GetListValue().GetValues()
	require.Len(t, items, 2)
	assert.Equal(t, "Pine Table", items[0].GetStructValue().Fields["name"].GetStringValue())
	assert.Equal(t, "Oak Chair", items[1].GetStructValue().Fields["name"].GetStringValue())

	_, err = f.client.ListItems(context.Background(), map[string]any{"colour": "red"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = f.client.ListItems(context.Background(), map[string]any{"tags": []any{"nope"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCatalogIncrementLikes(t *testing.T) {
	f := newFixture(t)
	chair := f.item(t, "Oak Chair", "CH-1", 120, true)

	for range 2 {
		_, err := f.client.IncrementLikes(context.Background(), chair.ID)
		require.NoError(t, err)
	}
	out, err := f.client.GetItem(context.Background(), chair.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2), out.Fields["likes"].GetNumberValue())
}

func TestHealthServiceReportsServing(t *testing.T) {
	f := newFixture(t)

	res, err := grpc_health_v1.NewHealthClient(f.conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: CatalogServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, res.Status)
}

func TestRecoveryInterceptorTurnsPanicsIntoInternal(t *testing.T) {
	_, err := recoveryInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x/Y"},
		func(context.Context, any) (any, error) { panic("boom") })
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestToStatusMapsDomainErrors(t *testing.T) {
	assert.Equal(t, codes.NotFound, status.Code(toStatus(domain.ErrNotFound)))
	assert.Equal(t, codes.AlreadyExists, status.Code(toStatus(app.MapError(domain.ErrConflict, "item.create"))))
	assert.Equal(t, codes.InvalidArgument, status.Code(toStatus(domain.ErrInvalidArgument)))
	assert.Equal(t, codes.Internal, status.Code(toStatus(assert.AnError)))
}
