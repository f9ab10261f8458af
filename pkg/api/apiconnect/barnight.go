// Package apiconnect wires the api messages to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/barnight/pkg/api"
)

const (
	// BarNightServiceName is the fully-qualified name of the BarNightService service.
	BarNightServiceName = "barnight.v1.BarNightService"
)

// Procedure paths of the BarNightService.
const (
	BarNightServiceListBarNightsProcedure  = "/barnight.v1.BarNightService/ListBarNights"
	BarNightServiceGetBalancesProcedure    = "/barnight.v1.BarNightService/GetBalances"
	BarNightServiceCreateBarNightProcedure = "/barnight.v1.BarNightService/CreateBarNight"
	BarNightServiceUpdateBarNightProcedure = "/barnight.v1.BarNightService/UpdateBarNight"
	BarNightServiceDeleteBarNightProcedure = "/barnight.v1.BarNightService/DeleteBarNight"
	BarNightServiceListUsersProcedure      = "/barnight.v1.BarNightService/ListUsers"
)

// BarNightServiceWriteProcedures are the procedures that modify the ledger.
var BarNightServiceWriteProcedures = []string{
	BarNightServiceCreateBarNightProcedure,
	BarNightServiceUpdateBarNightProcedure,
	BarNightServiceDeleteBarNightProcedure,
}

// BarNightServiceHandler is implemented by the server side of the BarNightService.
type BarNightServiceHandler interface {
	ListBarNights(context.Context, *connect.Request[api.ListBarNightsRequest]) (*connect.Response[api.ListBarNightsResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	CreateBarNight(context.Context, *connect.Request[api.CreateBarNightRequest]) (*connect.Response[api.CreateBarNightResponse], error)
	UpdateBarNight(context.Context, *connect.Request[api.UpdateBarNightRequest]) (*connect.Response[api.UpdateBarNightResponse], error)
	DeleteBarNight(context.Context, *connect.Request[api.DeleteBarNightRequest]) (*connect.Response[api.DeleteBarNightResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewBarNightServiceHandler builds an HTTP handler for the service and
// returns the path it should be mounted on.
func NewBarNightServiceHandler(svc BarNightServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{api.WithCodec()}, opts...)

	routes := map[string]http.Handler{
		BarNightServiceListBarNightsProcedure:  connect.NewUnaryHandler(BarNightServiceListBarNightsProcedure, svc.ListBarNights, opts...),
		BarNightServiceGetBalancesProcedure:    connect.NewUnaryHandler(BarNightServiceGetBalancesProcedure, svc.GetBalances, opts...),
		BarNightServiceCreateBarNightProcedure: connect.NewUnaryHandler(BarNightServiceCreateBarNightProcedure, svc.CreateBarNight, opts...),
		BarNightServiceUpdateBarNightProcedure: connect.NewUnaryHandler(BarNightServiceUpdateBarNightProcedure, svc.UpdateBarNight, opts...),
		BarNightServiceDeleteBarNightProcedure: connect.NewUnaryHandler(BarNightServiceDeleteBarNightProcedure, svc.DeleteBarNight, opts...),
		BarNightServiceListUsersProcedure:      connect.NewUnaryHandler(BarNightServiceListUsersProcedure, svc.ListUsers, opts...),
	}
	return "/" + BarNightServiceName + "/", router(routes)
}

// BarNightServiceClient is a client for the BarNightService.
type BarNightServiceClient interface {
	ListBarNights(context.Context, *connect.Request[api.ListBarNightsRequest]) (*connect.Response[api.ListBarNightsResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	CreateBarNight(context.Context, *connect.Request[api.CreateBarNightRequest]) (*connect.Response[api.CreateBarNightResponse], error)
	UpdateBarNight(context.Context, *connect.Request[api.UpdateBarNightRequest]) (*connect.Response[api.UpdateBarNightResponse], error)
	DeleteBarNight(context.Context, *connect.Request[api.DeleteBarNightRequest]) (*connect.Response[api.DeleteBarNightResponse], error)
	ListUsers(context.Context, *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error)
}

// NewBarNightServiceClient constructs a client for the service at baseURL.
func NewBarNightServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BarNightServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{api.WithCodec()}, opts...)
	return &barNightServiceClient{
		listBarNights:  connect.NewClient[api.ListBarNightsRequest, api.ListBarNightsResponse](httpClient, baseURL+BarNightServiceListBarNightsProcedure, opts...),
		getBalances:    connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+BarNightServiceGetBalancesProcedure, opts...),
		createBarNight: connect.NewClient[api.CreateBarNightRequest, api.CreateBarNightResponse](httpClient, baseURL+BarNightServiceCreateBarNightProcedure, opts...),
		updateBarNight: connect.NewClient[api.UpdateBarNightRequest, api.UpdateBarNightResponse](httpClient, baseURL+BarNightServiceUpdateBarNightProcedure, opts...),
		deleteBarNight: connect.NewClient[api.DeleteBarNightRequest, api.DeleteBarNightResponse](httpClient, baseURL+BarNightServiceDeleteBarNightProcedure, opts...),
		listUsers:      connect.NewClient[api.ListUsersRequest, api.ListUsersResponse](httpClient, baseURL+BarNightServiceListUsersProcedure, opts...),
	}
}

type barNightServiceClient struct {
	listBarNights  *connect.Client[api.ListBarNightsRequest, api.ListBarNightsResponse]
	getBalances    *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	createBarNight *connect.Client[api.CreateBarNightRequest, api.CreateBarNightResponse]
	updateBarNight *connect.Client[api.UpdateBarNightRequest, api.UpdateBarNightResponse]
	deleteBarNight *connect.Client[api.DeleteBarNightRequest, api.DeleteBarNightResponse]
	listUsers      *connect.Client[api.ListUsersRequest, api.ListUsersResponse]
}

func (c *barNightServiceClient) ListBarNights(ctx context.Context, req *connect.Request[api.ListBarNightsRequest]) (*connect.Response[api.ListBarNightsResponse], error) {
	return c.listBarNights.CallUnary(ctx, req)
}

func (c *barNightServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *barNightServiceClient) CreateBarNight(ctx context.Context, req *connect.Request[api.CreateBarNightRequest]) (*connect.Response[api.CreateBarNightResponse], error) {
	return c.createBarNight.CallUnary(ctx, req)
}

func (c *barNightServiceClient) UpdateBarNight(ctx context.Context, req *connect.Request[api.UpdateBarNightRequest]) (*connect.Response[api.UpdateBarNightResponse], error) {
	return c.updateBarNight.CallUnary(ctx, req)
}

func (c *barNightServiceClient) DeleteBarNight(ctx context.Context, req *connect.Request[api.DeleteBarNightRequest]) (*connect.Response[api.DeleteBarNightResponse], error) {
	return c.deleteBarNight.CallUnary(ctx, req)
}

func (c *barNightServiceClient) ListUsers(ctx context.Context, req *connect.Request[api.ListUsersRequest]) (*connect.Response[api.ListUsersResponse], error) {
	return c.listUsers.CallUnary(ctx, req)
}

// router dispatches on the exact procedure path.
func router(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := routes[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}
