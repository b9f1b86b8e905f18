package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey  = "provider"
	serviceName   = "pageturn.provider.v1.MetaProvider"
	jsonCodecName = "json"
	methodGetInfo = "/" + serviceName + "/GetInfo"
	methodLookup  = "/" + serviceName + "/Lookup"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "PAGETURN_PLUGIN",
	MagicCookieValue: "pageturn",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type LookupRequest struct {
	ISBN13  string   `json:"isbn13"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
}

type LookupResponse struct {
	Found         bool     `json:"found"`
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Publisher     string   `json:"publisher"`
	PublishedDate string   `json:"published_date"`
	PageCount     int32    `json:"page_count"`
	Categories    []string `json:"categories"`
	ThumbnailURL  string   `json:"thumbnail_url"`
	Language      string   `json:"language"`
}

type MetaProviderServer interface {
	GetInfo(ctx context.Context, in *Empty) (*Info, error)
	Lookup(ctx context.Context, in *LookupRequest) (*LookupResponse, error)
}

type MetaProviderClient interface {
	GetInfo(ctx context.Context) (*Info, error)
	Lookup(ctx context.Context, in *LookupRequest) (*LookupResponse, error)
}

type metaProviderClient struct {
	conn *grpc.ClientConn
}

func NewMetaProviderClient(conn *grpc.ClientConn) MetaProviderClient {
	return &metaProviderClient{conn: conn}
}

func (c *metaProviderClient) GetInfo(ctx context.Context) (*Info, error) {
	out := &Info{}
	if err := c.conn.Invoke(ctx, methodGetInfo, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *metaProviderClient) Lookup(ctx context.Context, in *LookupRequest) (*LookupResponse, error) {
	out := &LookupResponse{}
	if err := c.conn.Invoke(ctx, methodLookup, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterMetaProviderServer(server grpc.ServiceRegistrar, impl MetaProviderServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*MetaProviderServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetInfo",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetInfo(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetInfo}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetInfo(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "Lookup",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &LookupRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.Lookup(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodLookup}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*LookupRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.Lookup(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/provider-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl MetaProviderServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterMetaProviderServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewMetaProviderClient(conn), nil
}

func PluginMap(impl MetaProviderServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
