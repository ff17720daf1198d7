package server

import (
	"context"
	"time"

	"github.com/lioia/pagerank-bench/pkg/job"
	"github.com/lioia/pagerank-bench/pkg/pagerank"
	"github.com/lioia/pagerank-bench/pkg/utils"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// RankMethod is the full gRPC method name of Ranker.Rank
const RankMethod = "/pagerank.Ranker/Rank"

// RankerServer ranks the graph described by a job request struct and answers
// with a job response struct
type RankerServer interface {
	Rank(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var rankerServiceDesc = grpc.ServiceDesc{
	ServiceName: "pagerank.Ranker",
	HandlerType: (*RankerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Rank",
			Handler:    rankHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pagerank/ranker.proto",
}

func RegisterRankerServer(s grpc.ServiceRegistrar, srv RankerServer) {
	s.RegisterService(&rankerServiceDesc, srv)
}

func rankHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RankerServer).Rank(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: RankMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RankerServer).Rank(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type rankerServer struct {
	server *Server
}

func (r *rankerServer) Rank(_ context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	request, err := job.RequestFromStruct(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if request.ID == "" {
		request.ID = utils.NewRunID()
	}
	response, err := job.Execute(request, pagerank.WithLogger(utils.EngineLogger()))
	if err != nil {
		if job.IsClientError(err) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}
	return response.Struct()
}

// unaryInterceptor counts and logs every call. A panicking handler is turned
// into an Internal error instead of taking the server down.
func (s *Server) unaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("handler panicked", "method", info.FullMethod, "panic", r)
			resp, err = nil, status.Errorf(codes.Internal, "panic: %v", r)
		}
		code := status.Code(err)
		s.requests.WithLabelValues("grpc", info.FullMethod, code.String()).Inc()
		if s.opts.RequestLog {
			s.logger.Info("call", "method", info.FullMethod, "code", code.String(), "latency", time.Since(start))
		}
	}()
	return handler(ctx, req)
}

// RankerClient calls the Ranker service on conn
type RankerClient struct {
	conn grpc.ClientConnInterface
}

func NewRankerClient(conn grpc.ClientConnInterface) *RankerClient {
	return &RankerClient{conn: conn}
}

func (c *RankerClient) Rank(ctx context.Context, request job.Request, opts ...grpc.CallOption) (job.Response, error) {
	in, err := request.Struct()
	if err != nil {
		return job.Response{}, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, RankMethod, in, out, opts...); err != nil {
		return job.Response{}, err
	}
	return job.ResponseFromStruct(out)
}
