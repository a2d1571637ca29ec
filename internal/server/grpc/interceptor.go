package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server/auth"
	"github.com/techelevate/platform/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	reflectionpb "google.golang.org/grpc/reflection/grpc_reflection_v1"
	reflectionv1alphapb "google.golang.org/grpc/reflection/grpc_reflection_v1alpha"
	"google.golang.org/grpc/status"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFromContext returns the caller set by the auth interceptors.
func PrincipalFromContext(ctx context.Context) *services.Principal {
	p, _ := ctx.Value(principalKey).(*services.Principal)
	return p
}

func isPublic(method string) bool {
	return strings.HasPrefix(method, "/"+healthpb.Health_ServiceDesc.ServiceName+"/")
}

func isAdminOnly(method string) bool {
	return strings.HasPrefix(method, "/"+reflectionpb.ServerReflection_ServiceDesc.ServiceName+"/") ||
		strings.HasPrefix(method, "/"+reflectionv1alphapb.ServerReflection_ServiceDesc.ServiceName+"/")
}

func (s *GRPCServer) authorize(ctx context.Context, method string) (context.Context, error) {
	if isPublic(method) {
		return ctx, nil
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := auth.ParseBearer(header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	p, err := s.auth.Authenticate(ctx, token)
	if err != nil {
		if common.IsCredentialError(err) {
			return nil, status.Error(codes.Unauthenticated, credentialMessage(err))
		}
		s.logger.Error(ctx, "authenticate failed", "method", method, "error", err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}

	if isAdminOnly(method) && !p.Subject().IsAdministrator() {
		return nil, status.Error(codes.PermissionDenied, common.ReasonAdministratorRequired)
	}

	return context.WithValue(ctx, principalKey, p), nil
}

func credentialMessage(err error) string {
	for _, e := range []error{common.ErrExpiredCredential, common.ErrRevokedCredential, common.ErrAccountDeactivated} {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return "invalid token"
}

func (s *GRPCServer) authUnaryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := s.authorize(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *authedStream) Context() context.Context { return w.ctx }

func (s *GRPCServer) authStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authorize(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
}
