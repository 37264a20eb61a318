// SPDX-FileCopyrightText: (C) 2025 Intel Corporation
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthServer exposes the standard gRPC health service.
type HealthServer struct {
	grpcServer  *grpc.Server
	healthCheck *health.Server
}

func NewHealthServer() *HealthServer {
	s := &HealthServer{
		grpcServer:  grpc.NewServer(),
		healthCheck: health.NewServer(),
	}
	s.healthCheck.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(s.grpcServer, s.healthCheck)
	return s
}

// Serve blocks serving health checks on lis.
func (s *HealthServer) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Shutdown reports NOT_SERVING to the clients and stops the server, ungracefully if it does not stop within dur.
func (s *HealthServer) Shutdown(dur time.Duration) {
	s.healthCheck.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-t.C:
		s.grpcServer.Stop()
	case <-stopped:
	}
}
