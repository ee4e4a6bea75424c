// Package grpcserver hosts the mirror's gRPC server, registering the
// Consensus and standard health services and delegating to the subscription
// engine. It owns the translation from engine errors to wire status codes.
package grpcserver
