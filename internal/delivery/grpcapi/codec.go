package grpcapi

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// decodeRequest copies a Struct body into a json-tagged input type.
func decodeRequest(req *structpb.Struct, dst interface{}) error {
	if req == nil {
		req = &structpb.Struct{}
	}
	raw, err := protojson.Marshal(req)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "malformed request: %v", err)
	}
	return nil
}

// encodeResponse turns a json-tagged view into a Struct body.
func encodeResponse(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func requireField(name, value string) error {
	if value == "" {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("%s is required", name))
	}
	return nil
}
