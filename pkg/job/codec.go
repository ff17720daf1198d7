package job

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ContentType of the encoded requests and responses
const ContentType = "application/x-protobuf"

// Struct converts the request to its protobuf representation:
// {id, nodes, edges: [[u, v], ...], backend, container, damping, tolerance, max_iterations}
func (r Request) Struct() (*structpb.Struct, error) {
	edges := make([]any, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = []any{e[0], e[1]}
	}
	fields := map[string]any{
		"nodes": r.Nodes,
		"edges": edges,
	}
	setString(fields, "id", r.ID)
	setString(fields, "backend", r.Backend)
	setString(fields, "container", r.Container)
	if r.Damping != nil {
		fields["damping"] = *r.Damping
	}
	if r.Tolerance != 0 {
		fields["tolerance"] = r.Tolerance
	}
	if r.MaxIterations != 0 {
		fields["max_iterations"] = r.MaxIterations
	}
	return structpb.NewStruct(fields)
}

func RequestFromStruct(s *structpb.Struct) (Request, error) {
	var r Request
	var err error
	fields := s.GetFields()
	if r.Nodes, err = intField(fields, "nodes"); err != nil {
		return r, err
	}
	if v, ok := fields["edges"]; ok {
		list, ok := v.GetKind().(*structpb.Value_ListValue)
		if !ok {
			return r, fmt.Errorf("%w: edges must be a list", ErrInvalidRequest)
		}
		for i, item := range list.ListValue.GetValues() {
			pair := item.GetListValue().GetValues()
			if len(pair) != 2 {
				return r, fmt.Errorf("%w: edge %d must be a [from, to] pair", ErrInvalidRequest, i)
			}
			from, err := toInt(pair[0])
			if err != nil {
				return r, fmt.Errorf("%w: edge %d: %w", ErrInvalidRequest, i, err)
			}
			to, err := toInt(pair[1])
			if err != nil {
				return r, fmt.Errorf("%w: edge %d: %w", ErrInvalidRequest, i, err)
			}
			r.Edges = append(r.Edges, [2]int{from, to})
		}
	}
	r.ID = fields["id"].GetStringValue()
	r.Backend = fields["backend"].GetStringValue()
	r.Container = fields["container"].GetStringValue()
	if v, ok := fields["damping"]; ok {
		d := v.GetNumberValue()
		r.Damping = &d
	}
	r.Tolerance = fields["tolerance"].GetNumberValue()
	if r.MaxIterations, err = intField(fields, "max_iterations"); err != nil {
		return r, err
	}
	return r, nil
}

// Struct converts the response to its protobuf representation:
// {id, ranks, iterations, converged, delta, error}
func (r Response) Struct() (*structpb.Struct, error) {
	ranks := make([]any, len(r.Ranks))
	for i, v := range r.Ranks {
		ranks[i] = v
	}
	fields := map[string]any{
		"ranks":      ranks,
		"iterations": r.Iterations,
		"converged":  r.Converged,
		"delta":      r.Delta,
	}
	setString(fields, "id", r.ID)
	setString(fields, "error", r.Error)
	return structpb.NewStruct(fields)
}

func ResponseFromStruct(s *structpb.Struct) (Response, error) {
	var r Response
	var err error
	fields := s.GetFields()
	for _, v := range fields["ranks"].GetListValue().GetValues() {
		r.Ranks = append(r.Ranks, v.GetNumberValue())
	}
	if r.Iterations, err = intField(fields, "iterations"); err != nil {
		return r, err
	}
	r.Converged = fields["converged"].GetBoolValue()
	r.Delta = fields["delta"].GetNumberValue()
	r.ID = fields["id"].GetStringValue()
	r.Error = fields["error"].GetStringValue()
	return r, nil
}

func MarshalRequest(r Request) ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func UnmarshalRequest(data []byte) (Request, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return RequestFromStruct(&s)
}

func MarshalResponse(r Response) ([]byte, error) {
	s, err := r.Struct()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func UnmarshalResponse(data []byte) (Response, error) {
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		return Response{}, err
	}
	return ResponseFromStruct(&s)
}

func setString(fields map[string]any, key, value string) {
	if value != "" {
		fields[key] = value
	}
}

// Missing fields are 0
func intField(fields map[string]*structpb.Value, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInvalidRequest, key, err)
	}
	return n, nil
}

func toInt(v *structpb.Value) (int, error) {
	number, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, errors.New("expected a number")
	}
	x := number.NumberValue
	if x != math.Trunc(x) || math.Abs(x) > 1<<53 {
		return 0, fmt.Errorf("expected an integer, got %v", x)
	}
	return int(x), nil
}
