package codec

import (
	"encoding/json"
	"sync"

	"github.com/meridian-network/meridian-light/lib"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

/*
	Proof producers store protobuf-encoded values, so verifying a proof requires
	re-serializing the claimed value exactly as the producer did. The SchemaRegistry
	holds pre-compiled message descriptors supplied by the caller (via service
	artifacts or any other channel) and turns them into ValueEncoder functions.

	The registry is an explicit caller-held handle. Two registries never share
	state, so independent services with colliding message names can coexist in
	one process.
*/

// SchemaRegistry maps fully qualified protobuf message names to their descriptors
type SchemaRegistry struct {
	mu     sync.RWMutex
	byName map[string]protoreflect.MessageDescriptor
}

// NewSchemaRegistry() constructs an empty registry
func NewSchemaRegistry() *SchemaRegistry {
	return &SchemaRegistry{
		byName: make(map[string]protoreflect.MessageDescriptor),
	}
}

// Register() adds every message found in the serialized FileDescriptorProtos to the registry
func (r *SchemaRegistry) Register(fileDescriptorProtos [][]byte) lib.ErrorI {
	if len(fileDescriptorProtos) == 0 {
		return nil
	}
	// unmarshal the FileDescriptorProtos
	fileProtos := make([]*descriptorpb.FileDescriptorProto, 0, len(fileDescriptorProtos))
	for _, bz := range fileDescriptorProtos {
		fd := new(descriptorpb.FileDescriptorProto)
		if err := proto.Unmarshal(bz, fd); err != nil {
			return ErrInvalidSchema(err)
		}
		fileProtos = append(fileProtos, fd)
	}
	return r.RegisterFiles(&descriptorpb.FileDescriptorSet{File: fileProtos})
}

// RegisterFiles() adds every message found in the descriptor set to the registry
func (r *SchemaRegistry) RegisterFiles(set *descriptorpb.FileDescriptorSet) lib.ErrorI {
	files, err := protodesc.NewFiles(set)
	if err != nil {
		return ErrInvalidSchema(err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		r.registerMessages(fd.Messages())
		return true
	})
	return nil
}

// registerMessages() records the message descriptors (and their nested messages) by full name
// CONTRACT: the caller must hold the write lock
func (r *SchemaRegistry) registerMessages(messages protoreflect.MessageDescriptors) {
	for i := 0; i < messages.Len(); i++ {
		md := messages.Get(i)
		r.byName[string(md.FullName())] = md
		r.registerMessages(md.Messages())
	}
}

// Find() returns the descriptor registered under the fully qualified message name, or nil
func (r *SchemaRegistry) Find(messageName string) protoreflect.MessageDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[messageName]
}

// EncoderFor() builds a ValueEncoder that serializes loose JSON-shaped values
// with the registered message schema, exactly as the producer stored them
func (r *SchemaRegistry) EncoderFor(messageName string) (ValueEncoder, lib.ErrorI) {
	desc := r.Find(messageName)
	if desc == nil {
		return nil, ErrUnknownMessageName(messageName)
	}
	return func(value any) ([]byte, error) {
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return nil, ErrJSONMarshal(err)
		}
		dynamic := dynamicpb.NewMessage(desc)
		if err = (protojson.UnmarshalOptions{DiscardUnknown: true}).Unmarshal(jsonBytes, dynamic); err != nil {
			return nil, ErrNotConvertible(err)
		}
		bz, err := proto.MarshalOptions{Deterministic: true}.Marshal(dynamic)
		if err != nil {
			return nil, ErrMarshal(err)
		}
		return bz, nil
	}, nil
}
