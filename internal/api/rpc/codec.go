// Package rpc is the gRPC transport of the identity and account services.
//
// Requests and responses are plain Go structs carried by a JSON codec
// registered under the "json" content-subtype, and the service descriptors
// are declared by hand in this package. Clients built with NewIdentityClient
// and NewAccountClient select the codec on every call.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype of every storefront RPC.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
