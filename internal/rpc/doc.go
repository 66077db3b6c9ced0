// Package rpc is the wire contract of the herocards CardStore service.
//
// Messages travel as google.protobuf.Struct values; the typed request and
// response structs of this package are converted to and from Struct through
// protojson (see Encode and Decode). The service descriptor, client stub and
// server registration helper follow the shape of protoc-gen-go-grpc output so
// the rest of the code base uses them like generated stubs.
package rpc
