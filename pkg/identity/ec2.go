package identity

import (
	"context"
	"fmt"
	"hash/fnv"
	"time"

	"wsnelect/pkg/wire"

	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
)

// ec2MetadataAPI captures the single IMDS operation EC2 needs, so tests can
// substitute a fake client instead of talking to the instance metadata
// service, the same narrow-interface-for-testing convention this codebase
// already uses for its EC2 API surface.
type ec2MetadataAPI interface {
	GetMetadata(ctx context.Context, params *imds.GetMetadataInput, optFns ...func(*imds.Options)) (*imds.GetMetadataOutput, error)
}

// EC2 derives a NodeID from the running instance's own EC2 instance id via
// the Instance Metadata Service, for fleets of simulated motes deployed as
// EC2 instances on a shared subnet instead of hand-assigned static ids.
type EC2 struct {
	client  ec2MetadataAPI
	timeout time.Duration
}

// NewEC2 creates an identity source backed by the local instance's IMDS
// endpoint.
func NewEC2() *EC2 {
	return &EC2{client: imds.New(imds.Options{}), timeout: 2 * time.Second}
}

// NodeID fetches the instance id from IMDS and hashes it into 1..65535.
func (e *EC2) NodeID() (wire.NodeID, error) {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	out, err := e.client.GetMetadata(ctx, &imds.GetMetadataInput{Path: "instance-id"})
	if err != nil {
		return 0, fmt.Errorf("identity: fetch instance-id from IMDS: %w", err)
	}
	defer out.Content.Close()

	buf := make([]byte, 0, 32)
	chunk := make([]byte, 32)
	for {
		n, readErr := out.Content.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if readErr != nil {
			break
		}
	}

	h := fnv.New32a()
	_, _ = h.Write(buf)
	return wire.NodeID(h.Sum32()%65535) + 1, nil
}
