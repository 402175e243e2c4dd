package moby

import (
	"testing"

	"github.com/docker/go-connections/nat"
)

func TestPortBindings(t *testing.T) {
	pm := portBindings(nat.Port("8000/tcp"), 9000)

	bindings, ok := pm[nat.Port("8000/tcp")]
	if !ok {
		t.Fatalf("no binding for 8000/tcp: %v", pm)
	}
	if len(bindings) != 1 {
		t.Fatalf("len(bindings) = %d, want 1", len(bindings))
	}
	if bindings[0].HostPort != "9000" {
		t.Fatalf("HostPort = %q, want 9000", bindings[0].HostPort)
	}
	if bindings[0].HostIP != "0.0.0.0" {
		t.Fatalf("HostIP = %q, want 0.0.0.0", bindings[0].HostIP)
	}
}
