package fracnet

import "github.com/kvernberg/fracnet/pkg/fracture"

// Exporter hands a finished network to an external consumer: a mesh
// generator, a file writer, a visualizer. Export formats and I/O live
// outside this module; implementations receive the network after
// assembly, when it is immutable.
type Exporter interface {
	Export(n *fracture.Network) error
}
