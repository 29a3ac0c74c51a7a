package engine

import (
	"maps"
	"path"
	"strings"

	"github.com/roach88/synth/internal/pc"
)

// FileProtocol is the protocol used when a source URI carries none.
const FileProtocol = "file://"

// resourceAttributes lists, per tag, the attribute that holds a resource
// reference resolved against the owning module's location.
var resourceAttributes = map[string]string{
	"img":    "src",
	"object": "data",
}

// rewriteResourcePaths resolves relative resource references on a leaf
// against the directory of sourceURI. Only string values starting with
// "." are rewritten; everything else passes through. The input map is
// never modified.
func rewriteResourcePaths(tag string, attributes pc.KeyValue, sourceURI string) pc.KeyValue {
	name, ok := resourceAttributes[tag]
	if !ok {
		return attributes
	}
	ref, ok := attributes[name].(string)
	if !ok || !strings.HasPrefix(ref, ".") {
		return attributes
	}

	rewritten := maps.Clone(attributes)
	rewritten[name] = resolveRelative(sourceURI, ref)
	return rewritten
}

// resolveRelative resolves ref against the directory of sourceURI and
// re-qualifies the result with sourceURI's protocol.
//
//	resolveRelative("file:///proj/pages/home.pc", "./logo.png") == "file:///proj/pages/logo.png"
func resolveRelative(sourceURI, ref string) string {
	protocol, location := splitProtocol(sourceURI)
	if protocol == "" {
		protocol = FileProtocol
	}
	dir := path.Dir(location)
	if !path.IsAbs(dir) {
		dir = "/" + dir
	}
	return protocol + path.Join(dir, ref)
}

// splitProtocol splits "scheme://rest" into ("scheme://", "rest").
func splitProtocol(uri string) (string, string) {
	if i := strings.Index(uri, "://"); i >= 0 {
		return uri[:i+3], uri[i+3:]
	}
	return "", uri
}
