// Package cacheable defines the key-derivation contract shared by every
// entity that participates in the cache-coherent read-through layer.
//
// PATTERN: Composition over inheritance.
// Rather than a base class that entities extend, each entity type carries
// its own key descriptor as behavior on itself (CanonicalKey/ReferenceKeys).
// The cache package operates purely in terms of this interface and never
// needs to know about User, Business, Client, or token concretely.
package cacheable

// Keyed is implemented by every entity that can be stored in the
// read-through cache. CanonicalKey identifies the entity's own cache slot;
// ReferenceKeys lists zero or more secondary keys whose cached value is the
// canonical key (a one-hop redirect), never the entity itself.
type Keyed interface {
	CanonicalKey() string
	ReferenceKeys() []string
}
