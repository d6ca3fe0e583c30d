package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// movementNamespace scopes content-derived movement GUIDs.
var movementNamespace = uuid.MustParse("8f2d7f0e-3c4b-5a61-9e0d-2b7c1f4a6d93")

// CanonicalContent is the stable textual form of a movement's content.
// Two requests with the same content produce the same string.
func CanonicalContent(kind MovementKind, source, destination string, date Date, amount Amount) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", kind, source, destination, date, amount)
}

// DeriveGUIDs returns the deterministic (source, destination) GUID pair for
// a movement. The pair is a UUIDv5 of the canonical content, tagged per
// side, so a retried identical request yields the identical pair.
func DeriveGUIDs(kind MovementKind, source, destination string, date Date, amount Amount) (string, string) {
	content := CanonicalContent(kind, source, destination, date, amount)
	src := uuid.NewSHA1(movementNamespace, []byte(content+"|source"))
	dst := uuid.NewSHA1(movementNamespace, []byte(content+"|destination"))
	return src.String(), dst.String()
}

// GUIDPairKey joins a GUID pair into one lookup key.
func GUIDPairKey(guidSource, guidDestination string) string {
	return guidSource + "/" + guidDestination
}
