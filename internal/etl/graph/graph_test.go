package graph

import (
	"strings"
	"testing"
)

func TestNodeSpecsCoverEveryLabel(t *testing.T) {
	want := []string{
		"persons", "companies", "roles", "schools", "degrees",
		"locations", "projects", "languages", "experiences", "educations",
	}
	if len(nodeSpecs) != len(want) {
		t.Fatalf("got %d node specs, want %d", len(nodeSpecs), len(want))
	}
	for i, ns := range nodeSpecs {
		if ns.name != want[i] {
			t.Fatalf("node %d: got %s, want %s", i, ns.name, want[i])
		}
	}
}

func TestNodeSpecKeysMatchQueries(t *testing.T) {
	for _, ns := range nodeSpecs {
		for _, k := range ns.keys {
			if !strings.Contains(ns.query, "AS "+k) {
				t.Fatalf("node %s: query does not return %s", ns.name, k)
			}
		}
	}
}

func TestRelationshipQueryShape(t *testing.T) {
	for _, k := range relationshipKeys {
		if !strings.Contains(relationshipsQuery, "AS "+k) {
			t.Fatalf("relationship query does not return %s", k)
		}
	}
	if !strings.Contains(relationshipsQuery, "toString(id(a))") {
		t.Fatal("unkeyed source nodes must fall back to the internal id")
	}
}
