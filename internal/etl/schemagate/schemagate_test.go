package schemagate

import (
	"strings"
	"testing"

	"github.com/chemlink/analytics-etl/internal/etl/target"
)

func TestAvailability(t *testing.T) {
	var a Availability
	if !a.Available() {
		t.Fatal("empty missing set should be available")
	}
	a.Missing = append(a.Missing, target.StagingGraphPersons)
	if a.Available() {
		t.Fatal("missing table should make the set unavailable")
	}
	names := a.MissingNames()
	if len(names) != 1 || !strings.Contains(names[0], "staging.neo4j_persons") {
		t.Fatalf("unexpected missing names: %v", names)
	}
}
